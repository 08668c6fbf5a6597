// Package session holds the authoritative local copy of a user's game
// state. All writes go through named mutation methods; readers get
// snapshot copies. One store instance backs exactly one event channel
// connection at a time.
package session

import (
	"sync"
	"time"

	"github.com/roilabs/progression-go/internal/protocol"
	"go.uber.org/zap"
)

// Store is the session state store. The zero store has no game state until
// the first authority snapshot arrives; deltas received before that are
// no-ops.
type Store struct {
	logger *zap.Logger

	mu            sync.RWMutex
	state         *GameState
	notifications []Notification
	timers        map[string]*time.Timer
	connected     bool
	lastError     string
}

// NewStore creates an empty store. logger may be nil.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// GameState returns a copy of the current game state. ok is false before
// the first snapshot and after Reset.
func (s *Store) GameState() (GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return GameState{}, false
	}
	return cloneState(s.state), true
}

// Connected reports whether the event channel is attached.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// LastError returns the most recent store-level error message.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// SetConnected flips the connection flag.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

// SetError records a store-level error message.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// ClearError wipes the store-level error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// SetGameState replaces the full game state with an authority snapshot.
func (s *Store) SetGameState(gs GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs.Progression.recalcDerived()
	clamped := cloneState(&gs)
	clampResources(&clamped.Resources)
	s.state = &clamped
}

// UpdateGameState shallow-merges a patch into the game state. No-op until
// a snapshot exists.
func (s *Store) UpdateGameState(patch StatePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	if patch.Resources != nil {
		s.state.Resources = *patch.Resources
		clampResources(&s.state.Resources)
	}
	if patch.Progression != nil {
		s.state.Progression = *patch.Progression
		s.state.Progression.recalcDerived()
	}
	if patch.Stats != nil {
		s.state.Stats = *patch.Stats
	}
	if patch.Inventory != nil {
		s.state.Inventory = append([]InventoryItem(nil), patch.Inventory...)
	}
	if patch.ActiveQuests != nil {
		s.state.ActiveQuests = append([]QuestState(nil), patch.ActiveQuests...)
	}
	if patch.Achievements != nil {
		s.state.Achievements = append([]Achievement(nil), patch.Achievements...)
	}
	if patch.Unlocks != nil {
		s.state.Unlocks = Unlocks{
			Territories: append([]string(nil), patch.Unlocks.Territories...),
			PartySlots:  patch.Unlocks.PartySlots,
		}
	}
	if patch.LastEnergyRegen != nil {
		s.state.LastEnergyRegen = *patch.LastEnergyRegen
	}
}

// ApplyExperience replaces the XP counters with the authoritative values.
func (s *Store) ApplyExperience(ev protocol.ExperienceGained) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	s.state.Progression.Experience = clampFloor(ev.CurrentXP, 0)
	if ev.Level >= 1 {
		s.state.Progression.Level = ev.Level
	}
	s.state.Progression.recalcDerived()
}

// ApplyLevelUp applies a level-up: level and max energy replace the stored
// values, skill points are additive. Energy is re-clamped to the new cap.
func (s *Store) ApplyLevelUp(ev protocol.LevelUp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	if ev.NewLevel >= 1 {
		s.state.Progression.Level = ev.NewLevel
	}
	s.state.Stats.SkillPoints = clampFloor(s.state.Stats.SkillPoints+ev.SkillPoints, 0)
	if ev.MaxEnergy > 0 {
		s.state.Resources.MaxEnergy = ev.MaxEnergy
	}
	clampResources(&s.state.Resources)
	s.state.Progression.recalcDerived()
	if s.logger != nil {
		s.logger.Info("level up applied",
			zap.Int("level", s.state.Progression.Level),
			zap.Int("skill_points", s.state.Stats.SkillPoints),
		)
	}
}

// ApplyResourceGain adds the event's deltas to the matching resources.
// Deltas that would underflow clamp at zero; energy caps at max energy.
func (s *Store) ApplyResourceGain(ev protocol.ResourcesGained) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	r := &s.state.Resources
	r.Coins += ev.Coins
	r.Gems += ev.Gems
	r.Energy += ev.Energy
	r.Reputation += ev.Reputation
	clampResources(r)
	if ev.Experience != 0 {
		s.state.Progression.Experience = clampFloor(s.state.Progression.Experience+ev.Experience, 0)
		s.state.Progression.recalcDerived()
	}
}

// ApplyItemDrop adds the dropped item to the inventory, stacking onto an
// existing entry when present.
func (s *Store) ApplyItemDrop(ev protocol.ItemDropped) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	for i := range s.state.Inventory {
		if s.state.Inventory[i].ItemID == ev.ItemID {
			s.state.Inventory[i].Quantity++
			return
		}
	}
	s.state.Inventory = append(s.state.Inventory, InventoryItem{
		ItemID:   ev.ItemID,
		Quantity: 1,
	})
}

// ApplyQuestProgress updates one quest's progress, marking it completed
// when the authority says so.
func (s *Store) ApplyQuestProgress(ev protocol.QuestProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	for i := range s.state.ActiveQuests {
		if s.state.ActiveQuests[i].QuestID != ev.QuestID {
			continue
		}
		s.state.ActiveQuests[i].Progress = ev.Progress
		if ev.Completed {
			s.state.ActiveQuests[i].Status = "completed"
		}
		return
	}
}

// ApplyQuestCompleted marks the quest completed.
func (s *Store) ApplyQuestCompleted(ev protocol.QuestCompleted) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	for i := range s.state.ActiveQuests {
		if s.state.ActiveQuests[i].QuestID == ev.QuestID {
			s.state.ActiveQuests[i].Status = "completed"
			return
		}
	}
}

// ApplyAchievement appends the unlocked achievement.
func (s *Store) ApplyAchievement(ev protocol.AchievementUnlocked) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	s.state.Achievements = append(s.state.Achievements, Achievement{
		AchievementID: ev.AchievementID,
		UnlockedAt:    time.Now(),
	})
}

// ApplyEnergy replaces the energy counters after passive regeneration.
func (s *Store) ApplyEnergy(ev protocol.EnergyRegenerated) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	if ev.MaxEnergy > 0 {
		s.state.Resources.MaxEnergy = ev.MaxEnergy
	}
	s.state.Resources.Energy = ev.Energy
	clampResources(&s.state.Resources)
	s.state.LastEnergyRegen = time.Now()
}

// Reset returns the store to its initial empty values: disconnected, no
// game state, no notifications. Called on channel disconnect.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.state = nil
	s.lastError = ""
	s.clearNotificationsLocked()
}

func clampResources(r *Resources) {
	r.Coins = clampFloor(r.Coins, 0)
	r.Gems = clampFloor(r.Gems, 0)
	r.Reputation = clampFloor(r.Reputation, 0)
	r.MaxEnergy = clampFloor(r.MaxEnergy, 0)
	r.Energy = clampFloor(r.Energy, 0)
	if r.Energy > r.MaxEnergy {
		r.Energy = r.MaxEnergy
	}
}

func cloneState(gs *GameState) GameState {
	out := *gs
	out.Inventory = append([]InventoryItem(nil), gs.Inventory...)
	out.ActiveQuests = make([]QuestState, len(gs.ActiveQuests))
	for i, q := range gs.ActiveQuests {
		out.ActiveQuests[i] = q
		if q.Progress != nil {
			progress := make(map[string]int, len(q.Progress))
			for k, v := range q.Progress {
				progress[k] = v
			}
			out.ActiveQuests[i].Progress = progress
		}
	}
	out.Achievements = append([]Achievement(nil), gs.Achievements...)
	out.Unlocks.Territories = append([]string(nil), gs.Unlocks.Territories...)
	return out
}

package authority

import (
	"fmt"
	"sync"
	"time"

	"github.com/roilabs/progression-go/internal/config"
	"github.com/roilabs/progression-go/internal/encounter"
	"github.com/roilabs/progression-go/internal/protocol"
	"github.com/roilabs/progression-go/internal/session"
	"go.uber.org/zap"
)

// Per-level grants applied when accumulated experience crosses a level
// boundary.
const (
	levelUpSkillPoints = 1
	levelUpEnergyBonus = 5
)

// Emitter pushes a typed event to every connection in a user's room.
type Emitter interface {
	EmitTo(userID, eventType string, payload any)
}

// Service is the authority's in-memory progression state, one GameState
// per user. It validates nothing about identity; authentication happens
// upstream.
type Service struct {
	logger  *zap.Logger
	cfg     config.GameConfig
	emitter Emitter

	mu     sync.Mutex
	states map[string]*session.GameState
}

// NewService creates a progression service with the given tunables.
func NewService(cfg config.GameConfig, logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		cfg:    cfg,
		states: make(map[string]*session.GameState),
	}
}

func (s *Service) attach(e Emitter) {
	s.emitter = e
}

func (s *Service) emit(userID, eventType string, payload any) {
	if s.emitter != nil {
		s.emitter.EmitTo(userID, eventType, payload)
	}
}

// GameState returns the user's current state, creating a fresh one on
// first sight and applying any pending passive energy regeneration.
func (s *Service) GameState(userID string) session.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateLocked(userID)
	s.regenerateEnergyLocked(userID, state)
	return *state
}

func (s *Service) stateLocked(userID string) *session.GameState {
	if state, ok := s.states[userID]; ok {
		return state
	}
	stat := s.cfg.StartingStat
	state := &session.GameState{
		Resources: session.Resources{
			Energy:    s.cfg.MaxEnergyDefault,
			MaxEnergy: s.cfg.MaxEnergyDefault,
		},
		Progression: session.Progression{
			Level:                 1,
			ExperienceToNextLevel: session.XPForLevel(2),
		},
		Stats: session.Stats{
			Intelligence: stat,
			Charisma:     stat,
			Perception:   stat,
			Knowledge:    stat,
			Luck:         stat,
		},
		Unlocks: session.Unlocks{
			PartySlots: s.cfg.PartySlots,
		},
		LastEnergyRegen: time.Now(),
	}
	s.states[userID] = state
	if s.logger != nil {
		s.logger.Info("created game state", zap.String("user_id", userID))
	}
	return state
}

func (s *Service) regenerateEnergyLocked(userID string, state *session.GameState) {
	interval := s.cfg.EnergyRegenInterval
	if interval <= 0 || state.Resources.Energy >= state.Resources.MaxEnergy {
		return
	}
	ticks := int(time.Since(state.LastEnergyRegen) / interval)
	if ticks <= 0 {
		return
	}
	gain := min(ticks*s.cfg.EnergyRegenRate, state.Resources.MaxEnergy-state.Resources.Energy)
	state.Resources.Energy += gain
	state.LastEnergyRegen = time.Now()
	ev := protocol.EnergyRegenerated{
		Energy:    state.Resources.Energy,
		MaxEnergy: state.Resources.MaxEnergy,
	}
	// Emitted off the caller's goroutine: GameState is invoked from the hub
	// loop while building snapshots, and EmitTo feeds that same loop.
	go s.emit(userID, protocol.EventEnergyRegenerated, ev)
}

// AddResources applies a reward bundle to the user's state and pushes the
// resulting events: resources-gained always, experience-gained when XP
// moved, level-up when the level curve was crossed.
func (s *Service) AddResources(userID string, rewards protocol.RewardBundle) {
	s.mu.Lock()
	state := s.stateLocked(userID)

	r := &state.Resources
	r.Coins = max(0, r.Coins+rewards.Coins)
	r.Gems = max(0, r.Gems+rewards.Gems)
	r.Energy = max(0, min(r.Energy+rewards.Energy, r.MaxEnergy))
	r.Reputation = max(0, r.Reputation+rewards.Reputation)

	oldLevel := state.Progression.Level
	state.Progression.Experience = max(0, state.Progression.Experience+rewards.Experience)
	newLevel := session.LevelFromXP(state.Progression.Experience)
	leveledUp := newLevel > oldLevel
	if leveledUp {
		state.Progression.Level = newLevel
		state.Stats.SkillPoints += levelUpSkillPoints * (newLevel - oldLevel)
		state.Resources.MaxEnergy += levelUpEnergyBonus * (newLevel - oldLevel)
	}
	state.Progression.ExperienceToNextLevel = session.XPForLevel(state.Progression.Level + 1)

	experience := state.Progression.Experience
	level := state.Progression.Level
	skillPoints := levelUpSkillPoints * (newLevel - oldLevel)
	maxEnergy := state.Resources.MaxEnergy
	s.mu.Unlock()

	s.emit(userID, protocol.EventResourcesGained, protocol.ResourcesGained(rewards))

	if rewards.Experience != 0 {
		s.emit(userID, protocol.EventExperienceGained, protocol.ExperienceGained{
			Experience: rewards.Experience,
			CurrentXP:  experience,
			TotalXP:    experience,
			Level:      level,
		})
	}

	if leveledUp {
		s.emit(userID, protocol.EventLevelUp, protocol.LevelUp{
			NewLevel:    level,
			SkillPoints: skillPoints,
			MaxEnergy:   maxEnergy,
		})
		if s.logger != nil {
			s.logger.Info("user leveled up",
				zap.String("user_id", userID),
				zap.Int("level", level),
			)
		}
	}
}

// SpendResources deducts an encounter or exploration cost. It reports
// false and changes nothing when the user cannot afford the full cost.
func (s *Service) SpendResources(userID string, coins, gems, energy int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateLocked(userID)
	r := &state.Resources
	if r.Coins < coins || r.Gems < gems || r.Energy < energy {
		return false
	}
	r.Coins -= coins
	r.Gems -= gems
	r.Energy -= energy
	return true
}

// SettleEncounter applies a finished encounter's payout and pushes the
// battle-ended event plus any item drops.
func (s *Service) SettleEncounter(userID string, result encounter.BattleResult) {
	rewards := protocol.RewardBundle{
		Coins:      result.CoinsGained,
		Gems:       result.GemsGained,
		Experience: result.XPGained,
	}

	s.emit(userID, protocol.EventBattleEnded, protocol.BattleEnded{
		Victory:            result.Victory,
		Rewards:            rewards,
		RelationshipChange: result.RelationshipChange,
	})

	s.AddResources(userID, rewards)

	for _, itemID := range result.ItemsDropped {
		s.grantItem(userID, itemID)
	}

	if result.PainDiscovered {
		s.emit(userID, protocol.EventNotification, protocol.Notification{
			Type:    session.NotificationSuccess,
			Title:   "Pain Discovered!",
			Message: fmt.Sprintf("Pain intensity %d uncovered.", result.PainIntensity),
		})
	}
}

func (s *Service) grantItem(userID, itemID string) {
	s.mu.Lock()
	state := s.stateLocked(userID)
	stacked := false
	for i := range state.Inventory {
		if state.Inventory[i].ItemID == itemID {
			state.Inventory[i].Quantity++
			stacked = true
			break
		}
	}
	if !stacked {
		state.Inventory = append(state.Inventory, session.InventoryItem{
			ItemID:   itemID,
			Quantity: 1,
		})
	}
	s.mu.Unlock()

	rarity := "common"
	if itemID == encounter.ItemRare {
		rarity = "rare"
	}
	s.emit(userID, protocol.EventItemDropped, protocol.ItemDropped{
		ItemID:   itemID,
		ItemName: itemID,
		Rarity:   rarity,
		Source:   "battle",
	})
}

package session

import "time"

// Resources are the spendable counters of a user's game state. All values
// stay non-negative; energy never exceeds MaxEnergy.
type Resources struct {
	Coins      int `json:"coins"`
	Gems       int `json:"gems"`
	Energy     int `json:"energy"`
	MaxEnergy  int `json:"maxEnergy"`
	Reputation int `json:"reputation"`
}

// Progression tracks level and experience. ExperienceToNextLevel and
// ProgressPercent are derived from the level curve.
type Progression struct {
	Level                 int `json:"level"`
	Experience            int `json:"experience"`
	ExperienceToNextLevel int `json:"experienceToNextLevel"`
	ProgressPercent       int `json:"progressPercent"`
}

// Stats are the operator's attributes plus unspent skill points.
type Stats struct {
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
	Perception   int `json:"perception"`
	Knowledge    int `json:"knowledge"`
	Luck         int `json:"luck"`
	SkillPoints  int `json:"skillPoints"`
}

// InventoryItem is one stack of items held by the user.
type InventoryItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"isEquipped"`
	Slot     string `json:"slot,omitempty"`
}

// QuestState is one active or completed quest.
type QuestState struct {
	QuestID  string         `json:"questId"`
	Progress map[string]int `json:"progress"`
	Status   string         `json:"status"`
}

// Achievement is one unlocked achievement.
type Achievement struct {
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// Unlocks tracks territory access and party capacity.
type Unlocks struct {
	Territories []string `json:"unlockedTerritories"`
	PartySlots  int      `json:"partySlots"`
}

// GameState is the full persistent game state for one user, mirrored from
// the authority's snapshot.
type GameState struct {
	Resources       Resources       `json:"resources"`
	Progression     Progression     `json:"progression"`
	Stats           Stats           `json:"stats"`
	Inventory       []InventoryItem `json:"inventory"`
	ActiveQuests    []QuestState    `json:"activeQuests"`
	Achievements    []Achievement   `json:"achievements"`
	Unlocks         Unlocks         `json:"unlocks"`
	LastEnergyRegen time.Time       `json:"lastEnergyRegen"`
}

// StatePatch is a shallow-merge update for GameState. Nil fields leave the
// corresponding slice of state untouched.
type StatePatch struct {
	Resources       *Resources
	Progression     *Progression
	Stats           *Stats
	Inventory       []InventoryItem
	ActiveQuests    []QuestState
	Achievements    []Achievement
	Unlocks         *Unlocks
	LastEnergyRegen *time.Time
}

// XPForLevel returns the total experience required to reach level.
func XPForLevel(level int) int {
	return level * 100
}

// LevelFromXP returns the level implied by a total experience value.
func LevelFromXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/100 + 1
}

// recalcDerived refreshes ExperienceToNextLevel and ProgressPercent from
// level and experience.
func (p *Progression) recalcDerived() {
	if p.Level < 1 {
		p.Level = 1
	}
	next := XPForLevel(p.Level + 1)
	current := XPForLevel(p.Level)
	p.ExperienceToNextLevel = next

	span := next - current
	within := p.Experience - current
	if span <= 0 {
		p.ProgressPercent = 0
		return
	}
	pct := within * 100 / span
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	p.ProgressPercent = pct
}

func clampFloor(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

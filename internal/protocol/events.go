// Package protocol defines the envelope and payload shapes exchanged over
// the game event channel. The authority emits events; clients emit intents.
package protocol

import "encoding/json"

// Inbound event types (authority -> client).
const (
	EventGameState           = "game-state"
	EventGameError           = "game-error"
	EventExperienceGained    = "experience-gained"
	EventLevelUp             = "level-up"
	EventResourcesGained     = "resources-gained"
	EventItemDropped         = "item-dropped"
	EventQuestProgress       = "quest-progress"
	EventQuestCompleted      = "quest-completed"
	EventAchievementUnlocked = "achievement-unlocked"
	EventNotification        = "notification"
	EventEnergyRegenerated   = "energy-regenerated"
	EventBattleStarted       = "battle-started"
	EventBattleEnded         = "battle-ended"
)

// Outbound intent types (client -> authority).
const (
	IntentJoinGame  = "join-game"
	IntentLeaveGame = "leave-game"
)

// Envelope frames every message on the channel.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into a framed message.
func NewEnvelope(eventType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: eventType, Payload: raw}, nil
}

// JoinGame asks the authority to attach this connection to a user's room.
type JoinGame struct {
	UserID string `json:"userId"`
}

// LeaveGame detaches the connection from a user's room.
type LeaveGame struct {
	UserID string `json:"userId"`
}

// GameError reports an authority-side rejection. It does not close the
// transport.
type GameError struct {
	Message string `json:"message"`
}

// RewardBundle is the optional reward attachment on level-up, quest and
// achievement events. Absent fields decode to zero and apply as no-ops.
type RewardBundle struct {
	Coins      int `json:"coins,omitempty"`
	Gems       int `json:"gems,omitempty"`
	Energy     int `json:"energy,omitempty"`
	Reputation int `json:"reputation,omitempty"`
	Experience int `json:"experience,omitempty"`
}

// ExperienceGained carries the authoritative XP counters after a gain.
type ExperienceGained struct {
	Experience int `json:"experience"`
	CurrentXP  int `json:"currentXP"`
	TotalXP    int `json:"totalXP"`
	Level      int `json:"level"`
}

// LevelUp announces a level change. MaxEnergy replaces the stored value;
// SkillPoints is additive.
type LevelUp struct {
	NewLevel    int          `json:"newLevel"`
	SkillPoints int          `json:"skillPoints"`
	MaxEnergy   int          `json:"maxEnergy"`
	Rewards     RewardBundle `json:"rewards"`
}

// ResourcesGained applies additive deltas to any subset of resources.
type ResourcesGained struct {
	Coins      int `json:"coins,omitempty"`
	Gems       int `json:"gems,omitempty"`
	Energy     int `json:"energy,omitempty"`
	Reputation int `json:"reputation,omitempty"`
	Experience int `json:"experience,omitempty"`
}

// ItemDropped announces a new inventory item.
type ItemDropped struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Rarity   string `json:"rarity"`
	Source   string `json:"source"`
}

// QuestProgress updates one quest's objective counters.
type QuestProgress struct {
	QuestID   string         `json:"questId"`
	Progress  map[string]int `json:"progress"`
	Completed bool           `json:"completed"`
}

// QuestCompleted announces quest completion with its rewards.
type QuestCompleted struct {
	QuestID string       `json:"questId"`
	Rewards RewardBundle `json:"rewards"`
}

// AchievementUnlocked announces a newly unlocked achievement.
type AchievementUnlocked struct {
	AchievementID string       `json:"achievementId"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Rewards       RewardBundle `json:"rewards"`
	Badge         string       `json:"badge,omitempty"`
}

// Notification is a server-pushed transient announcement.
type Notification struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Duration int    `json:"duration,omitempty"`
}

// EnergyRegenerated carries the energy counters after passive regen.
type EnergyRegenerated struct {
	Energy    int `json:"energy"`
	MaxEnergy int `json:"maxEnergy"`
}

// BattleStarted announces the start of a discovery encounter.
type BattleStarted struct {
	ContactID         string `json:"contactId"`
	ContactName       string `json:"contactName"`
	RelationshipLevel int    `json:"relationshipLevel"`
}

// BattleEnded announces the settled outcome of an encounter.
type BattleEnded struct {
	Victory            bool         `json:"victory"`
	Rewards            RewardBundle `json:"rewards"`
	RelationshipChange int          `json:"relationshipChange"`
}

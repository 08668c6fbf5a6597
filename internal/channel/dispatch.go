package channel

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roilabs/progression-go/internal/protocol"
	"github.com/roilabs/progression-go/internal/session"
	"go.uber.org/zap"
)

// Dispatcher maps inbound events to session store mutations. It has no
// transport dependency, so the full event table is testable with raw
// envelopes.
type Dispatcher struct {
	store  *session.Store
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher for store. logger may be nil.
func NewDispatcher(store *session.Store, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, logger: logger}
}

// Dispatch applies one inbound event. Each known event type maps to
// exactly one store mutation and/or a notification. Unknown event types
// are ignored: the authority may grow its event set ahead of this client.
func (d *Dispatcher) Dispatch(env protocol.Envelope) {
	switch env.Type {
	case protocol.EventGameState:
		var state session.GameState
		if d.decode(env, &state) {
			d.store.SetGameState(state)
		}

	case protocol.EventGameError:
		var ev protocol.GameError
		if d.decode(env, &ev) {
			d.store.SetError(ev.Message)
			d.store.AddNotification(session.Notification{
				Type:    session.NotificationError,
				Title:   "Game Error",
				Message: ev.Message,
			})
		}

	case protocol.EventExperienceGained:
		var ev protocol.ExperienceGained
		if d.decode(env, &ev) {
			d.store.ApplyExperience(ev)
		}

	case protocol.EventLevelUp:
		var ev protocol.LevelUp
		if d.decode(env, &ev) {
			d.store.ApplyLevelUp(ev)
			d.store.AddNotification(session.Notification{
				Type:     session.NotificationSuccess,
				Title:    "Level Up!",
				Message:  fmt.Sprintf("You reached level %d!", ev.NewLevel),
				Duration: 8 * time.Second,
			})
		}

	case protocol.EventResourcesGained:
		var ev protocol.ResourcesGained
		if d.decode(env, &ev) {
			d.store.ApplyResourceGain(ev)
		}

	case protocol.EventItemDropped:
		var ev protocol.ItemDropped
		if d.decode(env, &ev) {
			d.store.ApplyItemDrop(ev)
			d.store.AddNotification(session.Notification{
				Type:     session.NotificationSuccess,
				Title:    "Item Dropped!",
				Message:  fmt.Sprintf("You got: %s (%s)", ev.ItemName, ev.Rarity),
				Duration: 8 * time.Second,
			})
		}

	case protocol.EventQuestProgress:
		var ev protocol.QuestProgress
		if d.decode(env, &ev) {
			d.store.ApplyQuestProgress(ev)
		}

	case protocol.EventQuestCompleted:
		var ev protocol.QuestCompleted
		if d.decode(env, &ev) {
			d.store.ApplyQuestCompleted(ev)
			d.store.AddNotification(session.Notification{
				Type:     session.NotificationSuccess,
				Title:    "Quest Complete!",
				Message:  "You completed a quest!",
				Duration: 6 * time.Second,
			})
		}

	case protocol.EventAchievementUnlocked:
		var ev protocol.AchievementUnlocked
		if d.decode(env, &ev) {
			d.store.ApplyAchievement(ev)
			d.store.AddNotification(session.Notification{
				Type:     session.NotificationSuccess,
				Title:    ev.Name,
				Message:  ev.Description,
				Duration: 10 * time.Second,
			})
		}

	case protocol.EventNotification:
		var ev protocol.Notification
		if d.decode(env, &ev) {
			d.store.AddNotification(session.Notification{
				Type:     ev.Type,
				Title:    ev.Title,
				Message:  ev.Message,
				Duration: time.Duration(ev.Duration) * time.Millisecond,
			})
		}

	case protocol.EventEnergyRegenerated:
		var ev protocol.EnergyRegenerated
		if d.decode(env, &ev) {
			d.store.ApplyEnergy(ev)
		}

	default:
		if d.logger != nil {
			d.logger.Debug("ignoring unknown game event", zap.String("type", env.Type))
		}
	}
}

func (d *Dispatcher) decode(env protocol.Envelope, out any) bool {
	if err := json.Unmarshal(env.Payload, out); err != nil {
		if d.logger != nil {
			d.logger.Warn("malformed game event payload",
				zap.String("type", env.Type),
				zap.Error(err),
			)
		}
		return false
	}
	return true
}

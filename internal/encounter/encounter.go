package encounter

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase advancement thresholds on discovery progress. Crossing
// thresholds[phase-1] moves the encounter from phase to phase+1.
var phaseThresholds = [3]float64{25, 50, 75}

// Roller supplies the random draws used by the simulator. *rand.Rand
// satisfies it; tests inject scripted implementations to force outcomes.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// NewRoller returns a time-seeded Roller for production call sites.
func NewRoller() Roller {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// State is a snapshot of a running encounter. Callers receive copies and
// never mutate the simulator's internal state directly.
type State struct {
	CounterpartHP     int
	MaxCounterpartHP  int
	OperatorHP        int
	MaxOperatorHP     int
	Relationship      int
	DiscoveryProgress float64
	CurrentPhase      int
}

// ActionOutcome describes the result of a single executed action.
type ActionOutcome struct {
	Success      bool
	Damage       int
	ProgressGain float64
	Message      string
}

// Encounter simulates one discovery conversation as a turn-based contest.
// It is purely synchronous and owns its state for the encounter lifetime.
type Encounter struct {
	state  State
	roller Roller
}

// New creates an encounter scaled by the counterpart's level. A nil roller
// defaults to a time-seeded source.
func New(counterpartLevel int, roller Roller) *Encounter {
	if roller == nil {
		roller = NewRoller()
	}
	hp := 100 + counterpartLevel*20
	return &Encounter{
		state: State{
			CounterpartHP:     hp,
			MaxCounterpartHP:  hp,
			OperatorHP:        100,
			MaxOperatorHP:     100,
			Relationship:      0,
			DiscoveryProgress: 0,
			CurrentPhase:      1,
		},
		roller: roller,
	}
}

// Stats returns a copy of the current encounter state.
func (e *Encounter) Stats() State {
	return e.state
}

// ExecuteAction resolves one action. discoveryChance is a percentage in
// [0,100]; relationshipDelta may be negative. An unknown action id is a
// caller bug and returns an error without mutating the encounter.
func (e *Encounter) ExecuteAction(actionID string, discoveryChance float64, relationshipDelta int) (ActionOutcome, error) {
	if _, ok := successMessages[actionID]; !ok {
		return ActionOutcome{}, fmt.Errorf("encounter: unknown action %q", actionID)
	}

	draw := e.roller.Float64() * 100
	success := draw <= discoveryChance

	baseDamage := 5
	if success {
		baseDamage = 20
	}
	damage := baseDamage + e.roller.Intn(15)
	e.state.CounterpartHP = max(0, e.state.CounterpartHP-damage)

	e.state.Relationship = clampInt(e.state.Relationship+relationshipDelta, -100, 100)

	var progressGain float64
	if success {
		progressGain = 20 + discoveryChance/5
		if e.state.Relationship > 50 {
			progressGain *= 1.2
		}
		e.state.DiscoveryProgress = min(100, e.state.DiscoveryProgress+progressGain)
	}

	return ActionOutcome{
		Success:      success,
		Damage:       damage,
		ProgressGain: progressGain,
		Message:      e.pickMessage(actionID, success),
	}, nil
}

// CheckPhaseAdvancement advances the encounter one phase when discovery
// progress has crossed the next threshold. It moves a single step per
// call, so a large progress jump needs repeated calls to catch up.
func (e *Encounter) CheckPhaseAdvancement() bool {
	if e.state.CurrentPhase < 4 &&
		e.state.DiscoveryProgress >= phaseThresholds[e.state.CurrentPhase-1] {
		e.state.CurrentPhase++
		return true
	}
	return false
}

// CheckBattleEnd reports whether the encounter reached a terminal state.
// Victory conditions are evaluated before defeat conditions, so a turn
// that satisfies both ends in victory.
func (e *Encounter) CheckBattleEnd() (ended, victory bool) {
	if e.state.DiscoveryProgress >= 100 {
		return true, true
	}
	if e.state.CounterpartHP <= 0 {
		return true, true
	}
	if e.state.Relationship <= -50 {
		return true, false
	}
	if e.state.OperatorHP <= 0 {
		return true, false
	}
	return false, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

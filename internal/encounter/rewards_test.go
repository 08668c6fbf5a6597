package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfectDiscovery drives an encounter to exactly 100 discovery progress
// with neutral relationship, using three max-chance successes.
func perfectDiscovery(t *testing.T, roller Roller, counterpartLevel int) *Encounter {
	t.Helper()
	e := New(counterpartLevel, roller)
	for i := 0; i < 3; i++ {
		_, err := e.ExecuteAction(ActionOpenQuestion, 100, 0)
		require.NoError(t, err)
	}
	require.Equal(t, 100.0, e.Stats().DiscoveryProgress)
	return e
}

func TestCalculateRewardsPerfectDiscovery(t *testing.T) {
	// Drop rolls: 0.2 < 0.3 lands the common item, 0.05 < 0.1 the rare one.
	roller := &scriptRoller{floats: []float64{0, 0, 0, 0.2, 0.05}, ints: []int{0}}
	e := perfectDiscovery(t, roller, 5)

	result := e.CalculateRewards(5)

	assert.True(t, result.Victory)
	assert.True(t, result.PainDiscovered)
	assert.Equal(t, 10, result.PainIntensity)
	// (50 + 5*10) * 1.5 for perfect discovery, no relationship bonus.
	assert.Equal(t, 150, result.XPGained)
	// (25 + 5*5) doubled for victory.
	assert.Equal(t, 100, result.CoinsGained)
	assert.Equal(t, 5, result.GemsGained)
	assert.Equal(t, 0, result.RelationshipChange)
	assert.Equal(t, []string{ItemCommon, ItemRare}, result.ItemsDropped)
}

func TestCalculateRewardsMissedDropRolls(t *testing.T) {
	roller := &scriptRoller{floats: []float64{0, 0, 0, 0.9, 0.9}, ints: []int{0}}
	e := perfectDiscovery(t, roller, 2)

	result := e.CalculateRewards(2)
	assert.True(t, result.Victory)
	assert.Empty(t, result.ItemsDropped)
}

func TestCalculateRewardsRelationshipBonus(t *testing.T) {
	// Relationship ends above 70, compounding the 1.2x onto the 1.5x.
	roller := &scriptRoller{floats: []float64{0, 0, 0, 0.9, 0.9}, ints: []int{0}}
	e := New(5, roller)
	for i := 0; i < 3; i++ {
		_, err := e.ExecuteAction(ActionEmpathy, 100, 30)
		require.NoError(t, err)
	}
	require.Equal(t, 90, e.Stats().Relationship)
	require.Equal(t, 100.0, e.Stats().DiscoveryProgress)

	result := e.CalculateRewards(5)
	// floor(100 * 1.5 * 1.2)
	assert.Equal(t, 180, result.XPGained)
	assert.Equal(t, 90, result.RelationshipChange)
}

func TestCalculateRewardsNoVictory(t *testing.T) {
	roller := &scriptRoller{floats: []float64{0, 0.9, 0.9}, ints: []int{0}}
	e := New(4, roller)
	_, err := e.ExecuteAction(ActionOpenQuestion, 100, 0)
	require.NoError(t, err)
	require.Equal(t, 40.0, e.Stats().DiscoveryProgress)

	result := e.CalculateRewards(4)
	assert.False(t, result.Victory)
	assert.False(t, result.PainDiscovered)
	assert.Equal(t, 0, result.PainIntensity)
	assert.Equal(t, 0, result.GemsGained)
	// 50 + 4*10, no multipliers.
	assert.Equal(t, 90, result.XPGained)
	// 25 + 4*5, not doubled.
	assert.Equal(t, 45, result.CoinsGained)
	assert.Empty(t, result.ItemsDropped)
}

func TestCalculateRewardsDeterministicOnSnapshot(t *testing.T) {
	// Every draw is 0, so both reward calls see identical drop rolls.
	roller := &scriptRoller{floats: []float64{0}, ints: []int{0}}
	e := perfectDiscovery(t, roller, 3)

	first := e.CalculateRewards(3)
	second := e.CalculateRewards(3)
	assert.Equal(t, first, second)
	assert.Equal(t, e.Stats(), e.Stats())
}

func TestPainDiscoveredThreshold(t *testing.T) {
	// Two successes at chance 100 reach 80: pain discovered, no victory.
	roller := &scriptRoller{floats: []float64{0, 0, 0.9, 0.9}, ints: []int{0}}
	e := New(1, roller)
	for i := 0; i < 2; i++ {
		_, err := e.ExecuteAction(ActionPresentData, 100, 0)
		require.NoError(t, err)
	}
	require.Equal(t, 80.0, e.Stats().DiscoveryProgress)

	result := e.CalculateRewards(1)
	assert.False(t, result.Victory)
	assert.True(t, result.PainDiscovered)
	assert.Equal(t, 8, result.PainIntensity)
	assert.Equal(t, 4, result.GemsGained)
}

func TestPainIntensityCapped(t *testing.T) {
	roller := &scriptRoller{floats: []float64{0}, ints: []int{0}}
	e := perfectDiscovery(t, roller, 50)
	assert.Equal(t, 10, e.PainIntensity(50))

	fresh := New(1, &scriptRoller{floats: []float64{0}, ints: []int{0}})
	assert.Equal(t, 0, fresh.PainIntensity(1))
}

func TestPainCategoryFollowsPhase(t *testing.T) {
	roller := &scriptRoller{floats: []float64{0}, ints: []int{0}}
	e := New(1, roller)
	assert.Equal(t, "operational", e.PainCategory())

	e = perfectDiscovery(t, roller, 1)
	for e.CheckPhaseAdvancement() {
	}
	require.Equal(t, 4, e.Stats().CurrentPhase)
	assert.Equal(t, "critical", e.PainCategory())
}

func TestPainTextSeverityPools(t *testing.T) {
	low := New(1, &scriptRoller{floats: []float64{0}, ints: []int{0}})
	assert.Contains(t, painTexts["low"], low.PainText())

	medium := New(1, &scriptRoller{floats: []float64{0}, ints: []int{0}})
	for i := 0; i < 2; i++ {
		_, err := medium.ExecuteAction(ActionOpenQuestion, 50, 0)
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, medium.Stats().DiscoveryProgress, 60.0)
	require.Less(t, medium.Stats().DiscoveryProgress, 90.0)
	assert.Contains(t, painTexts["medium"], medium.PainText())

	high := perfectDiscovery(t, &scriptRoller{floats: []float64{0}, ints: []int{0}}, 1)
	assert.Contains(t, painTexts["high"], high.PainText())
}

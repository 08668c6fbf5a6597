package encounter

// Item identifiers for end-of-encounter drops.
const (
	ItemCommon = "common_item"
	ItemRare   = "rare_item"
)

var painCategories = [4]string{"operational", "financial", "strategic", "critical"}

var painTexts = map[string][]string{
	"low": {
		"Slow manual process",
		"Lack of visibility",
		"Frequent rework",
		"Inefficient communication",
	},
	"medium": {
		"Insufficient financial control",
		"Difficulty scaling operations",
		"No integration between systems",
		"Opportunities lost to disorganization",
	},
	"high": {
		"Significant monthly financial loss",
		"Compliance risk and fines",
		"Loss of market competitiveness",
		"Cannot grow without solving this",
	},
}

// BattleResult is the reward payout computed when an encounter ends.
// PainIntensity is meaningful only when PainDiscovered is true.
type BattleResult struct {
	Victory            bool
	PainDiscovered     bool
	PainIntensity      int
	XPGained           int
	CoinsGained        int
	GemsGained         int
	RelationshipChange int
	ItemsDropped       []string
}

// CalculateRewards computes the payout for the current encounter state.
// Aside from the two drop rolls, which draw from the encounter's roller,
// the result is a pure function of the state and counterpartLevel.
func (e *Encounter) CalculateRewards(counterpartLevel int) BattleResult {
	victory := e.state.DiscoveryProgress >= 100 || e.state.CounterpartHP <= 0
	painDiscovered := e.state.DiscoveryProgress >= 75

	xp := float64(50 + counterpartLevel*10)
	if e.state.DiscoveryProgress >= 100 {
		xp *= 1.5
	}
	if e.state.Relationship > 70 {
		xp *= 1.2
	}

	coins := 25 + counterpartLevel*5
	if victory {
		coins *= 2
	}

	gems := 0
	painIntensity := 0
	if painDiscovered {
		painIntensity = int(e.state.DiscoveryProgress / 10)
		gems = max(1, painIntensity/2)
	}

	var items []string
	if victory && e.roller.Float64() < 0.3 {
		items = append(items, ItemCommon)
	}
	if e.state.DiscoveryProgress == 100 && e.roller.Float64() < 0.1 {
		items = append(items, ItemRare)
	}

	return BattleResult{
		Victory:            victory,
		PainDiscovered:     painDiscovered,
		PainIntensity:      painIntensity,
		XPGained:           int(xp),
		CoinsGained:        coins,
		GemsGained:         gems,
		RelationshipChange: e.state.Relationship,
		ItemsDropped:       items,
	}
}

// PainIntensity scales discovery quality by the counterpart's seniority,
// capped at 10.
func (e *Encounter) PainIntensity(counterpartLevel int) int {
	intensity := int(e.state.DiscoveryProgress/10) + counterpartLevel/10
	return min(10, intensity)
}

// PainCategory maps the current phase to the pain taxonomy.
func (e *Encounter) PainCategory() string {
	if e.state.CurrentPhase < 1 || e.state.CurrentPhase > 4 {
		return painCategories[0]
	}
	return painCategories[e.state.CurrentPhase-1]
}

// PainText draws a pain description from the pool matching the current
// discovery quality.
func (e *Encounter) PainText() string {
	quality := "low"
	switch {
	case e.state.DiscoveryProgress >= 90:
		quality = "high"
	case e.state.DiscoveryProgress >= 60:
		quality = "medium"
	}
	pool := painTexts[quality]
	return pool[e.roller.Intn(len(pool))]
}

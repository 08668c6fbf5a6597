package encounter

// Action identifiers available during an encounter.
const (
	ActionOpenQuestion    = "open_question"
	ActionDirectQuestion  = "direct_question"
	ActionActiveListening = "active_listening"
	ActionPresentData     = "present_data"
	ActionEmpathy         = "empathy"
	ActionSuggestSolution = "suggest_solution"
)

var successMessages = map[string][]string{
	ActionOpenQuestion: {
		"The counterpart opened up and shared their challenges!",
		"Sharp question! The counterpart is opening up.",
		"Excellent! You touched a sensitive spot.",
	},
	ActionDirectQuestion: {
		"Straight to the point! The counterpart confirmed the problem.",
		"The direct question worked! You uncovered a real pain.",
		"Bingo! The counterpart admitted the difficulty.",
	},
	ActionActiveListening: {
		"Your active listening built trust. The counterpart is more at ease.",
		"The strategic silence worked. The counterpart revealed more.",
		"Letting them talk was perfect! More insights surfaced.",
	},
	ActionPresentData: {
		"The data validated their experience. They felt understood.",
		"Showing the benchmark opened the counterpart's eyes!",
		"The market context made them reflect on their situation.",
	},
	ActionEmpathy: {
		"Your empathy broke down barriers. The relationship improved a lot!",
		"The counterpart felt understood and lowered their guard.",
		"Emotional connection established! The interview is flowing.",
	},
	ActionSuggestSolution: {
		"The suggestion validated the pain! The counterpart is interested.",
		"You showed you understand the problem. They are engaged.",
		"Proposing a solution surfaced how intense the pain really is!",
	},
}

var failMessages = map[string][]string{
	ActionOpenQuestion: {
		"The counterpart gave a vague answer...",
		"Too generic a question. Try something more specific.",
		"The counterpart changed the subject.",
	},
	ActionDirectQuestion: {
		"Too direct! The counterpart got defensive.",
		"The question was too invasive. They shut down.",
		"The counterpart is not ready for that question yet.",
	},
	ActionActiveListening: {
		"The silence got uncomfortable...",
		"The counterpart did not have much to say right now.",
		"Listening brought no new insights this time.",
	},
	ActionPresentData: {
		"The data did not resonate with the counterpart's reality.",
		"They did not identify with the benchmark you presented.",
		"Maybe this is not the moment for numbers...",
	},
	ActionEmpathy: {
		"They noticed your empathy but are still guarded.",
		"The emotional connection was not strong enough yet.",
		"Empathy acknowledged, but the counterpart needs more time.",
	},
	ActionSuggestSolution: {
		"Too early for solutions! The counterpart got confused.",
		"The suggestion was premature. Understand the pain first.",
		"The counterpart is not ready to discuss solutions yet.",
	},
}

func (e *Encounter) pickMessage(actionID string, success bool) string {
	pool := failMessages[actionID]
	if success {
		pool = successMessages[actionID]
	}
	return pool[e.roller.Intn(len(pool))]
}

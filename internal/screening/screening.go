package screening

import "github.com/samber/lo"

// QuestionCount is the number of answers a screening expects.
const QuestionCount = 5

// MaxAnswer is the highest value a single answer may take.
const MaxAnswer = 5

type Risk string

const (
	RiskLow      Risk = "Low risk"
	RiskModerate Risk = "Moderate risk"
	RiskHigh     Risk = "High risk"
)

// Questions are shown to the patient in this order; answers are 0 (not at all)
// to 5 (nearly every day).
var Questions = [QuestionCount]string{
	"Interest or pleasure in doing things",
	"Feelings of despair, depression, or hopelessness",
	"Trouble falling or staying asleep, or sleeping too much",
	"Feelings of tired or having little energy",
	"Poor appetite or overeating",
}

const highRiskAdvice = "You should consider consulting a mental health professional."

// Classify sums the answers and maps the total to a risk level.
// Length and range are the caller's business: values are summed as given.
func Classify(answers []int) (Risk, int) {
	score := lo.Sum(answers)
	switch {
	case score < 5:
		return RiskLow, score
	case score < 10:
		return RiskModerate, score
	default:
		return RiskHigh, score
	}
}

// Advice returns the follow-up recommendation for a risk level, if any.
func Advice(r Risk) string {
	if r == RiskHigh {
		return highRiskAdvice
	}
	return ""
}

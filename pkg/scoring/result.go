package scoring

import "time"

// RiskLevel is the scoring model's verdict on a carrier.
type RiskLevel string

const (
	RiskLow        RiskLevel = "LOW"
	RiskModerate   RiskLevel = "MODERATE"
	RiskHigh       RiskLevel = "HIGH"
	RiskAutoReject RiskLevel = "HIGH_AUTO_REJECT"
)

// Recommendation thresholds on the 0-100 weighted score.
const (
	ApproveThreshold     = 86
	ConditionalThreshold = 75
)

const (
	RecommendApprove     = "Approved - Low Risk"
	RecommendConditional = "Conditional - Verification Required"
	RecommendReject      = "Reject / Do Not Use"
)

// CategoryScore is one category's contribution to the total.
type CategoryScore struct {
	Name   string  `json:"name" yaml:"name"`
	Score  int     `json:"score" yaml:"score"`
	Max    int     `json:"max" yaml:"max"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Trigger is a fired auto-reject condition.
type Trigger struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

// ScoreResult is the output of one scoring call.
type ScoreResult struct {
	Score          int             `json:"score" yaml:"score"`
	Grade          string          `json:"grade" yaml:"grade"`
	Categories     []CategoryScore `json:"categories" yaml:"categories"`
	RejectTriggers []Trigger       `json:"reject_triggers" yaml:"rejectTriggers"`
	Recommendation string          `json:"recommendation" yaml:"recommendation"`
	RiskLevel      RiskLevel       `json:"risk_level" yaml:"riskLevel"`
	AutoReject     bool            `json:"auto_reject" yaml:"autoReject"`
	ModelVersion   string          `json:"model_version" yaml:"modelVersion"`
	CheckedAt      time.Time       `json:"checked_at" yaml:"checkedAt"`
}

func recommend(score int, rejected bool) (string, RiskLevel) {
	if rejected {
		return RecommendReject, RiskAutoReject
	}
	switch {
	case score >= ApproveThreshold:
		return RecommendApprove, RiskLow
	case score >= ConditionalThreshold:
		return RecommendConditional, RiskModerate
	default:
		return RecommendReject, RiskHigh
	}
}

// grade maps the weighted score to a letter grade. Any fired reject
// trigger forces F regardless of the number.
func grade(score int, rejected bool) string {
	if rejected {
		return "F"
	}
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

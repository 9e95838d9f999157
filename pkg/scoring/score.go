package scoring

import (
	"log/slog"
	"math"
	"time"
)

// ModelVersion is the current scoring model version.
const ModelVersion = "1.0.0"

const (
	// Category weights (sum to 1.0).
	authorityWeight  = 0.20
	brokerageWeight  = 0.25
	safetyWeight     = 0.20
	inspectionWeight = 0.15
	insuranceWeight  = 0.15
	legitimacyWeight = 0.05

	// Authority/Age points.
	usdotActivePoints     = 25
	authorityActivePoints = 35
	ageTier3Months        = 36
	ageTier2Months        = 24
	ageTier1Months        = 12
	ageTier3Points        = 25
	ageTier2Points        = 18
	ageTier1Points        = 10
	biennialCurrentPoints = 15

	// Double-brokerage penalties (subtracted from 100).
	scopeMismatchPenalty     = 30
	undisclosedRepostPenalty = 40
	contactMismatchPenalty   = 20
	thirdPartyInsPenalty     = 10

	// Safety bases and penalties.
	ratingSatisfactoryBase = 100
	ratingNoneBase         = 70
	ratingConditionalBase  = 50
	drugAlcoholPenalty     = 20
	fatalAtFaultPenalty    = 30

	// Inspection OOS penalties relative to the national average.
	oosDoubleAvgPenalty = 40
	oosAboveAvgPenalty  = 20

	// Insurance points.
	bipdFilingPoints    = 40
	bipdLimitPoints     = 30
	bipdLimitFloorUSD   = 1_000_000
	cargoVerifiedPoints = 20
	callbackDonePoints  = 10

	// Business legitimacy points.
	websitePoints  = 20
	facebookPoints = 20
	addressPoints  = 30
	growthPoints   = 30
)

// Category names used in results and the model metadata endpoint.
const (
	CategoryAuthority  = "authority_age"
	CategoryBrokerage  = "double_brokerage_risk"
	CategorySafety     = "safety_compliance"
	CategoryInspection = "inspections_oos"
	CategoryInsurance  = "insurance_verification"
	CategoryLegitimacy = "business_legitimacy"
)

// CategoryWeight describes a scoring category and its weight.
type CategoryWeight struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Categories returns the model's scoring categories with their weights.
func Categories() []CategoryWeight {
	return []CategoryWeight{
		{Name: CategoryAuthority, Weight: authorityWeight},
		{Name: CategoryBrokerage, Weight: brokerageWeight},
		{Name: CategorySafety, Weight: safetyWeight},
		{Name: CategoryInspection, Weight: inspectionWeight},
		{Name: CategoryInsurance, Weight: insuranceWeight},
		{Name: CategoryLegitimacy, Weight: legitimacyWeight},
	}
}

// Compute scores the given profile. Pure apart from the CheckedAt stamp:
// identical profiles always produce identical scores, categories, and
// triggers.
func Compute(p CarrierProfile) ScoreResult {
	cats := []CategoryScore{
		{Name: CategoryAuthority, Score: scoreAuthority(p), Max: 100, Weight: authorityWeight},
		{Name: CategoryBrokerage, Score: scoreBrokerage(p), Max: 100, Weight: brokerageWeight},
		{Name: CategorySafety, Score: scoreSafety(p), Max: 100, Weight: safetyWeight},
		{Name: CategoryInspection, Score: scoreInspections(p), Max: 100, Weight: inspectionWeight},
		{Name: CategoryInsurance, Score: scoreInsurance(p), Max: 100, Weight: insuranceWeight},
		{Name: CategoryLegitimacy, Score: scoreLegitimacy(p), Max: 100, Weight: legitimacyWeight},
	}

	var weighted float64
	for _, c := range cats {
		weighted += float64(c.Score) * c.Weight
		slog.Debug("category scored", "name", c.Name, "score", c.Score, "weight", c.Weight)
	}
	total := int(math.Round(weighted))

	triggers := evalTriggers(p)
	rec, level := recommend(total, len(triggers) > 0)

	return ScoreResult{
		Score:          total,
		Grade:          grade(total, len(triggers) > 0),
		Categories:     cats,
		RejectTriggers: triggers,
		Recommendation: rec,
		RiskLevel:      level,
		AutoReject:     len(triggers) > 0,
		ModelVersion:   ModelVersion,
		CheckedAt:      time.Now().UTC(),
	}
}

func scoreAuthority(p CarrierProfile) int {
	pts := 0
	if p.USDOTStatus == AuthorityActive {
		pts += usdotActivePoints
	}
	if p.OperatingAuthorityStatus == AuthorityActive {
		pts += authorityActivePoints
	}
	switch {
	case p.AuthorityAgeMonths >= ageTier3Months:
		pts += ageTier3Points
	case p.AuthorityAgeMonths >= ageTier2Months:
		pts += ageTier2Points
	case p.AuthorityAgeMonths >= ageTier1Months:
		pts += ageTier1Points
	}
	if p.BiennialUpdate == BiennialCurrent {
		pts += biennialCurrentPoints
	}
	return clamp(pts)
}

func scoreBrokerage(p CarrierProfile) int {
	pts := 100
	if p.AuthorityScopeMismatch {
		pts -= scopeMismatchPenalty
	}
	if p.LoadRepostingObserved && !p.RepostingDisclosed {
		pts -= undisclosedRepostPenalty
	}
	if p.ContactMismatch {
		pts -= contactMismatchPenalty
	}
	if p.InsuranceHolderThirdParty {
		pts -= thirdPartyInsPenalty
	}
	return clamp(pts)
}

func scoreSafety(p CarrierProfile) int {
	var pts int
	switch p.SafetyRating {
	case RatingSatisfactory:
		pts = ratingSatisfactoryBase
	case RatingNone:
		pts = ratingNoneBase
	case RatingConditional:
		pts = ratingConditionalBase
	case RatingUnsatisfactory:
		pts = 0
	}
	if p.DrugAlcoholViolations > 0 {
		pts -= drugAlcoholPenalty
	}
	if p.FatalCrashAtFault && p.FatalCrashes > 0 {
		pts -= fatalAtFaultPenalty
	}
	return clamp(pts)
}

func scoreInspections(p CarrierProfile) int {
	pts := 100
	pts -= oosPenalty(p.VehicleOOSRatePct, p.NationalAvgVehicle)
	pts -= oosPenalty(p.DriverOOSRatePct, p.NationalAvgDriver)
	return clamp(pts)
}

// oosPenalty compares a carrier OOS rate against the national average.
// A zero national average means no comparison is possible.
func oosPenalty(rate, natAvg float64) int {
	if natAvg <= 0 {
		return 0
	}
	switch {
	case rate > 2*natAvg:
		return oosDoubleAvgPenalty
	case rate > natAvg:
		return oosAboveAvgPenalty
	}
	return 0
}

func scoreInsurance(p CarrierProfile) int {
	pts := 0
	if p.BIPDFilingActive {
		pts += bipdFilingPoints
	}
	if p.BIPDLimitUSD >= bipdLimitFloorUSD {
		pts += bipdLimitPoints
	}
	if p.CargoInsuranceVerified {
		pts += cargoVerifiedPoints
	}
	if p.InsurerCallback == CallbackConfirmed || p.InsurerCallback == CallbackVerified {
		pts += callbackDonePoints
	}
	return clamp(pts)
}

func scoreLegitimacy(p CarrierProfile) int {
	pts := 0
	if p.WebsiteActive12Mo {
		pts += websitePoints
	}
	if p.FacebookActive12Mo {
		pts += facebookPoints
	}
	if p.AddressConsistent {
		pts += addressPoints
	}
	if p.GrowthTrendPct > 0 {
		pts += growthPoints
	}
	return clamp(pts)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

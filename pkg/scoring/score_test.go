package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perfectProfile() CarrierProfile {
	return CarrierProfile{
		USDOTStatus:              AuthorityActive,
		OperatingAuthorityStatus: AuthorityActive,
		AuthorityAgeMonths:       48,
		BiennialUpdate:           BiennialCurrent,

		SafetyRating: RatingSatisfactory,

		EmailType:       EmailDomainMatch,
		InsurerCallback: CallbackVerified,

		NationalAvgVehicle: 20.7,
		NationalAvgDriver:  5.5,

		BIPDFilingActive:       true,
		BIPDLimitUSD:           1_000_000,
		CargoInsuranceVerified: true,

		WebsiteActive12Mo:  true,
		FacebookActive12Mo: true,
		AddressConsistent:  true,
		GrowthTrendPct:     12.5,
	}
}

func TestCompute_PerfectProfile(t *testing.T) {
	res := Compute(perfectProfile())

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, "A", res.Grade)
	assert.Equal(t, RecommendApprove, res.Recommendation)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.False(t, res.AutoReject)
	assert.Empty(t, res.RejectTriggers)

	for _, c := range res.Categories {
		assert.Equal(t, 100, c.Score, c.Name)
	}
}

func TestCompute_FatalCrashAtFaultAlwaysRejects(t *testing.T) {
	p := perfectProfile()
	p.FatalCrashes = 1
	p.FatalCrashAtFault = true

	res := Compute(p)

	assert.Equal(t, RecommendReject, res.Recommendation)
	assert.Equal(t, RiskAutoReject, res.RiskLevel)
	assert.Equal(t, "F", res.Grade)
	assert.True(t, res.AutoReject)
	require.NotEmpty(t, res.RejectTriggers)
	assert.Equal(t, TriggerFatalCrashAtFault, res.RejectTriggers[0].ID)
}

func TestCompute_ThirdPartyInsuranceHolderOverridesHighScore(t *testing.T) {
	p := perfectProfile()
	p.InsuranceHolderThirdParty = true

	res := Compute(p)

	// Weighted score stays well above the approve threshold; the trigger
	// must still force rejection.
	assert.GreaterOrEqual(t, res.Score, ApproveThreshold)
	assert.True(t, res.AutoReject)
	require.Len(t, res.RejectTriggers, 1)
	assert.Equal(t, TriggerThirdPartyInsHolder, res.RejectTriggers[0].ID)
	assert.Equal(t, RecommendReject, res.Recommendation)
}

func TestCompute_Idempotent(t *testing.T) {
	p := perfectProfile()
	p.ContactMismatch = true
	p.DriverOOSRatePct = 7.2

	a := Compute(p)
	b := Compute(p)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Grade, b.Grade)
	assert.Equal(t, a.Categories, b.Categories)
	assert.Equal(t, a.RejectTriggers, b.RejectTriggers)
	assert.Equal(t, a.Recommendation, b.Recommendation)
}

func TestCompute_BoundsOnHostileInputs(t *testing.T) {
	profiles := []CarrierProfile{
		{}, // all zero values
		{
			SafetyRating:              RatingUnsatisfactory,
			DrugAlcoholViolations:     50,
			FatalCrashes:              10,
			FatalCrashAtFault:         true,
			VehicleOOSRatePct:         95,
			DriverOOSRatePct:          95,
			NationalAvgVehicle:        20,
			NationalAvgDriver:         5,
			AuthorityScopeMismatch:    true,
			ContactMismatch:           true,
			InsuranceHolderThirdParty: true,
			LoadRepostingObserved:     true,
			GrowthTrendPct:            -80,
		},
		perfectProfile(),
	}

	for _, p := range profiles {
		res := Compute(p)
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, 100)
		for _, c := range res.Categories {
			assert.GreaterOrEqual(t, c.Score, 0, c.Name)
			assert.LessOrEqual(t, c.Score, 100, c.Name)
		}
	}
}

func TestScoreAuthority_AgeTiers(t *testing.T) {
	tests := []struct {
		months int
		want   int
	}{
		{0, 0},
		{11, 0},
		{12, 10},
		{24, 18},
		{35, 18},
		{36, 25},
		{120, 25},
	}
	for _, tc := range tests {
		p := CarrierProfile{AuthorityAgeMonths: tc.months}
		assert.Equal(t, tc.want, scoreAuthority(p), "months=%d", tc.months)
	}
}

func TestScoreBrokerage_SubtractiveFloor(t *testing.T) {
	p := CarrierProfile{
		AuthorityScopeMismatch:    true,
		ContactMismatch:           true,
		InsuranceHolderThirdParty: true,
		LoadRepostingObserved:     true,
	}
	// 100 - 30 - 40 - 20 - 10 = 0
	assert.Equal(t, 0, scoreBrokerage(p))

	// Disclosed reposting is not penalized.
	p.RepostingDisclosed = true
	assert.Equal(t, 40, scoreBrokerage(p))
}

func TestScoreSafety_RatingBases(t *testing.T) {
	assert.Equal(t, 100, scoreSafety(CarrierProfile{SafetyRating: RatingSatisfactory}))
	assert.Equal(t, 70, scoreSafety(CarrierProfile{SafetyRating: RatingNone}))
	assert.Equal(t, 50, scoreSafety(CarrierProfile{SafetyRating: RatingConditional}))
	assert.Equal(t, 0, scoreSafety(CarrierProfile{SafetyRating: RatingUnsatisfactory}))

	// Conditional rating with both penalties bottoms out at zero.
	p := CarrierProfile{
		SafetyRating:          RatingConditional,
		DrugAlcoholViolations: 1,
		FatalCrashes:          1,
		FatalCrashAtFault:     true,
	}
	assert.Equal(t, 0, scoreSafety(p))
}

func TestScoreInspections_OOSPenalties(t *testing.T) {
	base := CarrierProfile{NationalAvgVehicle: 20, NationalAvgDriver: 5}

	p := base
	assert.Equal(t, 100, scoreInspections(p))

	p.VehicleOOSRatePct = 25 // above avg
	assert.Equal(t, 80, scoreInspections(p))

	p.VehicleOOSRatePct = 41 // above 2x avg
	assert.Equal(t, 60, scoreInspections(p))

	p.DriverOOSRatePct = 11 // above 2x avg, independent of vehicle
	assert.Equal(t, 20, scoreInspections(p))

	// No national average means no basis for comparison.
	assert.Equal(t, 100, scoreInspections(CarrierProfile{VehicleOOSRatePct: 90}))
}

func TestScoreInsurance_Additive(t *testing.T) {
	assert.Equal(t, 0, scoreInsurance(CarrierProfile{}))

	p := CarrierProfile{
		BIPDFilingActive: true,
		BIPDLimitUSD:     999_999,
		InsurerCallback:  CallbackNotDone,
	}
	assert.Equal(t, 40, scoreInsurance(p))

	p.BIPDLimitUSD = 1_000_000
	p.CargoInsuranceVerified = true
	p.InsurerCallback = CallbackConfirmed
	assert.Equal(t, 100, scoreInsurance(p))
}

func TestGradeMapping(t *testing.T) {
	assert.Equal(t, "A", grade(92, false))
	assert.Equal(t, "B", grade(85, false))
	assert.Equal(t, "C", grade(74, false))
	assert.Equal(t, "D", grade(63, false))
	assert.Equal(t, "F", grade(40, false))
	assert.Equal(t, "F", grade(100, true))
}

func TestRecommendThresholds(t *testing.T) {
	rec, level := recommend(86, false)
	assert.Equal(t, RecommendApprove, rec)
	assert.Equal(t, RiskLow, level)

	rec, level = recommend(75, false)
	assert.Equal(t, RecommendConditional, rec)
	assert.Equal(t, RiskModerate, level)

	rec, level = recommend(74, false)
	assert.Equal(t, RecommendReject, rec)
	assert.Equal(t, RiskHigh, level)

	rec, level = recommend(100, true)
	assert.Equal(t, RecommendReject, rec)
	assert.Equal(t, RiskAutoReject, level)
}

func TestCategories_WeightsSumToOne(t *testing.T) {
	var sum float64
	for _, c := range Categories() {
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

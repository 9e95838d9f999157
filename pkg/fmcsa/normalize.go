package fmcsa

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/freightguard/carriervet/pkg/scoring"
)

// Signals carries verification inputs that do not come from the FMCSA
// providers: the broker's own checks (insurer callback, load-board
// observations, web presence). Absent fields keep their conservative
// zero values.
type Signals struct {
	AuthorityScopeMismatch    bool    `json:"authority_scope_mismatch" yaml:"authorityScopeMismatch"`
	ContactMismatch           bool    `json:"contact_mismatch" yaml:"contactMismatch"`
	InsuranceHolderThirdParty bool    `json:"insurance_holder_is_third_party" yaml:"insuranceHolderThirdParty"`
	LoadRepostingObserved     bool    `json:"load_reposting_observed" yaml:"loadRepostingObserved"`
	RepostingDisclosed        bool    `json:"reposting_disclosed" yaml:"repostingDisclosed"`
	EmailType                 string  `json:"email_type" yaml:"emailType"`
	InsurerCallback           string  `json:"insurer_callback_status" yaml:"insurerCallbackStatus"`
	FatalCrashAtFault         bool    `json:"fatal_crash_at_fault" yaml:"fatalCrashAtFault"`
	CargoInsuranceVerified    bool    `json:"cargo_insurance_verified" yaml:"cargoInsuranceVerified"`
	WebsiteActive12Mo         bool    `json:"website_active_12mo" yaml:"websiteActive12mo"`
	FacebookActive12Mo        bool    `json:"facebook_active_12mo" yaml:"facebookActive12mo"`
	AddressConsistent         bool    `json:"address_consistent_with_fmcsa" yaml:"addressConsistentWithFmcsa"`
	GrowthTrendPct            float64 `json:"growth_trend_pct" yaml:"growthTrendPct"`
}

// crashEvent is one deduplicated crash.
type crashEvent struct {
	fatal  bool
	injury bool
}

// Normalize maps the raw provider record plus external signals onto the
// flat scoring profile. Missing numerics become 0, missing booleans
// false, missing enums the conservative member.
func Normalize(rec *CarrierRecord, sig *Signals) scoring.CarrierProfile {
	if sig == nil {
		sig = &Signals{}
	}

	var p scoring.CarrierProfile
	p.EmailType = parseEmailType(sig.EmailType)
	p.InsurerCallback = parseCallback(sig.InsurerCallback)
	p.AuthorityScopeMismatch = sig.AuthorityScopeMismatch
	p.ContactMismatch = sig.ContactMismatch
	p.InsuranceHolderThirdParty = sig.InsuranceHolderThirdParty
	p.LoadRepostingObserved = sig.LoadRepostingObserved
	p.RepostingDisclosed = sig.RepostingDisclosed
	p.FatalCrashAtFault = sig.FatalCrashAtFault
	p.CargoInsuranceVerified = sig.CargoInsuranceVerified
	p.WebsiteActive12Mo = sig.WebsiteActive12Mo
	p.FacebookActive12Mo = sig.FacebookActive12Mo
	p.AddressConsistent = sig.AddressConsistent
	p.GrowthTrendPct = sig.GrowthTrendPct

	if rec == nil {
		p.USDOTStatus = scoring.AuthorityUnknown
		p.OperatingAuthorityStatus = scoring.AuthorityUnknown
		p.BiennialUpdate = scoring.BiennialOutdated
		p.SafetyRating = scoring.RatingNone
		return p
	}

	if rec.Snapshot != nil {
		car := rec.Snapshot.Content.Carrier
		p.USDOTStatus = parseAuthorityStatus(car.StatusCode, car.AllowedToOperate)
		p.OperatingAuthorityStatus = parseAuthorityStatus(car.CommonAuthorityStatus, "")
		p.AuthorityAgeMonths = monthsSince(car.AuthorityGrantDate, time.Now().UTC())
		p.BiennialUpdate = parseBiennial(car.MCS150Outdated)
		p.SafetyRating = parseSafetyRating(car.SafetyRating)
		p.BIPDLimitUSD = parseBIPDThousands(car.BIPDInsuranceOnFile)
		p.BIPDFilingActive = p.BIPDLimitUSD > 0
	} else {
		p.USDOTStatus = scoring.AuthorityUnknown
		p.OperatingAuthorityStatus = scoring.AuthorityUnknown
		p.BiennialUpdate = scoring.BiennialOutdated
		p.SafetyRating = scoring.RatingNone
	}

	if rec.Inspections != nil {
		sum := rec.Inspections
		p.VehicleOOSRatePct = coalesce(sum.VehicleOOSRate, sum.VehicleOOSRateAlt)
		p.DriverOOSRatePct = coalesce(sum.DriverOOSRate, sum.DriverOOSRateAlt)
		p.NationalAvgVehicle = coalesce(sum.NationalAvgVehicle, sum.NationalAvgVehicleAlt)
		p.NationalAvgDriver = coalesce(sum.NationalAvgDriver, sum.NationalAvgDriverAlt)
		p.TotalInspections24Mo = sum.TotalInspections
		if p.TotalInspections24Mo == 0 {
			p.TotalInspections24Mo = sum.TotalInspectionsAlt
		}
	}

	fatal, injury := countCrashes(rec.Crashes)
	p.FatalCrashes = fatal
	p.InjuryCrashes = injury
	p.DrugAlcoholViolations = countDrugAlcohol(rec.Violations)

	return p
}

// countCrashes collapses per-vehicle crash lines into one event per
// report number. An event is fatal if any of its lines reports nonzero
// fatalities; injury events are the non-fatal ones with injuries.
// Lines without a report number cannot be grouped and count individually.
func countCrashes(lines []CrashLine) (fatal, injury int) {
	events := map[string]*crashEvent{}
	anon := 0
	for _, l := range lines {
		key := strings.TrimSpace(l.ReportNumber)
		if key == "" {
			anon++
			key = fmt.Sprintf("anon-%d", anon)
		}
		ev, ok := events[key]
		if !ok {
			ev = &crashEvent{}
			events[key] = ev
		}
		if l.Fatalities > 0 {
			ev.fatal = true
		}
		if l.Injuries > 0 {
			ev.injury = true
		}
	}
	for _, ev := range events {
		switch {
		case ev.fatal:
			fatal++
		case ev.injury:
			injury++
		}
	}
	return fatal, injury
}

// countDrugAlcohol counts deduplicated inspection reports that cite a
// controlled-substances or alcohol violation.
func countDrugAlcohol(lines []ViolationLine) int {
	hits := map[string]bool{}
	anon := 0
	for _, l := range lines {
		basic := strings.ToLower(l.Basic)
		if !strings.Contains(basic, "alcohol") && !strings.Contains(basic, "drug") &&
			!strings.Contains(basic, "controlled") {
			continue
		}
		key := strings.TrimSpace(l.ReportNumber)
		if key == "" {
			anon++
			key = fmt.Sprintf("anon-%d", anon)
		}
		hits[key] = true
	}
	return len(hits)
}

func parseAuthorityStatus(status, allowed string) scoring.AuthorityStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "A", "ACTIVE":
		return scoring.AuthorityActive
	case "I", "INACTIVE":
		return scoring.AuthorityInactive
	}
	// Some snapshot variants only carry the allowed-to-operate flag.
	switch strings.ToUpper(strings.TrimSpace(allowed)) {
	case "Y":
		return scoring.AuthorityActive
	case "N":
		return scoring.AuthorityInactive
	}
	return scoring.AuthorityUnknown
}

func parseBiennial(outdated string) scoring.BiennialStatus {
	if strings.EqualFold(strings.TrimSpace(outdated), "N") {
		return scoring.BiennialCurrent
	}
	return scoring.BiennialOutdated
}

func parseSafetyRating(r string) scoring.SafetyRating {
	switch strings.ToUpper(strings.TrimSpace(r)) {
	case "S", "SATISFACTORY":
		return scoring.RatingSatisfactory
	case "C", "CONDITIONAL":
		return scoring.RatingConditional
	case "U", "UNSATISFACTORY":
		return scoring.RatingUnsatisfactory
	}
	return scoring.RatingNone
}

func parseEmailType(s string) scoring.EmailType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DOMAIN_MATCH":
		return scoring.EmailDomainMatch
	case "FREE", "FREE_EMAIL":
		return scoring.EmailFree
	}
	return scoring.EmailUnknown
}

func parseCallback(s string) scoring.CallbackStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERIFIED":
		return scoring.CallbackVerified
	case "CONFIRMED":
		return scoring.CallbackConfirmed
	case "REFUSED":
		return scoring.CallbackRefused
	}
	return scoring.CallbackNotDone
}

// parseBIPDThousands converts the snapshot's thousands-of-dollars
// coverage string ("1000" = $1M) to whole dollars.
func parseBIPDThousands(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * 1000
}

// monthsSince parses the authority grant date (both the MM/DD/YYYY and
// ISO forms appear upstream) and returns whole months elapsed.
func monthsSince(date string, now time.Time) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}
	var t time.Time
	var err error
	for _, layout := range []string{"01/02/2006", "2006-01-02"} {
		if t, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil || t.After(now) {
		return 0
	}
	months := int(now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
	if now.Day() < t.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func coalesce(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}

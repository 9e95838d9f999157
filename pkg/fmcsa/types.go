package fmcsa

import (
	"errors"
	"fmt"
	"regexp"
)

// IdentifierKind discriminates the two FMCSA carrier identifier schemes.
type IdentifierKind string

const (
	IdentifierUSDOT IdentifierKind = "usdot"
	IdentifierMC    IdentifierKind = "mc"
)

var (
	// ErrMissingIdentifier indicates neither identifier was provided or
	// the value was not a plain number.
	ErrMissingIdentifier = errors.New("a numeric mc_number or usdot_number is required")

	numericRe = regexp.MustCompile(`^[0-9]{1,8}$`)
)

// Identifier is a validated MC or USDOT number.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

func (i Identifier) String() string {
	return fmt.Sprintf("%s:%s", i.Kind, i.Value)
}

// ParseIdentifier validates the raw request inputs. USDOT wins when both
// are present.
func ParseIdentifier(usdot, mc string) (Identifier, error) {
	if usdot != "" {
		if !numericRe.MatchString(usdot) {
			return Identifier{}, ErrMissingIdentifier
		}
		return Identifier{Kind: IdentifierUSDOT, Value: usdot}, nil
	}
	if mc != "" {
		if !numericRe.MatchString(mc) {
			return Identifier{}, ErrMissingIdentifier
		}
		return Identifier{Kind: IdentifierMC, Value: mc}, nil
	}
	return Identifier{}, ErrMissingIdentifier
}

// Snapshot is the QCMobile carrier snapshot (the subset this service
// reads; the full schema is much larger).
type Snapshot struct {
	Content struct {
		Carrier Carrier `json:"carrier"`
	} `json:"content"`
}

// Carrier holds the snapshot attributes used for scoring and identity.
type Carrier struct {
	LegalName             string `json:"legalName"`
	DBAName               string `json:"dbaName"`
	DOTNumber             int64  `json:"dotNumber"`
	DocketNumber          string `json:"docketNumber"`
	StatusCode            string `json:"statusCode"`
	AllowedToOperate      string `json:"allowedToOperate"`
	CommonAuthorityStatus string `json:"commonAuthorityStatus"`
	AuthorityGrantDate    string `json:"authorityGrantDate"`
	SafetyRating          string `json:"safetyRating"`
	MCS150Outdated        string `json:"mcs150Outdated"`
	// BIPD coverage on file, in thousands of dollars ("1000" = $1M).
	BIPDInsuranceOnFile string `json:"bipdInsuranceOnFile"`
	BIPDRequiredAmount  string `json:"bipdRequiredAmount"`
	PhysicalAddress     string `json:"phyStreet"`
}

// InspectionSummary is the SAFERWeb wrapper's 24-month roll-up. The two
// wrapper generations disagree on field names for the same numbers, so
// both are decoded and coalesced during normalization.
type InspectionSummary struct {
	VehicleOOSRate        float64 `json:"vehicle_oos_rate"`
	VehicleOOSRateAlt     float64 `json:"vehicleOosRatePct"`
	DriverOOSRate         float64 `json:"driver_oos_rate"`
	DriverOOSRateAlt      float64 `json:"driverOosRatePct"`
	NationalAvgVehicle    float64 `json:"vehicle_oos_rate_national_average"`
	NationalAvgVehicleAlt float64 `json:"nationalAvgVehicleOos"`
	NationalAvgDriver     float64 `json:"driver_oos_rate_national_average"`
	NationalAvgDriverAlt  float64 `json:"nationalAvgDriverOos"`
	TotalInspections      int     `json:"total_inspections"`
	TotalInspectionsAlt   int     `json:"totalInspections24mo"`
}

// CrashLine is one raw crash record line. Providers return one line per
// involved vehicle, all sharing the crash report number.
type CrashLine struct {
	ReportNumber string `json:"report_number"`
	ReportState  string `json:"report_state"`
	Date         string `json:"date"`
	Fatalities   int    `json:"fatalities"`
	Injuries     int    `json:"injuries"`
	TowAway      bool   `json:"tow_away"`
}

// ViolationLine is one cited violation from an inspection report.
type ViolationLine struct {
	ReportNumber string `json:"report_number"`
	Code         string `json:"violation_code"`
	Basic        string `json:"basic"`
	OOS          bool   `json:"oos"`
	Unit         int    `json:"unit"`
}

// CarrierRecord is the joined result of the four parallel fetches.
type CarrierRecord struct {
	Snapshot    *Snapshot
	Inspections *InspectionSummary
	Crashes     []CrashLine
	Violations  []ViolationLine
}

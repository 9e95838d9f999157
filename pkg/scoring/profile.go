package scoring

// AuthorityStatus is the operating status of a carrier's USDOT registration
// or operating authority.
type AuthorityStatus string

const (
	AuthorityActive   AuthorityStatus = "ACTIVE"
	AuthorityInactive AuthorityStatus = "INACTIVE"
	AuthorityUnknown  AuthorityStatus = "UNKNOWN"
)

// BiennialStatus tracks the MCS-150 biennial update requirement.
type BiennialStatus string

const (
	BiennialCurrent  BiennialStatus = "CURRENT"
	BiennialOutdated BiennialStatus = "OUTDATED"
)

// SafetyRating is the FMCSA-assigned safety rating.
type SafetyRating string

const (
	RatingSatisfactory   SafetyRating = "SATISFACTORY"
	RatingConditional    SafetyRating = "CONDITIONAL"
	RatingUnsatisfactory SafetyRating = "UNSATISFACTORY"
	RatingNone           SafetyRating = "NONE"
)

// EmailType classifies the carrier's contact email domain.
type EmailType string

const (
	EmailDomainMatch EmailType = "DOMAIN_MATCH"
	EmailFree        EmailType = "FREE"
	EmailUnknown     EmailType = "UNKNOWN"
)

// CallbackStatus is the outcome of the insurer verification callback.
type CallbackStatus string

const (
	CallbackVerified  CallbackStatus = "VERIFIED"
	CallbackConfirmed CallbackStatus = "CONFIRMED"
	CallbackNotDone   CallbackStatus = "NOT_DONE"
	CallbackRefused   CallbackStatus = "REFUSED"
)

// CarrierProfile is the flat, normalized input to the scoring model.
// It exists only for the duration of a single scoring call; nothing here
// is persisted. Absent upstream values must be represented by the zero
// value (0, false) or the conservative enum member (Unknown, None,
// NotDone) before scoring.
type CarrierProfile struct {
	// Authority
	USDOTStatus              AuthorityStatus
	OperatingAuthorityStatus AuthorityStatus
	AuthorityAgeMonths       int
	BiennialUpdate           BiennialStatus

	// Safety
	SafetyRating          SafetyRating
	DrugAlcoholViolations int
	FatalCrashes          int
	InjuryCrashes         int
	FatalCrashAtFault     bool

	// Double-brokerage risk indicators
	AuthorityScopeMismatch    bool
	ContactMismatch           bool
	InsuranceHolderThirdParty bool
	LoadRepostingObserved     bool
	RepostingDisclosed        bool
	EmailType                 EmailType
	InsurerCallback           CallbackStatus

	// Inspections
	VehicleOOSRatePct    float64
	DriverOOSRatePct     float64
	NationalAvgVehicle   float64
	NationalAvgDriver    float64
	TotalInspections24Mo int

	// Insurance
	BIPDFilingActive       bool
	BIPDLimitUSD           int64
	CargoInsuranceVerified bool

	// Business legitimacy
	WebsiteActive12Mo  bool
	FacebookActive12Mo bool
	AddressConsistent  bool
	GrowthTrendPct     float64
}

package scoring

// Auto-reject trigger ids. Stable: consumers key on these.
const (
	TriggerFatalCrashAtFault    = "FATAL_CRASH_AT_FAULT"
	TriggerDrugAlcohol          = "DRUG_ALCOHOL_VIOLATION"
	TriggerSafetyRatingUnsat    = "SAFETY_RATING_UNSAT"
	TriggerCallbackRefused      = "INSURER_CALLBACK_REFUSED"
	TriggerAuthorityScope       = "DB_AUTHORITY_SCOPE"
	TriggerThirdPartyInsHolder  = "DB_THIRD_PARTY_INS_HOLDER"
	TriggerUndisclosedReposting = "DB_UNDISCLOSED_REPOSTING"
)

// evalTriggers returns fired auto-reject triggers in a fixed order.
// Triggers are evaluated independently of the weighted score: any one
// forces rejection no matter how high the total comes out.
func evalTriggers(p CarrierProfile) []Trigger {
	var out []Trigger
	if p.FatalCrashAtFault && p.FatalCrashes > 0 {
		out = append(out, Trigger{
			ID:     TriggerFatalCrashAtFault,
			Reason: "fatal crash with carrier at fault",
		})
	}
	if p.DrugAlcoholViolations > 0 {
		out = append(out, Trigger{
			ID:     TriggerDrugAlcohol,
			Reason: "drug or alcohol violation on record",
		})
	}
	if p.SafetyRating == RatingUnsatisfactory {
		out = append(out, Trigger{
			ID:     TriggerSafetyRatingUnsat,
			Reason: "FMCSA safety rating is Unsatisfactory",
		})
	}
	if p.InsurerCallback == CallbackRefused {
		out = append(out, Trigger{
			ID:     TriggerCallbackRefused,
			Reason: "insurer refused verification callback",
		})
	}
	if p.AuthorityScopeMismatch {
		out = append(out, Trigger{
			ID:     TriggerAuthorityScope,
			Reason: "operating outside granted authority scope",
		})
	}
	if p.InsuranceHolderThirdParty {
		out = append(out, Trigger{
			ID:     TriggerThirdPartyInsHolder,
			Reason: "insurance certificate held by a third party",
		})
	}
	if p.LoadRepostingObserved && !p.RepostingDisclosed {
		out = append(out, Trigger{
			ID:     TriggerUndisclosedReposting,
			Reason: "load reposting observed without disclosure",
		})
	}
	return out
}

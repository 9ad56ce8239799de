package matcher

// DefaultContextKeywords mark a message as being about a case. A name hit
// without one of these (or the case's date of injury) is not a match.
var DefaultContextKeywords = []string{"case", "patient", "doi", "injury", "billing", "lien", "settlement"}

// Policy holds the tunable constants of the matching order.
type Policy struct {
	ContextKeywords []string
	// Name variants must be at least this long to count.
	MinVariantLen int
	// Alternate numbers shorter than this are ignored.
	MinAlternateLen int
	// Last names shorter than this do not support an attorney match.
	MinLastNameLen int
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		ContextKeywords: DefaultContextKeywords,
		MinVariantLen:   4,
		MinAlternateLen: 4,
		MinLastNameLen:  4,
	}
}

// Reason names the policy step that produced a match.
type Reason string

const (
	NoMatch           Reason = ""
	ByCaseNumber      Reason = "case_number"
	ByAlternateNumber Reason = "alternate_number"
	ByName            Reason = "name"
	ByAttorney        Reason = "attorney"
)

package specimen

// Adequacy is the tri-state outcome of a specimen mass check.
type Adequacy int

const (
	// Unknown means the net specimen mass or the classification is missing.
	Unknown Adequacy = iota
	// Adequate means the specimen meets the minimum mass.
	Adequate
	// Inadequate means the specimen is below the minimum mass.
	Inadequate
)

// Values of the "specimen mass below minimum" condition in a test record.
const (
	ConditionUnset = "-"
	ConditionYes   = "SI"
	ConditionNo    = "NO"
)

// CheckAdequacy compares the net specimen mass against the entry's minimum.
// A mass equal to the minimum is adequate.
func CheckAdequacy(e Entry, netSpecimenMass *float64) Adequacy {
	if netSpecimenMass == nil {
		return Unknown
	}
	if *netSpecimenMass >= e.MinimumMassGrams {
		return Adequate
	}
	return Inadequate
}

// Known reports whether the check had enough data to decide.
func (a Adequacy) Known() bool {
	return a != Unknown
}

// Condition maps the outcome to the "mass below minimum" record value.
func (a Adequacy) Condition() string {
	switch a {
	case Adequate:
		return ConditionNo
	case Inadequate:
		return ConditionYes
	default:
		return ConditionUnset
	}
}

func (a Adequacy) String() string {
	switch a {
	case Adequate:
		return "adequate"
	case Inadequate:
		return "inadequate"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the outcome as true, false or null.
func (a Adequacy) MarshalJSON() ([]byte, error) {
	switch a {
	case Adequate:
		return []byte("true"), nil
	case Inadequate:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

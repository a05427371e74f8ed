// validate/reason.go
package validate

import "fmt"

// Reason identifies which check decided the outcome of Explain.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonNotString
	ReasonEmpty
	ReasonNoAt
	ReasonMultipleAt
	ReasonDomainEmpty
	ReasonDomainNoDot
	ReasonDomainLeadingDot
	ReasonDomainTrailingDot
	ReasonConsecutiveDots
	ReasonPattern
)

var reasonNames = [...]string{
	ReasonOK:                "ok",
	ReasonNotString:         "not_string",
	ReasonEmpty:             "empty",
	ReasonNoAt:              "no_at",
	ReasonMultipleAt:        "multiple_at",
	ReasonDomainEmpty:       "domain_empty",
	ReasonDomainNoDot:       "domain_no_dot",
	ReasonDomainLeadingDot:  "domain_leading_dot",
	ReasonDomainTrailingDot: "domain_trailing_dot",
	ReasonConsecutiveDots:   "consecutive_dots",
	ReasonPattern:           "pattern_mismatch",
}

// Reasons lists every Reason in declaration order.
func Reasons() []Reason {
	out := make([]Reason, len(reasonNames))
	for i := range reasonNames {
		out[i] = Reason(i)
	}
	return out
}

// String returns the snake_case name of the reason.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Valid reports whether r is the accepting reason.
func (r Reason) Valid() bool { return r == ReasonOK }

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range reasonNames {
		if name == s {
			*r = Reason(i)
			return nil
		}
	}
	return fmt.Errorf("validate: unknown reason %q", s)
}

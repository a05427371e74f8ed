// validate/email.go
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// TLD length bounds enforced by the final pattern. The top-level label must
// consist of letters only and fall inside [MinTLDLength, MaxTLDLength].
const (
	MinTLDLength = 2
	MaxTLDLength = 24
)

// emailPattern is the authoritative acceptance gate. It runs after the
// structural checks, so a string is valid only when both agree.
var emailPattern = regexp.MustCompile(fmt.Sprintf(
	`^[a-zA-Z0-9._%%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{%d,%d}$`,
	MinTLDLength, MaxTLDLength,
))

// IsValidEmail reports whether candidate is a string that plausibly holds an
// email address. It is not an RFC validator and performs no DNS or SMTP
// lookups.
//
// The function is total: any Go value may be passed, and every rejection,
// including non-string input and nil, is a plain false.
func IsValidEmail(candidate any) bool {
	return Explain(candidate) == ReasonOK
}

// Explain runs the same checks as IsValidEmail and returns the first one that
// failed, or ReasonOK when the candidate is accepted.
//
// Checks, in order:
//   - candidate must be a string; it is then trimmed
//   - exactly one '@'
//   - domain is non-empty, contains a dot, and does not start or end with one
//   - no ".." anywhere in the address
//   - the whole address matches emailPattern
func Explain(candidate any) Reason {
	s, ok := candidate.(string)
	if !ok {
		return ReasonNotString
	}

	email := strings.TrimFunc(s, isTrimSpace)
	if email == "" {
		return ReasonEmpty
	}

	at := strings.IndexByte(email, '@')
	if at == -1 {
		return ReasonNoAt
	}
	if strings.LastIndexByte(email, '@') != at {
		return ReasonMultipleAt
	}

	domain := email[at+1:]
	switch {
	case domain == "":
		return ReasonDomainEmpty
	case !strings.Contains(domain, "."):
		return ReasonDomainNoDot
	case strings.HasPrefix(domain, "."):
		return ReasonDomainLeadingDot
	case strings.HasSuffix(domain, "."):
		return ReasonDomainTrailingDot
	}

	// Scans the local part too, not just the domain.
	if strings.Contains(email, "..") {
		return ReasonConsecutiveDots
	}

	if !emailPattern.MatchString(email) {
		return ReasonPattern
	}
	return ReasonOK
}

// isTrimSpace matches the whitespace set stripped from both ends of a
// candidate: Unicode White_Space plus the byte-order mark, minus NEL (U+0085).
func isTrimSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

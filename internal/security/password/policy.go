package password

import (
	"fmt"
	"strings"
	"unicode"
)

// Policy is the set of rules a new password must satisfy.
type Policy struct {
	MinLength     int
	MaxLength     int // bcrypt ignores bytes beyond 72
	RequireUpper  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPolicy: at least 8 characters, nothing else.
var DefaultPolicy = Policy{MinLength: 8, MaxLength: 72}

// PolicyError lists every rule a password broke.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	return "password policy: " + strings.Join(e.Reasons, ", ")
}

// Validate returns a *PolicyError or nil.
func (p Policy) Validate(s string) error {
	var reasons []string
	if n := len([]rune(s)); n < p.MinLength {
		reasons = append(reasons, fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if p.MaxLength > 0 && len(s) > p.MaxLength {
		reasons = append(reasons, fmt.Sprintf("must be at most %d bytes", p.MaxLength))
	}

	var upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if p.RequireUpper && !upper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if p.RequireDigit && !digit {
		reasons = append(reasons, "must contain a digit")
	}
	if p.RequireSymbol && !symbol {
		reasons = append(reasons, "must contain a symbol")
	}
	if len(reasons) == 0 {
		return nil
	}
	return &PolicyError{Reasons: reasons}
}

package form

import (
	"fmt"
	"net/mail"
	"strings"
)

// Required checks that value is not blank after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: FieldError{Field: field, Message: "is required"},
	}
}

// MinLen checks that value is at least min bytes long.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return len(value) >= min },
		Error: FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		},
	}
}

// Email checks that value parses as a bare RFC 5322 address.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: FieldError{Field: field, Message: "must be a valid email address"},
	}
}

// ISBN checks that value, ignoring hyphens and spaces, is a 10 or 13
// character ISBN. Only the shape is checked; check digits are left to the
// service.
func ISBN(field, value string) Rule {
	return Rule{
		Check: func() bool {
			s := strings.NewReplacer("-", "", " ", "").Replace(value)
			switch len(s) {
			case 10:
				for i, r := range s {
					if r >= '0' && r <= '9' {
						continue
					}
					if i == 9 && (r == 'X' || r == 'x') {
						continue
					}
					return false
				}
				return true
			case 13:
				for _, r := range s {
					if r < '0' || r > '9' {
						return false
					}
				}
				return true
			}
			return false
		},
		Error: FieldError{Field: field, Message: "must be a valid ISBN"},
	}
}

// NonNegative checks that n is zero or greater.
func NonNegative(field string, n int) Rule {
	return Rule{
		Check: func() bool { return n >= 0 },
		Error: FieldError{Field: field, Message: "must not be negative"},
	}
}

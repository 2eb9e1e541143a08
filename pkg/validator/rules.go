package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MinLen counts characters, not bytes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters long", min)},
	}
}

func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// Email accepts a bare address with a dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			return ok && local != "" &&
				strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

func OneOf[T comparable](field string, value T, options []T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(options, value) },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be one of %v", options)},
	}
}

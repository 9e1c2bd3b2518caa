// Package namex parses display names and renders their derived forms.
package namex

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/userkeeper/internal/common"
)

// Split breaks a display name into (first, last) on whitespace, dropping
// blank tokens. One token yields an empty last name. Any token count other
// than 1 or 2 is a validation error; the message carries the offending
// tokens for diagnostics.
func Split(fullName string) (first, last string, err error) {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 1:
		return tokens[0], "", nil
	case 2:
		return tokens[0], tokens[1], nil
	default:
		return "", "", fmt.Errorf("%w: full name must contain only a first name and a last name, split result: %q", common.ErrorValidation, tokens)
	}
}

// FullName joins the non-blank name parts and title-cases them.
// Uses x/text so Cyrillic names are cased correctly.
func FullName(firstName, lastName string) string {
	joined := strings.TrimSpace(firstName + " " + lastName)
	return cases.Title(language.Und).String(joined)
}

// Initials returns the upper-cased first letter of each non-blank name
// part, joined with a space.
func Initials(firstName, lastName string) string {
	initials := make([]string, 0, 2)
	for _, part := range []string{firstName, lastName} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r := []rune(part)[0]
		initials = append(initials, string(unicode.ToUpper(r)))
	}
	return strings.Join(initials, " ")
}

package users

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/namex"
)

// recordFieldCount is the exact number of positional fields in an import
// record: fullName; email; salt; passwordHash; phone.
const recordFieldCount = 5

// ParseRecord parses a single delimiter-separated import record into a
// CSV-path user. Blank email and phone fields are treated as absent.
func ParseRecord(raw string) (*User, error) {
	fields := split(raw)
	if len(fields) != recordFieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q", common.ErrorValidation, recordFieldCount, len(fields), raw)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	firstName, lastName, err := namex.Split(fields[0])
	if err != nil {
		return nil, err
	}

	return NewImportedUser(firstName, lastName, fields[1], fields[2], fields[3], fields[4])
}

// split breaks raw on ';' and ':' while preserving empty fields.
func split(raw string) []string {
	fields := make([]string, 0, recordFieldCount)
	var b strings.Builder
	for _, r := range raw {
		if r == ';' || r == ':' {
			fields = append(fields, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	fields = append(fields, b.String())
	return fields
}

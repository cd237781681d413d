package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrWriteQuery = errors.New("only SELECT and WITH queries are allowed")

// CheckReadOnly rejects anything that is not a single SELECT or WITH query.
// A WITH prefix can still front DML, so backends must also run the query on
// a read-only connection or transaction.
func CheckReadOnly(query string) error {
	trimmed := strings.TrimSpace(query)
	trimmed = strings.TrimSuffix(trimmed, ";")
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("multiple statements: %w", ErrWriteQuery)
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return ErrWriteQuery
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return nil
	default:
		return ErrWriteQuery
	}
}

// PositionalArgs orders params keyed "1", "2", ... into a positional slice.
// Numbering stops at the first missing key.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			break
		}
		args = append(args, val)
	}
	return args
}

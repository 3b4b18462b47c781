package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a snapshot that arrived without the fields the
// dashboard needs. Such a snapshot is rejected as a whole.
type ValidationError struct {
	Symbol string
	Fields []string
}

func (e *ValidationError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("invalid snapshot: missing %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("invalid snapshot for %s: missing %s", e.Symbol, strings.Join(e.Fields, ", "))
}

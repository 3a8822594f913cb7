package inference

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports model feature columns the live session did
// not provide.
type SchemaMismatchError struct {
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("session is missing model features: %s", strings.Join(e.Missing, ", "))
}

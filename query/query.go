package query

import (
	"strings"

	e "github.com/julianlk522/miniface/error"
)

type Query struct {
	Text  string
	Args  []any
	Error error
}

// Check reports a builder error, or a mismatch between the "?"
// placeholders in Text and the number of Args.
func (q *Query) Check() error {
	if q.Error != nil {
		return q.Error
	}

	if placeholders := strings.Count(q.Text, "?"); placeholders != len(q.Args) {
		return e.ErrArgCountDoesNotMatchTextPlaceholders(len(q.Args), placeholders)
	}

	return nil
}

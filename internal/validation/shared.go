package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries every failed field of a request so the client can show all
// problems at once instead of fixing them one round trip at a time.
type Error struct {
	Fields map[string]string
}

// Error renders the field messages in field-name order, so the same invalid
// request always produces the same message.
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

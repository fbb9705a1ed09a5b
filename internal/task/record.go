// Package task defines the query task record: an identifier paired with
// an unparsed query string. The record is the unit in which query
// payloads move through the catalog; nothing in this package (or this
// repository) parses, validates, or executes the query text.
package task

// Task pairs an opaque identifier with a query string. Both fields are
// set once at construction and never reassigned; a Task is safe to share
// across concurrent readers.
//
// The identifier is caller-supplied and uninspected. Integers, strings,
// and nil are all acceptable; no uniqueness is enforced here.
type Task struct {
	id    any
	query string
}

// New constructs a Task from an identifier and a query string. Any value
// of either is accepted without inspection; construction cannot fail.
func New(id any, query string) Task {
	return Task{id: id, query: query}
}

// ID returns the identifier the record was constructed with.
func (t Task) ID() any {
	return t.id
}

// Query returns the query string the record was constructed with,
// byte-for-byte.
func (t Task) Query() string {
	return t.query
}

package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RoundTrip(t *testing.T) {
	rec := New(1, "select * from t")

	assert.Equal(t, 1, rec.ID())
	assert.Equal(t, "select * from t", rec.Query())
}

func TestNew_StringIDAndEmptyQuery(t *testing.T) {
	rec := New("task-42", "")

	assert.Equal(t, "task-42", rec.ID())
	assert.Equal(t, "", rec.Query())
}

func TestNew_NilID(t *testing.T) {
	rec := New(nil, "MATCH (n) RETURN n")

	assert.Nil(t, rec.ID())
	assert.Equal(t, "MATCH (n) RETURN n", rec.Query())
}

func TestNew_IndependentInstances(t *testing.T) {
	a := New(7, "MATCH (n) RETURN count(n)")
	b := New(7, "MATCH (n) RETURN count(n)")

	// Same inputs produce equal but independent values; mutating one via
	// reconstruction leaves the other untouched.
	assert.Equal(t, a.ID(), b.ID())
	assert.Equal(t, a.Query(), b.Query())

	b = New(8, "RETURN 1")
	assert.Equal(t, 7, a.ID())
	assert.Equal(t, "MATCH (n) RETURN count(n)", a.Query())
}

func TestNew_QueryStoredVerbatim(t *testing.T) {
	// Whitespace, unicode and embedded quotes must survive untouched; the
	// record never normalizes its payload.
	query := "  CREATE (n {name: \"Ägir\"})\n\tRETURN n  "
	rec := New("q", query)

	assert.Equal(t, query, rec.Query())
}

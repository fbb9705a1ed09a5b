package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryTask_Record(t *testing.T) {
	queryTask := &QueryTask{
		Name:  "smoke-1",
		Query: "MATCH (n) RETURN n LIMIT 10",
	}

	rec := queryTask.Record()
	assert.Equal(t, "smoke-1", rec.ID())
	assert.Equal(t, "MATCH (n) RETURN n LIMIT 10", rec.Query())
}

func TestQueryTask_RecordKeepsQueryVerbatim(t *testing.T) {
	queryTask := &QueryTask{
		Name:  "ws",
		Query: "  RETURN 1\n",
	}

	assert.Equal(t, "  RETURN 1\n", queryTask.Record().Query())
}

func TestQueryTask_TableName(t *testing.T) {
	assert.Equal(t, "query_tasks", (&QueryTask{}).TableName())
}

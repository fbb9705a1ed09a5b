package archive

import (
	"github.com/google/uuid"
)

// ArchiveMetadata describes an exported bundle of query tasks
type ArchiveMetadata struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	RecordCount int       `json:"record_count"`
}

// ExportRequestDTO is the request body for exporting a set of query tasks.
type ExportRequestDTO struct {
	Name    string      `json:"name"`
	TaskIDs []uuid.UUID `json:"taskIds"`
}

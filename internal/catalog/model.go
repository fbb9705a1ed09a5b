package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/querybank/querybank/internal/task"
)

// BaseModel defines the base model structure with common fields for the catalog package.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	base.CreatedAt = time.Now().UTC()
	base.UpdatedAt = time.Now().UTC()
	return
}

// BeforeUpdate is a GORM hook that is triggered before an existing record is updated.
func (base *BaseModel) BeforeUpdate(tx *gorm.DB) (err error) {
	base.UpdatedAt = time.Now().UTC()
	return
}

// Labels is a free-form set of tags attached to a query task, stored as jsonb.
type Labels []string

// QueryTask represents a catalogued query task row. Name and Query are
// write-once: they are set at creation and never updated afterwards, so a
// row always carries exactly the payload it was registered with.
type QueryTask struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);column:name;not null;index" json:"name"`   // Caller-facing identifier; opaque, no uniqueness enforced
	Query  string `gorm:"type:text;column:query;not null" json:"query"`               // Unparsed query payload, stored byte-for-byte
	Labels Labels `gorm:"type:jsonb;column:labels;serializer:json" json:"labels"`     // Optional tags for filtering
}

func (qt *QueryTask) TableName() string {
	return "query_tasks"
}

// Record projects the stored row into the plain task record handed to callers.
func (qt *QueryTask) Record() task.Task {
	return task.New(qt.Name, qt.Query)
}

// CreateQueryTaskDTO is the request body for registering a single query task.
type CreateQueryTaskDTO struct {
	Name   string   `json:"name"`
	Query  string   `json:"query"`
	Labels []string `json:"labels,omitempty"`
}

// CreateQueryTaskBatchDTO is the request body for registering several query tasks at once.
type CreateQueryTaskBatchDTO struct {
	Tasks []CreateQueryTaskDTO `json:"tasks"`
}

// UpdateLabelsDTO is the request body for replacing a task's labels.
type UpdateLabelsDTO struct {
	Labels []string `json:"labels"`
}

// QueryTaskFilter narrows a catalog listing. Nil fields are ignored.
type QueryTaskFilter struct {
	NameStartsWith *string
	Label          *string
	Offset         *int
	Limit          *int
}

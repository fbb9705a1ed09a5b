package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/querybank/querybank/utils"
)

// ErrTaskNotFound is returned when a query task does not exist in the catalog.
var ErrTaskNotFound = errors.New("query task not found")

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateTask registers a single query task in the catalog. The query
// string is stored as-is; no parsing or validation is applied to it.
func (s *CatalogService) CreateTask(ctx context.Context, dto *CreateQueryTaskDTO) (*QueryTask, error) {
	if dto == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}

	queryTask := &QueryTask{
		Name:   dto.Name,
		Query:  dto.Query,
		Labels: dto.Labels,
	}

	result := s.db.WithContext(ctx).Create(queryTask)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create query task: %w", result.Error)
	}

	return queryTask, nil
}

// CreateTasks registers multiple query tasks in a single insert.
func (s *CatalogService) CreateTasks(ctx context.Context, dtos []CreateQueryTaskDTO) ([]uuid.UUID, error) {
	if len(dtos) == 0 {
		return []uuid.UUID{}, nil
	}

	queryTasks := make([]QueryTask, len(dtos))
	for i, dto := range dtos {
		queryTasks[i] = QueryTask{
			Name:   dto.Name,
			Query:  dto.Query,
			Labels: dto.Labels,
		}
	}

	result := s.db.WithContext(ctx).Create(&queryTasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create query tasks: %w", result.Error)
	}

	taskIDs := make([]uuid.UUID, len(queryTasks))
	for i, queryTask := range queryTasks {
		taskIDs[i] = queryTask.ID
	}

	return taskIDs, nil
}

// GetTaskByID retrieves a query task by its ID.
func (s *CatalogService) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*QueryTask, error) {
	if taskID == uuid.Nil {
		return nil, fmt.Errorf("task ID cannot be nil")
	}

	var queryTask QueryTask
	result := s.db.WithContext(ctx).First(&queryTask, "id = ?", taskID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to retrieve query task: %w", result.Error)
	}
	return &queryTask, nil
}

// GetTasksByIDs retrieves multiple query tasks. All requested IDs must
// exist; a partial result is treated as not found. Duplicate IDs are
// collapsed, and the result follows the request order.
func (s *CatalogService) GetTasksByIDs(ctx context.Context, taskIDs []uuid.UUID) ([]QueryTask, error) {
	if len(taskIDs) == 0 {
		return []QueryTask{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(taskIDs))
	uniqueIDs := make([]uuid.UUID, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		if _, ok := seen[taskID]; ok {
			continue
		}
		seen[taskID] = struct{}{}
		uniqueIDs = append(uniqueIDs, taskID)
	}

	var rows []QueryTask
	result := s.db.WithContext(ctx).Where("id IN ?", uniqueIDs).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve query tasks: %w", result.Error)
	}

	byID := make(map[uuid.UUID]QueryTask, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	queryTasks := make([]QueryTask, 0, len(uniqueIDs))
	for _, taskID := range uniqueIDs {
		row, ok := byID[taskID]
		if !ok {
			return nil, ErrTaskNotFound
		}
		queryTasks = append(queryTasks, row)
	}

	return queryTasks, nil
}

// ListTasks retrieves query tasks matching the filter, paginated.
func (s *CatalogService) ListTasks(ctx context.Context, filter QueryTaskFilter) ([]QueryTask, error) {
	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	query := s.db.WithContext(ctx).Model(&QueryTask{})

	if filter.NameStartsWith != nil && *filter.NameStartsWith != "" {
		query = query.Where("name LIKE ?", *filter.NameStartsWith+"%")
	}

	if filter.Label != nil && *filter.Label != "" {
		// Labels column is a JSON array; the containment check differs
		// per dialect, so pick the predicate the connected driver supports.
		switch s.db.Dialector.Name() {
		case "postgres":
			operand, err := json.Marshal(Labels{*filter.Label})
			if err != nil {
				return nil, fmt.Errorf("failed to encode label filter: %w", err)
			}
			query = query.Where("labels @> ?", string(operand))
		default:
			query = query.Where(
				"EXISTS (SELECT 1 FROM json_each(query_tasks.labels) WHERE json_each.value = ?)",
				*filter.Label,
			)
		}
	}

	var queryTasks []QueryTask
	result := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&queryTasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list query tasks: %w", result.Error)
	}

	// Return empty slice instead of error when no tasks found
	return queryTasks, nil
}

// UpdateLabels replaces the labels of a query task. Name and Query are
// deliberately not updatable; rows are write-once like the records they carry.
func (s *CatalogService) UpdateLabels(ctx context.Context, taskID uuid.UUID, labels []string) error {
	if taskID == uuid.Nil {
		return fmt.Errorf("task ID cannot be nil")
	}

	result := s.db.WithContext(ctx).Model(&QueryTask{}).
		Where("id = ?", taskID).
		Update("labels", Labels(labels))
	if result.Error != nil {
		return fmt.Errorf("failed to update labels: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a query task from the catalog.
func (s *CatalogService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if taskID == uuid.Nil {
		return fmt.Errorf("task ID cannot be nil")
	}

	result := s.db.WithContext(ctx).Delete(&QueryTask{}, "id = ?", taskID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete query task: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

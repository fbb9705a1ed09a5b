package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, sqlMock
}

func TestCatalogService_CreateTask(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`INSERT INTO "query_tasks"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "smoke-1", "MATCH (n) RETURN count(n)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	sqlMock.ExpectCommit()

	queryTask, err := service.CreateTask(ctx, &CreateQueryTaskDTO{
		Name:   "smoke-1",
		Query:  "MATCH (n) RETURN count(n)",
		Labels: []string{"smoke"},
	})
	assert.NoError(t, err)
	assert.NotNil(t, queryTask)
	assert.NotEqual(t, uuid.Nil, queryTask.ID)
	assert.Equal(t, "smoke-1", queryTask.Name)
	assert.Equal(t, "MATCH (n) RETURN count(n)", queryTask.Query)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_CreateTask_NilRequest(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewCatalogService(db)

	_, err := service.CreateTask(context.Background(), nil)
	assert.Error(t, err)
}

func TestCatalogService_CreateTasks(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`INSERT INTO "query_tasks"`).
		WillReturnResult(sqlmock.NewResult(1, 2))
	sqlMock.ExpectCommit()

	taskIDs, err := service.CreateTasks(ctx, []CreateQueryTaskDTO{
		{Name: "warm-up", Query: "RETURN 1"},
		{Name: "count", Query: "MATCH (n) RETURN count(n)"},
	})
	assert.NoError(t, err)
	assert.Len(t, taskIDs, 2)
	for _, id := range taskIDs {
		assert.NotEqual(t, uuid.Nil, id)
	}
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_CreateTasks_Empty(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewCatalogService(db)

	taskIDs, err := service.CreateTasks(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, taskIDs)
}

func TestCatalogService_GetTaskByID(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	taskID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE id = \$1`).
		WithArgs(taskID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query", "labels"}).
			AddRow(taskID, "smoke-1", "RETURN 1", []byte(`["smoke"]`)))

	queryTask, err := service.GetTaskByID(ctx, taskID)
	assert.NoError(t, err)
	assert.NotNil(t, queryTask)
	assert.Equal(t, taskID, queryTask.ID)
	assert.Equal(t, "RETURN 1", queryTask.Query)
	assert.Equal(t, Labels{"smoke"}, queryTask.Labels)
}

func TestCatalogService_GetTaskByID_NotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	taskID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE id = \$1`).
		WithArgs(taskID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.GetTaskByID(context.Background(), taskID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCatalogService_GetTaskByID_NilID(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewCatalogService(db)

	_, err := service.GetTaskByID(context.Background(), uuid.Nil)
	assert.Error(t, err)
}

func TestCatalogService_GetTasksByIDs_DuplicateIDsCollapse(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	taskID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE id IN`).
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query"}).
			AddRow(taskID, "dup", "RETURN 1"))

	queryTasks, err := service.GetTasksByIDs(context.Background(), []uuid.UUID{taskID, taskID})
	assert.NoError(t, err)
	assert.Len(t, queryTasks, 1)
	assert.Equal(t, taskID, queryTasks[0].ID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_GetTasksByIDs_PartialResultIsNotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	wanted := []uuid.UUID{uuid.New(), uuid.New()}
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query"}).
			AddRow(wanted[0], "only-one", "RETURN 1"))

	_, err := service.GetTasksByIDs(context.Background(), wanted)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCatalogService_ListTasks(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query"}).
			AddRow(uuid.New(), "smoke-1", "RETURN 1").
			AddRow(uuid.New(), "smoke-2", "RETURN 2"))

	queryTasks, err := service.ListTasks(ctx, QueryTaskFilter{})
	assert.NoError(t, err)
	assert.Len(t, queryTasks, 2)
}

func TestCatalogService_ListTasks_NamePrefixFilter(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	prefix := "smoke"
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE name LIKE \$1`).
		WithArgs("smoke%", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query"}).
			AddRow(uuid.New(), "smoke-1", "RETURN 1"))

	queryTasks, err := service.ListTasks(ctx, QueryTaskFilter{NameStartsWith: &prefix})
	assert.NoError(t, err)
	assert.Len(t, queryTasks, 1)
	assert.Equal(t, "smoke-1", queryTasks[0].Name)
}

func TestCatalogService_ListTasks_LabelFilter(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)
	ctx := context.Background()

	label := "smoke"
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE labels @> \$1`).
		WithArgs(`["smoke"]`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query", "labels"}).
			AddRow(uuid.New(), "smoke-1", "RETURN 1", []byte(`["smoke"]`)))

	queryTasks, err := service.ListTasks(ctx, QueryTaskFilter{Label: &label})
	assert.NoError(t, err)
	assert.Len(t, queryTasks, 1)
	assert.Equal(t, Labels{"smoke"}, queryTasks[0].Labels)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_ListTasks_LabelFilterEscapesQuotes(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	label := `nightly"perf`
	sqlMock.ExpectQuery(`SELECT \* FROM "query_tasks" WHERE labels @> \$1`).
		WithArgs(`["nightly\"perf"]`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "query"}))

	_, err := service.ListTasks(context.Background(), QueryTaskFilter{Label: &label})
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_UpdateLabels(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	taskID := uuid.New()
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`UPDATE "query_tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err := service.UpdateLabels(context.Background(), taskID, []string{"nightly"})
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_UpdateLabels_NotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`UPDATE "query_tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectCommit()

	err := service.UpdateLabels(context.Background(), uuid.New(), []string{"nightly"})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCatalogService_DeleteTask(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	taskID := uuid.New()
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`DELETE FROM "query_tasks" WHERE id = \$1`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err := service.DeleteTask(context.Background(), taskID)
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogService_DeleteTask_NotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewCatalogService(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`DELETE FROM "query_tasks" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectCommit()

	err := service.DeleteTask(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

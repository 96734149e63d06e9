package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLite opens a private in-memory database with the schema applied.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := repository.OpenSQLite(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() { _ = repository.Close(db) })
	return db
}

func createTasks(t *testing.T, repo *repository.TaskRepository, titles ...string) []*model.Task {
	t.Helper()
	out := make([]*model.Task, 0, len(titles))
	for _, title := range titles {
		task, err := repo.Create(context.Background(), repository.CreateTaskInput{Title: title})
		require.NoError(t, err)
		out = append(out, task)
	}
	return out
}

func columnTitles(t *testing.T, repo *repository.TaskRepository, status model.Status) []string {
	t.Helper()
	list, err := repo.ListByStatus(context.Background(), status)
	require.NoError(t, err)
	out := make([]string, len(list))
	for i, task := range list {
		out[i] = task.Title
	}
	return out
}

// assertBoardDense checks every column holds exactly positions 0..n-1.
func assertBoardDense(t *testing.T, repo *repository.TaskRepository) {
	t.Helper()
	for _, status := range model.Statuses {
		list, err := repo.ListByStatus(context.Background(), status)
		require.NoError(t, err)
		for i, task := range list {
			assert.Equal(t, i, task.Position, "column %s task %s", status, task.Title)
		}
	}
}

func intPtr(v int) *int { return &v }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

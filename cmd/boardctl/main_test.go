package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/server"
)

func startAPI(t *testing.T) (*httptest.Server, *repository.TaskRepository) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.OpenSQLite(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() { _ = repository.Close(db) })

	srv := httptest.NewServer(server.NewEngine(&config.Config{}, db, nil, logger.Nop()))
	t.Cleanup(srv.Close)
	return srv, repository.NewTaskRepository(db, logger.Nop())
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := rootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBoardctl_CreateAndMove(t *testing.T) {
	srv, repo := startAPI(t)
	cfg := &config.Config{APIURL: srv.URL}

	out, err := run(t, cfg, "create", "write tests")
	require.NoError(t, err)
	assert.Contains(t, out, "TODO/0")

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	out, err = run(t, cfg, "move", tasks[0].ID.String(), "testing")
	require.NoError(t, err)
	assert.Contains(t, out, "TESTING (1)")
	assert.Contains(t, out, "write tests")

	moved, err := repo.GetByID(context.Background(), tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "TESTING", string(moved.Status))

	out, err = run(t, cfg, "move", tasks[0].ID.String(), "TESTING")
	require.NoError(t, err)
	assert.Contains(t, out, "already in place")
}

func TestBoardctl_MoveUnknownTask(t *testing.T) {
	srv, _ := startAPI(t)

	_, err := run(t, &config.Config{APIURL: srv.URL}, "move", uuid.NewString(), "DONE")
	assert.Error(t, err)

	_, err = run(t, &config.Config{APIURL: srv.URL}, "move", "nope", "DONE")
	assert.ErrorContains(t, err, "invalid task id")
}

func TestBoardctl_LabelsAndAssignees(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := &config.Config{APIURL: srv.URL}

	body := `{"name":"bug","color":"` + model.LabelColors[0] + `"}`
	resp, err := http.Post(srv.URL+"/labels", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/assignees", "application/json", strings.NewReader(`{"name":"Sam"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out, err := run(t, cfg, "labels")
	require.NoError(t, err)
	assert.Contains(t, out, "bug")

	out, err = run(t, cfg, "assignees")
	require.NoError(t, err)
	assert.Contains(t, out, "Sam")
}

func TestBoardctl_Token(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTExpiryHours: 1}

	out, err := run(t, cfg, "token", "ci-bot", "--ttl", "10m")
	require.NoError(t, err)

	clientID, err := auth.ParseToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", clientID)
}

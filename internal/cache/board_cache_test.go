package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/logger"
	"taskboard/internal/model"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func countingLoader(calls *int, board *model.Board) LoadFunc {
	return func(ctx context.Context) (*model.Board, error) {
		*calls++
		return board, nil
	}
}

func sampleBoard() *model.Board {
	return &model.Board{
		Tasks: []model.Task{
			{ID: uuid.New(), Title: "A", Status: model.StatusTodo, Position: 0, Version: 1},
			{ID: uuid.New(), Title: "B", Status: model.StatusDone, Position: 0, Version: 3},
		},
		Labels:    []model.Label{},
		Assignees: []model.Assignee{},
	}
}

func TestBoardCache_MissThenHit(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	ctx := context.Background()
	want := sampleBoard()

	var calls int
	got, err := c.Board(ctx, countingLoader(&calls, want))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Same(t, want, got)

	ttl := mr.TTL(boardKey(0))
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)

	cached, err := c.Board(ctx, countingLoader(&calls, want))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "cached read must not hit the loader")
	require.Len(t, cached.Tasks, 2)
	assert.Equal(t, want.Tasks[1].ID, cached.Tasks[1].ID)
	assert.Equal(t, 3, cached.Tasks[1].Version)
}

func TestBoardCache_Invalidate(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	ctx := context.Background()

	var calls int
	_, err := c.Board(ctx, countingLoader(&calls, sampleBoard()))
	require.NoError(t, err)
	assert.True(t, mr.Exists(boardKey(0)))

	c.Invalidate(ctx)
	assert.False(t, mr.Exists(boardKey(0)))

	_, err = c.Board(ctx, countingLoader(&calls, sampleBoard()))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestBoardCache_CorruptEntryIsDropped(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	require.NoError(t, mr.Set(boardKey(0), "{not json"))

	var calls int
	_, err := c.Board(context.Background(), countingLoader(&calls, sampleBoard()))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBoardCache_PassThroughWithoutRedis(t *testing.T) {
	c := NewBoardCache(nil, time.Minute, logger.Nop())
	assert.False(t, c.Enabled())

	var calls int
	for i := 0; i < 3; i++ {
		_, err := c.Board(context.Background(), countingLoader(&calls, sampleBoard()))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	c.Invalidate(context.Background())
}

func TestBoardCache_LoaderErrorNotCached(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	boom := errors.New("db down")

	_, err := c.Board(context.Background(), func(ctx context.Context) (*model.Board, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(boardKey(0)))
}

func TestBoardCache_InvalidateDuringLoadDiscardsStaleBoard(t *testing.T) {
	_, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	ctx := context.Background()

	stale := sampleBoard()
	stale.Tasks[0].Version = 1
	// a write commits and invalidates while this read is still loading
	_, err := c.Board(ctx, func(ctx context.Context) (*model.Board, error) {
		c.Invalidate(ctx)
		return stale, nil
	})
	require.NoError(t, err)

	fresh := sampleBoard()
	fresh.Tasks[0].Version = 2
	var calls int
	got, err := c.Board(ctx, countingLoader(&calls, fresh))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, got.Tasks[0].Version)

	again, err := c.Board(ctx, countingLoader(&calls, fresh))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, again.Tasks[0].Version)
}

func TestBoardCache_RedisDownFallsBack(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewBoardCache(client, time.Minute, logger.Nop())
	mr.Close()

	var calls int
	board, err := c.Board(context.Background(), countingLoader(&calls, sampleBoard()))
	require.NoError(t, err)
	assert.NotNil(t, board)
	assert.Equal(t, 1, calls)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient("", "", 0))
}

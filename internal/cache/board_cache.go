package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/internal/logger"
	"taskboard/internal/model"
)

const genKey = "taskboard:board:gen"

// boardKey names the entry for one cache generation. Invalidate bumps the
// generation, so a read that started before it can only write a key nobody
// reads again.
func boardKey(gen int64) string {
	return "taskboard:board:" + strconv.FormatInt(gen, 10)
}

// LoadFunc reads the board from the backing store.
type LoadFunc func(ctx context.Context) (*model.Board, error)

// BoardCache keeps the last board read in redis. A nil client or a zero TTL
// turns it into a pass-through, and redis failures fall back to the loader.
type BoardCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

func NewBoardCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *BoardCache {
	if ttl < 0 {
		ttl = 0
	}
	return &BoardCache{redis: client, ttl: ttl, log: log}
}

// NewRedisClient returns nil when addr is empty.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func (c *BoardCache) Enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

func (c *BoardCache) Board(ctx context.Context, load LoadFunc) (*model.Board, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return load(ctx)
	}
	if board, ok := c.load(ctx, gen); ok {
		return board, nil
	}
	board, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, gen, board)
	return board, nil
}

// Invalidate drops the cached board. Call after every committed write.
func (c *BoardCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	gen, err := c.redis.Incr(ctx, genKey).Result()
	if err != nil {
		c.log.Warnw("board_cache_evict_failed", "error", err)
		return
	}
	if err := c.redis.Del(ctx, boardKey(gen-1)).Err(); err != nil {
		c.log.Warnw("board_cache_evict_failed", "error", err)
	}
}

func (c *BoardCache) generation(ctx context.Context) (int64, bool) {
	if !c.Enabled() {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warnw("board_cache_read_failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (c *BoardCache) load(ctx context.Context, gen int64) (*model.Board, bool) {
	key := boardKey(gen)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnw("board_cache_read_failed", "error", err)
		}
		return nil, false
	}
	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return &board, true
}

func (c *BoardCache) store(ctx context.Context, gen int64, board *model.Board) {
	data, err := json.Marshal(board)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, boardKey(gen), data, c.ttl).Err(); err != nil {
		c.log.Warnw("board_cache_write_failed", "error", err)
	}
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"

	"github.com/lox/whot/internal/game"
)

// DefaultRedisRetries bounds optimistic retries of a single Update
const DefaultRedisRetries = 16

// Redis keeps each room as a JSON string under prefix+"room:"+id and the set
// of room ids under prefix+"rooms". Updates are optimistic transactions that
// WATCH the room key and retry when another writer commits first.
type Redis struct {
	client  *redis.Client
	prefix  string
	retries int
	logger  *log.Logger
}

var _ Store = (*Redis)(nil)

// RedisOption configures a Redis store
type RedisOption func(*Redis)

// WithPrefix namespaces every key the store touches
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithRetries sets how many times Update retries after losing a race
func WithRetries(n int) RedisOption {
	return func(r *Redis) { r.retries = n }
}

// NewRedis wraps an existing client. The caller keeps ownership of the
// client's lifecycle unless Close is called.
func NewRedis(client *redis.Client, logger *log.Logger, opts ...RedisOption) *Redis {
	r := &Redis{
		client:  client,
		prefix:  "whot:",
		retries: DefaultRedisRetries,
		logger:  logger.WithPrefix("redis"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DialRedis connects to addr and checks the connection with PING
func DialRedis(ctx context.Context, addr, password string, db int, logger *log.Logger, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewRedis(client, logger, opts...), nil
}

func (r *Redis) roomKey(id string) string { return r.prefix + "room:" + id }
func (r *Redis) indexKey() string         { return r.prefix + "rooms" }

func (r *Redis) Create(ctx context.Context, g *game.Game) (*game.Game, error) {
	c, err := initial(g)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode room %s: %w", c.ID, err)
	}
	ok, err := r.client.SetNX(ctx, r.roomKey(c.ID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("create room %s: %w", c.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.ID, ErrExists)
	}
	if err := r.client.SAdd(ctx, r.indexKey(), c.ID).Err(); err != nil {
		return nil, fmt.Errorf("index room %s: %w", c.ID, err)
	}
	return c, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*game.Game, error) {
	return r.get(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) get(ctx context.Context, c getter, id string) (*game.Game, error) {
	data, err := c.Get(ctx, r.roomKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read room %s: %w", id, err)
	}
	return decodeRoom(id, data)
}

func (r *Redis) Update(ctx context.Context, id string, fn UpdateFunc) (*game.Game, error) {
	key := r.roomKey(id)
	var committed *game.Game

	txf := func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		updated, err := fn(current.Clone())
		if err != nil {
			return err
		}
		if updated, err = next(id, current, updated); err != nil {
			return err
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode room %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			committed = updated
		}
		return err
	}

	for attempt := 0; attempt <= r.retries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return committed, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		r.logger.Debug("Lost optimistic race", "room", id, "attempt", attempt+1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s after %d attempts: %w", id, r.retries+1, ErrConflict)
}

func (r *Redis) List(ctx context.Context) ([]*game.Game, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.roomKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	games := make([]*game.Game, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Indexed but deleted.
			continue
		}
		g, err := decodeRoom(ids[i], []byte(s))
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	sortRooms(games)
	return games, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// decodeRoom parses a stored snapshot and rejects one that breaks the game
// invariants, such as a hand-edited file.
func decodeRoom(id string, data []byte) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", id, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}
	return &g, nil
}

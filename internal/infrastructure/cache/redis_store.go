package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ShoppingAssistant/internal/config"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

// ErrSnapshotMissing is returned when no catalog snapshot is cached.
var ErrSnapshotMissing = errors.New("catalog snapshot not cached")

// Client is the subset of *redis.Client the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the catalog snapshot and shared lists in Redis.
type RedisStore struct {
	client      Client
	prefix      string
	snapshotTTL time.Duration
	now         func() time.Time
}

var (
	_ ports.SnapshotCache = (*RedisStore)(nil)
	_ ports.ListStore     = (*RedisStore)(nil)
)

type snapshot struct {
	SavedAt  time.Time        `json:"saved_at"`
	Products []domain.Product `json:"products"`
}

// NewClient builds a go-redis client from config.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisStore wires a client; keys are namespaced by prefix.
func NewRedisStore(client Client, prefix string, snapshotTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, snapshotTTL: snapshotTTL, now: time.Now}
}

// SaveSnapshot stores the whole catalog as one JSON document.
func (s *RedisStore) SaveSnapshot(ctx context.Context, products []domain.Product) error {
	payload, err := json.Marshal(snapshot{SavedAt: s.now().UTC(), Products: products})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key("catalog", "snapshot"), payload, s.snapshotTTL).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached catalog or ErrSnapshotMissing.
func (s *RedisStore) LoadSnapshot(ctx context.Context) ([]domain.Product, error) {
	raw, err := s.client.Get(ctx, s.key("catalog", "snapshot")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Products, nil
}

// SaveList stores a list under its id until ttl elapses (0 keeps it).
func (s *RedisStore) SaveList(ctx context.Context, list domain.ShoppingList, ttl time.Duration) error {
	if strings.TrimSpace(list.ID) == "" {
		return fmt.Errorf("shopping list has no id")
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode list %s: %w", list.ID, err)
	}
	if err := s.client.Set(ctx, s.key("list", list.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store list %s: %w", list.ID, err)
	}
	return nil
}

// LoadList returns a shared list or domain.ErrListNotFound.
func (s *RedisStore) LoadList(ctx context.Context, id string) (domain.ShoppingList, error) {
	raw, err := s.client.Get(ctx, s.key("list", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ShoppingList{}, fmt.Errorf("list %s: %w", id, domain.ErrListNotFound)
	}
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("read list %s: %w", id, err)
	}

	var list domain.ShoppingList
	if err := json.Unmarshal(raw, &list); err != nil {
		return domain.ShoppingList{}, fmt.Errorf("decode list %s: %w", id, err)
	}
	return list, nil
}

func (s *RedisStore) key(parts ...string) string {
	return s.prefix + strings.Join(parts, ":")
}

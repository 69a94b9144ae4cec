// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/visitdesk/visitdesk/internal/config"
	"github.com/visitdesk/visitdesk/internal/models"
)

// Common errors
var (
	ErrNotFound    = errors.New("visit not found")
	ErrDuplicateID = errors.New("duplicate visit id")
)

// Repository implements the repository interface with Redis storage. Each
// visit is stored as a JSON value; a separate list keeps the newest-first
// ordering (LPUSH on create mirrors the in-memory prepend).
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.VisitTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// visitKey returns the Redis key for a visit
func (r *Repository) visitKey(id string) string {
	return fmt.Sprintf("%svisits:%s", r.keyPrefix, id)
}

// orderKey returns the Redis key for the newest-first ordering list
func (r *Repository) orderKey() string {
	return fmt.Sprintf("%svisits:order", r.keyPrefix)
}

// CreateVisit prepends a new visit
func (r *Repository) CreateVisit(ctx context.Context, visit *models.Visit) error {
	key := r.visitKey(visit.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check if visit exists: %w", err)
	}
	if exists > 0 {
		return ErrDuplicateID
	}

	data, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("failed to marshal visit: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, data, r.ttl)
	pipe.LPush(ctx, r.orderKey(), visit.ID)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.orderKey(), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save visit: %w", err)
	}

	return nil
}

// UpdateVisit replaces the stored visit with a matching ID. Unknown IDs are a
// silent no-op.
func (r *Repository) UpdateVisit(ctx context.Context, visit *models.Visit) error {
	key := r.visitKey(visit.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check if visit exists: %w", err)
	}
	if exists == 0 {
		return nil
	}

	data, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("failed to marshal visit: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}

	return nil
}

// GetVisit retrieves a visit by ID
func (r *Repository) GetVisit(ctx context.Context, id string) (*models.Visit, error) {
	data, err := r.client.Get(ctx, r.visitKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	var visit models.Visit
	if err := json.Unmarshal(data, &visit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal visit: %w", err)
	}

	return &visit, nil
}

// ListVisits returns all visits, newest first
func (r *Repository) ListVisits(ctx context.Context) ([]*models.Visit, error) {
	ids, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	if len(ids) == 0 {
		return []*models.Visit{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.visitKey(id)
	}

	// MGET retrieves all visit data in a single roundtrip
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get visit data: %w", err)
	}

	visits := make([]*models.Visit, 0, len(values))
	for _, v := range values {
		if v == nil {
			// Expired value still present in the order list
			continue
		}

		strData, ok := v.(string)
		if !ok {
			continue
		}

		var visit models.Visit
		if err := json.Unmarshal([]byte(strData), &visit); err != nil {
			continue
		}

		visits = append(visits, &visit)
	}

	return visits, nil
}

// DeleteVisit removes a visit by ID. Unknown IDs are a silent no-op.
func (r *Repository) DeleteVisit(ctx context.Context, id string) error {
	key := r.visitKey(id)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check if visit exists: %w", err)
	}
	if exists == 0 {
		return nil
	}

	// Delete the value and its order entry in one operation
	pipe := r.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.LRem(ctx, r.orderKey(), 0, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}

	return nil
}

// Package repository provides the initialization for repository implementations
package repository

import (
	"github.com/visitdesk/visitdesk/internal/config"
	"github.com/visitdesk/visitdesk/internal/repository/memory"
	"github.com/visitdesk/visitdesk/internal/repository/redis"
)

// Constructors are registered in init so the factory itself stays free of
// implementation imports in its signature.
var (
	newRedisRepository  func(cfg config.RedisConfig) (Repository, error)
	newMemoryRepository func() Repository
)

func init() {
	newRedisRepository = func(cfg config.RedisConfig) (Repository, error) {
		return redis.NewRepository(cfg)
	}

	newMemoryRepository = func() Repository {
		return memory.NewRepository()
	}
}

// NewRepository selects a backend from configuration. The in-memory store is
// the default; Redis is opt-in.
func NewRepository(cfg config.RedisConfig) (Repository, error) {
	if cfg.Enabled {
		return newRedisRepository(cfg)
	}
	return newMemoryRepository(), nil
}

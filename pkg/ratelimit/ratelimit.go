// Copyright 2025 Atelier Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atelier-hq/atelier/pkg/cache"
)

// Config 限流配置
type Config struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// DefaultConfig 返回默认限流配置
func DefaultConfig() *Config {
	return &Config{
		RequestsPerWindow: 100,
		WindowDuration:    time.Minute,
	}
}

// ILimiter 定义限流器接口（抽象），便于测试替换
type ILimiter interface {
	// Allow 判断 key 在当前窗口内是否允许再次请求
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter Redis 固定窗口限流实现，多实例共享计数
type RedisLimiter struct {
	cache  cache.ICache
	config *Config
	prefix string
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(c cache.ICache, config *Config, prefix string) *RedisLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		cache:  c,
		config: config,
		prefix: prefix,
	}
}

// Allow 判断是否允许请求
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.prefix, key)

	count, err := rl.cache.Incr(ctx, redisKey).Result()
	if err != nil {
		// Redis 故障时放行，避免限流器拖垮主流程
		return true, fmt.Errorf("redis error: %w", err)
	}
	if count == 1 {
		rl.cache.Expire(ctx, redisKey, rl.config.WindowDuration)
	}

	return count <= int64(rl.config.RequestsPerWindow), nil
}

// MemoryLimiter 进程内固定窗口限流实现，进程重启即清零
type MemoryLimiter struct {
	config  *Config
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter(config *Config) *MemoryLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &MemoryLimiter{
		config:  config,
		windows: make(map[string]*window),
	}
}

// Allow 判断是否允许请求
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	w, ok := ml.windows[key]
	if !ok || now.After(w.resetAt) {
		ml.windows[key] = &window{count: 1, resetAt: now.Add(ml.config.WindowDuration)}
		return true, nil
	}

	w.count++
	return w.count <= ml.config.RequestsPerWindow, nil
}

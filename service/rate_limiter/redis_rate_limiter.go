/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis的全局限流服务，按分钟窗口限制请求总量
 * @architecture 工具层 - 提供分布式限流能力
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 请求到达 -> Redis计数 -> 判断是否超限 -> 超限返回429
 * @rules 使用Redis INCR和EXPIRE实现滑动窗口限流；Redis不可用时放行并记录日志
 * @dependencies github.com/go-redis/redis/v8
 * @refs api/routes.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// 全局限流窗口（秒）
const windowSeconds = 60

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`   // 是否允许请求
	Limit     int   `json:"limit"`     // 限制数量
	Remaining int   `json:"remaining"` // 剩余数量
	ResetAt   int64 `json:"reset_at"`  // 重置时间（Unix时间戳）
}

// RedisRateLimiter Redis限流器
type RedisRateLimiter struct {
	client      *redis.Client
	maxRequests int
}

// NewRedisRateLimiter 创建Redis限流器，复用已建立的队列客户端配置
func NewRedisRateLimiter(client *redis.Client, maxRequests int) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, maxRequests: maxRequests}
}

// Check 检查当前窗口是否超限
func (r *RedisRateLimiter) Check(ctx context.Context) (*RateLimitResult, error) {
	key := r.buildKey()

	// 使用Lua脚本实现原子性限流检查
	script := `
		local key = KEYS[1]
		local max_requests = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		if current >= max_requests then
			local ttl = redis.call('TTL', key)
			if ttl == -1 then
				ttl = window
			end
			return {0, current, ttl}
		end

		local new_count = redis.call('INCR', key)
		if new_count == 1 then
			redis.call('EXPIRE', key, window)
		end

		local ttl = redis.call('TTL', key)
		if ttl == -1 then
			ttl = window
		end

		return {1, new_count, ttl}
	`

	result, err := r.client.Eval(ctx, script, []string{key}, r.maxRequests, windowSeconds).Result()
	if err != nil {
		return nil, fmt.Errorf("限流检查失败: %w", err)
	}

	results := result.([]interface{})
	allowed := results[0].(int64) == 1
	currentCount := int(results[1].(int64))
	ttl := int(results[2].(int64))

	remaining := r.maxRequests - currentCount
	if remaining < 0 {
		remaining = 0
	}

	if !allowed {
		slog.Warn("请求超过全局限流限制", "limit", r.maxRequests, "window_seconds", windowSeconds)
	}

	return &RateLimitResult{
		Allowed:   allowed,
		Limit:     r.maxRequests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
	}, nil
}

// buildKey 构造当前窗口的限流Key
func (r *RedisRateLimiter) buildKey() string {
	currentWindow := time.Now().Unix() / windowSeconds
	return fmt.Sprintf("rate_limit:global:%d", currentWindow)
}

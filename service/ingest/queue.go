/*
 * @module service/ingest/queue
 * @description 采集任务队列，抽象Broker接口并提供Redis列表实现和进程内实现
 * @architecture 适配器模式 - 封装消息中间件，提供统一的入队/消费接口
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 入队 -> 工作器消费 -> 失败按指数退避重试 -> 重试耗尽后丢弃
 * @rules 固定3次尝试，退避从2秒起按2的幂增长；重试由队列层负责，处理函数保持无状态
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs service/ingest/worker.go, service/dataset
 */

package ingest

import (
	"context"
	"datasteward-service/service/models"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	queueKey    = "queue:dataset-ingest"
	maxAttempts = 3
	backoffBase = 2 * time.Second
)

// Handler 任务处理函数
type Handler func(ctx context.Context, job *models.QueueJob) error

// Broker 队列中间件抽象，使中间件可替换
type Broker interface {
	// Enqueue 任务入队
	Enqueue(ctx context.Context, job *models.QueueJob) error
	// Consume 以固定并发度消费任务，阻塞直到ctx取消
	Consume(ctx context.Context, concurrency int, handler Handler)
	// Ping 检查中间件连通性
	Ping(ctx context.Context) error
	// Close 关闭连接
	Close() error
}

// backoffDelay 第attempt次失败后的重试延迟
func backoffDelay(attempt int) time.Duration {
	return backoffBase << attempt
}

// RedisBroker 基于Redis列表的队列实现
type RedisBroker struct {
	client *redis.Client
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker 创建Redis队列，连接失败时返回错误
func NewRedisBroker(redisURL string) (*RedisBroker, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	slog.Info("采集队列初始化成功", "redis_addr", opts.Addr, "queue", queueKey)
	return &RedisBroker{client: client}, nil
}

// parseRedisURL 解析Redis地址，兼容redis://host:port和host:port两种格式
func parseRedisURL(redisURL string) (*redis.Options, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("解析Redis地址失败: %w", err)
		}
		return opts, nil
	}
	addr := redisURL
	if !strings.Contains(addr, ":") {
		addr += ":6379"
	}
	return &redis.Options{Addr: addr}, nil
}

// Enqueue 任务序列化后推入队列
func (b *RedisBroker) Enqueue(ctx context.Context, job *models.QueueJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("序列化任务失败: %w", err)
	}
	if err := b.client.LPush(ctx, queueKey, payload).Err(); err != nil {
		return fmt.Errorf("任务入队失败: %w", err)
	}
	slog.Info("任务已入队", "dataset_id", job.DatasetID, "action", job.Action, "attempt", job.Attempt)
	return nil
}

// Consume 启动concurrency个消费协程，BRPOP阻塞拉取任务
func (b *RedisBroker) Consume(ctx context.Context, concurrency int, handler Handler) {
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result, err := b.client.BRPop(ctx, 2*time.Second, queueKey).Result()
				if err != nil {
					if err == redis.Nil || ctx.Err() != nil {
						continue
					}
					slog.Error("拉取任务失败", "error", err)
					time.Sleep(time.Second)
					continue
				}

				// BRPOP返回 [key, value]
				if len(result) < 2 {
					continue
				}
				var job models.QueueJob
				if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
					slog.Error("解析任务失败", "error", err)
					continue
				}

				b.dispatch(ctx, &job, handler)
			}
		}()
	}
	wg.Wait()
}

// dispatch 执行任务，失败时按退避策略重新入队
func (b *RedisBroker) dispatch(ctx context.Context, job *models.QueueJob, handler Handler) {
	if err := handler(ctx, job); err != nil {
		if job.Attempt+1 >= maxAttempts {
			slog.Error("任务重试耗尽", "dataset_id", job.DatasetID, "attempts", job.Attempt+1, "error", err)
			return
		}

		delay := backoffDelay(job.Attempt)
		retry := *job
		retry.Attempt++
		slog.Warn("任务失败，计划重试", "dataset_id", job.DatasetID, "attempt", retry.Attempt, "delay", delay, "error", err)

		go func() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if enqueueErr := b.Enqueue(ctx, &retry); enqueueErr != nil {
				slog.Error("任务重新入队失败", "dataset_id", retry.DatasetID, "error", enqueueErr)
			}
		}()
	}
}

// Ping 检查Redis连通性
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Client 暴露底层Redis客户端，供限流器和分布式锁复用连接
func (b *RedisBroker) Client() *redis.Client {
	return b.client
}

// Close 关闭Redis客户端
func (b *RedisBroker) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

// MemoryBroker 进程内队列实现，用于测试和无Redis的本地运行
type MemoryBroker struct {
	jobs chan *models.QueueJob
	once sync.Once
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker 创建进程内队列
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{jobs: make(chan *models.QueueJob, 128)}
}

// Enqueue 任务入队
func (b *MemoryBroker) Enqueue(ctx context.Context, job *models.QueueJob) error {
	select {
	case b.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume 消费任务，重试语义与Redis实现一致
func (b *MemoryBroker) Consume(ctx context.Context, concurrency int, handler Handler) {
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-b.jobs:
					if !ok {
						return
					}
					if err := handler(ctx, job); err != nil && job.Attempt+1 < maxAttempts {
						retry := *job
						retry.Attempt++
						go func() {
							select {
							case <-ctx.Done():
							case <-time.After(backoffDelay(job.Attempt)):
								_ = b.Enqueue(ctx, &retry)
							}
						}()
					}
				}
			}
		}()
	}
	wg.Wait()
}

// Ping 进程内队列永远可用
func (b *MemoryBroker) Ping(ctx context.Context) error {
	return nil
}

// Close 关闭任务通道
func (b *MemoryBroker) Close() error {
	b.once.Do(func() { close(b.jobs) })
	return nil
}

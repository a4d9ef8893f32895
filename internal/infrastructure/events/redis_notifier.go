// Package events publica los cambios de solicitudes y donaciones para los clientes en tiempo real.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/protrack/protrack-api/internal/application/workflow"
)

var (
	_ workflow.ChangeNotifier = (*RedisNotifier)(nil)
	_ workflow.ChangeNotifier = NopNotifier{}
)

// NewRedis crea el cliente y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Publisher subconjunto de *redis.Client usado para publicar.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publica cada cambio como JSON en un canal pub/sub.
type RedisNotifier struct {
	client  Publisher
	channel string
}

// NewRedisNotifier construye el notificador sobre el canal dado.
func NewRedisNotifier(client Publisher, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Publish(ctx context.Context, change workflow.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar en %s: %w", n.channel, err)
	}
	return nil
}

// NopNotifier descarta los cambios (REDIS_URL vacío).
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, workflow.Change) error { return nil }

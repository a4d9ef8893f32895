package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/infrastructure/events"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisNotifier_Publish(t *testing.T) {
	pub := &fakePublisher{}
	n := events.NewRedisNotifier(pub, "protrack:cambios")

	err := n.Publish(context.Background(), workflow.Change{
		Table: workflow.TableRequests, Action: "aprobada", CompanyID: "c1", ID: "r1",
	})
	require.NoError(t, err)
	assert.Equal(t, "protrack:cambios", pub.channel)

	var got map[string]string
	require.NoError(t, json.Unmarshal(pub.payload, &got))
	assert.Equal(t, map[string]string{"tabla": "solicitudes", "accion": "aprobada", "empresa_id": "c1", "id": "r1"}, got)
}

func TestRedisNotifier_PublishError(t *testing.T) {
	boom := errors.New("connection refused")
	n := events.NewRedisNotifier(&fakePublisher{err: boom}, "c")
	assert.ErrorIs(t, n.Publish(context.Background(), workflow.Change{}), boom)
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, events.NopNotifier{}.Publish(context.Background(), workflow.Change{}))
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := events.NewRedis(context.Background(), "no-es-una-url")
	assert.Error(t, err)
}

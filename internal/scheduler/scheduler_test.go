package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead_outreach_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url   string
	queue string
}

func (c testConfig) GetRedisURL() string       { return c.url }
func (c testConfig) GetRedisTLSInsecure() bool { return false }
func (c testConfig) GetAsynqQueueName() string { return c.queue }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }
func (c testConfig) IsSchedulerEnabled() bool  { return c.url != "" }

type recordingDeliverer struct {
	got []RegenerationPayload
	err error
}

func (d *recordingDeliverer) DeliverRegeneration(_ context.Context, p RegenerationPayload) error {
	d.got = append(d.got, p)
	return d.err
}

func TestEnqueueRegenerationWritesPendingTask(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(testConfig{url: "redis://" + mr.Addr(), queue: "outreach"})
	require.NoError(t, err)
	defer client.Close()

	payload := RegenerationPayload{LeadID: "lead-1", Feedback: "più breve", Channel: "whatsapp", RequestedAt: time.Now()}
	require.NoError(t, client.EnqueueRegeneration(context.Background(), payload))
	require.NoError(t, client.EnqueueRegeneration(context.Background(), payload))

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	n, err := rdb.LLen(context.Background(), "asynq:{outreach}:pending").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "repeated requests are not deduplicated")
}

func TestNewClientRequiresRedis(t *testing.T) {
	_, err := NewClient(testConfig{})
	assert.Error(t, err)
}

func TestRegenerationTaskRoundTrip(t *testing.T) {
	task, err := NewRegenerationTask(RegenerationPayload{LeadID: "lead-1", Feedback: "Nessun feedback fornito"})
	require.NoError(t, err)
	assert.Equal(t, TaskRegenerationRequested, task.Type())

	got, err := ParseRegenerationPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "lead-1", got.LeadID)
}

func TestHandleRegeneration(t *testing.T) {
	d := &recordingDeliverer{}
	w := &Worker{deliverer: d, log: logger.New("test")}

	task, err := NewRegenerationTask(RegenerationPayload{LeadID: "lead-1"})
	require.NoError(t, err)
	require.NoError(t, w.handleRegeneration(context.Background(), task))
	require.Len(t, d.got, 1)

	d.err = errors.New("webhook down")
	assert.Error(t, w.handleRegeneration(context.Background(), task), "delivery errors are retried by asynq")

	err = w.handleRegeneration(context.Background(), asynq.NewTask(TaskRegenerationRequested, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

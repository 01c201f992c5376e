package queue

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedPublishing_WithDelay(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	task := PurgeTask{Kind: "blog", ID: "b-1", MarkedBefore: now}

	exchange, key, msg, err := delayedPublishing(task, 90*time.Second, now)
	require.NoError(t, err)

	assert.Equal(t, "", exchange)
	assert.Equal(t, PurgeDelayQueue, key)
	assert.Equal(t, "90000", msg.Expiration)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var decoded PurgeTask
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, task, decoded)
}

func TestDelayedPublishing_Immediate(t *testing.T) {
	exchange, key, msg, err := delayedPublishing(PurgeTask{Kind: "comment", ID: "c-1"}, 0, time.Now())
	require.NoError(t, err)

	assert.Equal(t, PurgeExchange, exchange)
	assert.Equal(t, purgeRoutingKey, key)
	assert.Empty(t, msg.Expiration)
}

func TestDecodePurgeTask(t *testing.T) {
	task, err := decodePurgeTask([]byte(`{"kind":"blog","id":"b-1","marked_before":"2026-10-19T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "b-1", task.ID)

	_, err = decodePurgeTask([]byte(`{"kind":"blog"}`))
	assert.Error(t, err)

	_, err = decodePurgeTask([]byte(`not json`))
	assert.Error(t, err)
}

func TestDelayQueueArgs(t *testing.T) {
	args := delayQueueArgs()

	assert.Equal(t, PurgeExchange, args["x-dead-letter-exchange"])
	assert.Equal(t, purgeRoutingKey, args["x-dead-letter-routing-key"])
	assert.Len(t, args, 2)
	require.NoError(t, args.Validate())
}

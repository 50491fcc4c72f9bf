package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ticketya/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishAndSubscribe(t *testing.T) {
	q := NewMemoryConfirmationQueue(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := &model.PaymentConfirmation{
		OrderID:   uuid.New(),
		PaymentID: "pay-1",
		Status:    model.ConfirmationApproved,
	}
	require.NoError(t, q.PublishConfirmation(ctx, conf))

	msgs, err := q.SubscribeConfirmations(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, conf.OrderID, msg.Data.OrderID)
		assert.Equal(t, conf.PaymentID, msg.Data.PaymentID)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no delivery within 1s")
	}
}

func TestMemoryQueue_NackRequeues(t *testing.T) {
	q := NewMemoryConfirmationQueue(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := &model.PaymentConfirmation{OrderID: uuid.New(), Status: model.ConfirmationPending}
	require.NoError(t, q.PublishConfirmation(ctx, conf))

	msgs, err := q.SubscribeConfirmations(ctx)
	require.NoError(t, err)

	first := <-msgs
	first.Nack(true)

	select {
	case second := <-msgs:
		assert.Equal(t, conf.OrderID, second.Data.OrderID)
		second.Ack()
	case <-time.After(time.Second):
		t.Fatal("nack(requeue) did not redeliver")
	}
}

func TestMemoryQueue_PublishHonorsContext(t *testing.T) {
	q := NewMemoryConfirmationQueue(0) // unbuffered, no consumer
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := q.PublishConfirmation(ctx, &model.PaymentConfirmation{OrderID: uuid.New()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisStreamQueue_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").SetVal("OK")

	q, err := NewRedisStreamConfirmationQueue(db, "test-consumer", nil)
	require.NoError(t, err)

	conf := &model.PaymentConfirmation{
		OrderID:   uuid.New(),
		PaymentID: "pay-9",
		Status:    model.ConfirmationApproved,
	}
	payload, err := json.Marshal(conf)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		ID:     "*",
		Values: map[string]interface{}{"confirmation": string(payload)},
	}).SetVal("1-0")

	require.NoError(t, q.PublishConfirmation(context.Background(), conf))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStreamQueue_ExistingGroupTolerated(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").
		SetErr(busyGroupErr{})

	_, err := NewRedisStreamConfirmationQueue(db, "test-consumer", nil)
	assert.NoError(t, err)
}

type busyGroupErr struct{}

func (busyGroupErr) Error() string { return "BUSYGROUP Consumer Group name already exists" }

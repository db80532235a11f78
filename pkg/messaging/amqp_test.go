package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisherPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "availability.notices")

	require.NoError(t, p.Publish(context.Background(), "availability.recurring_dropped", []byte(`{"id":"n-1"}`)))
	require.Len(t, ch.published, 1)
	assert.Equal(t, "availability.notices", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, "availability.recurring_dropped", ch.published[0].Type)
	assert.Equal(t, amqp091.Persistent, ch.published[0].DeliveryMode)
}

func TestPublisherPublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "q")

	err := p.Publish(context.Background(), "t", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish to q")
}

func TestPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "q")

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), "t", nil), ErrClosed)
	require.NoError(t, p.Close())
}

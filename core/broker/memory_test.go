package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvsearch/qexec/core/message"
)

func TestMemoryBrokerRoundTrip(t *testing.T) {
	b := NewMemoryBroker(4)
	ctx := context.Background()

	require.NoError(t, b.Produce(ctx, message.New([]byte("one")), message.New([]byte("two"))))

	msg, _, err := b.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, "one", string(msg.Payload()))

	msg, _, err = b.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, "two", string(msg.Payload()))

	msg, _, err = b.Consume(ctx)
	require.NoError(t, err)
	require.Nil(t, msg)

	require.NoError(t, b.Close())
}

func TestMemoryBrokerProduceCanceled(t *testing.T) {
	b := NewMemoryBroker(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Produce(ctx, message.New([]byte("x")))
	require.ErrorIs(t, err, context.Canceled)
}

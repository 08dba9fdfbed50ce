package broker

import (
	"context"

	"github.com/kvsearch/qexec/core/message"
)

// MemoryBroker is an in-process, channel-backed Broker: the offload
// worker pool's request queue. No external message bus is wired into
// this engine, so every produced message is simply handed back through
// the same process's channel.
type MemoryBroker struct {
	ch chan *message.Msg
}

// NewMemoryBroker creates a MemoryBroker with the given channel capacity
// (the maximum number of offloaded requests queued before Produce
// blocks).
func NewMemoryBroker(capacity int) *MemoryBroker {
	return &MemoryBroker{ch: make(chan *message.Msg, capacity)}
}

func (m *MemoryBroker) Produce(ctx context.Context, msgs ...*message.Msg) error {
	for _, msg := range msgs {
		select {
		case m.ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *MemoryBroker) Consume(ctx context.Context) (*message.Msg, message.ID, error) {
	select {
	case msg, ok := <-m.ch:
		if !ok {
			return nil, nil, nil
		}
		return msg, nil, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
		return nil, nil, nil
	}
}

func (m *MemoryBroker) Ack(ctx context.Context, id message.ID) error { return nil }

func (m *MemoryBroker) Close() error {
	close(m.ch)
	return nil
}

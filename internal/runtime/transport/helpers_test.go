package transport

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

type fakeSubscriber struct{}

func (fakeSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (fakeSubscriber) Close() error { return nil }

type fakePublisher struct{}

func (fakePublisher) Publish(string, ...*message.Message) error { return nil }

func (fakePublisher) Close() error { return nil }

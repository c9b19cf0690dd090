package eventpublisher

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

type stubPublisher struct{}

func (stubPublisher) Publish(string, ...*message.Message) error { return nil }
func (stubPublisher) Close() error                              { return nil }

type stubSubscriber struct{}

func (stubSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (stubSubscriber) Close() error { return nil }

package runtime

import (
	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
)

type handlerRegistration struct {
	Name         string
	ConsumeQueue string
	Subscriber   message.Subscriber
	Handler      message.NoPublishHandlerFunc
}

func (s *Service) registerHandler(cfg handlerRegistration) error {
	if cfg.Handler == nil {
		return errspkg.ErrResolverRequired
	}
	if cfg.ConsumeQueue == "" {
		return errspkg.ErrConsumerNameRequired
	}
	if cfg.Subscriber == nil {
		cfg.Subscriber = s.subscriber
	}
	if cfg.Subscriber == nil {
		return errspkg.ErrSubscriberRequired
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ConsumeQueue + "-handler"
	}

	s.router.AddNoPublisherHandler(
		cfg.Name,
		cfg.ConsumeQueue,
		cfg.Subscriber,
		cfg.Handler,
	)
	return nil
}

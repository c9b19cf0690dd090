package transport

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/metadata"
)

var KafkaPublisherFactory = func(cfg kafka.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return kafka.NewPublisher(cfg, logger)
}

// EventProducerConfig returns a synchronous producer config: one attempt per
// message, no batching delay, acknowledgement from all in-sync replicas.
// Messages are partitioned by their fdk_id metadata.
func EventProducerConfig(brokers []string, timeout time.Duration, clientID string) kafka.PublisherConfig {
	saramaConfig := kafka.DefaultSaramaSyncPublisherConfig()
	saramaConfig.ClientID = clientID
	saramaConfig.Net.DialTimeout = timeout
	saramaConfig.Producer.Timeout = timeout
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 0
	saramaConfig.Producer.Flush.Frequency = 0
	saramaConfig.Producer.Flush.Messages = 0

	return kafka.PublisherConfig{
		Brokers:               brokers,
		Marshaler:             kafka.NewWithPartitioningMarshaler(partitionByFdkID),
		OverwriteSaramaConfig: saramaConfig,
		OTELEnabled:           true,
	}
}

// NewEventProducer connects a Kafka publisher for the event topic.
func NewEventProducer(brokers []string, timeout time.Duration, clientID string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	pub, err := KafkaPublisherFactory(EventProducerConfig(brokers, timeout, clientID), logger)
	if err != nil {
		return nil, fmt.Errorf("kafka: creating producer: %w", err)
	}
	return pub, nil
}

func partitionByFdkID(topic string, msg *message.Message) (string, error) {
	key := msg.Metadata.Get(metadata.FdkID)
	if key == "" {
		return "", fmt.Errorf("kafka: message %s for %s has no %s", msg.UUID, topic, metadata.FdkID)
	}
	return key, nil
}

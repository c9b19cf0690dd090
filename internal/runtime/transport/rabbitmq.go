package transport

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/ids"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/metadata"
)

var (
	AmqpConnectionFactory = func(cfg amqp.ConnectionConfig, logger watermill.LoggerAdapter) (*amqp.ConnectionWrapper, error) {
		return amqp.NewConnection(cfg, logger)
	}
	AmqpSubscriberFactory = func(cfg amqp.Config, logger watermill.LoggerAdapter, conn *amqp.ConnectionWrapper) (message.Subscriber, error) {
		return amqp.NewSubscriberWithConnection(cfg, logger, conn)
	}
)

// HarvestQueue describes the queue a publisher consumes harvest reports
// from. The queue is named after the consumer and bound to Exchange once per
// routing key. Subscribe with Queue as the topic.
type HarvestQueue struct {
	URL           string
	Exchange      string
	Queue         string
	RoutingKeys   []string
	PrefetchCount int
	// RequeueOnNack lets the broker redeliver nacked deliveries. Otherwise a
	// nack drops the delivery.
	RequeueOnNack bool
}

// HarvestQueueConfig builds the Watermill AMQP config for q.
func HarvestQueueConfig(q HarvestQueue) amqp.Config {
	return amqp.Config{
		Connection: amqp.ConnectionConfig{
			AmqpURI:   q.URL,
			Reconnect: amqp.DefaultReconnectConfig(),
		},
		Marshaler: routingKeyMarshaler{},
		Exchange: amqp.ExchangeConfig{
			GenerateName: func(string) string { return q.Exchange },
			Type:         "topic",
			Durable:      true,
		},
		Queue: amqp.QueueConfig{
			GenerateName: amqp.GenerateQueueNameTopicName,
		},
		QueueBind: amqp.QueueBindConfig{
			GenerateRoutingKey: func(topic string) string { return topic },
		},
		Consume: amqp.ConsumeConfig{
			Consumer: q.Queue,
			Qos: amqp.QosConfig{
				PrefetchCount: q.PrefetchCount,
			},
			NoRequeueOnNack: !q.RequeueOnNack,
		},
		TopologyBuilder: harvestTopology{routingKeys: q.RoutingKeys},
	}
}

// NewHarvestSubscriber connects to RabbitMQ and returns a subscriber for q.
func NewHarvestSubscriber(q HarvestQueue, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	cfg := HarvestQueueConfig(q)
	conn, err := AmqpConnectionFactory(cfg.Connection, logger)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: connecting: %w", err)
	}
	sub, err := AmqpSubscriberFactory(cfg, logger, conn)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: creating consumer: %w", err)
	}
	return sub, nil
}

// harvestTopology declares the consumer queue and binds it to the exchange
// for every routing key of the resource kind.
type harvestTopology struct {
	routingKeys []string
}

func (t harvestTopology) ExchangeDeclare(channel *amqp091.Channel, exchangeName string, cfg amqp.Config) error {
	return channel.ExchangeDeclare(
		exchangeName,
		cfg.Exchange.Type,
		cfg.Exchange.Durable,
		cfg.Exchange.AutoDeleted,
		cfg.Exchange.Internal,
		cfg.Exchange.NoWait,
		cfg.Exchange.Arguments,
	)
}

func (t harvestTopology) BuildTopology(channel *amqp091.Channel, params amqp.BuildTopologyParams, cfg amqp.Config, logger watermill.LoggerAdapter) error {
	if _, err := channel.QueueDeclare(
		params.QueueName,
		cfg.Queue.Durable,
		cfg.Queue.AutoDelete,
		cfg.Queue.Exclusive,
		cfg.Queue.NoWait,
		cfg.Queue.Arguments,
	); err != nil {
		return fmt.Errorf("declaring queue %s: %w", params.QueueName, err)
	}

	if err := t.ExchangeDeclare(channel, params.ExchangeName, cfg); err != nil {
		return fmt.Errorf("declaring exchange %s: %w", params.ExchangeName, err)
	}

	for _, key := range t.routingKeys {
		if err := channel.QueueBind(params.QueueName, key, params.ExchangeName, cfg.QueueBind.NoWait, cfg.QueueBind.Arguments); err != nil {
			return fmt.Errorf("binding %s to %s with %s: %w", params.QueueName, params.ExchangeName, key, err)
		}
		logger.Debug("Queue bound", watermill.LogFields{
			"queue":       params.QueueName,
			"exchange":    params.ExchangeName,
			"routing_key": key,
		})
	}
	return nil
}

// messageUUIDHeader is the header Watermill publishers store the message
// id in.
const messageUUIDHeader = "_watermill_message_uuid"

// routingKeyMarshaler builds messages from harvest deliveries. Every header
// is kept as metadata, non-string values in their fmt form, and the routing
// key is stamped on top. Harvesters do not set a Watermill UUID, so the AMQP
// message id or a generated one is used.
type routingKeyMarshaler struct {
	amqp.DefaultMarshaler
}

func (m routingKeyMarshaler) Unmarshal(delivery amqp091.Delivery) (*message.Message, error) {
	id, _ := delivery.Headers[messageUUIDHeader].(string)
	if id == "" {
		id = delivery.MessageId
	}
	if id == "" {
		id = ids.NewMessageID()
	}

	msg := message.NewMessage(id, delivery.Body)
	for key, value := range delivery.Headers {
		if key == messageUUIDHeader {
			continue
		}
		msg.Metadata.Set(key, fmt.Sprint(value))
	}
	msg.Metadata.Set(metadata.RoutingKey, delivery.RoutingKey)
	return msg, nil
}

// Package events publishes booking notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"ruralride/internal/service"
)

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a service.Notifier that writes each notification as a JSON message keyed by booking ID.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    logrus.FieldLogger
}

var _ service.Notifier = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher for topic on the given brokers.
// Topics are created on first write when the cluster allows it.
func NewKafkaPublisher(brokers []string, topic string, log logrus.FieldLogger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	log.WithFields(logrus.Fields{"brokers": brokers, "topic": topic}).Info("kafka publisher configured")
	return &KafkaPublisher{writer: writer, topic: topic, log: log}
}

// Notify writes n to the topic.
func (p *KafkaPublisher) Notify(ctx context.Context, n service.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(n.BookingID),
		Value: value,
		Time:  n.CreatedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", n.Type, p.topic, err)
	}

	p.log.WithFields(logrus.Fields{"type": n.Type, "booking_id": n.BookingID}).Debug("notification published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

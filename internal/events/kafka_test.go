package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruralride/internal/service"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(w *recordingWriter) *KafkaPublisher {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &KafkaPublisher{writer: w, topic: "booking-events", log: log}
}

func TestKafkaPublisher_Notify(t *testing.T) {
	w := &recordingWriter{}
	p := newTestPublisher(w)

	n := service.Notification{
		ID:        "b-1:created",
		Type:      service.NotificationBookingCreated,
		BookingID: "b-1",
		Title:     "Booking Received",
		CreatedAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Notify(context.Background(), n))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "b-1", string(msg.Key))
	assert.Equal(t, "BOOKING_CREATED", string(msg.Headers[0].Value))

	var got service.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.Type, got.Type)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := newTestPublisher(w)

	err := p.Notify(context.Background(), service.Notification{Type: service.NotificationBookingStatusChanged, BookingID: "b-1"})
	assert.ErrorContains(t, err, "broker unavailable")
}

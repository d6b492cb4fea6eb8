package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в Kafka
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает Kafka publisher событий бронирований
func NewPublisher(brokers []string, topic string, log Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("events: at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("events: topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash by key: события одного бронирования идут по порядку
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...interface{}) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Error),
	}

	return &Publisher{writer: writer, log: log}, nil
}

// PublishBookingEvent публикует событие бронирования
// Ключ сообщения — booking_id, чтобы события одного бронирования были упорядочены
func (p *Publisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.BookingID)),
		Value: payload,
		Time:  event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: failed to publish %s for booking %d: %w", event.Type, event.BookingID, err)
	}

	return nil
}

// Close закрывает соединение с Kafka
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher заглушка, используемая когда публикация событий выключена
type NopPublisher struct{}

// PublishBookingEvent ничего не делает
func (NopPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	return nil
}

package event

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Envelope is the message body published for every event.
type Envelope struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func encode(eventType string, payload interface{}, at time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Type: eventType, Payload: payload, OccurredAt: at.UTC()})
}

// Publish sends payload to the topic exchange with eventType as routing key.
func (p *EventPublisher) Publish(eventType string, payload interface{}) error {
	body, err := encode(eventType, payload, time.Now())
	if err != nil {
		return err
	}
	log.Printf("[EVENT] %s: %s", eventType, body)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

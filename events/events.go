// events.go - Publishes vote notifications to an MQTT broker
//
// Each committed vote produces one JSON message with the candidate's new
// tally. Publishing happens after the vote transaction has committed and
// never changes the outcome of the vote.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// VoteRecorded is the payload of a vote notification.
type VoteRecorded struct {
	CandidateID string    `json:"candidateId"`
	Party       string    `json:"party"`
	VoteCount   int64     `json:"voteCount"`
	VotedAt     time.Time `json:"votedAt"`
}

// Publisher sends vote notifications.
type Publisher interface {
	PublishVote(ctx context.Context, event VoteRecorded) error
	Close()
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishVote(context.Context, VoteRecorded) error { return nil }
func (Nop) Close()                                          {}

// MQTTPublisher publishes events with QoS 1 to a single topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
}

// Connect dials the broker and returns a ready publisher.
func Connect(broker, clientID, topic string, logger *slog.Logger) (*MQTTPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("mqtt_connection_lost", "error", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	logger.Info("mqtt_connected", "broker", broker, "topic", topic)
	return NewMQTTPublisher(client, topic, logger), nil
}

// NewMQTTPublisher wraps an already connected client.
func NewMQTTPublisher(client mqtt.Client, topic string, logger *slog.Logger) *MQTTPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{client: client, topic: topic, logger: logger}
}

// PublishVote sends event and waits for the broker acknowledgement.
func (p *MQTTPublisher) PublishVote(ctx context.Context, event VoteRecorded) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return errors.New("mqtt publish timed out")
	}
}

// Close disconnects from the broker, giving in-flight messages 250ms.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

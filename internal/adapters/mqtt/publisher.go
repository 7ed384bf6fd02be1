package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
)

// Publisher sends reading events to an MQTT broker, one topic per session
// This implements the ports.ReadingSink interface
type Publisher struct {
	client    paho.Client
	topicRoot string
}

// NewPublisher connects to broker (e.g. tcp://localhost:1883)
func NewPublisher(broker, clientID, topicRoot string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}

	return &Publisher{client: client, topicRoot: topicRoot}, nil
}

// Name identifies the sink in logs and metrics
func (p *Publisher) Name() string {
	return "mqtt"
}

// Publish sends one event and waits for the broker acknowledgement
func (p *Publisher) Publish(ctx context.Context, event ports.ReadingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode reading event: %w", err)
	}

	topic := Topic(p.topicRoot, event.SessionID)
	token := p.client.Publish(topic, qos, false, payload)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker
func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

// Topic returns the topic a session's readings are published on
func Topic(root, sessionID string) string {
	return root + "/" + sessionID + "/reading"
}

// Package telemetry publishes completed register writes to an MQTT broker.
package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Event is one completed command with the register contents after the write
type Event struct {
	Time      time.Time `json:"time"`
	Address   uint8     `json:"address"`
	Bit       uint8     `json:"bit"`
	Value     bool      `json:"value"`
	Data      uint8     `json:"data"`
	Direction uint8     `json:"direction"`
}

// Publisher forwards events to a topic from its own goroutine so the
// interpreter main loop never waits on the network.
type Publisher struct {
	client mqtt.Client
	topic  string
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	dropped uint32
}

// NewClient builds a paho client for broker with reconnects enabled
func NewClient(broker, clientID string) mqtt.Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	opts.OnConnect = func(_ mqtt.Client) {
		log.Info().Str("broker", broker).Msg("mqtt: connected")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt: connection lost")
	}

	return mqtt.NewClient(opts)
}

// Start connects client and begins publishing to topic
func Start(client mqtt.Client, topic string, depth int) (*Publisher, error) {
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if depth <= 0 {
		depth = 32
	}
	p := &Publisher{
		client: client,
		topic:  topic,
		events: make(chan Event, depth),
		done:   make(chan struct{}),
	}
	go p.loop()

	log.Info().Str("topic", topic).Msg("mqtt: publishing register writes")
	return p, nil
}

// Send queues ev without blocking. Events are dropped when the queue is full.
func (p *Publisher) Send(ev Event) {
	select {
	case p.events <- ev:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
	}
}

// Dropped returns the number of events lost to a full queue
func (p *Publisher) Dropped() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Stop publishes what is queued and disconnects. Send must not be called
// afterwards.
func (p *Publisher) Stop() {
	close(p.events)
	<-p.done

	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func (p *Publisher) loop() {
	defer close(p.done)

	for ev := range p.events {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Error().Err(err).Msg("mqtt: failed to marshal event")
			continue
		}

		token := p.client.Publish(p.topic, 0, false, payload)
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msg("mqtt: failed to publish event")
			continue
		}
	}
}

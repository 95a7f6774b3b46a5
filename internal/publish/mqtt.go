// Package publish forwards fired actions to an MQTT broker.
package publish

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/soar/padtrack/internal/switcher"
)

const (
	queueSize      = 32
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Payload is the JSON document published for every fired action.
type Payload struct {
	Action  string `json:"action"`
	Key     string `json:"key"`
	Edge    string `json:"edge"`
	Control string `json:"control"`
	Time    string `json:"time"`
}

// NewPayload converts a fire event into its wire form.
func NewPayload(f switcher.Fire) Payload {
	return Payload{
		Action:  f.Action,
		Key:     f.Key.String(),
		Edge:    string(f.Edge),
		Control: f.Control.String(),
		Time:    f.Time.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher sends fire events from a background goroutine so the poll loop
// never waits on the network.
type Publisher struct {
	client mqtt.Client
	topic  string
	queue  chan switcher.Fire
	done   chan struct{}
}

// Dial connects to broker. The caller owns the returned Publisher and must
// Close it.
func Dial(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.Errorf("MQTT connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrapf(err, "MQTT connect to %s", broker)
	}
	log.Printf("publish: connected to MQTT broker at %s", broker)

	p := &Publisher{
		client: client,
		topic:  topic,
		queue:  make(chan switcher.Fire, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p, nil
}

// Publish queues f. Events are dropped when the queue is full.
func (p *Publisher) Publish(f switcher.Fire) {
	select {
	case p.queue <- f:
	default:
		log.Printf("publish: queue full, dropping %q", f.Action)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for f := range p.queue {
		payload, err := json.Marshal(NewPayload(f))
		if err != nil {
			log.Printf("publish: json marshal error: %v", err)
			continue
		}
		token := p.client.Publish(p.topic, 0, false, payload)
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("publish: timed out publishing %q", f.Action)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("publish: error publishing %q: %v", f.Action, err)
		}
	}
}

// Close drains the queue and disconnects.
func (p *Publisher) Close() {
	close(p.queue)
	<-p.done
	p.client.Disconnect(250)
}

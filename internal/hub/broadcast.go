package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/soar/padtrack/internal/switcher"
)

const (
	fullSyncInterval = 5 * time.Second
	backlogSize      = 200
	eventQueueSize   = 256
)

type event struct {
	state *switcher.View
	line  string
	fire  *switcher.Fire
}

// Broadcaster fans switcher output out to all web clients. New clients get
// the latest state plus the recent log lines.
type Broadcaster struct {
	hub    *Hub
	events chan event

	mu        sync.Mutex
	lastState *switcher.View
	backlog   []string
	seq       int64
}

func NewBroadcaster(h *Hub) *Broadcaster {
	return &Broadcaster{
		hub:    h,
		events: make(chan event, eventQueueSize),
	}
}

// PublishState queues a state snapshot. It never blocks.
func (b *Broadcaster) PublishState(v switcher.View) {
	b.enqueue(event{state: &v})
}

// PublishLog queues a status line. It never blocks.
func (b *Broadcaster) PublishLog(line string) {
	b.enqueue(event{line: line})
}

// PublishFire queues a fired action. It never blocks.
func (b *Broadcaster) PublishFire(f switcher.Fire) {
	b.enqueue(event{fire: &f})
}

func (b *Broadcaster) enqueue(e event) {
	select {
	case b.events <- e:
	default:
		// Drop if the queue is full to avoid stalling the poll loop
	}
}

// Run starts the broadcaster loop and returns when ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case e := <-b.events:
			b.handle(e)

		case <-ticker.C:
			b.mu.Lock()
			state := b.lastState
			var msg *WSMessage
			if state != nil {
				b.seq++
				msg = NewStateMessage(b.seq, state)
			}
			b.mu.Unlock()
			if msg != nil && b.hub.Len() > 0 {
				b.send(msg)
			}
		}
	}
}

func (b *Broadcaster) handle(e event) {
	b.mu.Lock()
	b.seq++
	var msg *WSMessage
	switch {
	case e.state != nil:
		b.lastState = e.state
		msg = NewStateMessage(b.seq, e.state)
	case e.fire != nil:
		msg = NewFiredMessage(b.seq, e.fire)
	default:
		b.backlog = append(b.backlog, e.line)
		if len(b.backlog) > backlogSize {
			b.backlog = b.backlog[len(b.backlog)-backlogSize:]
		}
		msg = NewLogMessage(b.seq, e.line)
	}
	b.mu.Unlock()

	b.send(msg)
}

// SendInitialState sends the current state and the log backlog to a newly
// connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	var msgs []*WSMessage
	for _, line := range b.backlog {
		b.seq++
		msgs = append(msgs, NewLogMessage(b.seq, line))
	}
	if b.lastState != nil {
		b.seq++
		msgs = append(msgs, NewStateMessage(b.seq, b.lastState))
	}
	b.mu.Unlock()

	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling initial state: %v", err)
			return
		}
		if !b.hub.SendTo(c, data) {
			return
		}
	}
}

func (b *Broadcaster) send(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}
	b.hub.Broadcast(data)
}

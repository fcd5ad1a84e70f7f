// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package event provides a simple in-process pub/sub bus for submission
// lifecycle events.
package event

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventType identifies a class of events.
type EventType string

const (
	SubmissionCreatedEventType  EventType = "submission.created"
	SubmissionApprovedEventType EventType = "submission.approved"
	SubmissionRejectedEventType EventType = "submission.rejected"
)

// SubscriberID identifies a single subscription on the bus.
type SubscriberID int

// SubscriberChanSize is the buffer size of subscriber channels. Delivery to
// a subscriber with a full buffer is dropped rather than blocking the
// publisher.
const SubscriberChanSize = 20

// Event is a single event published on the bus.
type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

// NewEvent creates an event with the current timestamp.
func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

// Bus fans events out to subscribers by event type. Publishing is
// synchronous and never blocks on a slow subscriber.
type Bus struct {
	mu              sync.RWMutex
	subscribers     map[EventType]map[SubscriberID]chan Event
	lastSubID       SubscriberID
	eventsPublished *prometheus.CounterVec
	eventsDropped   prometheus.Counter
}

// NewBus creates a new event bus. A nil registerer disables metrics
// registration but the bus remains fully functional.
func NewBus(promRegistry prometheus.Registerer) *Bus {
	b := &Bus{
		subscribers: make(map[EventType]map[SubscriberID]chan Event),
	}
	promautoFactory := promauto.With(promRegistry)
	b.eventsPublished = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hashirwa_events_published_total",
			Help: "total events published by type",
		},
		[]string{"type"},
	)
	b.eventsDropped = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "hashirwa_events_dropped_total",
			Help: "total events dropped due to full subscriber buffers",
		},
	)
	return b
}

// Subscribe registers a subscriber for an event type and returns its id and
// delivery channel.
func (b *Bus) Subscribe(eventType EventType) (SubscriberID, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSubID++
	subID := b.lastSubID
	evtCh := make(chan Event, SubscriberChanSize)
	if _, ok := b.subscribers[eventType]; !ok {
		b.subscribers[eventType] = make(map[SubscriberID]chan Event)
	}
	b.subscribers[eventType][subID] = evtCh
	return subID, evtCh
}

// Unsubscribe removes a subscriber and closes its delivery channel.
func (b *Bus) Unsubscribe(eventType EventType, subID SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs, ok := b.subscribers[eventType]; ok {
		if evtCh, ok := subs[subID]; ok {
			close(evtCh)
			delete(subs, subID)
		}
	}
}

// Publish delivers an event to all subscribers of its type.
func (b *Bus) Publish(eventType EventType, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.eventsPublished.WithLabelValues(string(eventType)).Inc()
	for _, evtCh := range b.subscribers[eventType] {
		select {
		case evtCh <- evt:
		default:
			b.eventsDropped.Inc()
		}
	}
}

// Package tt provides test helpers for the continuation test suites.
package tt

import (
	continuation "github.com/raaf-ai/raaf-sub009"
)

// -----------------------------------------------------------------------------
// Event Collection Helpers
// -----------------------------------------------------------------------------

// CollectorSink records every event emitted during a session so tests
// can assert on ordering and contents.
type CollectorSink struct {
	events []continuation.Event
}

// NewCollectorSink creates an empty CollectorSink.
func NewCollectorSink() *CollectorSink {
	return &CollectorSink{}
}

// Emit implements continuation.EventSink.
func (s *CollectorSink) Emit(event continuation.Event) {
	s.events = append(s.events, event)
}

// Events returns the recorded events in emission order.
func (s *CollectorSink) Events() []continuation.Event {
	return s.events
}

// CountEventTypes counts events by type name for tests that only care
// about which events fired, not their payloads.
func CountEventTypes(events []continuation.Event) map[string]int {
	counts := make(map[string]int)
	for _, event := range events {
		switch event.(type) {
		case *continuation.RequestIssuedEvent:
			counts["RequestIssuedEvent"]++
		case *continuation.ChunkReceivedEvent:
			counts["ChunkReceivedEvent"]++
		case *continuation.ClassifiedEvent:
			counts["ClassifiedEvent"]++
		case *continuation.WarningEvent:
			counts["WarningEvent"]++
		case *continuation.ExhaustedEvent:
			counts["ExhaustedEvent"]++
		case *continuation.MergeSelectedEvent:
			counts["MergeSelectedEvent"]++
		case *continuation.FallbackEvent:
			counts["FallbackEvent"]++
		}
	}
	return counts
}

// WarningsOf filters the recorded events down to warnings.
func WarningsOf(events []continuation.Event) []*continuation.WarningEvent {
	var result []*continuation.WarningEvent
	for _, event := range events {
		if w, ok := event.(*continuation.WarningEvent); ok {
			result = append(result, w)
		}
	}
	return result
}

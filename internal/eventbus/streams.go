package eventbus

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

const (
	// StreamDIDEvents is the JetStream stream carrying every catalog
	// event (§6 "Events emitted").
	StreamDIDEvents = "DID_EVENTS"

	// SubjectPrefix namespaces catalog event subjects under the stream.
	SubjectPrefix = "did."
)

// SubjectForEvent returns the NATS subject for an event type: did.<type>,
// e.g. did.CREATE_DTS, did.email.
func SubjectForEvent(t EventType) string {
	return SubjectPrefix + string(t)
}

// EnsureStreams creates the DID_EVENTS stream if it doesn't already
// exist. Call it once before the first publish.
func EnsureStreams(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(StreamDIDEvents); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     StreamDIDEvents,
			Subjects: []string{SubjectPrefix + ">"},
			Storage:  nats.FileStorage,
			MaxMsgs:  1_000_000,
			MaxBytes: 1 << 30,
		})
		if err != nil {
			return fmt.Errorf("create %s stream: %w", StreamDIDEvents, err)
		}
	}
	return nil
}

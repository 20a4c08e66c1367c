package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/csspeek/idgen"
)

// ErrUnknownType is returned when decoding a type tag this package does not
// define.
var ErrUnknownType = errors.New("event: unknown type")

// Envelope is the wire form of an Event: a type tag plus the payload.
type Envelope struct {
	ID        string          `json:"id"` // UUIDv7
	Type      Kind            `json:"type"`
	Timestamp int64           `json:"timestamp"` // epoch milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// Wrap stamps an Event with a fresh ID and the current time.
func Wrap(ev Event) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("event: marshal %s: %w", ev.Kind(), err)
	}
	return Envelope{
		ID:        idgen.New(),
		Type:      ev.Kind(),
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}, nil
}

// Decode returns the typed Event carried by the envelope.
func (e Envelope) Decode() (Event, error) {
	var ev Event
	switch e.Type {
	case KindSampleUpdate:
		ev = &SampleUpdate{}
	case KindSampleFreeze:
		ev = &SampleFreeze{}
	case KindSessionEnd:
		return SessionEnd{}, nil
	case KindScanResult:
		ev = &ScanResult{}
	case KindStorageCleared:
		ev = &StorageCleared{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if err := json.Unmarshal(e.Data, ev); err != nil {
		return nil, fmt.Errorf("event: decode %s: %w", e.Type, err)
	}
	switch v := ev.(type) {
	case *SampleUpdate:
		return *v, nil
	case *SampleFreeze:
		return *v, nil
	case *ScanResult:
		return *v, nil
	case *StorageCleared:
		return *v, nil
	}
	return ev, nil
}

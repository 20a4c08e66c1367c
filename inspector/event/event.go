// Package event defines the messages exchanged between the inspection core
// and the surfaces around it: commands coming in, events going out.
// These are the public API contract; consumers import this package to
// decode what the sinks emit.
package event

// Kind identifies an outbound event on the wire.
type Kind string

const (
	KindSampleUpdate   Kind = "sample-update"   // throttled live readout
	KindSampleFreeze   Kind = "sample-freeze"   // click-confirmed final readout
	KindSessionEnd     Kind = "session-end"     // session terminated
	KindScanResult     Kind = "scan-result"     // one per color scan
	KindStorageCleared Kind = "storage-cleared" // one per clear-storage command
)

// Event is an outbound message. The concrete types are SampleUpdate,
// SampleFreeze, SessionEnd, ScanResult and StorageCleared.
type Event interface {
	Kind() Kind
	isEvent()
}

// Sample is the readout for one pointer position.
type Sample struct {
	FontSize   string `json:"font_size"`   // computed, e.g. "16px"
	FontRem    string `json:"font_rem"`    // relative to the root, e.g. "1.00rem"
	FontWeight string `json:"font_weight"` // computed, e.g. "400"
	TextColor  string `json:"text_color"`  // rgb()/rgba()
	TextHex    string `json:"text_hex"`
	BgColor    string `json:"bg_color"` // effective visible background
	BgHex      string `json:"bg_hex"`
}

// SampleUpdate carries the latest sample while a session is active.
type SampleUpdate struct {
	Sample
}

// SampleFreeze carries the last sample of a session ended by a click.
type SampleFreeze struct {
	Sample
}

// SessionEnd reports a session ended without freezing.
type SessionEnd struct{}

// Classification of a scanned color by its alpha channel.
type Classification string

const (
	Opaque      Classification = "opaque"
	Translucent Classification = "translucent"
)

// ScanColor is one distinct color found on the page.
type ScanColor struct {
	Value          string         `json:"value"` // exact string as found
	Hex            string         `json:"hex"`
	Classification Classification `json:"classification"`
	Property       string         `json:"property"` // first property it was seen on
}

// ScanResult is the outcome of a whole-document color scan. Translucent
// colors come first; order is otherwise scan order.
type ScanResult struct {
	Colors      []ScanColor `json:"colors"`
	Total       int         `json:"total"`
	Translucent int         `json:"translucent"`
	Opaque      int         `json:"opaque"`
	Elements    int         `json:"elements"` // elements visited
}

// StorageTarget names one kind of site data.
type StorageTarget string

const (
	StorageCookies StorageTarget = "cookies"
	StorageSession StorageTarget = "session"
	StorageLocal   StorageTarget = "local"
)

// StorageResult reports one clearing attempt. Failures carry a
// human-readable reason and are never retried.
type StorageResult struct {
	Target  StorageTarget `json:"target"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// StorageCleared reports a clear-storage command.
type StorageCleared struct {
	Results []StorageResult `json:"results"`
}

func (SampleUpdate) Kind() Kind   { return KindSampleUpdate }
func (SampleFreeze) Kind() Kind   { return KindSampleFreeze }
func (SessionEnd) Kind() Kind     { return KindSessionEnd }
func (ScanResult) Kind() Kind     { return KindScanResult }
func (StorageCleared) Kind() Kind { return KindStorageCleared }

func (SampleUpdate) isEvent()   {}
func (SampleFreeze) isEvent()   {}
func (SessionEnd) isEvent()     {}
func (ScanResult) isEvent()     {}
func (StorageCleared) isEvent() {}

package weft

import (
	"net/url"
	"time"
)

// ============================================================
// Serialization Source / Sink Protocol
// ============================================================
//
// A Source or Sink exposes one of three container shapes per node:
//   - keyed:  named fields, declaration order significant
//   - list:   ordered elements
//   - scalar: a single primitive slot
//
// Sources do not announce their shape; Decode probes the three shapes in a
// fixed priority order. Probes are non-consuming: a failed probe leaves the
// node untouched for the next attempt.

// Source is one node of a decode source.
type Source interface {
	// Keyed requests a named-field view of the node.
	Keyed() (KeyedSource, bool)
	// List requests an ordered-element view of the node.
	List() (ListSource, bool)
	// Scalar requests a single-value view of the node.
	Scalar() (ScalarSource, bool)
}

// KeyedSource is a named-field view. Keys returns field names in the order
// the source declares them; that order is observable output and must be
// reported exactly.
type KeyedSource interface {
	Keys() []string
	Field(name string) (Source, bool)
}

// ListSource is an ordered-element view.
type ListSource interface {
	Len() int
	Index(i int) Source
}

// ScalarSource is a single-value view. Each probe reports whether the node
// holds a value of that type; probing never consumes the node. Date, URL and
// Binary are only read by callers that explicitly require those types — the
// generic decoder never infers them from ambiguous scalars.
type ScalarSource interface {
	Null() bool
	Int() (int64, bool)
	Bool() (bool, bool)
	Double() (float64, bool)
	String() (string, bool)
	Date() (time.Time, bool)
	URL() (*url.URL, bool)
	Binary() ([]byte, bool)
}

// Sink receives one value as a flat event stream. Containers open with
// Begin* and close with the matching End*; object entries are announced by
// Key immediately before the entry's value events.
type Sink interface {
	Null() error
	Bool(v bool) error
	Int(v int64) error
	Double(v float64) error
	String(v string) error
	Date(v time.Time) error
	URL(v *url.URL) error
	Binary(v []byte) error

	BeginArray() error
	EndArray() error

	BeginObject() error
	Key(name string) error
	EndObject() error
}

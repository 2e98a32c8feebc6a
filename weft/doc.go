// Package weft implements the WEFT value model: a compact, order-faithful
// intermediate representation for structured data, plus the text codec
// built on it.
//
// WEFT preserves the distinctions a generic container type erases:
//   - int vs double (1 and 1.0 are different values)
//   - null vs absent
//   - object key declaration order, which is significant and survives
//     every decode/encode round trip
//
// # Data Model
//
// Scalars: null, bool, int, double, string, date, url, binary
// Containers: array (ordered), object (ordered fields)
//
// Values are immutable; derivation helpers return new Values.
//
// # Codec Protocol
//
// Decode and Encode speak a three-shape container protocol (keyed, list,
// scalar) defined by the Source and Sink interfaces. Sources don't announce
// their shape, so Decode probes in a fixed priority order; scalar nodes
// classify as null, int, bool, double then string, stopping at the first
// match. JSON and YAML bridges implement the protocol; the YAML source is
// typed through node tags, the JSON source is inherently untyped for 0/1
// booleans.
//
// # Text Syntax
//
// Null:    ~
// Bool:    true / false
// Int:     42
// Double:  1.5, nan, inf, -inf
// String:  bare_word or "quoted string"
// Date:    @2026-08-29T10:00:00Z
// URL:     <https://example.com>
// Binary:  b64"aGVsbG8="
// Array:   [1 2 3]
// Object:  {sku: a1 qty: 2}
//
// Arrays of uniform objects render as tabular blocks:
//
//	@tab [sku qty]
//	a1 2
//	b7 9
//	@end
package weft

// Package capability defines the closed set of document permissions and the
// bitmask operations used to combine and test them.
//
// Capability bits are a versioned enumeration: positions are fixed once
// published, and bits outside the known set must never be treated as granted.
// Attestation payloads carry a raw mask; callers sanitize it with [Sanitize]
// before trusting it.
package capability

import (
	"fmt"
	"strings"
)

// Mask is a set of granted capabilities encoded as bit flags.
// Combine with bitwise OR, test with [Mask.Has].
type Mask uint64

// Capability bit positions. This is a closed enumeration; new capabilities
// append at the end and existing positions never move.
const (
	View Mask = 1 << iota
	Comment
	Annotate
	Claim
	Transfer
	Delegate
	Revoke
	Admin
)

// None is the empty capability set.
const None Mask = 0

// Known is the union of every defined capability bit.
const Known = View | Comment | Annotate | Claim | Transfer | Delegate | Revoke | Admin

// names maps each bit to its canonical name, in bit order.
var names = []struct {
	bit  Mask
	name string
}{
	{View, "view"},
	{Comment, "comment"},
	{Annotate, "annotate"},
	{Claim, "claim"},
	{Transfer, "transfer"},
	{Delegate, "delegate"},
	{Revoke, "revoke"},
	{Admin, "admin"},
}

// Has reports whether every bit in c is present in m.
func (m Mask) Has(c Mask) bool {
	return m&c == c
}

// Union returns the combination of m and o.
func (m Mask) Union(o Mask) Mask {
	return m | o
}

// Sanitize strips bits outside the known enumeration. Unknown bits arrive in
// payloads produced against a newer capability version; they are dropped
// rather than granted.
func Sanitize(m Mask) Mask {
	return m & Known
}

// Names returns the names of the known capabilities set in m, in bit order.
// Unknown bits are omitted. The empty mask yields an empty slice.
func (m Mask) Names() []string {
	out := []string{}
	for _, n := range names {
		if m&n.bit != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// String returns the pipe-separated capability names in bit order, or "none"
// for the empty mask. Unknown bits are rendered as their hex value.
func (m Mask) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	for _, n := range names {
		if m&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if extra := m &^ Known; extra != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint64(extra)))
	}
	return strings.Join(parts, "|")
}

// Parse converts a pipe- or comma-separated list of capability names into a
// mask. Names are case-insensitive. "none" and the empty string parse to the
// empty mask.
func Parse(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}
	var m Mask
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		bit, ok := byName(part)
		if !ok {
			return None, fmt.Errorf("unknown capability %q", part)
		}
		m |= bit
	}
	return m, nil
}

// Names returns the canonical capability names in bit order.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.name)
	}
	return out
}

func byName(name string) (Mask, bool) {
	for _, n := range names {
		if n.name == name {
			return n.bit, true
		}
	}
	return None, false
}

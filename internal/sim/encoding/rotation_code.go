// Package encoding packs action sequences into short shareable codes.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"craftsim.ai/internal/sim/craft"
)

// codeVersion is the first byte of every decoded code.
const codeVersion = 1

// EncodeRotation returns a URL-safe code for ids: a version byte followed by
// (action id, run length) uvarint pairs. Repeated actions such as a run of
// Basic Synthesis collapse to one pair.
func EncodeRotation(ids []craft.ActionID) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	buf.WriteByte(codeVersion)
	for i := 0; i < len(ids); {
		id := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == id; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(id))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

// DecodeRotation reverses EncodeRotation. Unknown action ids are rejected.
func DecodeRotation(code string) ([]craft.ActionID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("rotation code: %w", err)
	}
	if len(raw) == 0 || raw[0] != codeVersion {
		return nil, fmt.Errorf("rotation code: unsupported version")
	}
	known := make(map[craft.ActionID]bool)
	for _, id := range craft.ActionIDs() {
		known[id] = true
	}

	var out []craft.ActionID
	for i := 1; i < len(raw); {
		id, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rotation code: bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rotation code: bad varint at %d", i)
		}
		i += n
		if id > 0xFF || !known[craft.ActionID(id)] {
			return nil, fmt.Errorf("rotation code: unknown action id %d", id)
		}
		if run == 0 || run > 1<<16 {
			return nil, fmt.Errorf("rotation code: bad run length %d", run)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, craft.ActionID(id))
		}
	}
	return out, nil
}

// ActionIDsOf maps actions to their ids.
func ActionIDsOf(list []craft.Action) []craft.ActionID {
	out := make([]craft.ActionID, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID())
	}
	return out
}

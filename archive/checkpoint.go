package archive

import (
	"fmt"
	"strconv"
)

// Checkpoint identifies a numbered snapshot point in the ledger's history.
type Checkpoint uint32

// Hex renders the checkpoint as exactly 8 zero-padded lowercase hex
// digits. The padding makes the lexicographic order of the encodings match
// the numeric order of the checkpoints.
func (c Checkpoint) Hex() string {
	return fmt.Sprintf("%08x", uint32(c))
}

// ParseCheckpointHex decodes the fixed-width hexadecimal rendering of a
// checkpoint as produced by Hex. Anything but that exact rendering,
// including uppercase digits, is rejected with ErrInvalidIdentifier.
func ParseCheckpointHex(s string) (Checkpoint, error) {
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil || Checkpoint(value).Hex() != s {
		return 0, fmt.Errorf("%w: checkpoint %q is not 8 lowercase hex digits", ErrInvalidIdentifier, s)
	}
	return Checkpoint(value), nil
}

package device

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// PacketLen is the size of every report the mouse accepts.
	PacketLen = 90

	checksumOffset = PacketLen - 2
)

// ErrEncoding occurs when a command cannot be serialised at all.
var ErrEncoding = errors.New("unable to encode command")

// packetWriter appends fixed width fields in declaration order. Multi-byte
// fields are big-endian.
type packetWriter struct {
	buf []byte
}

func (w *packetWriter) u8(v ...uint8) {
	w.buf = append(w.buf, v...)
}

func (w *packetWriter) u16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// Checksum XORs every byte from offset 2 onwards; status and transaction id
// are not covered.
func Checksum(b []byte) byte {
	var sum byte
	for i := 2; i < len(b); i++ {
		sum ^= b[i]
	}
	return sum
}

// Encode serialises cmd into a PacketLen byte report: header and body,
// zero padding, and the checksum at offset 88.
//
// A body that would run past PacketLen is truncated without complaint;
// none of the commands in this package come close.
func Encode(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("nil command: %w", ErrEncoding)
	}

	w := &packetWriter{buf: make([]byte, 0, PacketLen)}
	cmd.encode(w)

	sum := Checksum(w.buf)

	pkt := make([]byte, PacketLen)
	copy(pkt, w.buf)
	pkt[checksumOffset] = sum

	return pkt, nil
}

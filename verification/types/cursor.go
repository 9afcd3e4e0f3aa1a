package types

import (
	"encoding/binary"
	"fmt"
)

// TruncatedError is returned when a buffer ends before a required field
// could be read in full. Field names the TPM structure member that could
// not be read.
type TruncatedError struct {
	Field string
	Need  int
	Left  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s is either incorrect or data is truncated (requires at least: %d bytes, left: %d bytes)", e.Field, e.Need, e.Left)
}

// cursor reads bounds-checked fields from an untrusted byte buffer.
// Every read verifies the requested bytes fit the remaining buffer before
// the offset advances; a read may consume the final byte. On failure the
// offset stays where it was and the caller treats the decode as terminal.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor { return &cursor{buf: buf} }

func (c *cursor) remaining() int { return len(c.buf) - c.off }

// readBytes returns the next n bytes. The result aliases the underlying
// buffer, it is not a copy.
func (c *cursor) readBytes(n int, field string) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, &TruncatedError{Field: field, Need: n, Left: c.remaining()}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// skip advances over n bytes the caller does not need.
func (c *cursor) skip(n int, field string) error {
	_, err := c.readBytes(n, field)
	return err
}

func (c *cursor) readUint8(field string) (uint8, error) {
	b, err := c.readBytes(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// TPM structures are marshaled big-endian on the wire: multi-byte fields
// are copied raw and converted network-to-host.

func (c *cursor) readUint16(field string) (uint16, error) {
	b, err := c.readBytes(2, field)
	if err != nil {
		return 0, err
	}
	return NetworkToHost16(binary.NativeEndian.Uint16(b)), nil
}

func (c *cursor) readUint32(field string) (uint32, error) {
	b, err := c.readBytes(4, field)
	if err != nil {
		return 0, err
	}
	return NetworkToHost32(binary.NativeEndian.Uint32(b)), nil
}

// readSized16 reads a 16-bit big-endian size prefix followed by that many
// bytes (the TPM2B wire shape). Both the prefix and the payload are checked
// against the remaining buffer before the offset advances.
func (c *cursor) readSized16(field string) ([]byte, error) {
	if c.remaining() < 2 {
		return nil, &TruncatedError{Field: field, Need: 2, Left: c.remaining()}
	}
	size := int(NetworkToHost16(binary.NativeEndian.Uint16(c.buf[c.off:])))
	if size > c.remaining()-2 {
		return nil, &TruncatedError{Field: field, Need: 2 + size, Left: c.remaining()}
	}
	b := c.buf[c.off+2 : c.off+2+size]
	c.off += 2 + size
	return b, nil
}

package types

import (
	"encoding/binary"
	"math/bits"
)

// IsHostBigEndian reports whether the host stores integers big-endian.
// It probes how a known 16-bit pattern is laid out in memory.
func IsHostBigEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 0x0102)
	return probe[0] == 0x01
}

// SwapBytes16 reverses the byte order of v unconditionally.
func SwapBytes16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// SwapBytes32 reverses the byte order of v unconditionally.
func SwapBytes32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// SwapBytes64 reverses the byte order of v unconditionally.
func SwapBytes64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// HostToNetwork16 converts v from host to network (big-endian) byte order.
func HostToNetwork16(v uint16) uint16 {
	if IsHostBigEndian() {
		return v
	}
	return SwapBytes16(v)
}

// HostToNetwork32 converts v from host to network byte order.
func HostToNetwork32(v uint32) uint32 {
	if IsHostBigEndian() {
		return v
	}
	return SwapBytes32(v)
}

// HostToNetwork64 converts v from host to network byte order.
func HostToNetwork64(v uint64) uint64 {
	if IsHostBigEndian() {
		return v
	}
	return SwapBytes64(v)
}

// Converting from network-to-host is the same operation as host-to-network:
// either both orders match or the bytes are swapped either way. The pairs
// exist so call sites read in the direction the data actually flows.

// NetworkToHost16 converts v from network to host byte order.
func NetworkToHost16(v uint16) uint16 { return HostToNetwork16(v) }

// NetworkToHost32 converts v from network to host byte order.
func NetworkToHost32(v uint32) uint32 { return HostToNetwork32(v) }

// NetworkToHost64 converts v from network to host byte order.
func NetworkToHost64(v uint64) uint64 { return HostToNetwork64(v) }

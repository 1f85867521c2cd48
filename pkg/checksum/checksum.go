// Package checksum implements the 16-bit one's-complement Internet checksum
// (RFC 1071) used by IPv4, ICMP and UDP.
package checksum

import "encoding/binary"

var be = binary.BigEndian

// sum adds words big-endian 16-bit words of b to acc. When odd is set the
// byte following the last word is added as the high byte of a zero padded
// word.
func sum(acc uint32, b []byte, words int, odd bool) uint32 {
	for i := 0; i < words; i++ {
		acc += uint32(be.Uint16(b[i*2:]))
	}

	if odd {
		acc += uint32(b[words*2]) << 8
	}

	return acc
}

func fold(acc uint32) uint16 {
	for (acc >> 16) > 0 {
		acc = (acc >> 16) + (acc & 0xffff)
	}

	return uint16(^acc)
}

// Checksum computes the Internet checksum over the first words 16-bit words
// of buf, plus one trailing byte when odd is set.
func Checksum(buf []byte, words int, odd bool) uint16 {
	return fold(sum(0, buf, words, odd))
}

// Pair computes the checksum of header followed by payload as if they were
// contiguous. header must have an even length; words and odd describe how
// much of payload is covered.
func Pair(header, payload []byte, words int, odd bool) uint16 {
	acc := sum(0, header, len(header)/2, false)
	return fold(sum(acc, payload, words, odd))
}

// Bytes computes the checksum over all of b.
func Bytes(b []byte) uint16 {
	return Checksum(b, len(b)/2, len(b)%2 == 1)
}

// Verify checks the checksum stored in the 2-byte field, which must lie
// inside the region covered by compute. The field is zeroed, compute is run,
// and its result is stored back before comparing against the saved value.
func Verify(field []byte, compute func() uint16) bool {
	want := be.Uint16(field)

	got := Update(field, compute)

	return got == want
}

// Update zeroes field, computes the checksum with compute and stores it.
func Update(field []byte, compute func() uint16) uint16 {
	be.PutUint16(field, 0)

	got := compute()
	be.PutUint16(field, got)

	return got
}

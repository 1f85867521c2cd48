package frame

import (
	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/checksum"
	"golang.org/x/net/ipv4"
)

// IPv4MinHeaderLen is the size of an IPv4 header without options.
const IPv4MinHeaderLen = ipv4.HeaderLen

// FragmentMask covers the more-fragments flag and the 13-bit fragment
// offset. Don't-fragment is outside the mask.
const FragmentMask = 0x3fff

// IPv4 is a view over an IPv4 header and the payload it describes.
type IPv4 struct {
	data []byte
}

// NewIPv4 returns a view over b after checking that the header length and
// total length fields describe a packet that fits inside b. The view is
// trimmed to the total length so link-layer padding is excluded.
func NewIPv4(b []byte) (IPv4, bool) {
	if len(b) < IPv4MinHeaderLen {
		return IPv4{}, false
	}

	ip := IPv4{data: b}

	hl := ip.HeaderLen()
	tl := int(ip.TotalLength())

	if hl < IPv4MinHeaderLen || tl < hl || tl > len(b) {
		return IPv4{}, false
	}

	ip.data = b[:tl]

	return ip, true
}

func (ip IPv4) Bytes() []byte {
	return ip.data
}

func (ip IPv4) Version() uint8 {
	return ip.data[0] >> 4
}

// HeaderWords is the IHL field: the header length in 32-bit words.
func (ip IPv4) HeaderWords() int {
	return int(ip.data[0] & 0x0f)
}

func (ip IPv4) HeaderLen() int {
	return 4 * ip.HeaderWords()
}

func (ip IPv4) TotalLength() uint16 {
	return be.Uint16(ip.data[2:4])
}

func (ip IPv4) FlagsFragment() uint16 {
	return be.Uint16(ip.data[6:8])
}

// IsFragment reports whether the packet is part of a fragmented datagram.
func (ip IPv4) IsFragment() bool {
	return ip.FlagsFragment()&FragmentMask != 0
}

func (ip IPv4) Protocol() layers.IPProtocol {
	return layers.IPProtocol(ip.data[9])
}

func (ip IPv4) Checksum() uint16 {
	return be.Uint16(ip.data[10:12])
}

func (ip IPv4) Source() IPv4Addr {
	return IPv4Addr(ip.data[12:16])
}

func (ip IPv4) SetSource(a IPv4Addr) {
	copy(ip.data[12:16], a[:])
}

func (ip IPv4) Destination() IPv4Addr {
	return IPv4Addr(ip.data[16:20])
}

func (ip IPv4) SetDestination(a IPv4Addr) {
	copy(ip.data[16:20], a[:])
}

func (ip IPv4) SwapAddrs() {
	src, dst := ip.Source(), ip.Destination()
	ip.SetSource(dst)
	ip.SetDestination(src)
}

func (ip IPv4) Payload() []byte {
	return ip.data[ip.HeaderLen():]
}

func (ip IPv4) computeChecksum() uint16 {
	return checksum.Checksum(ip.data, 2*ip.HeaderWords(), false)
}

// VerifyChecksum recomputes the header checksum with the field zeroed and
// compares it with the transmitted value. The recomputed value is left in
// the field.
func (ip IPv4) VerifyChecksum() bool {
	return checksum.Verify(ip.data[10:12], ip.computeChecksum)
}

func (ip IPv4) UpdateChecksum() {
	checksum.Update(ip.data[10:12], ip.computeChecksum)
}

package frame

import (
	"github.com/lab47/dcload/pkg/checksum"
	"golang.org/x/net/ipv4"
)

const ICMPHeaderLen = 8

const (
	ICMPEchoRequest = uint8(ipv4.ICMPTypeEcho)
	ICMPEchoReply   = uint8(ipv4.ICMPTypeEchoReply)
)

// ICMP is a view over a complete ICMP message. The checksum covers every
// byte of the view.
type ICMP struct {
	data []byte
}

func NewICMP(b []byte) (ICMP, bool) {
	if len(b) < ICMPHeaderLen {
		return ICMP{}, false
	}

	return ICMP{data: b}, true
}

func (m ICMP) Type() uint8 {
	return m.data[0]
}

func (m ICMP) SetType(t uint8) {
	m.data[0] = t
}

func (m ICMP) Code() uint8 {
	return m.data[1]
}

func (m ICMP) Checksum() uint16 {
	return be.Uint16(m.data[2:4])
}

func (m ICMP) Len() int {
	return len(m.data)
}

func (m ICMP) Payload() []byte {
	return m.data[ICMPHeaderLen:]
}

func (m ICMP) computeChecksum() uint16 {
	n := len(m.data)
	return checksum.Checksum(m.data, n/2, n%2 == 1)
}

func (m ICMP) VerifyChecksum() bool {
	return checksum.Verify(m.data[2:4], m.computeChecksum)
}

func (m ICMP) UpdateChecksum() {
	checksum.Update(m.data[2:4], m.computeChecksum)
}

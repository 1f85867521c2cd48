package frame

import (
	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/checksum"
)

const UDPHeaderLen = 8

// UDP is a view over a UDP datagram, trimmed to its length field.
type UDP struct {
	data []byte
}

func NewUDP(b []byte) (UDP, bool) {
	if len(b) < UDPHeaderLen {
		return UDP{}, false
	}

	l := int(be.Uint16(b[4:6]))
	if l < UDPHeaderLen || l > len(b) {
		return UDP{}, false
	}

	return UDP{data: b[:l]}, true
}

func (u UDP) Bytes() []byte {
	return u.data
}

func (u UDP) SourcePort() uint16 {
	return be.Uint16(u.data[0:2])
}

func (u UDP) DestinationPort() uint16 {
	return be.Uint16(u.data[2:4])
}

func (u UDP) Length() uint16 {
	return be.Uint16(u.data[4:6])
}

// Checksum returns the checksum field as transmitted. Zero means the sender
// did not compute one.
func (u UDP) Checksum() uint16 {
	return be.Uint16(u.data[6:8])
}

func (u UDP) Payload() []byte {
	return u.data[UDPHeaderLen:]
}

// PseudoLen is the size of the checksum scratch area: the IPv4 pseudo-header
// followed by a copy of the UDP header.
const PseudoLen = 12 + UDPHeaderLen

// Pseudo lays out the IPv4 pseudo-header and a copy of the UDP header with a
// zero checksum, so the UDP checksum can be computed as Pair(pseudo,
// payload). It is scratch space only and is never transmitted.
type Pseudo struct {
	data []byte
}

func NewPseudo(b []byte) (Pseudo, bool) {
	if len(b) < PseudoLen {
		return Pseudo{}, false
	}

	return Pseudo{data: b[:PseudoLen]}, true
}

// Fill writes the pseudo-header for udp carried inside ip.
func (p Pseudo) Fill(ip IPv4, udp UDP) {
	src, dst := ip.Source(), ip.Destination()
	copy(p.data[0:4], src[:])
	copy(p.data[4:8], dst[:])
	p.data[8] = 0
	p.data[9] = uint8(layers.IPProtocolUDP)
	be.PutUint16(p.data[10:12], udp.Length())

	be.PutUint16(p.data[12:14], udp.SourcePort())
	be.PutUint16(p.data[14:16], udp.DestinationPort())
	be.PutUint16(p.data[16:18], udp.Length())
	be.PutUint16(p.data[18:20], 0)
}

func (p Pseudo) Bytes() []byte {
	return p.data
}

// Checksum computes the UDP checksum of udp using the filled pseudo-header.
func (p Pseudo) Checksum(udp UDP) uint16 {
	n := len(udp.Payload())
	return checksum.Pair(p.data, udp.Payload(), n/2, n%2 == 1)
}

package frame

import (
	"net"
	"net/netip"
)

const hexDigit = "0123456789abcdef"

// HardwareAddr is an Ethernet MAC address.
type HardwareAddr [6]byte

// HardwareAddrFrom converts a net.HardwareAddr. ok is false unless mac is
// exactly 6 bytes long.
func HardwareAddrFrom(mac net.HardwareAddr) (HardwareAddr, bool) {
	var a HardwareAddr
	if len(mac) != len(a) {
		return a, false
	}

	copy(a[:], mac)
	return a, true
}

func (a HardwareAddr) Net() net.HardwareAddr {
	return net.HardwareAddr(a[:])
}

func (a HardwareAddr) String() string {
	buf := make([]byte, 0, (6*2)+5)
	for i, b := range a {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, hexDigit[b>>4])
		buf = append(buf, hexDigit[b&0xF])
	}
	return string(buf)
}

// IPv4Addr is an IPv4 address in network byte order. The zero value is
// 0.0.0.0, which the stack treats as "not yet known".
type IPv4Addr [4]byte

func (a IPv4Addr) IsZero() bool {
	return a == IPv4Addr{}
}

func (a IPv4Addr) Addr() netip.Addr {
	return netip.AddrFrom4(a)
}

func (a IPv4Addr) String() string {
	return a.Addr().String()
}

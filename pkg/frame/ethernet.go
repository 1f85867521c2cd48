// Package frame provides zero-copy views over Ethernet, ARP, IPv4, ICMP and
// UDP wire data. Each view wraps a byte slice and reads or writes fixed
// offsets in network byte order; nothing is copied out of the slice and
// setters mutate it in place.
package frame

import (
	"encoding/binary"

	"github.com/mdlayher/ethernet"
)

var be = binary.BigEndian

// EthernetHeaderLen is the size of an untagged Ethernet II header.
const EthernetHeaderLen = 14

// BroadcastAddr is ff:ff:ff:ff:ff:ff.
var BroadcastAddr, _ = HardwareAddrFrom(ethernet.Broadcast)

type Ethernet struct {
	data []byte
}

// NewEthernet returns a view over b. ok is false if b cannot hold a header.
func NewEthernet(b []byte) (Ethernet, bool) {
	if len(b) < EthernetHeaderLen {
		return Ethernet{}, false
	}

	return Ethernet{data: b}, true
}

func (e Ethernet) Bytes() []byte {
	return e.data
}

func (e Ethernet) Destination() HardwareAddr {
	return HardwareAddr(e.data[0:6])
}

func (e Ethernet) SetDestination(a HardwareAddr) {
	copy(e.data[0:6], a[:])
}

func (e Ethernet) Source() HardwareAddr {
	return HardwareAddr(e.data[6:12])
}

func (e Ethernet) SetSource(a HardwareAddr) {
	copy(e.data[6:12], a[:])
}

func (e Ethernet) EtherType() ethernet.EtherType {
	return ethernet.EtherType(be.Uint16(e.data[12:14]))
}

func (e Ethernet) SetEtherType(t ethernet.EtherType) {
	be.PutUint16(e.data[12:14], uint16(t))
}

// SwapAddrs exchanges the source and destination MAC addresses.
func (e Ethernet) SwapAddrs() {
	dst, src := e.Destination(), e.Source()
	e.SetDestination(src)
	e.SetSource(dst)
}

func (e Ethernet) Payload() []byte {
	return e.data[EthernetHeaderLen:]
}

package frame

import (
	"github.com/google/gopacket/layers"
)

// ARPLen is the size of an Ethernet/IPv4 ARP message.
const ARPLen = 28

const (
	ARPRequest uint16 = layers.ARPRequest
	ARPReply   uint16 = layers.ARPReply
)

// ARP is a view over an Ethernet/IPv4 ARP message (RFC 826).
type ARP struct {
	data []byte
}

func NewARP(b []byte) (ARP, bool) {
	if len(b) < ARPLen {
		return ARP{}, false
	}

	return ARP{data: b[:ARPLen]}, true
}

func (a ARP) HardwareType() uint16 {
	return be.Uint16(a.data[0:2])
}

func (a ARP) ProtocolType() layers.EthernetType {
	return layers.EthernetType(be.Uint16(a.data[2:4]))
}

// IsEthernetIPv4 reports whether the message maps IPv4 addresses onto
// Ethernet hardware addresses.
func (a ARP) IsEthernetIPv4() bool {
	return a.HardwareType() == uint16(layers.LinkTypeEthernet) &&
		a.ProtocolType() == layers.EthernetTypeIPv4
}

func (a ARP) Operation() uint16 {
	return be.Uint16(a.data[6:8])
}

func (a ARP) SetOperation(op uint16) {
	be.PutUint16(a.data[6:8], op)
}

func (a ARP) SenderHardwareAddr() HardwareAddr {
	return HardwareAddr(a.data[8:14])
}

func (a ARP) SetSenderHardwareAddr(mac HardwareAddr) {
	copy(a.data[8:14], mac[:])
}

func (a ARP) SenderIP() IPv4Addr {
	return IPv4Addr(a.data[14:18])
}

func (a ARP) TargetHardwareAddr() HardwareAddr {
	return HardwareAddr(a.data[18:24])
}

func (a ARP) TargetIP() IPv4Addr {
	return IPv4Addr(a.data[24:28])
}

// SwapSenderTarget exchanges the sender and target hardware+protocol
// address blocks.
func (a ARP) SwapSenderTarget() {
	var tmp [10]byte
	copy(tmp[:], a.data[8:18])
	copy(a.data[8:18], a.data[18:28])
	copy(a.data[18:28], tmp[:])
}

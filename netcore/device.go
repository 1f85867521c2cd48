package netcore

import (
	"github.com/lab47/dcload/pkg/frame"
)

// Device is the identity the stack answers for. The MAC is fixed for the
// life of the device. The IP starts as 0.0.0.0 and is assigned once known,
// normally by the DHCP collaborator; the stack only reads it.
type Device struct {
	mac frame.HardwareAddr
	ip  frame.IPv4Addr
}

func NewDevice(mac frame.HardwareAddr) *Device {
	return &Device{mac: mac}
}

func (d *Device) MAC() frame.HardwareAddr {
	return d.mac
}

func (d *Device) IP() frame.IPv4Addr {
	return d.ip
}

func (d *Device) SetIP(ip frame.IPv4Addr) {
	d.ip = ip
}

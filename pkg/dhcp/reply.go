// Package dhcp decodes DHCP BOOTREPLY messages seen by the network core and
// applies leases addressed to the device.
package dhcp

import (
	"bytes"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/lab47/lsvd/logger"
	"github.com/pkg/errors"
)

// AddressSetter receives the leased address.
type AddressSetter interface {
	MAC() frame.HardwareAddr
	SetIP(ip frame.IPv4Addr)
}

// Lease is what the last accepted reply told us.
type Lease struct {
	Type   layers.DHCPMsgType
	Server frame.HardwareAddr
	Addr   frame.IPv4Addr
}

// Sniffer inspects BOOTREPLY payloads. It does not send anything; the
// client state machine that sends DISCOVER and REQUEST lives elsewhere and
// tells the Sniffer which transaction to expect.
type Sniffer struct {
	log logger.Logger
	dev AddressSetter

	xid   uint32
	lease Lease
	dhcp  layers.DHCPv4
}

func NewSniffer(log logger.Logger, dev AddressSetter) *Sniffer {
	return &Sniffer{log: log, dev: dev}
}

// Expect restricts accepted replies to transaction id xid. Zero accepts any
// transaction addressed to the device's MAC.
func (s *Sniffer) Expect(xid uint32) {
	s.xid = xid
}

// Lease returns the most recent reply accepted for this device.
func (s *Sniffer) Lease() Lease {
	return s.lease
}

// HandleReply implements the network core's DHCP hook. It returns true if
// the reply was for this device. An ACK assigns the offered address.
func (s *Sniffer) HandleReply(sender frame.HardwareAddr, payload []byte) bool {
	msgType, err := s.decode(payload)
	if err != nil {
		if s.log.IsTrace() {
			s.log.Trace("ignoring dhcp reply", "error", err)
		}
		return false
	}

	mac := s.dev.MAC()
	if !bytes.Equal(s.dhcp.ClientHWAddr, mac[:]) {
		return false
	}

	if s.xid != 0 && s.dhcp.Xid != s.xid {
		return false
	}

	addr, ok := toIPv4(s.dhcp.YourClientIP)
	if !ok {
		return false
	}

	s.lease = Lease{Type: msgType, Server: sender, Addr: addr}

	switch msgType {
	case layers.DHCPMsgTypeAck:
		s.dev.SetIP(addr)
		s.log.Info("dhcp lease acknowledged", "addr", addr.String(), "server", sender.String())
	case layers.DHCPMsgTypeOffer:
		s.log.Info("dhcp offer received", "addr", addr.String(), "server", sender.String())
	case layers.DHCPMsgTypeNak:
		s.log.Warn("dhcp request refused", "server", sender.String())
	}

	return true
}

func (s *Sniffer) decode(payload []byte) (layers.DHCPMsgType, error) {
	err := s.dhcp.DecodeFromBytes(payload, gopacket.NilDecodeFeedback)
	if err != nil {
		return layers.DHCPMsgTypeUnspecified, errors.Wrapf(err, "decoding dhcp payload")
	}

	if s.dhcp.Operation != layers.DHCPOpReply {
		return layers.DHCPMsgTypeUnspecified, errors.Errorf("unexpected dhcp operation %s", s.dhcp.Operation)
	}

	for _, opt := range s.dhcp.Options {
		if opt.Type == layers.DHCPOptMessageType && len(opt.Data) == 1 {
			return layers.DHCPMsgType(opt.Data[0]), nil
		}
	}

	return layers.DHCPMsgTypeUnspecified, errors.New("dhcp reply without message type")
}

func toIPv4(ip []byte) (frame.IPv4Addr, bool) {
	if len(ip) == 16 {
		ip = ip[12:]
	}

	if len(ip) != 4 {
		return frame.IPv4Addr{}, false
	}

	return frame.IPv4Addr(ip), true
}

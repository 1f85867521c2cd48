package netcore

import (
	"context"

	"github.com/lab47/dcload/pkg/frame"
	"github.com/mdlayher/ethernet"
)

// processBroadcast answers ARP requests for the device's address. The
// request frame is rewritten into the reply and sent back.
func (s *Stack) processBroadcast(ctx context.Context, eth frame.Ethernet) {
	if eth.EtherType() != ethernet.EtherTypeARP {
		return
	}

	arp, ok := frame.NewARP(eth.Payload())
	if !ok {
		s.drop("short arp")
		return
	}

	if !arp.IsEthernetIPv4() {
		s.drop("arp address space")
		return
	}

	// we never send requests, so replies are not interesting
	if arp.Operation() != frame.ARPRequest {
		return
	}

	ip := s.dev.IP()
	if ip.IsZero() {
		s.drop("arp before address assigned")
		return
	}

	if arp.TargetIP() != ip {
		return
	}

	mac := s.dev.MAC()

	eth.SetDestination(eth.Source())
	eth.SetSource(mac)

	arp.SetOperation(frame.ARPReply)
	arp.SwapSenderTarget()
	arp.SetSenderHardwareAddr(mac)

	s.transmit(ctx, eth.Bytes()[:frame.EthernetHeaderLen+frame.ARPLen])
}

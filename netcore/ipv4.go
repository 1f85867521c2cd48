package netcore

import (
	"context"

	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/command"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/mdlayher/ethernet"
)

// processMine validates an IPv4 packet sent to the device's MAC and routes
// it by protocol.
func (s *Stack) processMine(ctx context.Context, eth frame.Ethernet) command.Action {
	if eth.EtherType() != ethernet.EtherTypeIPv4 {
		return command.ActionContinue
	}

	ip, ok := frame.NewIPv4(eth.Payload())
	if !ok {
		s.drop("malformed ipv4 header")
		return command.ActionContinue
	}

	// no reassembly
	if ip.IsFragment() {
		s.drop("ipv4 fragment")
		return command.ActionContinue
	}

	if !ip.VerifyChecksum() {
		s.drop("ipv4 checksum")
		return command.ActionContinue
	}

	switch ip.Protocol() {
	case layers.IPProtocolUDP:
		return s.processUDP(ctx, eth, ip)
	case layers.IPProtocolICMPv4:
		s.processICMP(ctx, eth, ip)
	default:
		s.drop("ipv4 protocol")
	}

	return command.ActionContinue
}

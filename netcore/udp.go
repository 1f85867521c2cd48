package netcore

import (
	"context"

	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/command"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/mdlayher/ethernet"
)

// processUDP validates the UDP checksum, then routes the payload either to
// the DHCP hook or to the command dispatcher.
func (s *Stack) processUDP(ctx context.Context, eth frame.Ethernet, ip frame.IPv4) command.Action {
	udp, ok := frame.NewUDP(ip.Payload())
	if !ok {
		s.drop("malformed udp header")
		return command.ActionContinue
	}

	tx := s.tx.Frame()

	// The transmit buffer is free until a handler replies, so the
	// pseudo-header is assembled there.
	pseudo, _ := frame.NewPseudo(tx)
	pseudo.Fill(ip, udp)

	// zero means the sender skipped the checksum
	if want := udp.Checksum(); want != 0 {
		// a computed zero is sent as 0xffff
		if want == 0xffff {
			want = 0
		}

		if pseudo.Checksum(udp) != want {
			s.drop("udp checksum")
			return command.ActionContinue
		}
	}

	payload := udp.Payload()

	if len(payload) > 0 && payload[0] == byte(layers.DHCPOpReply) {
		if s.dhcp == nil || !s.dhcp.HandleReply(eth.Source(), payload) {
			s.keepWaiting = true
		}
		return command.ActionContinue
	}

	reply, _ := frame.NewEthernet(tx)
	reply.SetDestination(eth.Source())
	reply.SetSource(eth.Destination())
	reply.SetEtherType(ethernet.EtherTypeIPv4)

	s.req = command.Request{
		IP:      ip,
		UDP:     udp,
		Command: command.New(payload),
		Ether:   reply,
		Tx:      tx,
		Out:     s.out,
	}

	act := command.Dispatch(ctx, s.handlers, &s.req)

	if act == command.ActionReboot {
		s.log.Info("reboot requested", "host", eth.Source().String())
	}

	return act
}

package netcore

import (
	"context"

	"github.com/lab47/dcload/pkg/frame"
)

// processICMP answers echo requests. The reply carries the request's
// payload, so it is built over the receive buffer.
func (s *Stack) processICMP(ctx context.Context, eth frame.Ethernet, ip frame.IPv4) {
	msg, ok := frame.NewICMP(ip.Payload())
	if !ok {
		s.drop("short icmp")
		return
	}

	if msg.Type() != frame.ICMPEchoRequest {
		return
	}

	if !msg.VerifyChecksum() {
		s.drop("icmp checksum")
		return
	}

	msg.SetType(frame.ICMPEchoReply)

	eth.SwapAddrs()
	ip.SwapAddrs()
	ip.UpdateChecksum()
	msg.UpdateChecksum()

	s.transmit(ctx, eth.Bytes()[:frame.EthernetHeaderLen+len(ip.Bytes())])
}

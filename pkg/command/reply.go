package command

import (
	"context"

	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/pkg/checksum"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/pkg/errors"
)

const (
	replyTTL   = 64
	replyFlags = 0x4000 // don't fragment

	replyIPOffset      = frame.EthernetHeaderLen
	replyUDPOffset     = replyIPOffset + frame.IPv4MinHeaderLen
	replyPayloadOffset = replyUDPOffset + frame.UDPHeaderLen
)

// ReplyPayload returns the region of the transmit scratch buffer where a
// reply payload goes. Handlers can build the payload there and pass it to
// Reply without a copy.
func (r *Request) ReplyPayload() []byte {
	if len(r.Tx) < replyPayloadOffset {
		return nil
	}
	return r.Tx[replyPayloadOffset:]
}

// Reply builds a UDP reply to the sender of the request in the transmit
// scratch buffer and returns the complete frame. Addresses and ports are
// the request's, swapped.
func (r *Request) Reply(payload []byte) ([]byte, error) {
	total := replyPayloadOffset + len(payload)
	if total > len(r.Tx) {
		return nil, errors.Errorf("reply of %d bytes exceeds transmit buffer", len(payload))
	}

	copy(r.Tx[replyPayloadOffset:], payload)

	ipLen := total - replyIPOffset
	udpLen := total - replyUDPOffset

	h := r.Tx[replyIPOffset:replyUDPOffset]
	h[0] = 0x45
	h[1] = 0
	be.PutUint16(h[2:4], uint16(ipLen))
	be.PutUint16(h[4:6], 0)
	be.PutUint16(h[6:8], replyFlags)
	h[8] = replyTTL
	h[9] = uint8(layers.IPProtocolUDP)

	ip, ok := frame.NewIPv4(r.Tx[replyIPOffset:total])
	if !ok {
		return nil, errors.New("malformed reply header")
	}

	ip.SetSource(r.IP.Destination())
	ip.SetDestination(r.IP.Source())
	ip.UpdateChecksum()

	u := r.Tx[replyUDPOffset:replyPayloadOffset]
	be.PutUint16(u[0:2], r.UDP.DestinationPort())
	be.PutUint16(u[2:4], r.UDP.SourcePort())
	be.PutUint16(u[4:6], uint16(udpLen))
	be.PutUint16(u[6:8], 0)

	var pseudo [12]byte
	src, dst := ip.Source(), ip.Destination()
	copy(pseudo[0:4], src[:])
	copy(pseudo[4:8], dst[:])
	pseudo[9] = uint8(layers.IPProtocolUDP)
	be.PutUint16(pseudo[10:12], uint16(udpLen))

	sum := checksum.Pair(pseudo[:], r.Tx[replyUDPOffset:total], udpLen/2, udpLen%2 == 1)
	if sum == 0 {
		sum = 0xffff
	}
	be.PutUint16(u[6:8], sum)

	return r.Tx[:total], nil
}

// Respond builds a reply with Reply and transmits it.
func (r *Request) Respond(ctx context.Context, payload []byte) error {
	pkt, err := r.Reply(payload)
	if err != nil {
		return err
	}

	if r.Out == nil {
		return errors.New("no transmitter configured")
	}

	return errors.Wrapf(r.Out.Transmit(ctx, pkt), "transmitting %s reply", r.Command.ID())
}

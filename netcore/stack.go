// Package netcore is the frame processing core of the loader: it answers
// ARP and ICMP echo for the device and hands validated UDP commands to the
// command dispatcher.
package netcore

import (
	"context"

	"github.com/lab47/dcload/pkg/command"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/lab47/lsvd/logger"
)

// Adapter transmits frames on the physical link. The stack never waits for
// or retries a transmission.
type Adapter interface {
	Transmit(ctx context.Context, frame []byte) error
}

// DHCPHook receives DHCP BOOTREPLY payloads. It returns true if the reply
// was addressed to this device.
type DHCPHook interface {
	HandleReply(sender frame.HardwareAddr, payload []byte) bool
}

// Stack processes one received frame at a time. It is not safe for
// concurrent use.
type Stack struct {
	log      logger.Logger
	dev      *Device
	out      Adapter
	dhcp     DHCPHook
	handlers command.Handlers

	tx  FrameBuffer
	req command.Request

	keepWaiting bool
}

// NewStack creates a stack answering for dev. dhcp may be nil, in which case
// every DHCP reply is treated as not ours.
func NewStack(log logger.Logger, dev *Device, out Adapter, dhcp DHCPHook, handlers command.Handlers) *Stack {
	return &Stack{
		log:      log,
		dev:      dev,
		out:      out,
		dhcp:     dhcp,
		handlers: handlers,
	}
}

// TxBuffer is the transmit scratch buffer shared by every responder and
// command handler. Its contents do not survive between frames.
func (s *Stack) TxBuffer() []byte {
	return s.tx.Frame()
}

// KeepWaiting reports whether a DHCP reply for another host was seen since
// the last call, and clears the flag.
func (s *Stack) KeepWaiting() bool {
	v := s.keepWaiting
	s.keepWaiting = false
	return v
}

// ProcessFrame handles one Ethernet frame. The stack has exclusive use of
// pkt for the duration of the call and may overwrite any of it: replies to
// ARP and ICMP echo are built in place over the request.
//
// Frames that are malformed, fail a checksum or are not ours are dropped
// without any response. The returned action is ActionReboot only when the
// frame carried a reboot command.
func (s *Stack) ProcessFrame(ctx context.Context, pkt []byte) command.Action {
	eth, ok := frame.NewEthernet(pkt)
	if !ok {
		s.drop("short frame")
		return command.ActionContinue
	}

	// IPv4 and ARP both live at 0x08xx
	if eth.EtherType()>>8 != 0x08 {
		return command.ActionContinue
	}

	switch eth.Destination() {
	case s.dev.MAC():
		return s.processMine(ctx, eth)
	case frame.BroadcastAddr:
		s.processBroadcast(ctx, eth)
	}

	return command.ActionContinue
}

func (s *Stack) drop(reason string) {
	if s.log.IsTrace() {
		s.log.Trace("dropped frame", "reason", reason)
	}
}

func (s *Stack) transmit(ctx context.Context, pkt []byte) {
	if s.log.IsTrace() {
		s.log.Trace("transmitting frame", "len", len(pkt))
	}

	err := s.out.Transmit(ctx, pkt)
	if err != nil {
		s.log.Error("error transmitting frame", "error", err)
	}
}

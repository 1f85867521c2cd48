package command

import (
	"context"

	"github.com/lab47/dcload/pkg/frame"
)

// Transmitter sends a complete Ethernet frame. Delivery is not acknowledged.
type Transmitter interface {
	Transmit(ctx context.Context, frame []byte) error
}

// Request is everything a handler gets for one command. IP, UDP and Command
// view the receive buffer; Ether and Tx view the transmit scratch buffer,
// where Ether already holds the Ethernet header for a reply to the sender.
// All views are only valid until the handler returns.
type Request struct {
	IP      frame.IPv4
	UDP     frame.UDP
	Command Command

	Ether frame.Ethernet
	Tx    []byte
	Out   Transmitter
}

// Handlers implements every command except reboot, which is reported to the
// caller of Dispatch instead.
type Handlers interface {
	PartBin(ctx context.Context, req *Request)
	DoneBin(ctx context.Context, req *Request)
	RetVal(ctx context.Context, req *Request)
	LoadBin(ctx context.Context, req *Request)
	Maple(ctx context.Context, req *Request)
	PMCR(ctx context.Context, req *Request)
	SendBinQ(ctx context.Context, req *Request)
	SendBin(ctx context.Context, req *Request)
	Execute(ctx context.Context, req *Request)
	Version(ctx context.Context, req *Request)
}

// Action tells the receive loop what to do after a frame.
type Action int

const (
	// ActionContinue resumes polling for the next frame.
	ActionContinue Action = iota

	// ActionReboot means the host asked for a reset. Nothing more should be
	// processed; the caller performs the reset.
	ActionReboot
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionReboot:
		return "reboot"
	}
	return "unknown"
}

// Dispatch invokes the one handler matching req.Command. Unknown commands
// are ignored.
func Dispatch(ctx context.Context, h Handlers, req *Request) Action {
	switch req.Command.ID() {
	case PartBin:
		h.PartBin(ctx, req)
	case DoneBin:
		h.DoneBin(ctx, req)
	case RetVal:
		h.RetVal(ctx, req)
	case LoadBin:
		h.LoadBin(ctx, req)
	case Maple:
		h.Maple(ctx, req)
	case PMCR:
		h.PMCR(ctx, req)
	case SendBinQ:
		h.SendBinQ(ctx, req)
	case SendBin:
		h.SendBin(ctx, req)
	case Execute:
		h.Execute(ctx, req)
	case Version:
		h.Version(ctx, req)
	case Reboot:
		return ActionReboot
	}

	return ActionContinue
}

// Unimplemented can be embedded to ignore commands a Handlers does not
// care about.
type Unimplemented struct{}

func (Unimplemented) PartBin(context.Context, *Request)  {}
func (Unimplemented) DoneBin(context.Context, *Request)  {}
func (Unimplemented) RetVal(context.Context, *Request)   {}
func (Unimplemented) LoadBin(context.Context, *Request)  {}
func (Unimplemented) Maple(context.Context, *Request)    {}
func (Unimplemented) PMCR(context.Context, *Request)     {}
func (Unimplemented) SendBinQ(context.Context, *Request) {}
func (Unimplemented) SendBin(context.Context, *Request)  {}
func (Unimplemented) Execute(context.Context, *Request)  {}
func (Unimplemented) Version(context.Context, *Request)  {}

package main

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/lab47/dcload/pkg/command"
	"github.com/lab47/lsvd/logger"
)

const versionString = "dcloadd 2.0.0"

// maxImage bounds how much memory a single LBIN may reserve.
const maxImage = 16 << 20

// hostHandlers emulates the target side of the loader protocol on the host:
// binaries are uploaded into memory and execution is only logged.
type hostHandlers struct {
	command.Unimplemented

	log  logger.Logger
	dump bool

	base  uint32
	image []byte
}

func newHostHandlers(log logger.Logger, dump bool) *hostHandlers {
	return &hostHandlers{log: log, dump: dump}
}

func (h *hostHandlers) trace(req *command.Request) {
	if h.dump {
		h.log.Trace("command", "id", req.Command.ID().String(), "dump", spew.Sdump(req.Command.Bytes()))
	}
}

// echo acknowledges a command by returning its header to the host.
func (h *hostHandlers) echo(ctx context.Context, req *command.Request) {
	b := req.Command.Bytes()
	if len(b) > command.HeaderLen {
		b = b[:command.HeaderLen]
	}

	err := req.Respond(ctx, b)
	if err != nil {
		h.log.Error("error replying to command", "id", req.Command.ID().String(), "error", err)
	}
}

func (h *hostHandlers) Version(ctx context.Context, req *command.Request) {
	h.trace(req)

	err := req.Respond(ctx, []byte(versionString))
	if err != nil {
		h.log.Error("error replying to version", "error", err)
	}
}

func (h *hostHandlers) LoadBin(ctx context.Context, req *command.Request) {
	h.trace(req)

	size := req.Command.Size()
	if size > maxImage {
		h.log.Warn("binary too large", "size", size)
		return
	}

	h.base = req.Command.Address()
	h.image = make([]byte, size)

	h.log.Info("receiving binary", "address", h.base, "size", size)

	h.echo(ctx, req)
}

func (h *hostHandlers) PartBin(_ context.Context, req *command.Request) {
	addr := req.Command.Address()
	data := req.Command.Data()

	if addr < h.base {
		return
	}

	off := uint64(addr - h.base)
	if off+uint64(len(data)) > uint64(len(h.image)) {
		if h.log.IsTrace() {
			h.log.Trace("partial binary outside image", "address", addr, "len", len(data))
		}
		return
	}

	copy(h.image[off:], data)
}

func (h *hostHandlers) DoneBin(ctx context.Context, req *command.Request) {
	h.trace(req)
	h.log.Info("binary received", "address", h.base, "size", len(h.image))
	h.echo(ctx, req)
}

func (h *hostHandlers) Execute(ctx context.Context, req *command.Request) {
	h.trace(req)
	h.log.Info("execute requested", "address", req.Command.Address(), "console", req.Command.Size() != 0)
	h.echo(ctx, req)
}

func (h *hostHandlers) RetVal(ctx context.Context, req *command.Request) {
	h.trace(req)
	h.log.Info("program returned", "value", req.Command.Address())
	h.echo(ctx, req)
}

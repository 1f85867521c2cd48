// Package tap attaches the network core to a Linux tap interface so the
// loader protocol can be exercised from a host.
package tap

import (
	"context"
	"os"
	"syscall"

	"github.com/lab47/lsvd/logger"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type Interface struct {
	log logger.Logger

	f    *os.File
	name string
}

// Open creates (or reattaches to) the persistent tap interface name.
func Open(log logger.Logger, name string) (*Interface, error) {
	fd, err := unix.Open(
		"/dev/net/tun", os.O_RDWR|syscall.O_NONBLOCK, 0)

	if err != nil {
		return nil, errors.Wrapf(err, "opening /dev/net/tun")
	}

	name, err = setupFd(uintptr(fd), name)
	if err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "configuring tap %s", name)
	}

	return &Interface{
		log:  log,
		f:    os.NewFile(uintptr(fd), "tap"),
		name: name,
	}, nil
}

func (i *Interface) Name() string {
	return i.name
}

func ioctl(fd uintptr, request uintptr, argp uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(request), argp)
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

func createInterface(fd uintptr, ifName string, flags uint16) (string, error) {
	req, err := unix.NewIfreq(ifName)
	if err != nil {
		return "", err
	}

	req.SetUint16(flags)

	err = unix.IoctlIfreq(int(fd), unix.TUNSETIFF, req)
	if err != nil {
		return "", err
	}

	return req.Name(), nil
}

func setupFd(fd uintptr, name string) (string, error) {
	var flags uint16 = unix.IFF_NO_PI | unix.IFF_TAP

	name, err := createInterface(fd, name, flags)
	if err != nil {
		return "", err
	}

	err = ioctl(fd, syscall.TUNSETPERSIST, uintptr(1))
	if err != nil {
		return "", err
	}

	return name, nil
}

// Transmit writes one frame to the interface.
func (i *Interface) Transmit(_ context.Context, frame []byte) error {
	_, err := i.f.Write(frame)
	return errors.Wrapf(err, "writing frame to %s", i.name)
}

// Receive reads frames into buf, one at a time, and calls fn with each. The
// next frame is not read until fn returns. Receive returns when fn returns
// false, the context is cancelled, or the read fails.
func (i *Interface) Receive(ctx context.Context, buf []byte, fn func(frame []byte) bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := i.f.Read(buf)
		if err != nil {
			return errors.Wrapf(err, "reading frame from %s", i.name)
		}

		body := buf[:n]

		if i.log.IsTrace() {
			i.log.Trace("received tap frame", "len", len(body))
		}

		if !fn(body) {
			return nil
		}
	}
}

func (i *Interface) Close() error {
	return i.f.Close()
}

package main

import (
	"context"
	"flag"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/lab47/dcload/netcore"
	"github.com/lab47/dcload/pkg/command"
	"github.com/lab47/dcload/pkg/dhcp"
	"github.com/lab47/dcload/pkg/frame"
	"github.com/lab47/dcload/pkg/tap"
	"github.com/lab47/lsvd/logger"
	"github.com/pkg/errors"
)

var (
	fTap  = flag.String("tap", "dcload0", "tap interface to attach to")
	fMAC  = flag.String("mac", "", "hardware address the device answers for")
	fIP   = flag.String("ip", "", "static IPv4 address; learned from DHCP replies when empty")
	fXid  = flag.Uint("xid", 0, "only accept DHCP replies for this transaction id")
	fDump = flag.Bool("dump", false, "dump every received frame and command")
)

func main() {
	flag.Parse()

	log := logger.New(logger.Trace)

	err := run(log)
	if err != nil {
		log.Error("dcloadd failed", "error", err)
		os.Exit(1)
	}
}

func deviceFromFlags() (*netcore.Device, error) {
	if *fMAC == "" {
		return nil, errors.New("provide a hardware address with -mac")
	}

	hw, err := net.ParseMAC(*fMAC)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing -mac")
	}

	mac, ok := frame.HardwareAddrFrom(hw)
	if !ok {
		return nil, errors.Errorf("%s is not an ethernet address", hw)
	}

	dev := netcore.NewDevice(mac)

	if *fIP != "" {
		addr, err := netip.ParseAddr(*fIP)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing -ip")
		}

		if !addr.Is4() {
			return nil, errors.Errorf("%s is not an IPv4 address", addr)
		}

		dev.SetIP(addr.As4())
	}

	return dev, nil
}

func run(log logger.Logger) error {
	dev, err := deviceFromFlags()
	if err != nil {
		return err
	}

	sniffer := dhcp.NewSniffer(log, dev)
	sniffer.Expect(uint32(*fXid))

	iface, err := tap.Open(log, *fTap)
	if err != nil {
		return err
	}

	defer iface.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		iface.Close()
	}()

	handlers := newHostHandlers(log, *fDump)
	stack := netcore.NewStack(log, dev, iface, sniffer, handlers)

	if dev.IP().IsZero() {
		log.Warn("no address configured, waiting for a DHCP acknowledgement", "mac", dev.MAC().String())
	}

	log.Info("attached to tap", "name", iface.Name(), "mac", dev.MAC().String(), "ip", dev.IP().String())

	var (
		rx     netcore.FrameBuffer
		reboot bool
	)

	err = iface.Receive(ctx, rx.Frame(), func(pkt []byte) bool {
		if *fDump {
			// dump before processing; replies overwrite the frame
			p := gopacket.NewPacket(pkt, layers.LayerTypeEthernet, gopacket.Default)
			log.Trace("received frame", "dump", p.Dump())
		}

		act := stack.ProcessFrame(ctx, pkt)

		if stack.KeepWaiting() {
			log.Trace("dhcp reply was for another host")
		}

		if act == command.ActionReboot {
			reboot = true
			return false
		}

		return true
	})

	if reboot {
		log.Info("host requested reboot, exiting")
		return nil
	}

	if ctx.Err() != nil {
		return nil
	}

	return err
}

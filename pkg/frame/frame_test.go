package frame

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/mdlayher/ethernet"
	"github.com/stretchr/testify/require"
)

var (
	hostMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	devMAC  = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
	hostIP  = net.IPv4(10, 0, 0, 1).To4()
	devIP   = net.IPv4(10, 0, 0, 2).To4()
)

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))

	return buf.Bytes()
}

func udpPacket(t *testing.T, payload []byte) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       hostMAC,
		DstMAC:       devMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    hostIP,
		DstIP:    devIP,
	}

	udp := &layers.UDP{SrcPort: 31313, DstPort: 31313}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))

	return serialize(t, eth, ip, udp, gopacket.Payload(payload))
}

func TestEthernet(t *testing.T) {
	t.Run("rejects short frames", func(t *testing.T) {
		r := require.New(t)

		_, ok := NewEthernet(make([]byte, EthernetHeaderLen-1))
		r.False(ok)
	})

	t.Run("reads and swaps addresses", func(t *testing.T) {
		r := require.New(t)

		pkt := udpPacket(t, []byte("VERS"))

		eth, ok := NewEthernet(pkt)
		r.True(ok)

		r.Equal(ethernet.EtherTypeIPv4, eth.EtherType())
		r.Equal("02:00:00:00:00:02", eth.Destination().String())
		r.Equal("02:00:00:00:00:01", eth.Source().String())

		eth.SwapAddrs()
		r.Equal(devMAC, eth.Source().Net())
		r.Equal(hostMAC, eth.Destination().Net())
	})

	t.Run("exposes the broadcast address", func(t *testing.T) {
		r := require.New(t)

		r.Equal("ff:ff:ff:ff:ff:ff", BroadcastAddr.String())
	})
}

func TestARP(t *testing.T) {
	r := require.New(t)

	pkt := serialize(t,
		&layers.Ethernet{
			SrcMAC:       hostMAC,
			DstMAC:       layers.EthernetBroadcast,
			EthernetType: layers.EthernetTypeARP,
		},
		&layers.ARP{
			AddrType:          layers.LinkTypeEthernet,
			Protocol:          layers.EthernetTypeIPv4,
			HwAddressSize:     6,
			ProtAddressSize:   4,
			Operation:         layers.ARPRequest,
			SourceHwAddress:   hostMAC,
			SourceProtAddress: hostIP,
			DstHwAddress:      make([]byte, 6),
			DstProtAddress:    devIP,
		},
	)

	eth, ok := NewEthernet(pkt)
	r.True(ok)

	arp, ok := NewARP(eth.Payload())
	r.True(ok)

	r.True(arp.IsEthernetIPv4())
	r.Equal(ARPRequest, arp.Operation())
	r.Equal(IPv4Addr{10, 0, 0, 2}, arp.TargetIP())
	r.Equal(IPv4Addr{10, 0, 0, 1}, arp.SenderIP())

	arp.SwapSenderTarget()
	r.Equal(IPv4Addr{10, 0, 0, 2}, arp.SenderIP())
	r.Equal(IPv4Addr{10, 0, 0, 1}, arp.TargetIP())
	r.Equal(hostMAC, arp.TargetHardwareAddr().Net())
	r.Equal(HardwareAddr{}, arp.SenderHardwareAddr())
}

func TestIPv4(t *testing.T) {
	t.Run("validates lengths", func(t *testing.T) {
		r := require.New(t)

		pkt := udpPacket(t, []byte("VERS"))

		ip, ok := NewIPv4(pkt[EthernetHeaderLen:])
		r.True(ok)
		r.Equal(uint8(4), ip.Version())
		r.Equal(20, ip.HeaderLen())
		r.Equal(layers.IPProtocolUDP, ip.Protocol())
		r.False(ip.IsFragment())
		r.True(ip.VerifyChecksum())

		_, ok = NewIPv4(pkt[EthernetHeaderLen : EthernetHeaderLen+int(ip.TotalLength())-1])
		r.False(ok)

		bad := append([]byte{}, pkt[EthernetHeaderLen:]...)
		bad[0] = 0x44
		_, ok = NewIPv4(bad)
		r.False(ok)
	})

	t.Run("trims link padding", func(t *testing.T) {
		r := require.New(t)

		pkt := udpPacket(t, nil)
		padded := append(append([]byte{}, pkt[EthernetHeaderLen:]...), 0, 0, 0, 0)

		ip, ok := NewIPv4(padded)
		r.True(ok)
		r.Len(ip.Bytes(), 28)
	})

	t.Run("flags fragments but not don't-fragment", func(t *testing.T) {
		r := require.New(t)

		pkt := udpPacket(t, nil)
		ip, ok := NewIPv4(pkt[EthernetHeaderLen:])
		r.True(ok)

		be.PutUint16(ip.Bytes()[6:8], 0x4000)
		r.False(ip.IsFragment())

		be.PutUint16(ip.Bytes()[6:8], 0x2000)
		r.True(ip.IsFragment())

		be.PutUint16(ip.Bytes()[6:8], 0x0001)
		r.True(ip.IsFragment())
	})

	t.Run("detects a corrupted header", func(t *testing.T) {
		r := require.New(t)

		pkt := udpPacket(t, nil)
		ip, ok := NewIPv4(pkt[EthernetHeaderLen:])
		r.True(ok)

		ip.Bytes()[8]--
		r.False(ip.VerifyChecksum())

		ip.UpdateChecksum()
		r.True(ip.VerifyChecksum())
	})
}

func TestUDPPseudo(t *testing.T) {
	for _, payload := range []string{"VERS", "LBIN\x00", "odd payload!!"} {
		t.Run("matches gopacket checksum", func(t *testing.T) {
			r := require.New(t)

			pkt := udpPacket(t, []byte(payload))

			ip, ok := NewIPv4(pkt[EthernetHeaderLen:])
			r.True(ok)

			udp, ok := NewUDP(ip.Payload())
			r.True(ok)
			r.Equal([]byte(payload), udp.Payload())
			r.Equal(uint16(31313), udp.DestinationPort())

			p, ok := NewPseudo(make([]byte, PseudoLen))
			r.True(ok)

			p.Fill(ip, udp)
			r.Equal(udp.Checksum(), p.Checksum(udp))
		})
	}

	t.Run("rejects a bad length", func(t *testing.T) {
		r := require.New(t)

		b := make([]byte, 8)
		be.PutUint16(b[4:6], 9)

		_, ok := NewUDP(b)
		r.False(ok)

		be.PutUint16(b[4:6], 7)
		_, ok = NewUDP(b)
		r.False(ok)
	})
}

func TestICMP(t *testing.T) {
	r := require.New(t)

	pkt := serialize(t,
		&layers.Ethernet{SrcMAC: hostMAC, DstMAC: devMAC, EthernetType: layers.EthernetTypeIPv4},
		&layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: layers.IPProtocolICMPv4, SrcIP: hostIP, DstIP: devIP},
		&layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), Id: 1, Seq: 1},
		gopacket.Payload([]byte("abc")),
	)

	ip, ok := NewIPv4(pkt[EthernetHeaderLen:])
	r.True(ok)

	m, ok := NewICMP(ip.Payload())
	r.True(ok)

	r.Equal(ICMPEchoRequest, m.Type())
	r.Equal(11, m.Len())
	r.Equal([]byte("abc"), m.Payload())
	r.True(m.VerifyChecksum())

	m.SetType(ICMPEchoReply)
	r.False(m.VerifyChecksum())

	m.UpdateChecksum()
	r.True(m.VerifyChecksum())
}

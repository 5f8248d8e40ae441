package wol

import (
	"bytes"
	"context"
	"encoding/hex"
	"net"
	"strings"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
)

const (
	ErrMalformedMAC = errors.ErrorCode("wol_malformed_mac")
	ErrSendFailed   = errors.ErrorCode("wol_send_failed")
)

const (
	// DefaultAddr is the limited broadcast address on the discard port.
	DefaultAddr = "255.255.255.255:9"

	headerLen   = 6
	repetitions = 16
	// PacketLen is the size of a magic packet.
	PacketLen = headerLen + repetitions*6
)

// MAC is a 6-byte hardware address.
type MAC [6]byte

func (m MAC) String() string {
	return net.HardwareAddr(m[:]).String()
}

// ParseMAC accepts colon- or hyphen-delimited (or undelimited) hex.
func ParseMAC(s string) (MAC, error) {
	var mac MAC

	cleaned := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s))
	if len(cleaned) != 2*len(mac) {
		return mac, errors.New().WithMessage(ErrMalformedMAC, "Invalid MAC address: "+s)
	}

	if _, err := hex.Decode(mac[:], []byte(cleaned)); err != nil {
		return mac, errors.New().Wrap(ErrMalformedMAC, err).WithMessage("Invalid MAC address: " + s)
	}

	return mac, nil
}

// MagicPacket returns six 0xFF bytes followed by mac repeated 16 times.
func MagicPacket(mac MAC) []byte {
	pkt := make([]byte, 0, PacketLen)
	pkt = append(pkt, bytes.Repeat([]byte{0xFF}, headerLen)...)
	for i := 0; i < repetitions; i++ {
		pkt = append(pkt, mac[:]...)
	}

	return pkt
}

// Sender broadcasts magic packets over UDP.
type Sender struct {
	Addr string
	log  logger.Logger
}

func NewSender(addr string) *Sender {
	if addr == "" {
		addr = DefaultAddr
	}

	return &Sender{Addr: addr, log: logger.Default()}
}

// Send validates mac, then hands one packet to the network stack. Delivery
// is not confirmed. Nothing is sent when mac is malformed.
func (s *Sender) Send(ctx context.Context, mac string) (MAC, error) {
	errFactory := errors.New()

	hw, err := ParseMAC(mac)
	if err != nil {
		return hw, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp4", s.Addr)
	if err != nil {
		return hw, errFactory.Wrap(ErrSendFailed, err)
	}
	defer conn.Close()

	if _, err := conn.Write(MagicPacket(hw)); err != nil {
		return hw, errFactory.Wrap(ErrSendFailed, err)
	}

	s.log.Info().Str("mac", hw.String()).Str("addr", s.Addr).Msg("Magic packet sent")

	return hw, nil
}

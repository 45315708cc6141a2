package resolve

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ErrBadEndpoint is returned when an endpoint string fits none of the
// accepted shapes.
var ErrBadEndpoint = errors.New("malformed endpoint")

// Kind discriminates the accepted endpoint shapes.
type Kind int

const (
	// KindLiteral is a literal ip:port socket address, resolved with no
	// DNS traffic.
	KindLiteral Kind = iota
	// KindTXT is a "txt:host" query whose TXT records carry pre-encoded
	// socket addresses.
	KindTXT
	// KindHostPort is a "host:port" pair resolved via A and AAAA lookups.
	KindHostPort
)

const _txtPrefix = "txt:"

// Endpoint is an input string classified exactly once at entry, so later
// stages never re-test string prefixes.
type Endpoint struct {
	Kind Kind
	Addr netip.AddrPort // KindLiteral only
	Host string         // KindTXT and KindHostPort
	Port uint16         // KindHostPort only; TXT addresses embed their own
}

// ParseEndpoint classifies s into one of the three accepted shapes.
// The txt: prefix is matched case-insensitively. For host:port the split
// happens on the last ':' so bracketed IPv6 literals are not mistaken for
// hostnames with many ports.
func ParseEndpoint(s string) (Endpoint, error) {
	if addr, err := netip.ParseAddrPort(s); err == nil {
		return Endpoint{Kind: KindLiteral, Addr: addr}, nil
	}

	if len(s) >= len(_txtPrefix) && strings.EqualFold(s[:len(_txtPrefix)], _txtPrefix) {
		return Endpoint{Kind: KindTXT, Host: s[len(_txtPrefix):]}, nil
	}

	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Endpoint{}, fmt.Errorf("%w: %q has no port", ErrBadEndpoint, s)
	}
	port, err := strconv.ParseUint(s[i+1:], 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q has no valid port", ErrBadEndpoint, s)
	}
	host := s[:i]
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: %q has no host", ErrBadEndpoint, s)
	}
	return Endpoint{Kind: KindHostPort, Host: host, Port: uint16(port)}, nil
}

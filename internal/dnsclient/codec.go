package dnsclient

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
)

var (
	// ErrNoAnswers is returned when a response carries no usable answer
	// records. Protocol-legal, but treated as a failure so callers can
	// fall back to another name server.
	ErrNoAnswers = errors.New("no answer records")
	// ErrRcode is returned when a response carries a non-success
	// response code.
	ErrRcode = errors.New("dns error response")
	// ErrBadTXT is returned when a TXT payload is not a literal
	// "ip:port" socket address.
	ErrBadTXT = errors.New("txt record is not an ip:port address")
)

// packQuery builds a single-question query for host and returns both the
// message (kept to match the response id) and its wire encoding.
func packQuery(host string, qtype uint16) (*dns.Msg, []byte, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)
	m.RecursionDesired = true

	wire, err := m.Pack()
	if err != nil {
		return nil, nil, fmt.Errorf("packing query for %q: %w", host, err)
	}
	return m, wire, nil
}

// unpackResponse parses buf and validates it against req.
func unpackResponse(buf []byte, req *dns.Msg) (*dns.Msg, error) {
	resp := new(dns.Msg)
	if err := resp.Unpack(buf); err != nil {
		return nil, fmt.Errorf("unpacking response: %w", err)
	}
	if resp.Id != req.Id {
		return nil, fmt.Errorf("response id %d does not match query id %d", resp.Id, req.Id)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: %s", ErrRcode, dns.RcodeToString[resp.Rcode])
	}
	if len(resp.Answer) == 0 {
		return nil, ErrNoAnswers
	}
	return resp, nil
}

// ipAnswers extracts the answers matching the requested record type.
// Records of any other type (e.g. CNAMEs in the chain) are ignored.
func ipAnswers(resp *dns.Msg, qtype uint16) []netip.Addr {
	var addrs []netip.Addr
	for _, rr := range resp.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			if qtype != dns.TypeA {
				continue
			}
			if a, ok := netip.AddrFromSlice(rec.A.To4()); ok {
				addrs = append(addrs, a)
			}
		case *dns.AAAA:
			if qtype != dns.TypeAAAA {
				continue
			}
			if a, ok := netip.AddrFromSlice(rec.AAAA.To16()); ok {
				addrs = append(addrs, a)
			}
		}
	}
	return addrs
}

// txtAnswers decodes every TXT string as a literal socket address.
// One malformed string fails the whole set rather than yielding a
// partial list.
func txtAnswers(resp *dns.Msg) ([]netip.AddrPort, error) {
	var addrs []netip.AddrPort
	for _, rr := range resp.Answer {
		rec, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		for _, s := range rec.Txt {
			ap, err := netip.ParseAddrPort(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrBadTXT, s)
			}
			addrs = append(addrs, ap)
		}
	}
	return addrs, nil
}

package dnsclient

import (
	"net"
	"net/netip"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CodecTestSuite struct {
	suite.Suite
}

func aRecord(name, ip string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		A: net.ParseIP(ip),
	}
}

func aaaaRecord(name, ip string) *dns.AAAA {
	return &dns.AAAA{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeAAAA,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		AAAA: net.ParseIP(ip),
	}
}

func txtRecord(name string, strs ...string) *dns.TXT {
	return &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Txt: strs,
	}
}

// replyWire builds a packed response to req with the given rcode and answers.
func replyWire(t *testing.T, req *dns.Msg, rcode int, answers ...dns.RR) []byte {
	t.Helper()

	resp := new(dns.Msg)
	resp.SetRcode(req, rcode)
	resp.Answer = answers

	wire, err := resp.Pack()
	require.NoError(t, err)
	return wire
}

func (s *CodecTestSuite) TestPackQuery() {
	req, wire, err := packQuery("peer.example.com", dns.TypeAAAA)
	s.Require().NoError(err)

	var decoded dns.Msg
	s.Require().NoError(decoded.Unpack(wire))

	s.Require().Len(decoded.Question, 1)
	s.Equal("peer.example.com.", decoded.Question[0].Name)
	s.Equal(dns.TypeAAAA, decoded.Question[0].Qtype)
	s.Equal(uint16(dns.ClassINET), decoded.Question[0].Qclass)
	s.True(decoded.RecursionDesired)
	s.Equal(req.Id, decoded.Id)
}

func (s *CodecTestSuite) TestUnpackResponse() {
	req, _, err := packQuery("peer.example.com", dns.TypeA)
	s.Require().NoError(err)

	testCases := []struct {
		name    string
		wire    func() []byte
		wantErr error
	}{
		{
			name: "success with one answer",
			wire: func() []byte {
				return replyWire(s.T(), req, dns.RcodeSuccess, aRecord("peer.example.com", "203.0.113.7"))
			},
		},
		{
			name: "server failure rcode",
			wire: func() []byte {
				return replyWire(s.T(), req, dns.RcodeServerFailure)
			},
			wantErr: ErrRcode,
		},
		{
			name: "nxdomain rcode",
			wire: func() []byte {
				return replyWire(s.T(), req, dns.RcodeNameError)
			},
			wantErr: ErrRcode,
		},
		{
			name: "success with zero answers",
			wire: func() []byte {
				return replyWire(s.T(), req, dns.RcodeSuccess)
			},
			wantErr: ErrNoAnswers,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := unpackResponse(tc.wire(), req)

			if tc.wantErr != nil {
				s.Error(err)
				s.ErrorIs(err, tc.wantErr)
				return
			}

			s.NoError(err)
			s.Require().NotNil(resp)
			s.Len(resp.Answer, 1)
		})
	}
}

func (s *CodecTestSuite) TestUnpackResponseIDMismatch() {
	req, _, err := packQuery("peer.example.com", dns.TypeA)
	s.Require().NoError(err)

	resp := new(dns.Msg)
	resp.SetRcode(req, dns.RcodeSuccess)
	resp.Answer = []dns.RR{aRecord("peer.example.com", "203.0.113.7")}
	resp.Id = req.Id + 1

	wire, err := resp.Pack()
	s.Require().NoError(err)

	_, err = unpackResponse(wire, req)
	s.ErrorContains(err, "does not match query id")
}

func (s *CodecTestSuite) TestUnpackResponseGarbage() {
	req, _, err := packQuery("peer.example.com", dns.TypeA)
	s.Require().NoError(err)

	_, err = unpackResponse([]byte{0x1, 0x2, 0x3}, req)
	s.ErrorContains(err, "unpacking response")
}

func (s *CodecTestSuite) TestIPAnswers() {
	resp := &dns.Msg{
		Answer: []dns.RR{
			aRecord("peer.example.com", "203.0.113.7"),
			aaaaRecord("peer.example.com", "2001:db8::7"),
			aRecord("peer.example.com", "203.0.113.8"),
		},
	}

	s.Equal(
		[]netip.Addr{
			netip.MustParseAddr("203.0.113.7"),
			netip.MustParseAddr("203.0.113.8"),
		},
		ipAnswers(resp, dns.TypeA),
	)
	s.Equal(
		[]netip.Addr{netip.MustParseAddr("2001:db8::7")},
		ipAnswers(resp, dns.TypeAAAA),
	)
}

func (s *CodecTestSuite) TestTXTAnswers() {
	testCases := []struct {
		name     string
		answers  []dns.RR
		expected []netip.AddrPort
		wantErr  error
	}{
		{
			name: "valid addresses across records and strings",
			answers: []dns.RR{
				txtRecord("peers.example.com", "203.0.113.7:443", "203.0.113.8:443"),
				txtRecord("peers.example.com", "[2001:db8::7]:443"),
			},
			expected: []netip.AddrPort{
				netip.MustParseAddrPort("203.0.113.7:443"),
				netip.MustParseAddrPort("203.0.113.8:443"),
				netip.MustParseAddrPort("[2001:db8::7]:443"),
			},
		},
		{
			name: "one malformed string fails the whole set",
			answers: []dns.RR{
				txtRecord("peers.example.com", "203.0.113.7:443"),
				txtRecord("peers.example.com", "not-an-address"),
			},
			wantErr: ErrBadTXT,
		},
		{
			name: "address without port fails",
			answers: []dns.RR{
				txtRecord("peers.example.com", "203.0.113.7"),
			},
			wantErr: ErrBadTXT,
		},
		{
			name: "non-txt answers are ignored",
			answers: []dns.RR{
				aRecord("peers.example.com", "203.0.113.7"),
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			addrs, err := txtAnswers(&dns.Msg{Answer: tc.answers})

			if tc.wantErr != nil {
				s.Error(err)
				s.ErrorIs(err, tc.wantErr)
				return
			}

			s.NoError(err)
			s.Equal(tc.expected, addrs)
		})
	}
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

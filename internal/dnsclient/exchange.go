package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"github.com/lc/peerdial/internal/log"
)

const (
	// DefaultTimeout bounds the wait for a single response.
	DefaultTimeout = 800 * time.Millisecond
	// DefaultAttempts is the total number of sends per exchange.
	// Constant retries tolerate transient datagram loss without the
	// complexity of backoff, keeping per-attempt latency predictable.
	DefaultAttempts = 3

	// Large enough for any UDP response; we do not fall back to TCP
	// on truncation.
	_maxResponseSize = 65535
)

// Client performs retry-bounded DNS exchanges over UDP. The zero value is
// not ready to use; construct one with New.
type Client struct {
	// Timeout is the receive timeout for a single attempt.
	Timeout time.Duration
	// Attempts is the total number of sends before giving up.
	Attempts int
}

// New returns a Client with the given receive timeout and attempt count.
// Non-positive values fall back to DefaultTimeout and DefaultAttempts.
func New(timeout time.Duration, attempts int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Client{
		Timeout:  timeout,
		Attempts: attempts,
	}
}

// LookupIP queries server for host's address records and returns the parsed
// addresses. qtype must be dns.TypeA or dns.TypeAAAA. A response without a
// single record of the requested type is an error, never an empty success.
func (c *Client) LookupIP(ctx context.Context, server netip.AddrPort, host string, qtype uint16) ([]netip.Addr, error) {
	resp, err := c.exchange(ctx, server, host, qtype)
	if err != nil {
		return nil, err
	}

	addrs := ipAnswers(resp, qtype)
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w of type %s for %q", ErrNoAnswers, dns.TypeToString[qtype], host)
	}
	return addrs, nil
}

// LookupTXT queries server for host's TXT records and decodes each TXT
// string as a literal "ip:port" socket address.
func (c *Client) LookupTXT(ctx context.Context, server netip.AddrPort, host string) ([]netip.AddrPort, error) {
	resp, err := c.exchange(ctx, server, host, dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	addrs, err := txtAnswers(resp)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w of type TXT for %q", ErrNoAnswers, host)
	}
	return addrs, nil
}

// exchange runs one request/response cycle against server. The socket is
// connected to the server so subsequent reads are pinned to that peer, and
// its address family always matches the server's.
func (c *Client) exchange(ctx context.Context, server netip.AddrPort, host string, qtype uint16) (*dns.Msg, error) {
	req, wire, err := packQuery(host, qtype)
	if err != nil {
		return nil, err
	}

	network := "udp6"
	if server.Addr().Is4() || server.Addr().Is4In6() {
		network = "udp4"
	}
	conn, err := net.Dial(network, server.String())
	if err != nil {
		return nil, fmt.Errorf("dialing name server %s: %w", server, err)
	}
	defer conn.Close()

	return c.roundTrip(ctx, conn, req, wire)
}

// netConn is the part of net.Conn the retry loop needs.
type netConn interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	SetReadDeadline(time.Time) error
}

// roundTrip sends wire and waits for a reply, retrying on timeout up to
// c.Attempts total sends. Any other I/O error aborts without retry.
func (c *Client) roundTrip(ctx context.Context, conn netConn, req *dns.Msg, wire []byte) (*dns.Msg, error) {
	buf := make([]byte, _maxResponseSize)

	var lastErr error
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := conn.Write(wire); err != nil {
			return nil, fmt.Errorf("sending query: %w", err)
		}
		if err := conn.SetReadDeadline(time.Now().Add(c.Timeout)); err != nil {
			return nil, fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Read(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				log.Debugf("dnsclient: receive timed out (attempt %d/%d)", attempt, c.Attempts)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("receiving response: %w", err)
		}

		return unpackResponse(buf[:n], req)
	}

	return nil, fmt.Errorf("no response after %d attempts: %w", c.Attempts, lastErr)
}

package resolve

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/lc/peerdial/internal/log"
)

// ErrUnreachable is returned when no candidate accepts a connectivity probe.
var ErrUnreachable = errors.New("no reachable address")

// Chooser selects a single reachable address from a candidate list.
//
// A successful connect on a UDP socket only confirms that the local stack
// can resolve a route to the address, not end-to-end liveness. It is an
// intentionally cheap, synchronous heuristic; latency-based selection
// needs the server side to cooperate.
type Chooser struct {
	probe func(network string, addr netip.AddrPort) bool
}

// NewChooser returns a Chooser backed by UDP connect probes.
func NewChooser() *Chooser {
	return &Chooser{probe: probeUDP}
}

// Choose partitions addrs into an IPv6 and an IPv4 subset, preserving the
// relative order within each, probes the IPv6 subset first and then the
// IPv4 one, and returns the first candidate whose probe succeeds.
func (c *Chooser) Choose(addrs []netip.AddrPort) (netip.AddrPort, error) {
	var v4, v6 []netip.AddrPort
	for _, a := range addrs {
		if a.Addr().Is4() || a.Addr().Is4In6() {
			v4 = append(v4, a)
		} else {
			v6 = append(v6, a)
		}
	}

	subsets := []struct {
		network string
		addrs   []netip.AddrPort
	}{
		{"udp6", v6},
		{"udp4", v4},
	}
	for _, subset := range subsets {
		for _, a := range subset.addrs {
			if c.probe(subset.network, a) {
				return a, nil
			}
			log.Debugf("chooser: %s not reachable", a)
		}
	}

	return netip.AddrPort{}, fmt.Errorf("%w among %v", ErrUnreachable, addrs)
}

// probeUDP binds an ephemeral socket and connects it to addr.
func probeUDP(network string, addr netip.AddrPort) bool {
	conn, err := net.Dial(network, addr.String())
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

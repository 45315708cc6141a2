package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"

	"github.com/google/uuid"
	"github.com/miekg/dns"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/lc/peerdial/internal/dnsclient"
	"github.com/lc/peerdial/internal/log"
)

var (
	// ErrNoNameServers is returned when a non-literal endpoint is resolved
	// with an empty name-server list. No socket is opened in that case.
	ErrNoNameServers = errors.New("no name servers configured")
	// ErrServersExhausted is returned when every configured name server was
	// tried and none produced an address. It carries the per-server context.
	ErrServersExhausted = errors.New("all name servers failed")
)

var _ Exchanger = (*dnsclient.Client)(nil)

// Exchanger performs one retry-bounded DNS exchange per call.
type Exchanger interface {
	// LookupIP resolves host's A or AAAA records against one server.
	LookupIP(ctx context.Context, server netip.AddrPort, host string, qtype uint16) ([]netip.Addr, error)
	// LookupTXT resolves host's TXT records, each carrying an ip:port
	// address, against one server.
	LookupTXT(ctx context.Context, server netip.AddrPort, host string) ([]netip.AddrPort, error)
}

// Resolver turns endpoint strings into candidate socket addresses.
// It holds no state across Resolve calls beyond the exchange counter.
type Resolver struct {
	Exchanger   Exchanger
	NameServers []netip.AddrPort

	exchanges atomic.Int64
}

// Opt is a function option for configuring the Resolver.
type Opt func(r *Resolver)

// New creates a Resolver querying the given name servers in list order.
// Each server must be a literal "ip:port" string.
func New(nameServers []string, opts ...Opt) (*Resolver, error) {
	servers := make([]netip.AddrPort, 0, len(nameServers))
	for _, ns := range nameServers {
		ap, err := netip.ParseAddrPort(ns)
		if err != nil {
			return nil, fmt.Errorf("%w: name server %q is not ip:port", ErrBadEndpoint, ns)
		}
		servers = append(servers, ap)
	}

	r := &Resolver{
		Exchanger:   dnsclient.New(dnsclient.DefaultTimeout, dnsclient.DefaultAttempts),
		NameServers: servers,
	}

	for _, o := range opts {
		o(r)
	}

	return r, nil
}

// WithExchanger returns an option to set a custom exchange implementation,
// e.g. a tuned dnsclient.Client or a test double.
func WithExchanger(x Exchanger) Opt {
	return func(r *Resolver) {
		r.Exchanger = x
	}
}

// Exchanges reports how many DNS exchanges this resolver has issued across
// its lifetime. A literal endpoint resolves with zero.
func (r *Resolver) Exchanges() int64 {
	return r.exchanges.Load()
}

// Resolve turns endpoint into an ordered list of candidate addresses.
//
// Literal addresses pass through untouched. txt: queries go to the first
// name server only. host:port endpoints walk the name-server list in
// order, running the A and AAAA lookups concurrently per server, and
// commit to the first server that yields any address; AAAA-derived
// addresses precede A-derived ones in the result.
func (r *Resolver) Resolve(ctx context.Context, endpoint string) ([]netip.AddrPort, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	switch ep.Kind {
	case KindLiteral:
		return []netip.AddrPort{ep.Addr}, nil
	case KindTXT:
		return r.resolveTXT(ctx, ep.Host)
	default:
		return r.resolveHost(ctx, ep.Host, ep.Port)
	}
}

func (r *Resolver) resolveTXT(ctx context.Context, host string) ([]netip.AddrPort, error) {
	if len(r.NameServers) == 0 {
		return nil, ErrNoNameServers
	}

	server := r.NameServers[0]
	log.Debug("resolve: txt query", "server", server.String(), "host", host)

	r.exchanges.Inc()
	addrs, err := r.Exchanger.LookupTXT(ctx, server, host)
	if err != nil {
		return nil, fmt.Errorf("txt lookup for %q via %s: %w", host, server, err)
	}
	return addrs, nil
}

func (r *Resolver) resolveHost(ctx context.Context, host string, port uint16) ([]netip.AddrPort, error) {
	if len(r.NameServers) == 0 {
		return nil, ErrNoNameServers
	}

	// Correlates this call's exchanges in debug logs.
	callID := uuid.NewString()

	var errs error
	for _, server := range r.NameServers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debug("resolve: querying name server",
			"call_id", callID, "server", server.String(), "host", host)

		addrs, err := r.lookupBoth(ctx, server, host, port)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("name server %s: %w", server, err))
			continue
		}
		return addrs, nil
	}

	return nil, fmt.Errorf("%w for %q: %v", ErrServersExhausted, host, errs)
}

// lookupBoth resolves AAAA and A records concurrently against one server.
// Neither query cancels the other; results are merged only after both
// finish, AAAA-derived addresses first. An error from one family is
// surfaced only when the merged list ends up empty.
func (r *Resolver) lookupBoth(ctx context.Context, server netip.AddrPort, host string, port uint16) ([]netip.AddrPort, error) {
	grp, ctx := errgroup.WithContext(ctx)

	var (
		mu     sync.Mutex
		byType = make(map[uint16][]netip.Addr, 2)
		errs   error
	)

	for _, qt := range [...]uint16{dns.TypeAAAA, dns.TypeA} {
		qt := qt
		grp.Go(func() error {
			r.exchanges.Inc()
			addrs, err := r.Exchanger.LookupIP(ctx, server, host, qt)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", dns.TypeToString[qt], err)) // collect but don't cancel peer
				return nil
			}
			byType[qt] = addrs
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		errs = multierr.Append(errs, err)
	}

	var merged []netip.AddrPort
	for _, qt := range [...]uint16{dns.TypeAAAA, dns.TypeA} {
		for _, a := range byType[qt] {
			merged = append(merged, netip.AddrPortFrom(a, port))
		}
	}
	if len(merged) == 0 {
		if errs == nil {
			errs = fmt.Errorf("no usable addresses for %q", host)
		}
		return nil, errs
	}
	return merged, nil
}

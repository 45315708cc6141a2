// Package resolve bootstraps connections to named peers despite unreliable
// DNS infrastructure, dual-stack ambiguity, or out-of-band address
// advertisement over TXT records.
//
// A Resolver accepts three endpoint shapes:
//
//   - "203.0.113.7:443" — a literal socket address, returned as-is with no
//     network traffic
//   - "peer.example.com:443" — concurrent A + AAAA resolution with ordered
//     fallback across the configured name servers
//   - "txt:peers.example.com" — TXT records whose strings are themselves
//     literal "ip:port" addresses (the port is embedded per record)
//
// # Basic Usage
//
//	r, err := resolve.New([]string{"1.1.1.1:53", "8.8.8.8:53"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	addrs, err := r.Resolve(ctx, "peer.example.com:443")
//	if err != nil {
//		log.Fatal(err)
//	}
//	addr, err := resolve.NewChooser().Choose(addrs)
//
// # Fallback Semantics
//
// Name servers are tried strictly in list order. For each server the A and
// AAAA lookups run concurrently and are joined without mutual cancellation.
// The resolver commits to the first server that yields any address for
// either family; results from two different servers are never merged.
// Errors are folded forward across servers, so an exhausted list reports
// what every server said.
//
// # Candidate Ordering
//
// Within a winning server's results, AAAA-derived addresses precede
// A-derived ones. The Chooser preserves that relative order inside each
// family subset when probing.
//
// # Error Handling
//
// The package defines several error types:
//   - ErrBadEndpoint: the input fits none of the accepted shapes
//   - ErrNoNameServers: a non-literal endpoint with an empty server list
//   - ErrServersExhausted: every server was tried and none produced an address
//   - ErrUnreachable: no candidate accepted a connectivity probe
//
// Multiple errors are aggregated using go.uber.org/multierr when appropriate.
//
// # Thread Safety
//
// A Resolver is safe for concurrent use; every Resolve call owns its own
// sockets and buffers and shares nothing with concurrent calls beyond the
// immutable configuration.
package resolve

// Package dnsclient performs retry-bounded DNS exchanges over UDP.
//
// Each exchange builds a single-question query with the recursion-desired
// flag, binds a fresh ephemeral UDP socket whose address family matches the
// destination name server, connects it to that server, and waits up to the
// configured receive timeout for a reply. Timeouts are retried up to the
// configured attempt count; any other I/O error aborts the exchange
// immediately.
//
// Responses are validated before answers are extracted: a non-success
// response code or a zero-answer response is treated as a failure rather
// than an empty result, so callers can fall back to another name server.
//
// # Basic Usage
//
//	client := dnsclient.New(dnsclient.DefaultTimeout, dnsclient.DefaultAttempts)
//	server := netip.MustParseAddrPort("1.1.1.1:53")
//	ips, err := client.LookupIP(ctx, server, "example.com", dns.TypeAAAA)
//
// TXT lookups repurpose TXT records as an out-of-band address advertisement
// channel: every TXT string must itself decode as a literal "ip:port"
// socket address, and a single malformed string fails the whole lookup.
//
//	addrs, err := client.LookupTXT(ctx, server, "peers.example.com")
//
// # Scope
//
// The package is not a general resolver: there is no caching, no TCP
// fallback for truncated responses, no CNAME chasing, and no DNSSEC.
package dnsclient

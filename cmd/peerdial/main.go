// Command `peerdial` resolves a peer endpoint string into transport
// addresses and optionally probes for a reachable one.
//
// Peerdial is the CLI front-end for the resolve library used to bootstrap
// connections to named peers via a configurable list of recursive name
// servers.
//
// Usage:
//
//	peerdial resolve <endpoint>           - Resolve an endpoint to candidate addresses
//	peerdial resolve <endpoint> --choose  - Also probe and print one reachable address
//	peerdial version                      - Show version information
//
// Endpoints take one of three shapes:
//
//	203.0.113.7:443        - literal socket address, returned as-is
//	peer.example.com:443   - A + AAAA resolution via the configured name servers
//	txt:peers.example.com  - TXT records carrying literal ip:port addresses
//
// Name servers come from ~/.peerdial/config.yaml and can be overridden per
// invocation with --ns.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lc/peerdial/internal/buildinfo"
	"github.com/lc/peerdial/internal/config"
	"github.com/lc/peerdial/internal/dnsclient"
	"github.com/lc/peerdial/pkg/resolve"
)

func main() {
	cfg, err := config.New().Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	root := &cobra.Command{
		Use:   "peerdial",
		Short: "Peer endpoint resolution CLI",
		Long: `Peerdial resolves peer endpoint strings ("host:port", "txt:host", or a
literal socket address) into transport addresses using recursive name
servers, and can probe the candidates for a reachable one.`,
	}

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the peerdial CLI.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	// ---- resolve command ----
	var (
		nameServers []string
		choose      bool
		timeout     time.Duration
	)
	resolveCmd := &cobra.Command{
		Use:   "resolve <endpoint>",
		Short: "Resolve an endpoint to candidate addresses",
		Long: `Resolve an endpoint to candidate socket addresses. With --choose, the
candidates are probed (IPv6 first) and the first reachable one is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			servers := cfg.NameServers
			if len(nameServers) > 0 {
				servers = nameServers
			}
			if timeout <= 0 {
				timeout = cfg.Exchange.Timeout
			}

			resolver, err := resolve.New(servers,
				resolve.WithExchanger(dnsclient.New(timeout, cfg.Exchange.Attempts)))
			if err != nil {
				return err
			}

			addrs, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Address", "Family"})
			for _, a := range addrs {
				family := "IPv6"
				if a.Addr().Is4() || a.Addr().Is4In6() {
					family = "IPv4"
				}
				table.Append([]string{a.String(), family})
			}
			table.Render()

			if choose {
				chosen, err := resolve.NewChooser().Choose(addrs)
				if err != nil {
					return err
				}
				fmt.Printf("reachable: %s\n", color.GreenString(chosen.String()))
			}
			return nil
		},
	}
	resolveCmd.Flags().StringSliceVar(&nameServers, "ns", nil,
		"name servers (ip:port) to query, overriding the config file")
	resolveCmd.Flags().BoolVar(&choose, "choose", false,
		"probe candidates and print the first reachable one")
	resolveCmd.Flags().DurationVar(&timeout, "timeout", 0,
		"receive timeout per DNS exchange attempt (default from config)")

	root.AddCommand(versionCmd, resolveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

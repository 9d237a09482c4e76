package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
)

var (
	fetchServer string
	fetchKSK    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <zone>...",
	Short: "Fetch a zone's DNSKEY RRset and print it in presentation format",
	Long: `Fetch queries the DNSKEY RRset for each zone and prints one record
per line, ready to pipe into submit, retract or convert. With --ksk
only keys carrying the SEP bit are printed, which is usually the set a
delegation should anchor.`,
	Example: `  dspilot fetch --ksk example.net. | dspilot submit
  dspilot fetch --server 127.0.0.1:5302 example.net. example.org.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := resolverAddr(fetchServer)
		if err != nil {
			return err
		}
		for _, zone := range args {
			if err := fetchKeys(cmd.Context(), cmd.OutOrStdout(), server, zone, fetchKSK); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchServer, "server", "", "resolver to query (host or host:port, default from resolv.conf)")
	fetchCmd.Flags().BoolVar(&fetchKSK, "ksk", false, "only print keys with the SEP bit set")
}

// resolverAddr picks the resolver to query, falling back to the
// system's first configured nameserver.
func resolverAddr(flagValue string) (string, error) {
	if flagValue != "" {
		if _, _, err := net.SplitHostPort(flagValue); err == nil {
			return flagValue, nil
		}
		return net.JoinHostPort(flagValue, "53"), nil
	}
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "", fmt.Errorf("no system resolver found, pass --server")
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}

// fetchKeys queries one zone's DNSKEY RRset over TCP and prints each
// record. TCP avoids truncation: DNSKEY RRsets rarely fit in a UDP
// payload.
func fetchKeys(ctx context.Context, w io.Writer, server, zone string, kskOnly bool) error {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(zone), dns.TypeDNSKEY)
	m.SetEdns0(4096, false)

	c := &dns.Client{Net: "tcp", Timeout: 10 * time.Second}
	resp, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return fmt.Errorf("querying %s for %s: %w", server, zone, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("querying %s for %s: %s", server, zone, dns.RcodeToString[resp.Rcode])
	}

	found := 0
	for _, rr := range resp.Answer {
		key, ok := rr.(*dns.DNSKEY)
		if !ok {
			continue
		}
		if kskOnly && key.Flags&dns.SEP == 0 {
			continue
		}
		fmt.Fprintln(w, strings.Join(strings.Fields(key.String()), " "))
		found++
	}
	if found == 0 {
		return fmt.Errorf("no DNSKEY records for %s", zone)
	}
	return nil
}

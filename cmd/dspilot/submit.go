package main

import (
	"github.com/spf13/cobra"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

var submitCmd = &cobra.Command{
	Use:   "submit [DNSKEY record]...",
	Short: "Derive DS records and file them with the registry",
	Long: `Submit parses DNSKEY records, derives the DS records for the
configured digest types and files each one with the registry. The
registry processes changes asynchronously; the report carries one task
reference per accepted DS record, which 'dspilot task' can poll.

Records in a batch succeed or fail independently. When a request is
cut off mid-flight the record is marked ambiguous: the registry may or
may not have acted, so check before retrying.`,
	Example: `  dspilot submit -f dnskeys.txt
  cat Kexample.net.+013+55648.key | dspilot submit --digest SHA-256 --digest SHA-384`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, domain.ActionSubmit)
	},
}

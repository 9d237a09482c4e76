package main

import (
	"github.com/spf13/cobra"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

var convertCmd = &cobra.Command{
	Use:   "convert [DNSKEY record]...",
	Short: "Derive DS records locally without contacting the registry",
	Long: `Convert parses DNSKEY records and prints the DS records that would
be filed, one per requested digest type. No credentials are needed.`,
	Example: `  dspilot convert 'example.net. 3600 IN DNSKEY 257 3 13 koPbw9wmYZ7...'
  dspilot convert --digest all -f Kexample.net.+013+55648.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, domain.ActionConvert)
	},
}

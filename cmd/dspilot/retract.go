package main

import (
	"github.com/spf13/cobra"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

var retractCmd = &cobra.Command{
	Use:   "retract [DNSKEY record]...",
	Short: "Ask the registry to remove previously filed DS records",
	Long: `Retract derives the same DS records submit would and asks the
registry to remove them. The retract form depends on --retract-mode:
'full' identifies each DS by its complete digest tuple, 'key-tag' by
key tag alone, and 'auto' picks key-tag when the registry advertises
support for it.`,
	Example: `  dspilot retract 'example.net. 3600 IN DNSKEY 257 3 13 koPbw9wmYZ7...'
  dspilot retract --retract-mode full -f rolled-keys.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, domain.ActionRetract)
	},
}

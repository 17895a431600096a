package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().Duration("max-record-age", -1, "Maximum accepted record age (0 = unlimited)")
	settingsSetCmd.Flags().Duration("call-budget", 0, "Time budget per verification call")
	settingsSetCmd.Flags().String("chain-id", "", "Network chain identifier")
	settingsSetCmd.Flags().String("verifier-addr", "", "Ledger verifier address")
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change platform settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current platform settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		maxAge, err := trustStore.MaxRecordAge()
		if err != nil {
			return err
		}
		budget, err := trustStore.CallBudget()
		if err != nil {
			return err
		}
		chainID, err := trustStore.ChainID()
		if err != nil {
			return err
		}
		verifierAddr, err := trustStore.VerifierAddress()
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(map[string]any{
				"max_record_age_seconds": int64(maxAge / time.Second),
				"call_budget_millis":     budget.Milliseconds(),
				"chain_id":               chainID,
				"verifier_address":       verifierAddr,
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if maxAge == 0 {
			fmt.Fprintf(w, "Max record age:\tunlimited\n")
		} else {
			fmt.Fprintf(w, "Max record age:\t%s\n", maxAge)
		}
		fmt.Fprintf(w, "Call budget:\t%s\n", budget)
		fmt.Fprintf(w, "Chain ID:\t%s\n", chainID)
		fmt.Fprintf(w, "Verifier address:\t%s\n", verifierAddr)
		w.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change platform settings",
	Long: `Change one or more platform settings.

Examples:
  trustctl settings set --max-record-age 24h
  trustctl settings set --call-budget 2s --chain-id intg-main-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := false

		if cmd.Flags().Changed("max-record-age") {
			maxAge, _ := cmd.Flags().GetDuration("max-record-age")
			if maxAge < 0 {
				return fmt.Errorf("max record age must not be negative")
			}
			if err := trustStore.SetMaxRecordAge(maxAge); err != nil {
				return err
			}
			changed = true
		}
		if cmd.Flags().Changed("call-budget") {
			budget, _ := cmd.Flags().GetDuration("call-budget")
			if budget <= 0 {
				return fmt.Errorf("call budget must be positive")
			}
			if err := trustStore.SetCallBudget(budget); err != nil {
				return err
			}
			changed = true
		}
		if chainID, _ := cmd.Flags().GetString("chain-id"); chainID != "" {
			if err := trustStore.SetChainID(chainID); err != nil {
				return err
			}
			changed = true
		}
		if verifierAddr, _ := cmd.Flags().GetString("verifier-addr"); verifierAddr != "" {
			if err := trustStore.SetVerifierAddress(verifierAddr); err != nil {
				return err
			}
			changed = true
		}

		if !changed {
			return fmt.Errorf("no settings given; see 'trustctl settings set --help'")
		}
		return settingsShowCmd.RunE(cmd, nil)
	},
}

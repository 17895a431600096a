package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
)

var warnFmt = color.New(color.FgYellow).SprintFunc()

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().Int("limit", 50, "Maximum number of events to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit trail",
	Long:  `Show recorded governance events, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		events, err := trustStore.ListAuditEvents(limit)
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(events) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSEVERITY\tEVENT\tACTOR\tSUBJECT\tDETAILS")
		for _, ev := range events {
			severity := audit.Severity(ev.Severity).String()
			if audit.Severity(ev.Severity) == audit.SeverityWarning {
				severity = warnFmt(severity)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				ev.Timestamp.Format(time.RFC3339), severity, ev.Type, ev.Actor, ev.Subject, formatDetails(ev.Details))
		}
		w.Flush()
		return nil
	},
}

func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, details[k]))
	}
	return strings.Join(parts, " ")
}

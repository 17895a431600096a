package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	activeFmt   = color.New(color.FgGreen).SprintFunc()
	inactiveFmt = color.New(color.FgRed).SprintFunc()
)

func init() {
	rootCmd.AddCommand(providerCmd)
	providerCmd.AddCommand(providerRegisterCmd)
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerShowCmd)
	providerCmd.AddCommand(providerDeactivateCmd)
	providerCmd.AddCommand(providerReactivateCmd)
	providerCmd.AddCommand(providerLookupCmd)

	providerRegisterCmd.Flags().String("type", "ledger-record", "Provider type: ledger-record, credential, zero-knowledge, other")
	providerRegisterCmd.Flags().String("description", "", "Human-readable description")
	providerDeactivateCmd.Flags().String("reason", "", "Reason recorded with the deactivation")
	providerListCmd.Flags().Int("offset", 0, "Pagination offset")
	providerListCmd.Flags().Int("limit", 50, "Maximum number of providers to return")
}

// cliActor returns the actor recorded on mutations, defaulting to "cli"
// when --actor is not set.
func cliActor() string {
	if actorAddr != "" {
		return actorAddr
	}
	return "cli"
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage verification providers",
	Long:  `Commands to register, list, and manage verification providers.`,
}

var providerRegisterCmd = &cobra.Command{
	Use:   "register <id> <address>",
	Short: "Register a verification provider",
	Long: `Register a verification provider under a stable identifier.

The address is the provider's verifier address on the ledger. The deployed
code fingerprint at that address is captured at registration time; lookups
return no provider when the deployed code later diverges from it.

Examples:
  trustctl provider register doc-verify-1 0xAbc123...
  trustctl provider register cred-verify 0xDef456... --type credential --description "credential verifier"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		address := args[1]
		providerType, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")

		rec, err := providerReg.Register(id, address, providerType, description, cliActor())
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(rec)
		}
		fmt.Printf("Registered provider %s at %s (fingerprint %s)\n", rec.ID, rec.Address, shortFingerprint(rec.Fingerprint))
		return nil
	},
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		limit, _ := cmd.Flags().GetInt("limit")

		providers, err := providerReg.List(offset, limit)
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(providers) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(providers)
		}

		if len(providers) == 0 {
			fmt.Println("No providers registered. Use 'trustctl provider register' to add one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tADDRESS\tTYPE\tSTATUS\tREGISTERED")
		for _, p := range providers {
			status := activeFmt("active")
			if !p.Active {
				status = inactiveFmt("inactive")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Address, p.ProviderType, status, p.RegisteredAt.Format(time.RFC3339))
		}
		w.Flush()
		return nil
	},
}

var providerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show provider details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := providerReg.Get(args[0])
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(p)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%s\n", p.ID)
		fmt.Fprintf(w, "Address:\t%s\n", p.Address)
		fmt.Fprintf(w, "Type:\t%s\n", p.ProviderType)
		fmt.Fprintf(w, "Fingerprint:\t%s\n", p.Fingerprint)
		if p.Active {
			fmt.Fprintf(w, "Status:\t%s\n", activeFmt("active"))
		} else {
			fmt.Fprintf(w, "Status:\t%s\n", inactiveFmt("inactive"))
			if p.DeactivateReason != nil {
				fmt.Fprintf(w, "Reason:\t%s\n", *p.DeactivateReason)
			}
		}
		if p.Description != "" {
			fmt.Fprintf(w, "Description:\t%s\n", p.Description)
		}
		fmt.Fprintf(w, "Registered:\t%s\n", p.RegisteredAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Updated:\t%s\n", p.UpdatedAt.Format(time.RFC3339))
		w.Flush()
		return nil
	},
}

var providerDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a provider",
	Long: `Deactivate a provider so lookups no longer resolve it.

Deactivation is reversible with 'trustctl provider reactivate'. The
registration entry and its fingerprint are retained.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		if err := providerReg.Deactivate(args[0], reason, cliActor()); err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(map[string]string{"status": "deactivated", "id": args[0]})
		}
		fmt.Printf("Deactivated provider %s\n", args[0])
		return nil
	},
}

var providerReactivateCmd = &cobra.Command{
	Use:   "reactivate <id>",
	Short: "Reactivate a deactivated provider",
	Long: `Reactivate a provider so lookups resolve it again.

Reactivation verifies the code currently deployed at the provider's
address still matches the fingerprint captured at registration and
fails when it does not.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := providerReg.Reactivate(args[0], cliActor()); err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(map[string]string{"status": "reactivated", "id": args[0]})
		}
		fmt.Printf("Reactivated provider %s\n", args[0])
		return nil
	},
}

var providerLookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Resolve a provider to its verified address",
	Long: `Resolve a provider identifier to its verifier address.

Lookup never fails: it prints the address when the provider is active
and its deployed code still matches the registered fingerprint, and
reports "not found" otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, ok := providerReg.Lookup(args[0])

		if outputFormat != "table" {
			return formatOutput(map[string]any{"found": ok, "address": address})
		}
		if !ok {
			fmt.Printf("Provider %s: not found\n", args[0])
			return nil
		}
		fmt.Println(address)
		return nil
	},
}

func shortFingerprint(fp string) string {
	if len(fp) > 16 {
		return fp[:16] + "..."
	}
	return fp
}

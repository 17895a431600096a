package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

var revokedFmt = color.New(color.FgRed, color.Bold).SprintFunc()

func init() {
	rootCmd.AddCommand(documentCmd)
	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(issuerCmd)
	issuerCmd.AddCommand(issuerShowCmd)
	issuerCmd.AddCommand(issuerSetDefaultCmd)
	issuerCmd.AddCommand(issuerSetOwnerCmd)
	issuerCmd.AddCommand(issuerRevokeCmd)
	issuerCmd.AddCommand(issuerRestoreCmd)

	documentAddCmd.Flags().String("executor", "", "Executor address appointed for the document")
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents and their issuer authority",
	Long:  `Commands to register documents and manage per-document issuer state.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add <id> <owner>",
	Short: "Register a document with its owner",
	Long: `Register a document under a stable identifier with its owner address.

An optional executor address can be appointed alongside the owner. Both
the owner and the executor hold owner-tier authority over the document's
issuer state.

Examples:
  trustctl document add will-2024-001 0xOwner...
  trustctl document add estate-plan 0xOwner... --executor 0xExec...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		executor, _ := cmd.Flags().GetString("executor")
		doc := &store.Document{ID: args[0], Owner: args[1], Executor: executor}
		if err := trustStore.UpsertDocument(doc); err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(doc)
		}
		fmt.Printf("Registered document %s (owner %s)\n", doc.ID, doc.Owner)
		return nil
	},
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := trustStore.ListDocuments()
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(docs) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(docs)
		}

		if len(docs) == 0 {
			fmt.Println("No documents registered. Use 'trustctl document add' to register one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOWNER\tEXECUTOR\tISSUER STATE\tCREATED")
		for _, d := range docs {
			state, _ := issuerAuthority.StateOf(d.ID)
			executor := d.Executor
			if executor == "" {
				executor = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.Owner, executor, formatIssuerState(state), d.CreatedAt.Format(time.RFC3339))
		}
		w.Flush()
		return nil
	},
}

var documentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show document details and issuer state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := trustStore.GetDocument(args[0])
		if err != nil {
			return err
		}
		state, raw := issuerAuthority.StateOf(doc.ID)

		if outputFormat != "table" {
			return formatOutput(map[string]any{
				"document":     doc,
				"issuer_state": string(state),
				"issuer":       raw,
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%s\n", doc.ID)
		fmt.Fprintf(w, "Owner:\t%s\n", doc.Owner)
		if doc.Executor != "" {
			fmt.Fprintf(w, "Executor:\t%s\n", doc.Executor)
		}
		fmt.Fprintf(w, "Created:\t%s\n", doc.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Issuer state:\t%s\n", formatIssuerState(state))
		writeIssuerDetail(w, raw)
		w.Flush()
		return nil
	},
}

var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Manage a document's issuer authority",
	Long: `Commands to inspect and change which issuer is trusted for a document.

An owner-set issuer overrides the platform default. Revocation disables
both tiers until the owner restores a trusted issuer; while revoked,
the platform default cannot be changed.`,
}

var issuerShowCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show a document's issuer state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, raw := issuerAuthority.StateOf(args[0])
		res, ok := issuerAuthority.ActiveIssuer(args[0])

		if outputFormat != "table" {
			active := ""
			if ok {
				active = res.Issuer
			}
			return formatOutput(map[string]any{
				"document_id":   args[0],
				"state":         string(state),
				"active_issuer": active,
				"is_owner_set":  res.IsOwnerSet,
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Document:\t%s\n", args[0])
		fmt.Fprintf(w, "State:\t%s\n", formatIssuerState(state))
		if ok {
			tier := "default"
			if res.IsOwnerSet {
				tier = "owner"
			}
			fmt.Fprintf(w, "Active issuer:\t%s (%s)\n", res.Issuer, tier)
		} else {
			fmt.Fprintf(w, "Active issuer:\tnone\n")
		}
		writeIssuerDetail(w, raw)
		w.Flush()
		return nil
	},
}

var issuerSetDefaultCmd = &cobra.Command{
	Use:   "set-default <document-id> <issuer-address>",
	Short: "Set the platform default issuer",
	Long: `Set the platform default issuer for a document.

The default issuer applies only while the owner has not set their own
issuer. Fails while the document's issuer state is revoked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := issuerAuthority.SetDefaultIssuer(args[0], args[1], cliActor()); err != nil {
			return err
		}
		return printIssuerChange(args[0], "default issuer set", args[1])
	},
}

var issuerSetOwnerCmd = &cobra.Command{
	Use:   "set-owner <document-id> <issuer-address>",
	Short: "Set the owner-chosen issuer",
	Long: `Set the owner-chosen issuer for a document.

Requires --actor to be the document's owner or executor. The owner
issuer overrides the platform default and clears any revocation.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := issuerAuthority.SetOwnerIssuer(args[0], args[1], cliActor()); err != nil {
			return err
		}
		return printIssuerChange(args[0], "owner issuer set", args[1])
	},
}

var issuerRevokeCmd = &cobra.Command{
	Use:   "revoke <document-id>",
	Short: "Revoke all issuer trust for a document",
	Long: `Revoke all issuer trust for a document.

Requires --actor to be the document's owner or executor. While revoked,
no issuer is trusted and new attestations from any issuer fail
verification. Use 'trustctl document issuer restore' to recover.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := issuerAuthority.RevokeIssuer(args[0], cliActor()); err != nil {
			return err
		}
		return printIssuerChange(args[0], "issuer trust revoked", "")
	},
}

var issuerRestoreCmd = &cobra.Command{
	Use:   "restore <document-id> <issuer-address>",
	Short: "Restore issuer trust after revocation",
	Long: `Restore issuer trust for a revoked document.

Requires --actor to be the document's owner or executor. The supplied
issuer becomes the owner-chosen issuer. Fails when the document is not
currently revoked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := issuerAuthority.RestoreIssuer(args[0], args[1], cliActor()); err != nil {
			return err
		}
		return printIssuerChange(args[0], "issuer trust restored", args[1])
	},
}

func printIssuerChange(documentID, what, issuerAddr string) error {
	if outputFormat != "table" {
		state, _ := issuerAuthority.StateOf(documentID)
		return formatOutput(map[string]string{
			"document_id": documentID,
			"state":       string(state),
			"issuer":      issuerAddr,
		})
	}
	if issuerAddr != "" {
		fmt.Printf("Document %s: %s (%s)\n", documentID, what, issuerAddr)
	} else {
		fmt.Printf("Document %s: %s\n", documentID, what)
	}
	return nil
}

func formatIssuerState(state issuer.State) string {
	if state == issuer.Revoked {
		return revokedFmt(string(state))
	}
	return string(state)
}

func writeIssuerDetail(w *tabwriter.Writer, raw *store.IssuerState) {
	if raw.DefaultIssuer != "" {
		fmt.Fprintf(w, "Default issuer:\t%s\n", raw.DefaultIssuer)
	}
	if raw.OwnerIssuer != "" {
		fmt.Fprintf(w, "Owner issuer:\t%s\n", raw.OwnerIssuer)
	}
	if raw.RevokedAt != 0 {
		fmt.Fprintf(w, "Revoked at:\t%s\n", time.Unix(raw.RevokedAt, 0).UTC().Format(time.RFC3339))
	}
}

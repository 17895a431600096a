package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/provider"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.AddCommand(recordMintCmd)
	recordCmd.AddCommand(recordShowCmd)
	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordRevokeCmd)

	recordMintCmd.Flags().String("uid", "", "Record UID (default: generated)")
	recordMintCmd.Flags().String("schema", "document-capabilities", "Attestation schema")
	recordMintCmd.Flags().String("schema-version", "2", "Payload schema version")
	recordMintCmd.Flags().String("contract", "", "Target document contract address")
	recordMintCmd.Flags().Duration("expires-in", 0, "Time until expiry (0 = never)")
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Mint and manage attestation records",
	Long: `Commands to mint, inspect, and revoke attestation records on the
local ledger. Intended for development and testing; production records
are written by issuers.`,
}

var recordMintCmd = &cobra.Command{
	Use:   "mint <document-id> <issuer> <recipient> <capabilities>",
	Short: "Mint an attestation record",
	Long: `Mint an attestation record granting capabilities on a document to a
recipient. Capabilities are a pipe- or comma-separated list of names.

The record's origin fields are stamped from the configured chain ID and
verifier address so replayed copies fail verification elsewhere.

Examples:
  trustctl record mint will-2024-001 0xIssuer 0xAlice view,comment
  trustctl record mint will-2024-001 0xIssuer 0xExec transfer --expires-in 720h`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID, issuerAddr, recipient := args[0], args[1], args[2]
		caps, err := capability.Parse(args[3])
		if err != nil {
			return err
		}

		uid, _ := cmd.Flags().GetString("uid")
		if uid == "" {
			uid = "rec_" + uuid.New().String()
		}
		schema, _ := cmd.Flags().GetString("schema")
		schemaVersion, _ := cmd.Flags().GetString("schema-version")
		contract, _ := cmd.Flags().GetString("contract")
		expiresIn, _ := cmd.Flags().GetDuration("expires-in")

		chainID, err := trustStore.ChainID()
		if err != nil {
			return err
		}
		verifierAddr, err := trustStore.VerifierAddress()
		if err != nil {
			return err
		}

		now := time.Now()
		payload, err := provider.EncodePayload(&provider.Payload{
			DocumentID:     documentID,
			Capabilities:   caps,
			OriginChainID:  chainID,
			OriginVerifier: verifierAddr,
			TargetContract: contract,
			SchemaVersion:  schemaVersion,
			IssuedAt:       now.Unix(),
		})
		if err != nil {
			return err
		}

		att := &store.Attestation{
			UID:       uid,
			Schema:    schema,
			Issuer:    issuerAddr,
			Recipient: recipient,
			IssuedAt:  now.Unix(),
			Payload:   payload,
		}
		if expiresIn > 0 {
			att.ExpiresAt = now.Add(expiresIn).Unix()
		}
		if err := trustStore.PutAttestation(att); err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(att)
		}
		fmt.Printf("Minted record %s on %s for %s (%s)\n", uid, documentID, recipient, caps)
		return nil
	},
}

var recordShowCmd = &cobra.Command{
	Use:   "show <uid>",
	Short: "Show an attestation record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		att, err := trustStore.GetAttestation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(att)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "UID:\t%s\n", att.UID)
		fmt.Fprintf(w, "Schema:\t%s\n", att.Schema)
		fmt.Fprintf(w, "Issuer:\t%s\n", att.Issuer)
		fmt.Fprintf(w, "Recipient:\t%s\n", att.Recipient)
		fmt.Fprintf(w, "Issued:\t%s\n", time.Unix(att.IssuedAt, 0).UTC().Format(time.RFC3339))
		if att.ExpiresAt != 0 {
			fmt.Fprintf(w, "Expires:\t%s\n", time.Unix(att.ExpiresAt, 0).UTC().Format(time.RFC3339))
		}
		if att.Revoked() {
			fmt.Fprintf(w, "Revoked:\t%s\n", revokedFmt(time.Unix(att.RevokedAt, 0).UTC().Format(time.RFC3339)))
		}
		if p, err := provider.DecodePayload(att.Payload); err == nil {
			fmt.Fprintf(w, "Document:\t%s\n", p.DocumentID)
			fmt.Fprintf(w, "Capabilities:\t%s\n", p.Capabilities)
		}
		w.Flush()
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:   "list <issuer>",
	Short: "List attestation records by issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := trustStore.ListAttestationsByIssuer(args[0])
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(records) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(records)
		}

		if len(records) == 0 {
			fmt.Printf("No records issued by %s\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "UID\tRECIPIENT\tDOCUMENT\tCAPABILITIES\tSTATUS")
		for _, att := range records {
			documentID, capNames := "-", "-"
			if p, err := provider.DecodePayload(att.Payload); err == nil {
				documentID = p.DocumentID
				capNames = p.Capabilities.String()
			}
			status := activeFmt("valid")
			switch {
			case att.Revoked():
				status = revokedFmt("revoked")
			case att.ExpiredAt(time.Now()):
				status = inactiveFmt("expired")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", att.UID, att.Recipient, documentID, capNames, status)
		}
		w.Flush()
		return nil
	},
}

var recordRevokeCmd = &cobra.Command{
	Use:   "revoke <uid>",
	Short: "Revoke an attestation record",
	Long: `Revoke an attestation record. Revocation is permanent; a revoked
record fails verification from the revocation instant onward.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trustStore.RevokeAttestation(args[0], time.Now()); err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(map[string]string{"status": "revoked", "uid": args[0]})
		}
		fmt.Printf("Revoked record %s\n", args[0])
		return nil
	},
}

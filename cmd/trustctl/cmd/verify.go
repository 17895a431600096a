package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/provider"
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("kind", string(provider.KindLedgerRecord), "Provider kind: ledger-record or credential")
	verifyCmd.Flags().String("recipient", "", "Address the proof must be bound to (required)")
	verifyCmd.Flags().String("document", "", "Document the capabilities apply to (required)")
	verifyCmd.Flags().String("required", "", "Capabilities the caller needs, for a sufficiency answer")
	verifyCmd.Flags().String("contract", "", "Target document contract address")
	verifyCmd.Flags().String("schema", "document-capabilities", "Attestation schema")
	verifyCmd.Flags().String("schema-version", "2", "Payload schema version")
	verifyCmd.MarkFlagRequired("recipient")
	verifyCmd.MarkFlagRequired("document")
}

var verifyCmd = &cobra.Command{
	Use:   "verify <provider-id> <proof>",
	Short: "Verify a capability proof",
	Long: `Verify a capability proof against a registered provider.

For ledger-record providers the proof is a record UID. For credential
providers it is a compact JWS credential.

Verification is a question, not an assertion: a bad proof, an unknown
provider, or a tampered registration all answer "not verified" rather
than erroring. The command exits zero either way.

Examples:
  trustctl verify doc-verify-1 rec_1a2b3c --recipient 0xAlice --document will-2024-001
  trustctl verify doc-verify-1 rec_1a2b3c --recipient 0xAlice --document will-2024-001 --required view,comment`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerID, proof := args[0], args[1]
		kindFlag, _ := cmd.Flags().GetString("kind")
		recipient, _ := cmd.Flags().GetString("recipient")
		documentID, _ := cmd.Flags().GetString("document")
		requiredFlag, _ := cmd.Flags().GetString("required")
		contract, _ := cmd.Flags().GetString("contract")
		schema, _ := cmd.Flags().GetString("schema")
		schemaVersion, _ := cmd.Flags().GetString("schema-version")

		required, err := capability.Parse(requiredFlag)
		if err != nil {
			return err
		}

		// Provider resolution failing is a negative answer, not an error.
		if _, ok := providerReg.Lookup(providerID); !ok {
			return printVerdict(false, capability.None, required)
		}

		maxAge, err := trustStore.MaxRecordAge()
		if err != nil {
			return err
		}
		budget, err := trustStore.CallBudget()
		if err != nil {
			return err
		}

		cfg := provider.Config{
			Schema:          schema,
			SchemaVersion:   schemaVersion,
			ContractAddress: contract,
			MaxRecordAge:    int64(maxAge / time.Second),
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		var p provider.Provider
		switch provider.Kind(kindFlag) {
		case provider.KindLedgerRecord:
			p = provider.NewRecordProvider(trustLedger, issuerAuthority, cfg, logger)
		case provider.KindCredential:
			p = provider.NewCredentialProvider(trustLedger, issuerAuthority, provider.NewStoreKeys(trustStore), cfg, logger)
		default:
			return fmt.Errorf("unknown provider kind %q", kindFlag)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), budget)
		defer cancel()

		verified, caps := p.VerifyCapabilities(ctx, []byte(proof), recipient, documentID, required)
		return printVerdict(verified, caps, required)
	},
}

func printVerdict(verified bool, caps, required capability.Mask) error {
	if outputFormat != "table" {
		out := map[string]any{
			"verified":     verified,
			"capabilities": caps.Names(),
			"mask":         uint64(caps),
		}
		if required != capability.None {
			out["sufficient"] = verified && caps.Has(required)
		}
		return formatOutput(out)
	}

	if !verified {
		fmt.Println(inactiveFmt("not verified"))
		return nil
	}
	fmt.Printf("%s capabilities: %s\n", activeFmt("verified"), strings.Join(caps.Names(), ", "))
	if required != capability.None {
		if caps.Has(required) {
			fmt.Printf("sufficient for: %s\n", required)
		} else {
			fmt.Printf("%s for: %s\n", inactiveFmt("insufficient"), required)
		}
	}
	return nil
}

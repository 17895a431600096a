package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage issuer signing keys",
	Long: `Commands to register and inspect issuer public keys used to verify
credential proofs.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set <issuer> <jwk-file>",
	Short: "Register an issuer's public key",
	Long: `Register the public JWK used to verify credentials signed by an
issuer. The file must contain a single JSON Web Key.

Examples:
  trustctl key set 0xIssuer issuer-pub.jwk.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}

		var jwk jose.JSONWebKey
		if err := json.Unmarshal(data, &jwk); err != nil {
			return fmt.Errorf("failed to parse JWK: %w", err)
		}
		if !jwk.Valid() {
			return fmt.Errorf("key file %s does not contain a valid JWK", args[1])
		}
		if !jwk.IsPublic() {
			return fmt.Errorf("refusing to store a private key; provide the public JWK")
		}

		if err := trustStore.SetIssuerKey(args[0], string(data)); err != nil {
			return err
		}
		if outputFormat != "table" {
			return formatOutput(map[string]string{"status": "stored", "issuer": args[0]})
		}
		fmt.Printf("Stored public key for issuer %s\n", args[0])
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show <issuer>",
	Short: "Show an issuer's registered public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyJSON, err := trustStore.GetIssuerKey(args[0])
		if err != nil {
			return err
		}
		fmt.Println(keyJSON)
		return nil
	},
}

// Package cmd implements the trustctl CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/docregistry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/registry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	outputFormat string
	dbPath       string
	actorAddr    string

	// Shared instances, wired in PersistentPreRunE
	trustStore      *store.Store
	trustLedger     *ledger.Local
	providerReg     *registry.Registry
	issuerAuthority *issuer.Authority
)

var rootCmd = &cobra.Command{
	Use:   "trustctl",
	Short: "Trust platform CLI for provider and issuer management",
	Long: `trustctl is a command-line interface for the document trust platform.

It provides commands to register verification providers, manage document
issuer authority, mint and revoke attestation records, and answer
capability questions against the local ledger store.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store initialization for completion commands
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		path := dbPath
		if path == "" {
			path = store.DefaultPath()
		}

		var err error
		trustStore, err = store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		chainID, err := trustStore.ChainID()
		if err != nil {
			return err
		}
		verifierAddr, err := trustStore.VerifierAddress()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		recorder := audit.NewRecorder(logger, audit.NewStoreEmitter(trustStore))

		trustLedger = ledger.NewLocal(trustStore, chainID, verifierAddr)
		providerReg = registry.New(trustStore, trustLedger, recorder, logger)
		issuerAuthority = issuer.NewAuthority(trustStore, docregistry.NewStoreRegistry(trustStore), trustLedger, recorder)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if trustStore != nil {
			trustStore.Close()
		}
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for trustctl.

To load completions:

Bash:
  # Add to ~/.bashrc:
  source <(trustctl completion bash)

Zsh:
  # Add to ~/.zshrc:
  source <(trustctl completion zsh)

Fish:
  # Add to ~/.config/fish/completions/:
  trustctl completion fish > ~/.config/fish/completions/trustctl.fish

PowerShell:
  # Add to your PowerShell profile:
  trustctl completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.local/share/trustctl/trustctl.db)")
	rootCmd.PersistentFlags().StringVar(&actorAddr, "actor", "", "Actor address recorded on mutations")
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// formatOutput handles output formatting based on the --output flag.
func formatOutput(data interface{}) error {
	switch outputFormat {
	case "json":
		return outputJSON(data)
	case "yaml":
		return outputYAML(data)
	default:
		// Table format is handled by each command
		return nil
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

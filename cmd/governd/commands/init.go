package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/devledger"
	"github.com/omeonechain/governance/pkg/stores"
)

func newInitCommand() *cobra.Command {
	var (
		dataDir string
		demo    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a governance workspace",
		Long: `Initialize a new governance workspace with configuration, database, and
ledger files.

The workspace uses SQLite for governance state and a YAML file as the
development token ledger. The --demo flag seeds the ledger with funded
demo accounts so the full stake/propose/vote flow can be exercised
immediately.`,
		Example: `  # Initialize a workspace in ./data
  governd init

  # Initialize with demo accounts
  governd init --demo

  # Initialize with a custom config path
  governd init --config /etc/omeonechain/governd.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().
				Str("config", configPath).
				Str("data_dir", dataDir).
				Msg("Initializing workspace")

			ctx := cmd.Context()

			fmt.Printf("Initializing governance workspace in %s\n\n", dataDir)

			// Step 1: Create directory structure
			dirs := []string{
				dataDir,
				filepath.Join(dataDir, "content"),
			}
			for _, dir := range dirs {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
				fmt.Printf("✓ Created directory: %s\n", dir)
			}

			// Step 2: Initialize SQLite database
			dbPath := filepath.Join(dataDir, "governance.db")
			store, err := stores.NewSQLiteStore(stores.Config{
				Path: dbPath,
			})
			if err != nil {
				return fmt.Errorf("failed to create store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Printf("✓ Initialized SQLite database: %s\n", dbPath)

			// Step 3: Create the ledger, optionally seeded with demo accounts
			ledgerPath := filepath.Join(dataDir, "ledger.yaml")
			ledger, err := devledger.NewLedger(ledgerPath)
			if err != nil {
				return fmt.Errorf("failed to create ledger: %w", err)
			}

			if demo {
				seed := map[string]struct {
					balance float64
					trust   float64
				}{
					"alice": {balance: 5000, trust: 0.8},
					"bob":   {balance: 1200, trust: 0.6},
					"carol": {balance: 300, trust: 0.45},
					"dave":  {balance: 50, trust: 0.35},
				}
				for user, acct := range seed {
					if err := ledger.Credit(user, acct.balance); err != nil {
						return fmt.Errorf("failed to seed account %s: %w", user, err)
					}
					if err := ledger.SetTrustScore(user, acct.trust); err != nil {
						return fmt.Errorf("failed to seed trust score for %s: %w", user, err)
					}
				}
				fmt.Printf("✓ Seeded %d demo accounts in ledger: %s\n", len(seed), ledgerPath)
			} else {
				fmt.Printf("✓ Created ledger: %s\n", ledgerPath)
			}

			// Step 4: Create default config file
			defaultConfig := `# governd configuration

store:
  backend: sqlite
  path: %s

ledger:
  path: %s
  content_dir: %s

logging:
  level: info
  format: console

metrics:
  enabled: false
  listen_address: ":9090"
`
			configContent := fmt.Sprintf(defaultConfig,
				dbPath, ledgerPath, filepath.Join(dataDir, "content"))

			if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("✓ Created config file: %s\n", configPath)

			// Done
			fmt.Printf("\n✅ Workspace initialized successfully!\n\n")
			fmt.Printf("Next steps:\n")
			fmt.Printf("  1. Stake tokens for governance:\n")
			fmt.Printf("     governd stake alice 1000 365\n\n")
			fmt.Printf("  2. Create and activate a proposal:\n")
			fmt.Printf("     governd propose --author alice --type PARAMETER_CHANGE --title \"...\"\n\n")

			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "workspace data directory")
	cmd.Flags().BoolVar(&demo, "demo", false, "seed the ledger with funded demo accounts")

	return cmd
}

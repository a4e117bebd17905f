package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to qBittorrent",
	Long:  `Test the connection to your qBittorrent instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to qBittorrent at %s...\n", cfg.Qbittorrent.URL)

	// Connection is already tested during client creation
	fmt.Println("✓ Connection successful!")

	ctx := context.Background()
	snapshots, err := qbtClient.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list torrents: %w", err)
	}

	var seeding int
	for _, t := range snapshots {
		if t.IsSeeding() {
			seeding++
		}
	}

	fmt.Printf("\nqBittorrent Statistics:\n")
	fmt.Printf("- Total torrents: %d\n", len(snapshots))
	fmt.Printf("- Seeding: %d\n", seeding)

	fmt.Printf("\nConfigured tracker policies: %d\n", len(cfg.Policy.Trackers))
	for host := range cfg.Policy.Trackers {
		fmt.Printf("  • %s\n", host)
	}

	if cfg.Filter.Expression != "" {
		fmt.Printf("\nPre-filter: %s\n", cfg.Filter.Expression)
	}
	fmt.Printf("Dry run: %v\n", cfg.Runtime.DryRun)

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukman83/boostgg-scrap/internal/importer"
	"github.com/lukman83/boostgg-scrap/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the scraped CSV files into MySQL",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().Bool("init-schema", false, "Create the tables if they do not exist")
	importCmd.Flags().Bool("reuse-by-name", true, "Reuse an existing service with the same game id and name")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if cfg.MySQLDSN == "" {
		return fmt.Errorf("no MySQL DSN configured (set BOOSTGG_MYSQL_DSN or --dsn)")
	}

	cs, err := newCSVStore()
	if err != nil {
		return err
	}
	services, err := cs.ReadServices()
	if err != nil {
		return fmt.Errorf("read services CSV: %w", err)
	}
	rows, err := cs.ReadOptions()
	if err != nil {
		return fmt.Errorf("read options CSV: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("nothing to import: %s is empty", cfg.ServicesCSV)
	}

	ctx := context.Background()
	st, err := store.OpenMySQL(ctx, cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer st.Close()

	if initSchema, _ := cmd.Flags().GetBool("init-schema"); initSchema {
		if err := st.InitSchema(ctx); err != nil {
			return err
		}
	}

	reuse, _ := cmd.Flags().GetBool("reuse-by-name")
	im := &importer.Importer{
		Store:       st,
		ReuseByName: reuse && cfg.ReuseByName,
		Log:         log.New(os.Stderr, "", log.LstdFlags),
	}

	summary := im.ImportAll(ctx, services, rows)
	printImportSummary(summary)

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d services failed to import", len(summary.Failed), len(services))
	}
	return nil
}

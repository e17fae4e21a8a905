package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/mask-editor-api/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the Mask Editor API.

The schema is managed by gorm AutoMigrate from the persisted models.

Available subcommands:
  up      - Create or update the tables for every model
  status  - Show which model tables exist`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending database migrations.

Missing tables, columns and indexes are created; existing data is kept.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of database migrations.

Lists every persisted model's table and whether it exists.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().String("db", "", "database path (overrides config)")
	migrateUpCmd.Flags().Bool("dry-run", false, "show what would be done without making changes")
}

// openDatabase resolves the database path from --db or config
func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	verbose := false
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Database.Path
		verbose = cfg.Database.Verbose
	}
	db, err := database.Initialize(path, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		return printStatus(cmd, db)
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	return printStatus(cmd, db)
}

func printStatus(cmd *cobra.Command, db *database.DB) error {
	tables, err := db.Status()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	pending := 0
	for _, t := range tables {
		state := "applied"
		if !t.Exists {
			state = "pending"
			pending++
		}
		fmt.Fprintf(out, "  %-30s %s\n", t.Table, state)
	}
	fmt.Fprintf(out, "\n%d table(s), %d pending\n", len(tables), pending)
	return nil
}

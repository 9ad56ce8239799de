// Command tracker correlates the cached mailbox with the case ledger and
// reports which collections cases have gone quiet.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/JustJay7/collections-tracker/internal/analysis"
	"github.com/JustJay7/collections-tracker/internal/config"
	"github.com/JustJay7/collections-tracker/internal/database"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// Global flags
var (
	jsonOutput bool
	logLevel   string
)

// Styles for output
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	})
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	})
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
)

// app is what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
	svc *analysis.Service
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Track contact staleness of collections cases",
	Long: `tracker matches cached emails to collections cases and groups the cases by
how long they have gone without contact.

Examples:
  tracker analyze                 # Rebuild the ledger from the email cache
  tracker report                  # Show the staleness report
  tracker history 333925          # Show one case's activity
  tracker ack 333925 --days 14    # Hide a case from the report for two weeks
  tracker serve                   # Start the HTTP API`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			_ = current.log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(firmsCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(unackCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func bootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	svc, err := analysis.NewFromConfig(cfg, db, log)
	if err != nil {
		return err
	}

	current = &app{cfg: cfg, log: log, db: db, svc: svc}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, urgentStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/config"
	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:   "homeworkhelper",
	Short: "CBC homework helper for kids",
	Long:  "Homework Helper: a terminal study buddy that answers grade 1-9 homework questions in the style of the Kenyan CBC curriculum.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HOMEWORKHELPER_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Path to a YAML content pack (overrides HOMEWORKHELPER_CONTENT env var)")
	rootCmd.PersistentFlags().String("log", "", "Write diagnostic logs to this file (overrides HOMEWORKHELPER_LOG env var)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HOMEWORKHELPER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database named by the flags and environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadConfig reads the environment, applies flag overrides and validates
// the result. Malformed environment values are reported on stderr and the
// defaults kept.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, warnings := config.ConfigFromEnv()
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}

	if p, _ := cmd.Flags().GetString("content"); p != "" {
		cfg.ContentPath = p
	}
	if p, _ := cmd.Flags().GetString("log"); p != "" {
		cfg.Log.Path = p
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadCatalog reads the content pack at path. An empty path selects the
// built-in tables.
func loadCatalog(path string) (*tutor.Catalog, error) {
	if path == "" {
		return tutor.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content pack: %w", err)
	}
	defer f.Close()

	c, err := tutor.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load content pack %s: %w", path, err)
	}
	return c, nil
}

// replySource returns a seeded source when a seed is configured.
func replySource(cfg config.Config) tutor.Source {
	if cfg.Seed != nil {
		return tutor.NewSeededSource(*cfg.Seed)
	}
	return nil
}

// Package cmd implements the sitegen command-line interface.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gamerank/sitegen/internal/sitegen/build"
	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// limitSections get a dedicated --limit-<name> flag and LIMIT_<NAME> variable.
var limitSections = []string{"csgo", "rust", "dota", "crypto"}

var (
	cfgFile   string
	limitFlag map[string]int

	rootCmd = &cobra.Command{
		Use:           "sitegen",
		Short:         "Reconcile SEO metadata, sitemaps and search data of a static site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Assigned here rather than in the literal to break the rootCmd/initConfig
	// initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "content root of the site")
	flags.StringVar(&cfgFile, "config", "", "config file (default is <root>/"+config.DefaultFile+")")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("dry-run", false, "compute changes without writing")
	flags.Bool("force-reviews", false, "let freshly scraped labels overwrite persisted ones")
	flags.StringToIntVar(&limitFlag, "limit", nil, "menu section caps, e.g. --limit csgo=12,rust=8")
	for _, name := range limitSections {
		flags.Int("limit-"+name, 0, "cap for the "+name+" menu section")
	}

	rootCmd.AddCommand(
		stageCommand("meta", "Reconcile head tags and write sitemaps", build.StageMeta, build.StageSitemap),
		stageCommand("schema", "Reconcile JSON-LD structured data", build.StageSchema),
		stageCommand("crosslinks", "Reconcile the more-content cross-link blocks", build.StageCrossLinks),
		stageCommand("search", "Rebuild the client search dataset", build.StageSearch),
		stageCommand("all", "Run every stage", build.AllStages...),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "sitegen version %s\n", Version)
			},
		},
	)
}

// initConfig loads .env files and binds flags and environment variables.
func initConfig() error {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	flags := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		"root":          "root",
		"debug":         "debug",
		"dry_run":       "dry-run",
		"force_reviews": "force-reviews",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", flag, err)
		}
	}
	for _, name := range limitSections {
		if err := viper.BindPFlag("limit."+name, flags.Lookup("limit-"+name)); err != nil {
			return fmt.Errorf("failed to bind limit-%s flag: %w", name, err)
		}
	}

	// A .env next to the content tree overrides nothing already set.
	_ = godotenv.Load(filepath.Join(viper.GetString("root"), ".env"))
	return nil
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(viper.GetString("root"), config.DefaultFile)
	}
	return config.Load(path)
}

func newLogger() logger.Interface {
	level := "info"
	if viper.GetBool("debug") {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level})
}

// limits merges the menu caps of the fixed sections and the configured ones.
// LIMIT_<NAME> and --limit-<name> resolve through viper as limit.<name>;
// --limit entries win over both.
func limits(sections []string) map[string]int {
	out := make(map[string]int)
	for _, name := range append(append([]string(nil), limitSections...), sections...) {
		if n := viper.GetInt("limit." + name); n > 0 {
			out[name] = n
		}
	}
	for name, n := range limitFlag {
		if n > 0 {
			out[name] = n
		}
	}
	return out
}

func stageCommand(use, short string, stages ...build.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, stages...)
		},
	}
}

func runStages(cmd *cobra.Command, stages ...build.Stage) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	b, err := build.NewBuilder(cfg, build.Options{
		Force:  viper.GetBool("force_reviews"),
		DryRun: viper.GetBool("dry_run"),
		Limits: limits(cfg.Search.SectionNames()),
	}, log)
	if err != nil {
		return err
	}

	report, err := b.Build(cmd.Context(), stages...)
	if err != nil {
		return err
	}
	return build.WriteSummary(cmd.OutOrStdout(), report)
}

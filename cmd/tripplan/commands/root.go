// Package commands implements the tripplan CLI.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
)

// NewRootCmd builds the command tree. Every flag can also be set through a
// TRIPPLAN_ environment variable, e.g. TRIPPLAN_BUDGET=800.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("tripplan")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "tripplan",
		Short: "Plan budget-constrained multi-day trips",
		Long: `tripplan searches the city catalog for a day-by-day itinerary that
stays within a budget, favouring well rated cities of the preferred category.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if v.GetBool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "configs/catalog.yaml", "catalog YAML file")
	pf.String("driver", "", "override the store driver (memory|sqlite)")
	pf.String("sqlite-path", "", "override the SQLite database path")
	pf.BoolP("verbose", "v", false, "log search statistics")
	_ = v.BindPFlags(pf)

	root.AddCommand(newPlanCmd(v), newCitiesCmd(v), newTravellersCmd(v))
	return root
}

// bindFlags binds the running command's own flags. Commands share flag names
// such as --from, so binding happens only for the one that executes.
func bindFlags(v *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return v.BindPFlags(cmd.Flags())
	}
}

// openCatalog loads, overrides and validates the config, then opens its store.
// Each adjust func runs after the flag overrides.
func openCatalog(ctx context.Context, v *viper.Viper, adjust ...func(*config.Config)) (*catalog.Catalog, *config.Config, error) {
	loader, err := config.NewLoader(v.GetString("config"))
	if err != nil {
		return nil, nil, err
	}
	cfg := loader.Config()
	if d := v.GetString("driver"); d != "" {
		cfg.Store.Driver = d
	}
	if p := v.GetString("sqlite-path"); p != "" {
		cfg.Store.SQLitePath = p
	}
	for _, fn := range adjust {
		fn(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cat, cfg, nil
}

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
	"github.com/gyaneshwarpardhi/tripplanner/internal/request"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

func newTravellersCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "travellers",
		Short: "Manage saved travellers and plan their trips",
		Long: `Saved travellers live in the users table of the SQLite database
(--sqlite-path). The catalog is always opened on SQLite for these commands,
seeded from the config when it would otherwise be held in memory.`,
	}
	cmd.AddCommand(
		newTravellersAddCmd(v),
		newTravellersListCmd(v),
		newTravellersDeleteCmd(v),
		newTravellersPlanCmd(v),
	)
	return cmd
}

// openTravellers opens the catalog on SQLite and the traveller table in it.
func openTravellers(ctx context.Context, v *viper.Viper) (*catalog.Catalog, *config.Config, traveller.Store, error) {
	cat, cfg, err := openCatalog(ctx, v, func(cfg *config.Config) {
		if cfg.Store.Driver != config.DriverSQLite {
			cfg.Store.Driver = config.DriverSQLite
			cfg.Store.Seed = true
		}
	})
	if err != nil {
		return nil, nil, nil, err
	}
	ts, err := cat.Travellers(ctx)
	if err != nil {
		cat.Close()
		return nil, nil, nil, err
	}
	return cat, cfg, ts, nil
}

func newTravellersAddCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Save a traveller's request",
		Example: "  tripplan travellers add --username ana --from Paris --budget 500 --days 2 --preference Beach",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := v.GetString("username")
			if username == "" {
				return fmt.Errorf("%w: username is required", request.ErrInvalid)
			}
			pr, err := request.FromForm(v.GetString("from"), setString(v, "budget"), setString(v, "days"), v.GetString("preference"))
			if err != nil {
				return err
			}
			req, err := pr.Validate()
			if err != nil {
				return err
			}

			cat, _, ts, err := openTravellers(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			t, err := ts.Add(cmd.Context(), traveller.New(username, req))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved traveller %d (%s)\n", t.ID, t.Username)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("username", "", "traveller name (required)")
	f.String("from", "", "start city")
	f.Int("budget", 0, "total budget (required)")
	f.Int("days", 0, "number of travel days (required)")
	f.String("preference", "Cultural", "preferred category (Cultural|Beach|Adventure|Luxury|Historical)")
	return cmd
}

func newTravellersListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List saved travellers with their last plan",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, ts, err := openTravellers(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			list, err := ts.List(cmd.Context())
			if err != nil {
				return err
			}
			return report.WriteTravellers(cmd.OutOrStdout(), list)
		},
	}
}

func newTravellersDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Short:   "Delete a saved traveller",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cat, _, ts, err := openTravellers(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := ts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted traveller %d\n", id)
			return nil
		},
	}
}

func newTravellersPlanCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "plan ID",
		Short:   "Plan a saved traveller's trip and store the result",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cat, cfg, ts, err := openTravellers(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			t, err := ts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			it, err := planner.New(cat.Store, planner.WithWeights(catalog.WeightsFromConfig(cfg.Scoring))).Plan(t.Request())
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout(), cat.Store, it); err != nil {
				return err
			}
			if summary := report.Summary(it); summary != "" {
				return ts.SaveResult(cmd.Context(), id, summary)
			}
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid traveller id %q", request.ErrInvalid, s)
	}
	return id, nil
}

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/geo"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
	"github.com/gyaneshwarpardhi/tripplanner/internal/request"
)

func newPlanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Plan a trip and print the itinerary",
		Example: "  tripplan plan --from Paris --budget 500 --days 3 --preference Cultural",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, _ []string) error {
			pr, err := request.FromForm(v.GetString("from"), setString(v, "budget"), setString(v, "days"), v.GetString("preference"))
			if err != nil {
				return err
			}
			req, err := pr.Validate()
			if err != nil {
				return err
			}

			cat, cfg, err := openCatalog(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			it, err := planner.New(cat.Store, planner.WithWeights(catalog.WeightsFromConfig(cfg.Scoring))).Plan(req)
			if err != nil {
				return err
			}
			slog.Debug("plan finished",
				"found", it.Found(),
				"cost", it.TotalCost,
				"expanded", it.Stats.Expanded,
				"pushed", it.Stats.Pushed,
				"pruned", it.Stats.Pruned,
				"skipped", it.Stats.Skipped,
			)

			if err := report.Write(cmd.OutOrStdout(), cat.Store, it); err != nil {
				return err
			}
			if out := v.GetString("geojson"); out != "" {
				return writeMap(cat, it.Path, out)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("from", "", "start city")
	f.Int("budget", 0, "total budget (required)")
	f.Int("days", 0, "number of travel days (required)")
	f.String("preference", "Cultural", "preferred category (Cultural|Beach|Adventure|Luxury|Historical)")
	f.String("geojson", "", "also write the map with the itinerary to this GeoJSON file")
	return cmd
}

// setString returns the raw value of key, or "" when neither the flag nor the
// environment provides it, so flag defaults never stand in for user input.
func setString(v *viper.Viper, key string) string {
	if !v.IsSet(key) {
		return ""
	}
	return v.GetString(key)
}

func writeMap(cat *catalog.Catalog, path []string, out string) error {
	fc, err := geo.MapFeatures(cat.Graph, path)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

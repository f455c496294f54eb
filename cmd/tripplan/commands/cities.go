package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
)

func newCitiesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the cities in the catalog",
		Example: `  tripplan cities
  tripplan cities --nearest 200,100 --k 3`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, err := openCatalog(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cat.Close()

			near := v.GetString("nearest")
			if near == "" {
				return report.WriteCities(cmd.OutOrStdout(), cat.Graph.Cities())
			}
			x, y, err := parsePoint(near)
			if err != nil {
				return err
			}
			return report.WriteCities(cmd.OutOrStdout(), cat.Index.NearestK(x, y, v.GetInt("k")))
		},
	}

	f := cmd.Flags()
	f.String("nearest", "", "only list the cities closest to the map position x,y")
	f.Int("k", 3, "how many cities --nearest lists")
	return cmd
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("position %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("position %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("position %q: %w", s, err)
	}
	return x, y, nil
}

package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields and known store drivers
//   - Duplicate city names
//   - Negative costs
//   - Routes that reference cities missing from the catalog
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.Store.SQLitePath == "" {
			errs = append(errs, "store: sqlite_path is required for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store: unknown driver %q", cfg.Store.Driver))
	}
	if cfg.Engine.PlanWorkers < 0 || cfg.Engine.QueueDepth < 0 || cfg.Engine.PlanTimeoutMs < 0 {
		errs = append(errs, "engine: values must not be negative")
	}

	names := make(map[string]int) // name → index
	for i, c := range cfg.Cities {
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("cities[%d]: name is required", i))
			continue
		}
		if prev, ok := names[c.Name]; ok {
			errs = append(errs, fmt.Sprintf("duplicate city %q (cities[%d] and cities[%d])", c.Name, prev, i))
		} else {
			names[c.Name] = i
		}
		if c.DailyCost < 0 {
			errs = append(errs, fmt.Sprintf("city %s: daily_cost must not be negative", c.Name))
		}
		if c.Category == "" {
			errs = append(errs, fmt.Sprintf("city %s: category is required", c.Name))
		}
	}

	for i, r := range cfg.Routes {
		loc := fmt.Sprintf("routes[%d]", i)
		if _, ok := names[r.From]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown from city %q", loc, r.From))
		}
		if _, ok := names[r.To]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown to city %q", loc, r.To))
		}
		if r.TravelCost < 0 {
			errs = append(errs, fmt.Sprintf("%s: travel_cost must not be negative", loc))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

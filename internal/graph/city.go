package graph

import (
	"fmt"
	"strings"
)

// Category is the kind of trip a destination offers.
type Category string

const (
	CategoryCultural   Category = "Cultural"
	CategoryBeach      Category = "Beach"
	CategoryAdventure  Category = "Adventure"
	CategoryLuxury     Category = "Luxury"
	CategoryHistorical Category = "Historical"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{CategoryCultural, CategoryBeach, CategoryAdventure, CategoryLuxury, CategoryHistorical}
}

// ParseCategory resolves s case-insensitively to a known category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// City is a destination. Cities are static reference data.
type City struct {
	Name      string   `json:"name"`
	DailyCost int      `json:"daily_cost"`
	Rating    int      `json:"rating"`
	Category  Category `json:"category"`
	X         float64  `json:"x"` // map position, ignored by the planner
	Y         float64  `json:"y"`
}

// Edge is a directed travel option leaving a city.
type Edge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	TravelCost int    `json:"travel_cost"`
}

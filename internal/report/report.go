// Package report renders itineraries and city listings as plain text.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

// NoPlanMessage is printed when a search finds nothing affordable.
const NoPlanMessage = "No valid plan found for the given constraints."

// Day is one line of a rendered itinerary.
type Day struct {
	Number   int            `json:"day"`
	City     string         `json:"city"`
	Rating   int            `json:"rating"`
	Category graph.Category `json:"category"`
}

// Days expands a path into numbered days with ratings looked up in store.
func Days(store graph.Store, path []string) ([]Day, error) {
	out := make([]Day, 0, len(path))
	for i, name := range path {
		c, err := store.City(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Day{Number: i + 1, City: name, Rating: c.Rating, Category: c.Category})
	}
	return out, nil
}

// Write prints the itinerary, one line per day, followed by the total.
func Write(w io.Writer, store graph.Store, it *planner.Itinerary) error {
	if !it.Found() {
		_, err := fmt.Fprintln(w, NoPlanMessage)
		return err
	}
	days, err := Days(store, it.Path)
	if err != nil {
		return err
	}
	fmt.Fprint(w, "AI Suggested Travel Plan:\n\n")
	for _, d := range days {
		fmt.Fprintf(w, "Day %d: %s ⭐ %d\n", d.Number, d.City, d.Rating)
	}
	_, err = fmt.Fprintf(w, "\nTotal Estimated Cost: $%d\n", it.TotalCost)
	return err
}

// WriteCities prints a table of cities.
func WriteCities(w io.Writer, cities []graph.City) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tRATING\tDAILY COST")
	for _, c := range cities {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Name, c.Category, c.Rating, c.DailyCost)
	}
	return tw.Flush()
}

// Summary is the one-line form saved with a traveller: "A → B → C | $290".
// It is empty when no plan was found.
func Summary(it *planner.Itinerary) string {
	if !it.Found() {
		return ""
	}
	return fmt.Sprintf("%s | $%d", strings.Join(it.Path, " → "), it.TotalCost)
}

// WriteTravellers prints a table of saved travellers.
func WriteTravellers(w io.Writer, ts []traveller.Traveller) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tFROM\tBUDGET\tDAYS\tPREFERENCE\tRESULT")
	for _, t := range ts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n", t.ID, t.Username, t.StartCity, t.Budget, t.Days, t.Preference, t.Result)
	}
	return tw.Flush()
}

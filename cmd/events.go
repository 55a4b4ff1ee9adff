package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/AlekSi/pointer"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/catalog"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/repository"
	"github.com/spf13/cobra"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

var (
	evCategory string
	evSearch   string
	evFeatured bool
	evLimit    int
	evSort     string
	evJSON     bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Query the event catalog",
	Long: `Query the built-in event catalog with the same filters as GET /api/events.

Examples:
  # Everything, in catalog order
  sip-n-sync events

  # Wellness events mentioning coffee
  sip-n-sync events --category Wellness --search coffee

  # Three most popular events as JSON
  sip-n-sync events --sort popularity --limit 3 --json

  # Only events that are not featured
  sip-n-sync events --featured=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := edomain.FilterParams{
			Category: evCategory,
			Search:   evSearch,
			Limit:    evLimit,
			Sort:     evSort,
		}
		if cmd.Flags().Changed("featured") {
			params.Featured = pointer.ToBool(evFeatured)
		}

		filters, err := edomain.NewFilters(params)
		if err != nil {
			return err
		}

		events, err := repository.DefaultEvents()
		if err != nil {
			return fmt.Errorf("loading event catalog: %w", err)
		}

		result, err := catalog.NewQueryEventsUsecase(repository.NewCatalogRepo(events)).
			ListEvents(context.Background(), filters)
		if err != nil {
			return err
		}

		if evJSON {
			return writeEventsJSON(cmd.OutOrStdout(), result)
		}
		return writeEventsTable(cmd.OutOrStdout(), result, time.Now())
	},
}

func init() {
	eventsCmd.Flags().StringVar(&evCategory, "category", "", "filter by category ("+categoryList()+")")
	eventsCmd.Flags().StringVarP(&evSearch, "search", "s", "", "case-insensitive text search")
	eventsCmd.Flags().BoolVar(&evFeatured, "featured", false, "only featured (or, with =false, only non-featured) events")
	eventsCmd.Flags().IntVarP(&evLimit, "limit", "n", 0, "maximum number of events (0 = no limit)")
	eventsCmd.Flags().StringVar(&evSort, "sort", "", "sort by date, title, price or popularity")
	eventsCmd.Flags().BoolVar(&evJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(eventsCmd)
}

func categoryList() string {
	names := make([]string, 0, len(edomain.Categories))
	for _, c := range edomain.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func writeEventsJSON(w io.Writer, events []edomain.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func writeEventsTable(w io.Writer, events []edomain.Event, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tPRICE\tSPOTS\tSTATUS\tTITLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			e.ID,
			e.Date.Format(edomain.DateLayout),
			e.Category,
			edomain.PriceLabel(e.Price),
			e.SpotsLeft(),
			e.MaxAttendees,
			e.Status(now),
			e.Title,
		)
	}

	return tw.Flush()
}

package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/indexer"
)

var (
	eventsLimit  int
	eventsOffset int
	eventsSort   string
	eventsDesc   bool
)

var eventsCmd = &cobra.Command{
	Use:   "events [name]",
	Short: "Search POAP events by name",
	Long: `Searches the events whose name contains the given words. Unless --sort is
given, results are ranked by how closely their name matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		q := indexer.DefaultEventQuery(name)
		q.Limit = eventsLimit
		q.Offset = eventsOffset
		q.SortBy = eventsSort
		if eventsDesc {
			q.SortDirection = indexer.SortDescending
		}

		stop := appUI.Spinner("Searching events...")
		page, err := newIndexer().Events(cmd.Context(), q)
		stop()
		if err != nil {
			appUI.Error("Couldn't search events: %s", err)
			return errReported
		}

		items := page.Items
		if !cmd.Flags().Changed("sort") {
			items = indexer.RankEvents(items, name)
		}
		if len(items) == 0 {
			appUI.Info("No events found.")
			return nil
		}

		rows := make([][]string, 0, len(items))
		for _, e := range items {
			rows = append(rows, []string{
				strconv.Itoa(e.ID), e.Name, e.StartDate, where(e), strconv.Itoa(e.Supply),
			})
		}
		appUI.Table([]string{"ID", "Event", "Date", "Where", "Supply"}, rows)
		if shown := page.Offset + len(page.Items); shown < page.Total {
			appUI.Info("Showing %d-%d of %d, use --offset %d for more.", page.Offset+1, shown, page.Total, shown)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "l", indexer.DefaultEventLimit, "Events per page")
	eventsCmd.Flags().IntVarP(&eventsOffset, "offset", "o", 0, "Events to skip")
	eventsCmd.Flags().StringVarP(&eventsSort, "sort", "s", "name", "Field to sort by: name, start_date, id...")
	eventsCmd.Flags().BoolVar(&eventsDesc, "desc", false, "Sort descending")
	rootCmd.AddCommand(eventsCmd)
}

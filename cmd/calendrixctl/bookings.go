package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/omriShneor/calendrix/internal/config"
	"github.com/omriShneor/calendrix/internal/database"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

func newBookingsCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List the most recent bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			records, err := db.ListRecentBookings(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no bookings yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTIME\tTITLE\tNAME\tEVENT")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Date, timeutil.FormatClockRange(r.StartTime, r.EndTime), r.Title, r.Name, r.CalendarEventID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", database.DefaultBookingsLimit, "number of bookings to show")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the bookings database")
	return cmd
}

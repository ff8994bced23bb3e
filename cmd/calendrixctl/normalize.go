package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/omriShneor/calendrix/internal/config"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

func newDateCmd(cfg *config.Config) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "date <text>",
		Short: "Normalize a free-text date to YYYY-MM-DD",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, _ := timeutil.ResolveLocation(cfg.TimeZone)
			clock := timeutil.SystemClock(loc)
			if today != "" {
				t, err := time.ParseInLocation(timeutil.DateLayout, today, loc)
				if err != nil {
					return fmt.Errorf("invalid --today %q: want YYYY-MM-DD", today)
				}
				clock = timeutil.FixedClock(t)
			}

			fmt.Fprintln(cmd.OutOrStdout(), timeutil.NormalizeDate(strings.Join(args, " "), clock))
			return nil
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "resolve relative dates against this day (YYYY-MM-DD)")
	return cmd
}

func newTimeCmd() *cobra.Command {
	var asRange bool

	cmd := &cobra.Command{
		Use:   "time <text>",
		Short: "Normalize a free-text time to 24-hour HH:MM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if asRange {
				start, end := timeutil.NormalizeTimeRange(text)
				fmt.Fprintf(cmd.OutOrStdout(), "%s-%s\n", start, end)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), timeutil.NormalizeTime(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asRange, "range", false, "parse a start/end range")
	return cmd
}

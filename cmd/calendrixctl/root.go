package main

import (
	"github.com/spf13/cobra"

	"github.com/omriShneor/calendrix/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "calendrixctl",
		Short:         "Calendrix scheduling assistant tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.TimeZone, "timezone", cfg.TimeZone, "IANA time zone for relative dates and events")

	root.AddCommand(
		newDateCmd(cfg),
		newTimeCmd(),
		newChatCmd(cfg),
		newBookingsCmd(cfg),
	)
	return root
}

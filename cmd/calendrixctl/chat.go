package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/bootstrap"
	"github.com/omriShneor/calendrix/internal/config"
	"github.com/omriShneor/calendrix/internal/database"
)

const cliConversationID = "cli"

func newChatCmd(cfg *config.Config) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Book a meeting from the terminal",
		Long: "Runs the booking dialogue on stdin. Type /confirm to create the proposed event\n" +
			"and /quit to leave. --demo keeps everything in memory with the offline backends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCfg := *cfg
			if demo {
				runCfg = config.Config{
					TimeZone:         cfg.TimeZone,
					GoogleCalendarID: cfg.GoogleCalendarID,
					DBPath:           ":memory:",
				}
			}

			db, err := database.New(runCfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			clients := bootstrap.Initialize(ctx, db, &runCfg, zap.NewNop())
			defer clients.Close()

			service := bootstrap.NewAssistant(db, &runCfg, clients, zap.NewNop())
			return runChat(ctx, service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "use the demo dialogue and calendar with an in-memory database")
	return cmd
}

func runChat(ctx context.Context, service *assistant.Service, in io.Reader, out io.Writer) error {
	reply, err := service.Start(ctx, cliConversationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "assistant> %s\n", reply.Text)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/confirm":
			if err := confirm(ctx, service, out); err != nil {
				return err
			}
			continue
		}

		reply, err := service.Chat(ctx, cliConversationID, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "assistant> %s\n", reply.Text)
		if reply.Proposal != nil {
			fmt.Fprintln(out, "(type /confirm to create this event)")
		}
	}
}

func confirm(ctx context.Context, service *assistant.Service, out io.Writer) error {
	outcome, err := service.Confirm(ctx, cliConversationID, nil)
	if errors.Is(err, assistant.ErrNoProposal) {
		fmt.Fprintln(out, "nothing to confirm yet")
		return nil
	}
	if err != nil {
		return err
	}

	if !outcome.Committed() {
		fmt.Fprintf(out, "%s\nshare link: %s\n", outcome.Message, outcome.ShareLink)
		return nil
	}

	fmt.Fprintf(out, "booked #%d: %s, %s\n", outcome.Booking.ID, outcome.Summary.Title, outcome.Summary.DateTime)
	fmt.Fprintf(out, "event id: %s\n", outcome.EventID)
	fmt.Fprintf(out, "share link: %s\n", outcome.ShareLink)
	return nil
}

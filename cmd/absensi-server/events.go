package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/store/sqlite"
	"github.com/hafizr/absensi-gate/internal/config"
	"github.com/hafizr/absensi-gate/internal/db"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the most recent attendance events from the database",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 10, "Number of events to print")
}

func runEvents(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	ctx := cmd.Context()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return err
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	events, err := sqlite.NewEventStore(conn, writer).Recent(ctx, store.EventFilter{Limit: eventsLimit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUID\tNAME\tACTION\tFACE\tTIME")
	for _, ev := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			ev.ID, ev.UID, ev.Name, ev.Action, ev.FaceStatus,
			ev.Timestamp.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

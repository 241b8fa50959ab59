package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/syncer"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live changes until interrupted",
	Long: `Watch loads every praise night, subscribes to the change streams of
pages, songs, comments and song history, and prints a line per change
followed by a summary after every refetch.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := os.Stdout
	watcher := syncer.New(client, client, syncer.NotifierFunc(func(n syncer.Notification) {
		printNotification(out, n)
	}))
	watcher.OnChange(func(pages []models.PraiseNight) {
		printSummary(out, pages)
	})

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watching: %w", err)
	}
	defer watcher.Stop()

	fmt.Fprintln(out, "Watching for changes, press Ctrl+C to stop")
	<-ctx.Done()
	if err := ctx.Err(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printNotification(w io.Writer, n syncer.Notification) {
	fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
}

func printSummary(w io.Writer, pages []models.PraiseNight) {
	songs, heard := 0, 0
	for _, page := range pages {
		songs += len(page.Songs)
		for _, song := range page.Songs {
			if song.Status == models.SongStatusHeard {
				heard++
			}
		}
	}
	fmt.Fprintf(w, "%d praise nights, %d songs (%d heard, %d unheard)\n", len(pages), songs, heard, songs-heard)
}

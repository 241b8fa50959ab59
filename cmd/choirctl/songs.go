package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/PraiseNight/models"
	"github.com/spf13/cobra"
)

var (
	songPage     int
	songTitle    string
	songCategory string
	songStatus   string
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List and add songs of a praise night",
}

var songsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the songs of a praise night",
	RunE: func(cmd *cobra.Command, args []string) error {
		songs, err := client.GetSongsByPage(cmd.Context(), songPage)
		if err != nil {
			return fmt.Errorf("list songs: %w", err)
		}
		printSongs(os.Stdout, songs)
		return nil
	},
}

var songsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a song to a praise night",
	Long: `Add creates a song on a praise night. The status defaults to "unheard".

Example:
  choirctl songs add --page 30 --title Grace --category Hymns`,
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := client.CreateSong(cmd.Context(), songPage, models.SongCreate{
			Title:    songTitle,
			Category: songCategory,
			Status:   songStatus,
		})
		if err != nil {
			return fmt.Errorf("add song: %w", err)
		}
		fmt.Printf("Added song %d: %s\n", song.Song_ID, song.Title)
		return nil
	},
}

func init() {
	songsListCmd.Flags().IntVar(&songPage, "page", 0, "praise night id (required)")
	_ = songsListCmd.MarkFlagRequired("page")

	songsAddCmd.Flags().IntVar(&songPage, "page", 0, "praise night id (required)")
	songsAddCmd.Flags().StringVar(&songTitle, "title", "", "song title (required)")
	songsAddCmd.Flags().StringVar(&songCategory, "category", "", "song category")
	songsAddCmd.Flags().StringVar(&songStatus, "status", "", "heard or unheard")
	_ = songsAddCmd.MarkFlagRequired("page")
	_ = songsAddCmd.MarkFlagRequired("title")

	songsCmd.AddCommand(songsListCmd)
	songsCmd.AddCommand(songsAddCmd)
}

func printSongs(w io.Writer, songs []models.PraiseNightSong) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCATEGORY\tCOMMENTS\tHISTORY")
	for _, song := range songs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", song.Song_ID, song.Title, song.Status, song.Category, len(song.Comments), len(song.History))
	}
	tw.Flush()
}

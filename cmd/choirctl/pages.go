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
	pageName     string
	pageDate     string
	pageLocation string
	pageCategory string
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List and create praise nights",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every praise night",
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := client.GetAllPages(cmd.Context())
		if err != nil {
			return fmt.Errorf("list pages: %w", err)
		}
		printPages(os.Stdout, pages)
		return nil
	},
}

var pagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a praise night",
	Long: `Create adds a praise night. The category defaults to "unassigned".

Example:
  choirctl pages create --name PN30 --date 2026-03-20 --location "Main Auditorium"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := client.CreatePage(cmd.Context(), models.PraiseNightCreate{
			Name:     pageName,
			Date:     pageDate,
			Location: pageLocation,
			Category: pageCategory,
		})
		if err != nil {
			return fmt.Errorf("create page: %w", err)
		}
		fmt.Printf("Created praise night %d: %s\n", page.Page_ID, page.Name)
		return nil
	},
}

func init() {
	pagesCreateCmd.Flags().StringVar(&pageName, "name", "", "praise night name (required)")
	pagesCreateCmd.Flags().StringVar(&pageDate, "date", "", "date of the praise night")
	pagesCreateCmd.Flags().StringVar(&pageLocation, "location", "", "venue")
	pagesCreateCmd.Flags().StringVar(&pageCategory, "category", "", "unassigned, pre-rehearsal, ongoing or archive")
	_ = pagesCreateCmd.MarkFlagRequired("name")

	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesCreateCmd)
}

func printPages(w io.Writer, pages []models.PraiseNight) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tLOCATION\tCATEGORY\tSONGS")
	for _, page := range pages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", page.Page_ID, page.Name, page.Date, page.Location, page.Category, len(page.Songs))
	}
	tw.Flush()
}

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/PraiseNight/models"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Work with song categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored categories and song tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := client.GetAllCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		printCategories(os.Stdout, categories)
		return nil
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd)
}

func printCategories(w io.Writer, categories []models.CategoryView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND")
	for _, category := range categories {
		kind := "stored"
		if category.IsTag {
			kind = "tag"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", category.ID, category.Name, kind)
	}
	tw.Flush()
}

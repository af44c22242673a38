package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"shelf/internal/db"
	"shelf/internal/model"
	"shelf/internal/table"
	"shelf/internal/ui"
	"shelf/internal/util"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listSearch   string
	listPage     int
	listSize     int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of products",
	Long: `Print one page of products using the same search, category and paging
rules as the browser, followed by the pager.

Examples:
  shelf list
  shelf list --category roupas --size 5 --page 2
  shelf list --search tenis`,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		products, err := db.ListProducts(database)
		if err != nil {
			return err
		}

		size := listSize
		if size <= 0 {
			size = cfg.Table.PageSize
		}
		res := renderList(cmd.OutOrStdout(), products,
			table.FilterState{SearchTerm: listSearch, Category: listCategory},
			table.PageState{PageSize: size, CurrentPage: listPage},
			cfg.Table.WindowSize,
		)
		logger.Debug().
			Int("matched", res.Filtered).
			Int("page", res.Page.Page).
			Int("pages", res.Page.TotalPages).
			Msg("listed products")
		return nil
	},
}

// renderList writes the requested page of products as a table.
func renderList(w io.Writer, products []model.Product, f table.FilterState, ps table.PageState, windowSize int) table.Result {
	records := make([]map[string]string, len(products))
	for i, p := range products {
		records[i] = map[string]string{
			table.FieldName:     p.Name,
			table.FieldCategory: p.Category,
		}
	}
	snap := table.NewSnapshot(records)
	res := table.Run(snap.Rows(), f, ps.Normalize(), windowSize)

	if res.Filtered == 0 {
		fmt.Fprintln(w, "No products match.")
		return res
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTATE\tADDED")
	for _, row := range res.Page.Rows {
		p := products[row.Index]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			util.TruncateString(p.Name, 40),
			util.TitleCase(p.Category),
			util.FormatPrice(p.PriceCents),
			p.State,
			util.FormatDate(p.CreatedAt),
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nPage %d of %d, %d products\n", res.Page.Page, res.Page.TotalPages, res.Filtered)
	if pager := ui.PagerText(res.Controls); pager != "" {
		fmt.Fprintln(w, pager)
	}
	return res
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only this category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match name or category")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page to print (clamped to the last page)")
	listCmd.Flags().IntVar(&listSize, "size", 0, "rows per page (default from config)")
}

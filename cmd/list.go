/*
Copyright © 2025 Vox Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/voxlearn/vox/internal/app"
	"github.com/voxlearn/vox/internal/repository"
)

var (
	listFilter  string
	listOrderBy string
	listPage    int
	listSize    int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards in the deck",
	Long: `List cards, optionally filtered with a CEL-style expression:

  vox list --filter "tag == 'hsk1'"
  vox list --filter "front.startsWith('你')" --order "front asc"
  vox list --filter "created_at >= timestamp('2025-01-01T00:00:00Z')"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		query := &repository.ListItemQuery{
			Pagination:  repository.Pagination{PageNo: listPage, PageSize: listSize},
			FilterOrder: repository.FilterOrder{Filter: listFilter, OrderBy: listOrderBy},
		}
		items, total, err := container.Vocab.ListItems(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFRONT\tBACK\tPHONETIC\tTAGS")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				item.ID, item.Front, item.Back, item.Phonetic, strings.Join(item.Tags, ","))
		}
		w.Flush()
		fmt.Printf("%d of %d cards\n", len(items), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFilter, "filter", "", "filter expression")
	listCmd.Flags().StringVar(&listOrderBy, "order", "", "order_by expression, e.g. 'front asc'")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listSize, "size", 50, "page size")
}

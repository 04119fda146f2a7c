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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/voxlearn/vox/internal/app"
)

// dueCmd represents the due command
var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show cards waiting for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		pairs, err := container.Review.DueItems(cmd.Context())
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			fmt.Println("nothing due")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FRONT\tBACK\tDUE\tREPS\tLAPSES")
		for _, p := range pairs {
			due := "new"
			if !p.Record.IsNew() {
				due = p.Record.DueAt.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				p.Item.Front, p.Item.Back, due, p.Record.Repetitions, p.Record.Lapses)
		}
		w.Flush()
		fmt.Printf("%d cards due\n", len(pairs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
}

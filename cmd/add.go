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

	"github.com/spf13/cobra"

	"github.com/voxlearn/vox/internal/app"
	"github.com/voxlearn/vox/internal/entity"
)

var (
	addPhonetic string
	addTags     []string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <front> <back>",
	Short: "Add a card to the deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		item := &entity.Item{
			Front:    args[0],
			Back:     args[1],
			Phonetic: addPhonetic,
			Tags:     addTags,
		}
		created, err := container.Vocab.AddItem(cmd.Context(), item)
		if err != nil {
			return err
		}

		fmt.Printf("added %s  %s -> %s\n", created.ID, created.Front, created.Back)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addPhonetic, "phonetic", "", "pronunciation hint, e.g. pinyin")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tags for the card (repeatable)")
}

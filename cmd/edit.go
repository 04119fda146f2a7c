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
	editFront    string
	editBack     string
	editPhonetic string
	editTags     []string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a card's text or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		item := &entity.Item{
			ID:       args[0],
			Front:    editFront,
			Back:     editBack,
			Phonetic: editPhonetic,
		}
		if cmd.Flags().Changed("tag") {
			item.Tags = editTags
		}
		updated, err := container.Vocab.UpdateItem(cmd.Context(), item)
		if err != nil {
			return err
		}

		fmt.Printf("updated %s  %s -> %s\n", updated.ID, updated.Front, updated.Back)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editFront, "front", "", "new front text")
	editCmd.Flags().StringVar(&editBack, "back", "", "new back text")
	editCmd.Flags().StringVar(&editPhonetic, "phonetic", "", "new pronunciation hint")
	editCmd.Flags().StringSliceVar(&editTags, "tag", nil, "replacement tags (repeatable)")
}

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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxlearn/vox/internal/app"
	"github.com/voxlearn/vox/internal/usecase/backup"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import cards from an NDJSON backup",
	Long: `Import cards from a backup produced by vox export. Cards whose front
already exists in the deck are skipped. Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		var reader io.Reader = cmd.InOrStdin()
		path := args[0]
		if path != "-" {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer file.Close()
			reader = file

			if strings.HasSuffix(strings.ToLower(path), ".gz") {
				gz, err := gzip.NewReader(reader)
				if err != nil {
					return fmt.Errorf("open gzip stream: %w", err)
				}
				defer gz.Close()
				reader = gz
			}
		}

		imported, err := backup.NewService(container.Store).Import(cmd.Context(), reader)
		if err != nil {
			return err
		}
		cmd.Printf("imported %d cards\n", imported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

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
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxlearn/vox/internal/app"
	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/usecase"
)

var (
	reviewLimit      int
	reviewDirection  string
	reviewPromptMode string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due cards",
	Long: `Review due cards one at a time. Press enter to reveal the answer,
then rate how well you remembered it:

  1 / again   forgot it, see it again tomorrow
  2 / hard    remembered with difficulty
  3 / good    remembered
  4 / easy    trivial, push it far out

Type q to stop early. Ratings already given are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		opts, err := sessionOptions(container.Config.Session.Limit)
		if err != nil {
			return err
		}

		session, err := container.Review.StartSession(cmd.Context(), opts)
		if err != nil {
			if errors.Is(err, entity.ErrEmptyQueue) {
				fmt.Println("nothing to review, come back later")
				return nil
			}
			return err
		}

		if err := runSession(cmd.Context(), session); err != nil {
			return err
		}
		printSummary(session.Summary())
		return nil
	},
}

func sessionOptions(defaultLimit int) (usecase.SessionOptions, error) {
	limit := reviewLimit
	if limit == 0 {
		limit = defaultLimit
	}
	direction, err := entity.ParseDirection(reviewDirection)
	if err != nil {
		return usecase.SessionOptions{}, err
	}
	promptMode, err := entity.ParsePromptMode(reviewPromptMode)
	if err != nil {
		return usecase.SessionOptions{}, err
	}
	return usecase.SessionOptions{Limit: limit, Direction: direction, PromptMode: promptMode}, nil
}

func runSession(ctx context.Context, session *usecase.Session) error {
	scanner := bufio.NewScanner(os.Stdin)

	for !session.State().Terminal() {
		done, total := session.Progress()
		fmt.Printf("\n[%d/%d] %s\n", done+1, total, session.CurrentPrompt())
		fmt.Print("press enter to reveal, q to stop: ")

		line, ok := readLine(scanner)
		if !ok || strings.EqualFold(line, "q") {
			return session.Abandon()
		}
		if err := session.Reveal(); err != nil {
			return err
		}
		fmt.Printf("  %s\n", session.CurrentAnswer())

		if err := rateCurrent(ctx, scanner, session); err != nil {
			return err
		}
	}
	return nil
}

func rateCurrent(ctx context.Context, scanner *bufio.Scanner, session *usecase.Session) error {
	for {
		fmt.Print("rate [1 again / 2 hard / 3 good / 4 easy, q to stop]: ")
		line, ok := readLine(scanner)
		if !ok || strings.EqualFold(line, "q") {
			return session.Abandon()
		}

		rating, err := entity.ParseRating(line)
		if err != nil {
			fmt.Println("  unrecognised rating, try again")
			continue
		}

		if err := session.Rate(ctx, rating); err != nil {
			// A failed write keeps the rating in the session log; retry
			// the persist and carry on either way.
			fmt.Printf("  warning: %v\n", err)
			if retryErr := session.RetryPersist(ctx); retryErr != nil {
				fmt.Printf("  warning: retry failed: %v\n", retryErr)
			}
		}
		return nil
	}
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func printSummary(summary entity.SessionSummary) {
	fmt.Printf("\nreviewed %d cards, accuracy %.0f%%\n", summary.Reviewed, summary.Accuracy*100)
	for _, rating := range []entity.Rating{entity.RatingAgain, entity.RatingHard, entity.RatingGood, entity.RatingEasy} {
		if n := summary.ByRating[rating]; n > 0 {
			fmt.Printf("  %-5s %d\n", rating.String(), n)
		}
	}
	for _, outcome := range summary.Outcomes {
		if !outcome.Persisted {
			fmt.Printf("  warning: rating for %s was not saved\n", outcome.PromptShown)
		}
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().IntVar(&reviewLimit, "limit", 0, "max cards this session (default from config)")
	reviewCmd.Flags().StringVar(&reviewDirection, "direction", "front-to-back", "prompt direction: front-to-back or back-to-front")
	reviewCmd.Flags().StringVar(&reviewPromptMode, "prompt", "text", "prompt mode: text or phonetic")
}

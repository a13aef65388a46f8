package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/spacedrep"
)

var reviewCmd = &cobra.Command{
	Use:   "review ITEM",
	Short: "Record a spaced-repetition review",
	Long: `Record how well ITEM was recalled, on the SM-2 scale:
  0 blackout, 1 incorrect, 2 incorrect but familiar,
  3 correct with difficulty, 4 correct after hesitation, 5 perfect.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		itemID := args[0]
		q, _ := cmd.Flags().GetInt("quality")
		itemType, _ := cmd.Flags().GetString("type")

		quality := spacedrep.Quality(q)
		if err := quality.Validate(); err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sched := spacedrep.NewScheduler(st, nil, logger)
		if itemType != "" {
			if _, err := sched.Track(ctx, cfg.User.ID, itemID, itemType); err != nil {
				return err
			}
		}
		item, err := sched.Answer(ctx, cfg.User.ID, itemID, quality)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: next review %s (in %d days), ease %.2f, repetitions %d\n",
			item.ItemID,
			item.NextReviewDate.Local().Format("2006-01-02 15:04"),
			item.IntervalDays,
			item.EasinessFactor,
			item.RepetitionCount)
		return nil
	},
}

func init() {
	reviewCmd.Flags().IntP("quality", "q", -1, "Recall quality, 0-5")
	reviewCmd.Flags().String("type", "", "Item type to record for a new item (e.g. vocabulary)")
	_ = reviewCmd.MarkFlagRequired("quality")
}

// formatItem renders one schedule line for the due listing.
func formatItem(item spacedrep.ReviewItem, now time.Time) string {
	label := item.ItemID
	if item.ItemType != "" {
		label += " (" + item.ItemType + ")"
	}
	switch item.Status(now) {
	case spacedrep.ReviewOverdue:
		return fmt.Sprintf("%-30s overdue by %.1f days", label, item.OverdueDays(now))
	case spacedrep.ReviewDue:
		return fmt.Sprintf("%-30s due", label)
	default:
		return fmt.Sprintf("%-30s in %d days", label, item.DaysUntilReview(now))
	}
}

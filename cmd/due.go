package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/spacedrep"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List review items that are due",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		now := time.Now()
		var items []spacedrep.ReviewItem
		if all {
			items, err = st.ListReviewItems(cmd.Context(), cfg.User.ID)
		} else {
			items, err = spacedrep.NewScheduler(st, nil, logger).Due(cmd.Context(), cfg.User.ID)
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			if all {
				fmt.Fprintln(cmd.OutOrStdout(), "No review items yet. Run a practice session first.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Come back later!")
			}
			return nil
		}

		for _, item := range spacedrep.MostOverdueFirst(items, now) {
			fmt.Fprintln(cmd.OutOrStdout(), formatItem(item, now))
		}
		if !all {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d items due\n", len(items))
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().Bool("all", false, "List every scheduled item, not just the due ones")
}

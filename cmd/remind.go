package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/reminder"
	"github.com/abhisek/lingua/internal/spacedrep"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Periodically print a reminder when reviews are due",
	Long:  "Check the review queue on a fixed interval and print a line whenever items are due. Runs until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := cfg.Reminder.Interval
		if cmd.Flags().Changed("every") {
			interval, _ = cmd.Flags().GetDuration("every")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sched := spacedrep.NewScheduler(st, nil, logger)
		r := reminder.New(sched, &reminder.WriterNotifier{W: cmd.OutOrStdout()}, cfg.User.ID, interval, logger)
		if err := r.Start(cmd.Context()); err != nil {
			return err
		}
		defer r.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.Infof("received signal: %s, stopping reminders", sig)
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	remindCmd.Flags().Duration("every", 0, "Check interval (default reminder.interval, 1h)")
}

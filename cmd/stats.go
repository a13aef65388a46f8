package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/report"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/streak"
	"github.com/abhisek/lingua/internal/xp"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("sessions")
		exportPath, _ := cmd.Flags().GetString("export")

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		graph, err := loadCurriculum()
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.LoadProgress(ctx, cfg.User.ID)
		if err != nil {
			return err
		}
		since := clock.DateOf(time.Now()).AddDays(-(max(days, 1) - 1))
		daily, err := st.DailyActivitySince(ctx, cfg.User.ID, since)
		if err != nil {
			return err
		}
		sessions, err := st.RecentSessions(ctx, cfg.User.ID, limit)
		if err != nil {
			return err
		}
		accuracy, err := st.OverallAccuracy(ctx, cfg.User.ID)
		if err != nil {
			return err
		}
		today, err := st.SessionsOn(ctx, cfg.User.ID, clock.DateOf(time.Now()))
		if err != nil {
			return err
		}

		printStats(cmd.OutOrStdout(), statsView{
			progress:      p,
			catalog:       catalog,
			graph:         graph,
			daily:         daily,
			sessions:      sessions,
			accuracy:      accuracy,
			sessionsToday: today,
		})

		if exportPath != "" {
			if err := exportStats(exportPath, report.History{
				UserID:          cfg.User.ID,
				Progress:        p,
				OverallAccuracy: accuracy,
				Daily:           daily,
				Sessions:        sessions,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nExported to %s\n", exportPath)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("days", 7, "Days of activity to show")
	statsCmd.Flags().Int("sessions", 5, "Recent sessions to show")
	statsCmd.Flags().String("export", "", "Also write the history to this .xlsx file")
}

type statsView struct {
	progress      *progress.LearnerProgress
	catalog       *achievement.Catalog
	graph         *curriculum.Graph
	daily         []store.DailyActivity
	sessions      []store.SessionLogEntry
	accuracy      float64
	sessionsToday int
}

func printStats(out io.Writer, v statsView) {
	p, catalog, graph := v.progress, v.catalog, v.graph
	fmt.Fprintf(out, "Level %d  ·  %d XP  ·  %d to next level (%.0f%%)\n",
		p.Level, p.TotalXP, xp.ForNextLevel(p.TotalXP), xp.ProgressFraction(p.TotalXP)*100)

	band := streak.StatusOf(p.CurrentStreak)
	fmt.Fprintf(out, "Streak: %d days (%s), longest %d\n", p.CurrentStreak, band.Band, p.LongestStreak)
	if !p.LastActiveDate.IsZero() {
		fmt.Fprintf(out, "Last active: %s\n", p.LastActiveDate)
	}
	fmt.Fprintf(out, "Sessions: %d  ·  Lessons completed: %d  ·  Accuracy: %.0f%%\n",
		p.ActivitiesCompleted, len(p.CompletedLessons), v.accuracy*100)
	if left := progress.RemainingToday(v.sessionsToday); left > 0 {
		fmt.Fprintf(out, "Daily goal: %d/%d sessions today, %d to go\n", v.sessionsToday, progress.DailyGoal, left)
	} else {
		fmt.Fprintf(out, "Daily goal: met (%d sessions today)\n", v.sessionsToday)
	}

	fmt.Fprintln(out, "\nSkills:")
	for _, n := range graph.Nodes() {
		fmt.Fprintf(out, "  %-20s %s\n", n.Name, p.StatusOf(n.ID).Label())
	}

	fmt.Fprintf(out, "\nAchievements (%d/%d):\n", len(p.UnlockedAchievements), len(catalog.Definitions()))
	for _, d := range catalog.Definitions() {
		mark := " "
		if p.UnlockedAchievements[d.ID] {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %-18s %s\n", mark, d.Title, d.Description)
	}

	if len(v.daily) > 0 {
		fmt.Fprintln(out, "\nDaily activity:")
		for _, d := range v.daily {
			fmt.Fprintf(out, "  %s  %5.1f min  %4d XP  %3d exercises\n", d.Day, d.Minutes, d.XP, d.Exercises)
		}
	}

	if len(v.sessions) > 0 {
		fmt.Fprintln(out, "\nRecent sessions:")
		for _, s := range v.sessions {
			fmt.Fprintf(out, "  %s  %4d XP  %d/%d correct\n",
				s.EndedAt.Local().Format("2006-01-02 15:04"), s.XP, s.Correct, s.Exercises)
		}
	}
}

func exportStats(path string, h report.History) error {
	if err := store.EnsureDir(path); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := report.WriteXLSX(f, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

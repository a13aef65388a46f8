package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/difficulty"
	"github.com/abhisek/lingua/internal/exercise"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/spacedrep"
	"github.com/abhisek/lingua/internal/streak"
	"github.com/abhisek/lingua/internal/xp"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a practice session from a deck",
	Long: `Run a practice session from a JSON or XLSX deck. Prompts are printed one at
a time and answers are read from stdin (or --answers, one per line). An empty
input stream ends the session early with whatever was answered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deckPath, _ := cmd.Flags().GetString("deck")
		lessonID, _ := cmd.Flags().GetString("lesson")
		answersPath, _ := cmd.Flags().GetString("answers")
		tierFlag, _ := cmd.Flags().GetInt("tier")

		deck, err := exercise.LoadFile(deckPath)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		exercises := deck.Exercises
		if lessonID != "" {
			exercises = deck.ForLesson(lessonID)
			if len(exercises) == 0 {
				return fmt.Errorf("deck %s has no exercises for lesson %q", deck.Name, lessonID)
			}
		}

		opts := session.StartOptions{
			DefaultTier: difficulty.Tier(cfg.Session.DefaultTier),
			LessonID:    lessonID,
		}
		if cmd.Flags().Changed("tier") {
			opts.DefaultTier = difficulty.Tier(tierFlag)
			opts.ForceTier = true
		}

		in := cmd.InOrStdin()
		if answersPath != "" {
			f, openErr := os.Open(filepath.Clean(answersPath))
			if openErr != nil {
				return fmt.Errorf("open answers: %w", openErr)
			}
			defer f.Close()
			in = f
		}

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

		sess := session.New(session.Config{
			UserID:     cfg.User.ID,
			Store:      st,
			Logger:     logger,
			Catalog:    catalog,
			Curriculum: graph,
		})
		sched := spacedrep.NewScheduler(st, nil, logger)

		return runPractice(ctx, practiceIO{in: in, out: cmd.OutOrStdout()}, cfg.User.ID, sess, sched, exercises, opts)
	},
}

func init() {
	practiceCmd.Flags().String("deck", "", "Exercise deck (.json or .xlsx)")
	practiceCmd.Flags().String("lesson", "", "Only practice this lesson and mark it complete at the end")
	practiceCmd.Flags().Int("tier", 0, "Start at this tier (1-5) instead of the first exercise's")
	practiceCmd.Flags().String("answers", "", "Read answers from this file instead of stdin")
	_ = practiceCmd.MarkFlagRequired("deck")
}

// practiceIO is where a practice run reads answers, writes prompts and
// times each answer. A nil clock uses the system clock.
type practiceIO struct {
	in    io.Reader
	out   io.Writer
	clock clock.Clock
}

// reviewScheduler is the part of spacedrep.Scheduler practice needs.
type reviewScheduler interface {
	Track(ctx context.Context, userID, itemID, itemType string) (*spacedrep.ReviewItem, error)
	Answer(ctx context.Context, userID, itemID string, q spacedrep.Quality) (*spacedrep.ReviewItem, error)
}

// runPractice drives one session to completion and then records an SM-2
// review for every answered exercise.
func runPractice(ctx context.Context, pio practiceIO, userID string, sess *session.Session, sched reviewScheduler, exercises []exercise.Exercise, opts session.StartOptions) error {
	if err := sess.Start(exercises, opts); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	byID := make(map[string]exercise.Exercise, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}

	out := pio.out
	clk := pio.clock
	if clk == nil {
		clk = clock.System{}
	}
	scanner := bufio.NewScanner(pio.in)
	total := len(exercises)
	for {
		ex, ok := sess.Current()
		if !ok {
			break
		}
		n := total - sess.Remaining() + 1
		fmt.Fprintf(out, "\n[%d/%d] (%s) %s\n", n, total, sess.Tier().Label(), ex.Prompt)
		for i, c := range ex.Choices {
			fmt.Fprintf(out, "  %d. %s\n", i+1, c)
		}
		fmt.Fprint(out, "> ")

		started := clk.Now()
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		elapsed := clk.Now().Sub(started).Milliseconds()

		tierBefore := sess.Tier()
		rec, err := sess.Submit(session.Answer{Response: scanner.Text(), TimeSpentMs: elapsed})
		if err != nil {
			return err
		}
		if rec.Correct {
			fmt.Fprintf(out, "Correct! +%d XP\n", rec.XP.Total)
		} else {
			fmt.Fprintf(out, "Not quite. Expected: %s (+%d XP)\n", ex.Answer, rec.XP.Total)
		}
		if t := sess.Tier(); t != tierBefore {
			fmt.Fprintf(out, "Difficulty: %s -> %s\n", tierBefore.Label(), t.Label())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = sess.Abandon()
		return fmt.Errorf("read answers: %w", err)
	}

	sum, err := sess.End(ctx)
	if err != nil {
		_ = sess.Abandon()
		return err
	}

	for _, rec := range sum.Records {
		ex := byID[rec.ExerciseID]
		if _, err := sched.Track(ctx, userID, rec.ExerciseID, string(ex.Type)); err != nil {
			return fmt.Errorf("track review item: %w", err)
		}
		if _, err := sched.Answer(ctx, userID, rec.ExerciseID, spacedrep.QualityFor(rec.Correct, rec.TimeSpentMs)); err != nil {
			return fmt.Errorf("record review: %w", err)
		}
	}

	printSummary(out, sum)
	return nil
}

func printSummary(out io.Writer, sum *session.Summary) {
	p := sum.Progress
	c := sum.Changes

	fmt.Fprintln(out, "\n── Session complete ──")
	fmt.Fprintf(out, "Answered:  %d (%d correct, %.0f%%)\n", sum.ExercisesCompleted, sum.Correct, sum.Accuracy*100)
	fmt.Fprintf(out, "XP earned: %d\n", sum.TotalXP)
	fmt.Fprintf(out, "Time:      %.0f min\n", sum.TimeSpentMinutes)
	if sum.FinalTier != sum.StartTier {
		fmt.Fprintf(out, "Tier:      %s -> %s\n", sum.StartTier.Label(), sum.FinalTier.Label())
	}

	if sum.ExercisesCompleted == 0 {
		fmt.Fprintln(out, "Nothing answered, progress unchanged.")
		return
	}

	if c.LeveledUp() {
		fmt.Fprintf(out, "Level up! %d -> %d\n", c.LevelBefore, c.LevelAfter)
	}
	fmt.Fprintf(out, "Level %d, %d XP (%d to next level)\n", p.Level, p.TotalXP, xp.ForNextLevel(p.TotalXP))

	st := streak.StatusOf(p.CurrentStreak)
	switch {
	case c.Streak.NewRecord:
		fmt.Fprintf(out, "Streak: %d days, a new record! %s\n", p.CurrentStreak, st.Message)
	case c.Streak.Broken:
		fmt.Fprintln(out, "Streak: the old streak ended, starting again at 1 day")
	default:
		fmt.Fprintf(out, "Streak: %d days (%s)\n", p.CurrentStreak, st.Band)
	}

	if c.LessonCompleted {
		fmt.Fprintln(out, "Lesson complete.")
	}
	nodes := lo.Keys(c.SkillChanges)
	slices.Sort(nodes)
	for _, node := range nodes {
		fmt.Fprintf(out, "Skill %s: %s\n", node, c.SkillChanges[node].Label())
	}
	for _, u := range c.Unlocked {
		line := fmt.Sprintf("Achievement unlocked: %s [%s]", u.Title, u.Rarity.DisplayName())
		if u.XPReward > 0 {
			line += fmt.Sprintf(" +%d XP", u.XPReward)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, strings.Repeat("─", 22))
}

// Package report exports practice history as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/store"
)

// Sheet names in the exported workbook.
const (
	SheetSummary  = "Summary"
	SheetDaily    = "Daily"
	SheetSessions = "Sessions"
)

// History is everything an export contains.
type History struct {
	UserID          string
	Progress        *progress.LearnerProgress
	OverallAccuracy float64
	Daily           []store.DailyActivity
	Sessions        []store.SessionLogEntry
}

// WriteXLSX writes h as a workbook with summary, per-day and per-session
// sheets.
func WriteXLSX(w io.Writer, h History) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDaily, SheetSessions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	p := h.Progress
	if p == nil {
		p = progress.New()
	}
	summary := [][]any{
		{"User", h.UserID},
		{"Total XP", p.TotalXP},
		{"Level", p.Level},
		{"Current streak", p.CurrentStreak},
		{"Longest streak", p.LongestStreak},
		{"Last active", p.LastActiveDate.String()},
		{"Sessions", p.ActivitiesCompleted},
		{"Overall accuracy", round2(h.OverallAccuracy)},
		{"Lessons completed", len(p.CompletedLessons)},
		{"Achievements", len(p.UnlockedAchievements)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetColStyle(SheetSummary, "A", bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	daily := [][]any{{"Day", "Minutes", "XP", "Exercises", "Sessions"}}
	for _, d := range h.Daily {
		daily = append(daily, []any{d.Day.String(), round2(d.Minutes), d.XP, d.Exercises, d.Sessions})
	}
	if err := writeRows(f, SheetDaily, daily); err != nil {
		return err
	}

	sessions := [][]any{{"Session", "Lesson", "Started", "Ended", "XP", "Exercises", "Correct", "Accuracy"}}
	for _, s := range h.Sessions {
		sessions = append(sessions, []any{
			s.SessionID, s.LessonID,
			s.StartedAt.UTC().Format(time.RFC3339), s.EndedAt.UTC().Format(time.RFC3339),
			s.XP, s.Exercises, s.Correct, round2(s.Accuracy),
		})
	}
	if err := writeRows(f, SheetSessions, sessions); err != nil {
		return err
	}

	for _, sheet := range []string{SheetDaily, SheetSessions} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

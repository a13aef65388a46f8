package exercise

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/lingua/internal/difficulty"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet decks use one exercise per row after a header row:
//
//	A id | B prompt | C answer | D tier | E type | F choices | G alternates | H lesson | I skill
//
// Choices and alternates are separated by "|".
const listSeparator = "|"

// LoadXLSX reads a deck from a spreadsheet. An empty sheet name uses the
// first sheet.
func LoadXLSX(path, sheet string) (*Deck, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	d, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadXLSX reads a deck from spreadsheet bytes.
func ReadXLSX(r io.Reader, name, sheet string) (*Deck, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	d, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	d.Name = name
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func readSheet(f *excelize.File, sheet string) (*Deck, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	d := &Deck{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlank(row) {
			continue
		}
		ex, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidDeck, i+1, err)
		}
		d.Exercises = append(d.Exercises, ex)
	}
	return d, nil
}

func parseRow(row []string) (Exercise, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	tier, err := strconv.Atoi(cell(3))
	if err != nil {
		return Exercise{}, fmt.Errorf("tier %q is not a number", cell(3))
	}

	ex := Exercise{
		ID:         cell(0),
		Prompt:     cell(1),
		Answer:     cell(2),
		Tier:       difficulty.Tier(tier),
		Type:       Type(cell(4)),
		Choices:    splitList(cell(5)),
		Alternates: splitList(cell(6)),
		LessonID:   cell(7),
		SkillNode:  cell(8),
	}
	if ex.Type == "" {
		ex.Type = TypeTranslate
	}
	switch ex.Type {
	case TypeTranslate, TypeMultipleChoice, TypeFillBlank:
	default:
		return Exercise{}, fmt.Errorf("unknown exercise type %q", ex.Type)
	}
	return ex, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

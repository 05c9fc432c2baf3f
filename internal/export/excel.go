// Package export writes rendered candidate views to files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/render"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
)

var candidateHeaders = []string{
	"Rank", "Status", "Score", "Tier", "Name", "Email", "Phone",
	"Education", "Experience", "Skills", "File",
}

var tierColors = map[render.Tier]string{
	render.TierSuccess: "C6EFCE",
	render.TierPrimary: "DDEBF7",
	render.TierWarning: "FFEB9C",
	render.TierError:   "FFC7CE",
}

// ToExcel writes view to an .xlsx workbook at path and returns the path
// actually used; the extension is added when missing.
func ToExcel(view render.View, jobDescription, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return "", err
	}

	if err := writeSummary(f, view, jobDescription); err != nil {
		return "", fmt.Errorf("writing summary sheet: %w", err)
	}

	if err := writeCandidates(f, view); err != nil {
		return "", fmt.Errorf("writing candidates sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}

	return path, nil
}

// DefaultFileName names an export after the moment it was made.
func DefaultFileName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("candidates_%s.xlsx", now.Format("20060102_150405")))
}

func writeSummary(f *excelize.File, view render.View, jobDescription string) error {
	rows := [][]interface{}{
		{"Job description", strings.TrimSpace(jobDescription)},
		{"Threshold", view.Threshold},
		{"Display mode", string(view.Mode)},
		{"Candidates", view.Total},
		{"Qualified", view.Qualified},
	}
	for _, tier := range render.Tiers {
		rows = append(rows, []interface{}{"Tier " + string(tier), view.Tiers[tier]})
	}
	if view.Message != "" {
		rows = append(rows, []interface{}{"Note", view.Message})
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 60); err != nil {
		return err
	}

	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func writeCandidates(f *excelize.File, view render.View) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(CandidatesSheet, "A1", &candidateHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	tierStyles := make(map[render.Tier]int, len(tierColors))
	for tier, color := range tierColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		tierStyles[tier] = id
	}

	for idx, r := range view.Records {
		row := idx + 2
		values := []interface{}{
			idx + 1, r.Status(), r.Score, string(r.Tier), r.Name, r.Email, r.Phone,
			r.Education, r.Experience, render.SkillTags(r.Skills), r.Filename,
		}

		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(CandidatesSheet, start, &values); err != nil {
			return err
		}

		scoreCell, err := excelize.CoordinatesToCellName(3, row)
		if err != nil {
			return err
		}
		tierCell, err := excelize.CoordinatesToCellName(4, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(CandidatesSheet, scoreCell, tierCell, tierStyles[r.Tier]); err != nil {
			return err
		}
	}

	return f.SetColWidth(CandidatesSheet, "E", "K", 24)
}

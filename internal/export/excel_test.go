package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/resume-screener/internal/render"
	"github.com/spigell/resume-screener/internal/screener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestToExcel(t *testing.T) {
	view := render.Render([]screener.Candidate{
		{Filename: "a.pdf", Score: 85, Details: screener.Details{Name: "Jane", Email: "j@x.com", Skills: []string{"Go", "SQL"}}},
		{Filename: "b.pdf", Score: 30},
	}, 50, render.ModeAll)

	path, err := ToExcel(view, "Senior Go developer", filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet}, f.GetSheetList())

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, candidateHeaders, rows[0])
	assert.Equal(t, []string{"1", "qualified", "85", "success", "Jane", "j@x.com", render.Placeholder,
		render.Placeholder, render.Placeholder, "[Go] [SQL]", "a.pdf"}, rows[1])
	assert.Equal(t, "disqualified", rows[2][1])
	assert.Equal(t, render.NoSkillsMessage, rows[2][9])

	jd, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go developer", jd)
}

func TestToExcelEmptyView(t *testing.T) {
	path, err := ToExcel(render.Render(nil, 50, render.ModeAll), "jd", filepath.Join(t.TempDir(), "empty.xlsx"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	last := summary[len(summary)-1]
	assert.Equal(t, []string{"Note", render.EmptyMessage}, last)
}

func TestDefaultFileName(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, filepath.Join("out", "candidates_20261018_090503.xlsx"), DefaultFileName("out", now))
}

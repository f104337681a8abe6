// Package export writes mission views as spreadsheets for captains who work
// offline.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"runclub/internal/domain/attendance"
	"runclub/internal/domain/mission"
	"runclub/internal/domain/progress"
)

// Sheet names.
const (
	GridSheet      = "Performance"
	StandingsSheet = "Standings"
)

const (
	mark   = "O"
	noMark = "X"
)

// Workbook is everything one mission export contains.
type Workbook struct {
	Mission   mission.Mission
	Grid      *attendance.Grid
	Standings []progress.TeamProgress // optional; the sheet is omitted when nil
}

// Filename returns a download name such as "2024-w23-performance.xlsx".
func (wb Workbook) Filename() string {
	return fmt.Sprintf("%d-w%02d-performance.xlsx", wb.Mission.Year, wb.Mission.WeekNumber)
}

// WriteXLSX renders the grid (and standings when present) as an xlsx
// document on w.
// PRE: wb.Grid is non-nil
// POST: w holds a complete workbook or an error is returned
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", GridSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeGrid(f, wb.Grid, header); err != nil {
		return err
	}
	if wb.Standings != nil {
		if err := writeStandings(f, wb.Standings, header); err != nil {
			return err
		}
	}

	props := &excelize.DocProperties{Title: wb.Mission.Title, Creator: "runclub"}
	if err := f.SetDocProps(props); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeGrid(f *excelize.File, g *attendance.Grid, header int) error {
	row := []any{"Name", "Team"}
	for _, d := range g.Days {
		row = append(row, d.Label+" "+d.DayName)
	}
	row = append(row, "Days")
	if err := f.SetSheetRow(GridSheet, "A1", &row); err != nil {
		return fmt.Errorf("grid header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(row), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(GridSheet, "A1", last, header); err != nil {
		return fmt.Errorf("grid header style: %w", err)
	}

	for i, r := range g.Rows {
		line := []any{r.Name, string(r.Team)}
		for _, c := range r.Cells {
			if c.Completed {
				line = append(line, mark)
			} else {
				line = append(line, noMark)
			}
		}
		line = append(line, r.CompletedDays)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(GridSheet, cell, &line); err != nil {
			return fmt.Errorf("grid row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(GridSheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetPanes(GridSheet, &excelize.Panes{
		Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight",
	})
}

func writeStandings(f *excelize.File, standings []progress.TeamProgress, header int) error {
	if _, err := f.NewSheet(StandingsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	row := []any{"Rank", "Team", "Members", "Total km", "Average km", "Target km", "Achievement %"}
	if err := f.SetSheetRow(StandingsSheet, "A1", &row); err != nil {
		return fmt.Errorf("standings header: %w", err)
	}
	if err := f.SetCellStyle(StandingsSheet, "A1", "G1", header); err != nil {
		return fmt.Errorf("standings header style: %w", err)
	}
	for i, s := range standings {
		line := []any{i + 1, string(s.Team), s.MemberCount, s.TotalDistance, s.AverageDistance, s.Target, s.AchievementRate}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(StandingsSheet, cell, &line); err != nil {
			return fmt.Errorf("standings row %d: %w", i+2, err)
		}
	}
	return nil
}

package ladderexports

import (
	"bytes"
	"fmt"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetOfficial = "Official"
	SheetIronman  = "Ironman"
)

// ContentTypeXLSX is the media type of RankingsWorkbook output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var standingHeader = []any{"Position", "Player", "Average points", "Total points", "Rounds played"}

// RankingsWorkbook renders both standings into a workbook with one sheet each.
func RankingsWorkbook(r *ladderdomain.Rankings) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetOfficial); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetIronman); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", SheetIronman, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sheet := range []struct {
		name      string
		standings []ladderdomain.Standing
	}{
		{SheetOfficial, r.Official},
		{SheetIronman, r.Ironman},
	} {
		if err := writeStandings(f, sheet.name, sheet.standings, bold); err != nil {
			return nil, err
		}
	}

	// Reference round goes below the table so the header stays on row 1.
	for _, sheet := range []string{SheetOfficial, SheetIronman} {
		rows := len(r.Official)
		if sheet == SheetIronman {
			rows = len(r.Ironman)
		}
		cell, _ := excelize.CoordinatesToCellName(1, rows+3)
		label := fmt.Sprintf("Reference round %d", r.ReferenceRound)
		if !r.HasRankings {
			label += " (no results yet)"
		}
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return nil, fmt.Errorf("failed to write footer: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStandings(f *excelize.File, sheet string, standings []ladderdomain.Standing, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &standingHeader); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i, s := range standings {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Position, s.PlayerID.String(), s.AveragePoints, s.TotalPoints, s.RoundsPlayed}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "B", "B", 38); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "E", 15)
}

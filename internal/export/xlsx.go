package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	leaderboardSheet = "Leaderboard"
	resultsSheet     = "Results"
)

// WriteXLSX writes a workbook with a Leaderboard sheet and a Results sheet
func WriteXLSX(w io.Writer, snap *Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	rows := [][]interface{}{{"Rank", "Player", "Points", "Races"}}
	for _, row := range snap.Leaderboard {
		rows = append(rows, []interface{}{row.Rank, row.PlayerName, row.TotalPoints, row.RacesScored})
	}
	if err := writeRows(f, leaderboardSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Race", "Player", "Position", "Points"}}
	for _, r := range snap.Results {
		rows = append(rows, []interface{}{r.RaceNumber, r.PlayerName, r.Position, r.Points})
	}
	if err := writeRows(f, resultsSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

package rosterservice

import (
	"fmt"
	"io"
	"strings"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// SpreadsheetSheet is the worksheet the roster is exported to.
	SpreadsheetSheet = "Players"
	// DefaultExportFilename is the download name offered for the workbook.
	DefaultExportFilename = "player_data.xlsx"
	// SpreadsheetContentType is the MIME type of the exported workbook.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SpreadsheetHeader is the fixed column order of the export.
var SpreadsheetHeader = []string{
	"Player",
	"League Position",
	"Target Hit",
	"Cup Stage",
	"Yellow Cards",
	"Red Cards",
	"Goals Conceded",
	"Goals Scored",
	"Interview Count",
	"Penalties",
	"Score",
}

// JoinPenalties renders a penalty list the way the export and the CLI table show it.
func JoinPenalties(tags []rosterdomain.PenaltyTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func spreadsheetRow(p rosterdomain.Player) []interface{} {
	return []interface{}{
		p.Name,
		p.LeaguePosition,
		p.TargetHit,
		p.CupStage,
		p.YellowCards,
		p.RedCards,
		p.GoalsConceded,
		p.GoalsScored,
		p.Interviews,
		JoinPenalties(p.PenaltyPoints),
		p.Score,
	}
}

// WriteSpreadsheet writes the roster as an xlsx workbook with one row per player in
// roster order. An empty roster produces a header-only sheet.
func WriteSpreadsheet(roster rosterdomain.Roster, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SpreadsheetSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(SpreadsheetHeader))
	for i, h := range SpreadsheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SpreadsheetSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range roster {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := spreadsheetRow(p)
		if err := f.SetSheetRow(SpreadsheetSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", p.Name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SpreadsheetSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(SpreadsheetHeader))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SpreadsheetSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(SpreadsheetSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

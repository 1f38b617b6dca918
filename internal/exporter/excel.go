package exporter

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tradepulse/pkg/contracts/domain"
)

const sheetName = "Trades"

// WriteGroupXLSX streams one trade group as an XLSX workbook with a
// single Trades sheet.
func WriteGroupXLSX(w io.Writer, group domain.TradeGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(tradeHeaders))
	for i, h := range tradeHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for i, trade := range group.Trades {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row := xlsxRow(trade)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// xlsxRow keeps numeric fields numeric so spreadsheet formulas work on
// the export; an invalid field stays an empty cell.
func xlsxRow(t domain.Trade) []interface{} {
	return []interface{}{
		t.TradeActionID,
		string(t.Side),
		formatTime(t.TradingTime),
		decimalCell(t.TradingStrike),
		formatTime(t.CloseTime),
		decimalCell(t.CloseStrike),
		decimalCell(t.Volume),
		decimalCell(t.Profit),
		t.Duration,
		t.AssetID,
		t.GroupID,
	}
}

func decimalCell(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	f, _ := d.Decimal.Float64()
	return f
}

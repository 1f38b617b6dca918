package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"tradepulse/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize the encoding of a downloaded CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteGroupCSV streams one trade group as CSV.
func WriteGroupCSV(w io.Writer, group domain.TradeGroup) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, trade := range group.Trades {
		if err := cw.Write(tradeRecord(trade)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Command tradecsv tags a CSV of trade actions with session group ids
// offline: read trades, assign groups with the same algorithm the
// dashboard uses, write the tagged rows back out. Useful for spot checks
// against warehouse extracts without running the server.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tradepulse/internal/config"
	"tradepulse/internal/grouping"
	"tradepulse/internal/infrastructure"
	"tradepulse/pkg/contracts/domain"
)

// Input columns, by position: trade_action_id, trader_id, asset_id,
// trade_type, trading_time, close_time, volume, profit.
const inputColumns = 8

const timeLayout = "2006-01-02 15:04:05"

func main() {
	in := flag.String("in", "", "input csv of trade actions (defaults to stdin)")
	out := flag.String("out", "", "output csv with group ids (defaults to stdout)")
	gap := flag.Duration("gap", grouping.DefaultGapThreshold, "gap threshold separating trade groups")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if err := run(*in, *out, *gap, logger); err != nil {
		logger.Error("trade grouping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inPath, outPath string, gap time.Duration, logger *slog.Logger) error {
	input := io.Reader(os.Stdin)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	output := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		output = f
	}

	trades, skipped, err := readTrades(input)
	if err != nil {
		return err
	}

	tagged := grouping.Assign(trades, gap)

	logger.Info("trades grouped",
		slog.Int("trades", len(tagged)),
		slog.Int("skipped_rows", skipped),
		slog.Duration("gap", gap),
		slog.Int("groups", groupCount(tagged)))

	return writeTrades(output, tagged)
}

func readTrades(r io.Reader) ([]domain.Trade, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var trades []domain.Trade
	skipped := 0
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read input: %w", err)
		}
		line++
		if line == 1 && record[0] == "trade_action_id" {
			continue // header
		}
		trade, ok := parseTrade(record)
		if !ok {
			skipped++
			continue
		}
		trades = append(trades, trade)
	}
	return trades, skipped, nil
}

// parseTrade converts one csv record. Identity fields must parse; the
// monetary fields degrade to invalid markers like everywhere else.
func parseTrade(record []string) (domain.Trade, bool) {
	if len(record) < inputColumns {
		return domain.Trade{}, false
	}

	actionID, err1 := strconv.ParseInt(record[0], 10, 64)
	traderID, err2 := strconv.ParseInt(record[1], 10, 64)
	assetID, err3 := strconv.Atoi(record[2])
	tradeType, err4 := strconv.Atoi(record[3])
	openTime, err5 := time.Parse(timeLayout, record[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return domain.Trade{}, false
	}

	trade := domain.Trade{
		TradeActionID: actionID,
		TraderID:      traderID,
		AssetID:       assetID,
		Side:          domain.SideFromTradeType(tradeType),
		TradingTime:   openTime,
		Volume:        parseDecimal(record[6]),
		Profit:        parseDecimal(record[7]),
	}
	if closeTime, err := time.Parse(timeLayout, record[5]); err == nil {
		trade.CloseTime = closeTime
	}
	return trade, true
}

func parseDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func writeTrades(w io.Writer, trades []domain.Trade) error {
	cw := csv.NewWriter(w)
	header := []string{"trade_action_id", "trader_id", "asset_id", "side",
		"trading_time", "close_time", "volume", "profit", "group_id"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			strconv.FormatInt(t.TradeActionID, 10),
			strconv.FormatInt(t.TraderID, 10),
			strconv.Itoa(t.AssetID),
			string(t.Side),
			t.TradingTime.Format(timeLayout),
			formatCloseTime(t.CloseTime),
			formatDecimal(t.Volume),
			formatDecimal(t.Profit),
			strconv.Itoa(t.GroupID),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCloseTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func groupCount(trades []domain.Trade) int {
	max := 0
	for _, t := range trades {
		if t.GroupID > max {
			max = t.GroupID
		}
	}
	return max
}

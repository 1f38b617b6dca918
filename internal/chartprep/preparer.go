// Package chartprep turns a trade group and its matching price ticks into a
// chart-ready dataset: numeric coercion, derived marker size and color, and
// a time encoding selected by the rendering backend.
//
// Prepare is pure and total. Empty input produces an empty dataset with the
// correct shape, and a malformed field degrades to a missing marker for that
// field only; a single corrupt trade record never blanks the whole chart.
package chartprep

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradepulse/pkg/contracts/domain"
)

// Marker size bounds and scaling. The square root compresses a wide dynamic
// range of trade sizes into a visually bounded marker scale.
const (
	markerBase    = 10.0
	markerScale   = 4.0
	markerDivisor = 1000.0
	markerMin     = 5.0
	markerMax     = 100.0
)

// Options selects the output encoding and palette for one render pass.
type Options struct {
	Encoding TimeEncoding
	Theme    Theme
}

// TradePoint is one row of the prepared trade table: the open and close
// points of a trade plus every derived display field. Numeric fields are
// nil when the source value was missing or unparseable.
type TradePoint struct {
	OpenTime   interface{} `json:"open_time"`
	OpenPrice  *float64    `json:"open_price"`
	CloseTime  interface{} `json:"close_time"`
	ClosePrice *float64    `json:"close_price"`
	Side       domain.Side `json:"side"`
	Volume     *float64    `json:"volume"`
	Profit     *float64    `json:"profit"`
	Duration   string      `json:"duration"`
	AssetID    int         `json:"asset_id"`
	Color      string      `json:"color"`
	MarkerSize float64     `json:"marker_size"`
}

// TickPoint is one row of the prepared price series.
type TickPoint struct {
	Timestamp interface{} `json:"timestamp"`
	Price     *float64    `json:"price"`
}

// Dataset is the display-ready output of one render pass: the prepared
// trade rows, the price line, and the caption echo of the group identity.
type Dataset struct {
	AssetID     int          `json:"asset_id"`
	GroupID     int          `json:"group_id"`
	WindowStart interface{}  `json:"window_start"`
	WindowEnd   interface{}  `json:"window_end"`
	Trades      []TradePoint `json:"trades"`
	Ticks       []TickPoint  `json:"ticks"`
}

// Prepare builds the chart dataset for one trade group and its tick series.
func Prepare(group domain.TradeGroup, ticks []domain.Tick, opts Options) Dataset {
	palette := PaletteFor(opts.Theme)

	trades := make([]domain.Trade, len(group.Trades))
	copy(trades, group.Trades)
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].TradingTime.Equal(trades[j].TradingTime) {
			return trades[i].TradingTime.Before(trades[j].TradingTime)
		}
		return trades[i].CloseTime.Before(trades[j].CloseTime)
	})

	tradePoints := make([]TradePoint, 0, len(trades))
	for _, tr := range trades {
		volume := numeric(tr.Volume)
		tradePoints = append(tradePoints, TradePoint{
			OpenTime:   encodeTime(tr.TradingTime, opts.Encoding),
			OpenPrice:  numeric(tr.TradingStrike),
			CloseTime:  encodeTime(tr.CloseTime, opts.Encoding),
			ClosePrice: numeric(tr.CloseStrike),
			Side:       tr.Side,
			Volume:     volume,
			Profit:     numeric(tr.Profit),
			Duration:   tr.Duration,
			AssetID:    tr.AssetID,
			Color:      palette.ColorFor(tr.Side),
			MarkerSize: MarkerSize(volume),
		})
	}

	sorted := make([]domain.Tick, len(ticks))
	copy(sorted, ticks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	tickPoints := make([]TickPoint, 0, len(sorted))
	for _, tk := range sorted {
		tickPoints = append(tickPoints, TickPoint{
			Timestamp: encodeTime(tk.Timestamp, opts.Encoding),
			Price:     numeric(tk.Price),
		})
	}

	return Dataset{
		AssetID:     group.AssetID,
		GroupID:     group.ID,
		WindowStart: encodeTime(group.WindowStart, opts.Encoding),
		WindowEnd:   encodeTime(group.WindowEnd, opts.Encoding),
		Trades:      tradePoints,
		Ticks:       tickPoints,
	}
}

// MarkerSize derives a marker size from a trade volume. A missing or
// negative volume contributes nothing beyond the base size.
func MarkerSize(volume *float64) float64 {
	v := 0.0
	if volume != nil && *volume > 0 {
		v = *volume
	}
	size := markerBase + markerScale*math.Sqrt(v/markerDivisor)
	if size < markerMin {
		return markerMin
	}
	if size > markerMax {
		return markerMax
	}
	return size
}

// numeric coerces a nullable decimal to a float pointer; invalid values
// become nil rather than an error.
func numeric(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return &f
}

// encodeTime renders a timestamp in the encoding the charting backend
// expects. Zero times encode like any other; callers decide whether a zero
// window bound is meaningful.
func encodeTime(t time.Time, enc TimeEncoding) interface{} {
	switch enc {
	case EncodingISO8601:
		return t.UTC().Format("2006-01-02T15:04:05")
	default:
		return t.UTC().UnixMilli()
	}
}

// Package grouping clusters a trader's raw trade stream into contiguous
// trading sessions. A group is a maximal run of trades for one asset whose
// consecutive open times are within the gap threshold of each other.
//
// Grouping is a pure view over the current trade set: it is recomputed on
// every render pass and never persisted.
package grouping

import (
	"sort"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// DefaultGapThreshold is the default session granularity. Too small
// fragments a continuous trading burst, too large merges unrelated sessions.
const DefaultGapThreshold = 60 * time.Second

// Assign returns a copy of trades sorted by (asset id, trading time) with
// 1-based group ids assigned. A new group starts when the asset changes or
// when the gap to the previous trade strictly exceeds gapThreshold; a gap
// exactly equal to the threshold stays in the same group.
//
// The sort is stable, so trades sharing an open time keep their input order.
// An empty input yields an empty, non-nil slice.
func Assign(trades []domain.Trade, gapThreshold time.Duration) []domain.Trade {
	out := make([]domain.Trade, len(trades))
	copy(out, trades)

	if len(out) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AssetID != out[j].AssetID {
			return out[i].AssetID < out[j].AssetID
		}
		return out[i].TradingTime.Before(out[j].TradingTime)
	})

	group := 1
	out[0].GroupID = group
	for i := 1; i < len(out); i++ {
		assetChanged := out[i].AssetID != out[i-1].AssetID
		gap := out[i].TradingTime.Sub(out[i-1].TradingTime)
		if assetChanged || gap > gapThreshold {
			group++
		}
		out[i].GroupID = group
	}

	return out
}

// Build assigns group ids and assembles the groups themselves, in id order.
// Each group's window spans min open time minus the gap margin to max close
// time plus the gap margin, so the chart shows price context around the
// session edges. Rows where close precedes open still contribute both
// bounds; the window never shrinks below the open-time span.
func Build(trades []domain.Trade, gapThreshold time.Duration) []domain.TradeGroup {
	tagged := Assign(trades, gapThreshold)
	if len(tagged) == 0 {
		return []domain.TradeGroup{}
	}

	var groups []domain.TradeGroup
	for _, tr := range tagged {
		if len(groups) == 0 || groups[len(groups)-1].ID != tr.GroupID {
			groups = append(groups, domain.TradeGroup{
				ID:          tr.GroupID,
				AssetID:     tr.AssetID,
				WindowStart: tr.TradingTime,
				WindowEnd:   tr.TradingTime,
			})
		}
		g := &groups[len(groups)-1]
		g.Trades = append(g.Trades, tr)
		if tr.TradingTime.Before(g.WindowStart) {
			g.WindowStart = tr.TradingTime
		}
		if tr.CloseTime.After(g.WindowEnd) {
			g.WindowEnd = tr.CloseTime
		}
		if tr.TradingTime.After(g.WindowEnd) {
			g.WindowEnd = tr.TradingTime
		}
	}

	for i := range groups {
		groups[i].WindowStart = groups[i].WindowStart.Add(-gapThreshold)
		groups[i].WindowEnd = groups[i].WindowEnd.Add(gapThreshold)
	}

	return groups
}

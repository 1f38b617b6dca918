package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a single timestamped price observation for an asset.
// SenderTimestamp is provenance metadata and takes no part in display math.
type Tick struct {
	AssetID         int                 `json:"asset_id" db:"asset_id"`
	Timestamp       time.Time           `json:"timestamp" db:"timestamp"`
	SenderTimestamp time.Time           `json:"sender_timestamp" db:"sender_timestamp"`
	Price           decimal.NullDecimal `json:"price" db:"price"`
}

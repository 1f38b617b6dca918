package datasource

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Cell conversion helpers. Each one degrades: a malformed or unexpected
// value yields the zero/invalid form for that field instead of an error,
// so a single corrupt cell never drops the row it belongs to.

func asInt(v interface{}) (int, bool) {
	i, ok := asInt64(v)
	return int(i), ok
}

func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// asDecimal converts a numeric cell to a nullable decimal. Anything that
// does not parse becomes the invalid marker.
func asDecimal(v interface{}) decimal.NullDecimal {
	switch x := v.(type) {
	case pgtype.Numeric:
		return numericToDecimal(x)
	case *pgtype.Numeric:
		if x == nil {
			return decimal.NullDecimal{}
		}
		return numericToDecimal(*x)
	case decimal.Decimal:
		return decimal.NullDecimal{Decimal: x, Valid: true}
	case float64:
		return floatToDecimal(x)
	case float32:
		return floatToDecimal(float64(x))
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(x), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(x)), Valid: true}
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: d, Valid: true}
	default:
		return decimal.NullDecimal{}
	}
}

// floatToDecimal converts a float cell, treating NaN and the infinities
// as invalid. decimal.NewFromFloat panics on them, and PostgreSQL double
// precision columns can legally hold all three.
func floatToDecimal(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp),
		Valid:   true,
	}
}

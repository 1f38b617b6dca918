package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradepulse/internal/services"
	"tradepulse/pkg/contracts/domain"
)

// Accepted layouts for the from/to query parameters.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseFilter reads the shared filter parameters: either a named preset
// or explicit from/to bounds, plus optional asset and duration lists.
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	var f domain.Filter

	if preset := q.Get("preset"); preset != "" {
		from, to, err := services.PresetRange(preset, time.Now())
		if err != nil {
			return f, err
		}
		f.From, f.To = from, to
	} else {
		var err error
		if f.From, err = parseTimeParam(q.Get("from")); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		if f.To, err = parseTimeParam(q.Get("to")); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
	}

	var err error
	if f.AssetIDs, err = parseIntList(q.Get("assets")); err != nil {
		return f, fmt.Errorf("assets: %w", err)
	}
	if list := q.Get("durations"); list != "" {
		f.Durations = strings.Split(list, ",")
	}

	return f, nil
}

func parseTimeParam(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

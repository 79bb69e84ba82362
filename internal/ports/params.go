package ports

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

// parseGameFilter reads the shared query parameters for stats endpoints:
// from/to (YYYY-MM), time_class and rated.
func parseGameFilter(r *http.Request) (domain.GameFilter, error) {
	var filter domain.GameFilter
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		month, err := domain.ParseArchiveMonth(raw)
		if err != nil {
			return domain.GameFilter{}, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = &month
	}
	if raw := query.Get("to"); raw != "" {
		month, err := domain.ParseArchiveMonth(raw)
		if err != nil {
			return domain.GameFilter{}, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = &month
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return domain.GameFilter{}, fmt.Errorf("from is after to")
	}

	if raw := query.Get("time_class"); raw != "" {
		timeClass, err := parseTimeClass(raw)
		if err != nil {
			return domain.GameFilter{}, err
		}
		filter.TimeClass = &timeClass
	}

	if raw := query.Get("rated"); raw != "" {
		rated, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.GameFilter{}, fmt.Errorf("invalid rated: %w", err)
		}
		filter.Rated = &rated
	}

	return filter, nil
}

func parseTimeClass(raw string) (domain.TimeClass, error) {
	switch timeClass := domain.TimeClass(raw); timeClass {
	case domain.TimeClassBullet, domain.TimeClassBlitz, domain.TimeClassRapid, domain.TimeClassDaily:
		return timeClass, nil
	default:
		return "", fmt.Errorf("invalid time_class: %s", raw)
	}
}

// parseLocation reads the tz query parameter as an IANA zone name. Missing
// means UTC.
func parseLocation(r *http.Request) (*time.Location, error) {
	raw := r.URL.Query().Get("tz")
	if raw == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid tz: %w", err)
	}
	return loc, nil
}

// parseColor reads the optional color query parameter. Nil means both colors.
func parseColor(r *http.Request) (*domain.Color, error) {
	raw := r.URL.Query().Get("color")
	if raw == "" {
		return nil, nil
	}
	switch color := domain.Color(raw); color {
	case domain.ColorWhite, domain.ColorBlack:
		return &color, nil
	default:
		return nil, fmt.Errorf("invalid color: %s", raw)
	}
}

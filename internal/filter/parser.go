package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dayRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "2019-01-05" - a single day
//   - "2019-01" - an entire month
//   - "2019-01-05..2019-02-10" - an inclusive range; either side may be
//     omitted ("2019-01-05.." or "..2019-02-10") and either side may be a month
//
// Times are in UTC. The start is at 00:00:00 of the first day and the end
// at 00:00:00 of the last day, matching the game log date column.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if start, end, ok := strings.Cut(input, ".."); ok {
		var from, to *time.Time
		if start = strings.TrimSpace(start); start != "" {
			first, _, err := parseBound(start)
			if err != nil {
				return nil, nil, err
			}
			from = &first
		}
		if end = strings.TrimSpace(end); end != "" {
			_, last, err := parseBound(end)
			if err != nil {
				return nil, nil, err
			}
			to = &last
		}
		if from == nil && to == nil {
			return nil, nil, fmt.Errorf("date range needs at least one bound")
		}
		if from != nil && to != nil && from.After(*to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	first, last, err := parseBound(input)
	if err != nil {
		return nil, nil, err
	}
	return &first, &last, nil
}

// parseBound returns the first and last day covered by a day or month.
func parseBound(s string) (time.Time, time.Time, error) {
	switch {
	case dayRe.MatchString(s):
		day, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date: %s", s)
		}
		return day, day, nil
	case monthRe.MatchString(s):
		month, err := time.Parse("2006-01", s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month: %s", s)
		}
		return month, month.AddDate(0, 1, -1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range format. Use '2019-01-05', '2019-01' or '2019-01-05..2019-02-10'")
	}
}

// ParseVenue accepts "home", "away" or an empty string.
func ParseVenue(s string) (Venue, error) {
	switch v := Venue(strings.ToLower(strings.TrimSpace(s))); v {
	case VenueAny, VenueHome, VenueAway:
		return v, nil
	default:
		return "", fmt.Errorf("invalid venue: %s (must be 'home' or 'away')", s)
	}
}

// ParseResult accepts "W", "L", "win", "loss" or an empty string.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ResultAny, nil
	case "w", "win", "wins":
		return ResultWin, nil
	case "l", "loss", "losses":
		return ResultLoss, nil
	default:
		return "", fmt.Errorf("invalid result: %s (must be 'W' or 'L')", s)
	}
}

package ai

import (
	"strconv"
	"strings"
	"time"

	"assettracker-backend/internal/shared/util"
)

// sanitizeString trims the value; empty or non-string becomes nil.
func sanitizeString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "unable to extract") {
		return nil
	}
	return &s
}

// sanitizeNumber parses the value leniently: JSON numbers pass through,
// strings lose currency symbols and thousands separators first. Anything
// unparseable becomes nil.
func sanitizeNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return nil
		}
		return &n
	case string:
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= '0' && r <= '9', r == '.', r == '-':
				return r
			}
			return -1
		}, n)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || parsed < 0 {
			return nil
		}
		return &parsed
	}
	return nil
}

var dateLayouts = []string{
	util.DateLayout,
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// sanitizeDate normalizes a date string to YYYY-MM-DD; unparseable values
// become nil.
func sanitizeDate(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := util.FormatDate(t)
			return &out
		}
	}
	return nil
}

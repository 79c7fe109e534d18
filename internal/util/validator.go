package util

import (
	"fmt"
	"time"
)

// ValidateHours checks a logged-hours figure (non-negative, at most a day).
func ValidateHours(hours float64) error {
	if hours < 0 {
		return fmt.Errorf("hours must be non-negative, got %f", hours)
	}
	if hours > 24 {
		return fmt.Errorf("hours too large, got %f", hours)
	}
	return nil
}

// ValidateTurnover checks a turnover magnitude (non-negative, below a sane cap).
func ValidateTurnover(turnover float64) error {
	if turnover < 0 {
		return fmt.Errorf("turnover must be non-negative, got %f", turnover)
	}
	if turnover >= 1e15 {
		return fmt.Errorf("turnover too large, got %f", turnover)
	}
	return nil
}

// ValidateDate checks a date string (must be YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(dateStr string) (time.Time, error) {
	if err := ValidateDate(dateStr); err != nil {
		return time.Time{}, err
	}
	return time.Parse("2006-01-02", dateStr)
}

package util

import (
	"testing"
)

// TestValidateHours_Valid covers typical logged hours.
func TestValidateHours_Valid(t *testing.T) {
	testCases := []float64{0, 0.25, 1.0, 7.5, 24}

	for _, hours := range testCases {
		err := ValidateHours(hours)
		if err != nil {
			t.Errorf("ValidateHours(%f) error = %v, want nil", hours, err)
		}
	}
}

// TestValidateHours_Negative rejects negative hours.
func TestValidateHours_Negative(t *testing.T) {
	testCases := []float64{-0.01, -1, -24}

	for _, hours := range testCases {
		err := ValidateHours(hours)
		if err == nil {
			t.Errorf("ValidateHours(%f) error = nil, want error", hours)
		}
	}
}

// TestValidateHours_TooLarge rejects more than a day per entry.
func TestValidateHours_TooLarge(t *testing.T) {
	err := ValidateHours(25)

	if err == nil {
		t.Error("ValidateHours(25) error = nil, want error")
	}
}

// TestValidateTurnover_Valid covers typical turnover magnitudes.
func TestValidateTurnover_Valid(t *testing.T) {
	testCases := []float64{0, 1, 10_000_000, 250_000_000, 1e12}

	for _, turnover := range testCases {
		err := ValidateTurnover(turnover)
		if err != nil {
			t.Errorf("ValidateTurnover(%f) error = %v, want nil", turnover, err)
		}
	}
}

// TestValidateTurnover_Negative rejects negative turnover.
func TestValidateTurnover_Negative(t *testing.T) {
	err := ValidateTurnover(-1)

	if err == nil {
		t.Error("ValidateTurnover(-1) error = nil, want error")
	}
}

// TestValidateDate_Valid covers valid dates.
func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

// TestValidateDate_InvalidFormat rejects malformed dates.
func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

// TestParseDate round-trips a valid date.
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-15")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Format("2006-01-02") != "2025-03-15" {
		t.Errorf("ParseDate() = %v, want 2025-03-15", d)
	}

	if _, err := ParseDate("15/03/2025"); err == nil {
		t.Error("ParseDate() with bad format error = nil, want error")
	}
}

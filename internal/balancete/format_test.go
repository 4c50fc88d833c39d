package balancete

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   Monetary
		want string
	}{
		{"", "R$ 0,00"},
		{"0,00", "R$ 0,00"},
		{"1234,56", "R$ 1234,56"},
		{"1.234,56 D", "R$ 1.234,56 D"},
		{"100,00 C", "R$ 100,00 C"},
		{"abc", "R$ 0,00"},
		{"12.5", "R$ 12,50"},
		{"0", "R$ 0,00"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMonetaryValue(t *testing.T) {
	tests := []struct {
		in   Monetary
		want float64
	}{
		{"", 0},
		{"0,00", 0},
		{"1.234,56 D", 1234.56},
		{"100,00 C", 100},
		{"42", 42},
		{"12.5", 12.5},
		{"abc", 0},
		{"  7,50  ", 7.5},
	}

	for _, tt := range tests {
		if got := MonetaryValue(tt.in); got != tt.want {
			t.Errorf("MonetaryValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"01", "Janeiro"},
		{"03", "Março"},
		{"06", "Junho"},
		{"12", "Dezembro"},
		{"13", "13"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MonthName(tt.in); got != tt.want {
			t.Errorf("MonthName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp("2025-07-14T10:30:00Z"); got != "14/07/2025 10:30" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
	if got := FormatTimestamp("not a timestamp"); got != "not a timestamp" {
		t.Errorf("unparsable input should pass through, got %q", got)
	}
}

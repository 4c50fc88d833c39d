package balancete

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// suffixPattern captures the trailing debit/credit marker of a monetary
// string, e.g. "1.234,56 C".
var suffixPattern = regexp.MustCompile(`\s*([DC])\s*$`)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders a raw monetary string for display.
//
// Values already carrying a decimal comma are shown as exported, prefixed
// with "R$" and keeping their D/C suffix. Bare numerics are formatted with
// pt-BR grouping. Empty or unparsable values render as "R$ 0,00".
func FormatCurrency(value Monetary) string {
	raw := string(value)
	if raw == "" || raw == "0,00" {
		return "R$ 0,00"
	}

	suffix := ""
	if m := suffixPattern.FindStringSubmatch(raw); m != nil {
		suffix = m[1]
	}
	clean := suffixPattern.ReplaceAllString(raw, "")

	if strings.Contains(clean, ",") {
		if suffix != "" {
			return "R$ " + clean + " " + suffix
		}
		return "R$ " + clean
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil {
		return "R$ 0,00"
	}
	formatted := ptBR.Sprintf("R$ %.2f", n)
	if suffix != "" {
		return formatted + " " + suffix
	}
	return formatted
}

// MonetaryValue converts a monetary string to a number for the spreadsheet
// export. It accepts pt-BR locale values ("1.234,56 C") and plain numerics;
// anything unparsable becomes 0.
func MonetaryValue(value Monetary) float64 {
	clean := strings.TrimSpace(suffixPattern.ReplaceAllString(string(value), ""))
	if clean == "" {
		return 0
	}
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

var monthNames = map[string]string{
	"01": "Janeiro", "02": "Fevereiro", "03": "Março",
	"04": "Abril", "05": "Maio", "06": "Junho",
	"07": "Julho", "08": "Agosto", "09": "Setembro",
	"10": "Outubro", "11": "Novembro", "12": "Dezembro",
}

// MonthName returns the Portuguese name of a 2-digit month, or the input
// unchanged when it is not a known month.
func MonthName(mes string) string {
	if name, ok := monthNames[mes]; ok {
		return name
	}
	return mes
}

// FormatTimestamp renders a stored RFC3339 timestamp as "dd/mm/aaaa hh:mm"
// for the period list. Unparsable values pass through unchanged.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("02/01/2006 15:04")
}

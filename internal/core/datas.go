package core

import (
	"time"
)

// Wire layouts. Dates (vencimento, pagamento) travel as YYYY-MM-DD; creation
// timestamps as ISO 8601 without zone, matching the backend's isoformat.
const (
	LayoutData      = "2006-01-02"
	LayoutTimestamp = "2006-01-02T15:04:05"
)

// ParseData parses a wire date (YYYY-MM-DD).
func ParseData(s string) (time.Time, error) {
	return time.Parse(LayoutData, s)
}

// ParseTimestamp parses a creation timestamp, tolerating the fractional and
// zoned variants seen across backend revisions. An empty or unparseable value
// yields the zero time, so chronological sorts treat it as the earliest
// possible date instead of failing.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		LayoutTimestamp,
		"2006-01-02T15:04:05.999999",
		time.RFC3339,
		LayoutData,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatData renders a wire date for display (dd/mm/yyyy). Unparseable input
// is returned as-is.
func FormatData(s string) string {
	t, err := ParseData(s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

var nomesMeses = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// NomeMes returns the Portuguese month name for mes in [1,12].
func NomeMes(mes int) string {
	if mes < 1 || mes > 12 {
		return ""
	}
	return nomesMeses[mes-1]
}

package utils

import "time"

const dateLayout = "2006-01-02"

// ParseDate interpreta datas yyyy-mm-dd vindas da query string; vazio devolve nil
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// EndOfDay devolve o último instante do dia, para filtros com data final inclusiva
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfMonth devolve o primeiro instante do mês de t
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

package core

import (
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// Totals is the dashboard card summary for "now".
type Totals struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
}

// DayAmount is one point of a daily spending series.
type DayAmount struct {
	Date   string  `json:"date"` // yyyy-mm-dd
	Amount float64 `json:"amount"`
}

// DayGroup holds the expenses of a single calendar date.
type DayGroup struct {
	Date     string    `json:"date"`
	Total    float64   `json:"total"`
	Expenses []Expense `json:"expenses"`
}

// Summarize computes today/this-week/this-month totals relative to now.
// The week runs Sunday through Saturday. Expenses with unparseable dates
// are skipped rather than failing the whole report.
func Summarize(expenses []Expense, now time.Time) Totals {
	day := truncateToDay(now)
	weekStart := day.AddDate(0, 0, -int(day.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	var t Totals
	for _, e := range expenses {
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Equal(day) {
			t.Today += e.Amount
		}
		if !d.Before(weekStart) && d.Before(weekEnd) {
			t.Week += e.Amount
		}
		if d.Year() == now.Year() && d.Month() == now.Month() {
			t.Month += e.Amount
		}
	}
	return t
}

// CategoryTotals sums amounts per category, largest first.
func CategoryTotals(expenses []Expense) []CategoryAmount {
	sums := make(map[Category]float64)
	for _, e := range expenses {
		sums[e.Category] += e.Amount
	}
	out := make([]CategoryAmount, 0, len(sums))
	for _, c := range Categories() {
		if amount, ok := sums[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: amount})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// DailySeries returns one zero-filled point per day for the last days days,
// oldest first, ending at now's date.
func DailySeries(expenses []Expense, now time.Time, days int) []DayAmount {
	if days < 1 {
		days = 1
	}
	end := truncateToDay(now)
	start := end.AddDate(0, 0, -(days - 1))

	sums := make(map[string]float64)
	for _, e := range expenses {
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		sums[e.Date] += e.Amount
	}

	series := make([]DayAmount, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		series = append(series, DayAmount{Date: key, Amount: sums[key]})
	}
	return series
}

// GroupByDate groups expenses by calendar date, newest date first. Within a
// group the input order is preserved. Unparseable dates are skipped.
func GroupByDate(expenses []Expense) []DayGroup {
	byDate := make(map[string]*DayGroup)
	var dates []string
	for _, e := range expenses {
		if _, err := ParseDate(e.Date); err != nil {
			continue
		}
		g, ok := byDate[e.Date]
		if !ok {
			g = &DayGroup{Date: e.Date}
			byDate[e.Date] = g
			dates = append(dates, e.Date)
		}
		g.Expenses = append(g.Expenses, e)
		g.Total += e.Amount
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		out = append(out, *byDate[d])
	}
	return out
}

// TotalAmount sums all expense amounts.
func TotalAmount(expenses []Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// truncateToDay normalizes to midnight UTC so comparisons line up with
// ParseDate, which also yields midnight UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

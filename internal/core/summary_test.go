package core

import (
	"testing"
	"time"
)

func exp(userID, date string, amount float64, cat Category) Expense {
	return Expense{UserID: userID, Title: "x", Amount: amount, Category: cat, Date: date}
}

func TestSummarize(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week runs Sun 2026-08-23 .. Sat 2026-08-29.
	now := time.Date(2026, 8, 26, 15, 4, 0, 0, time.UTC)
	expenses := []Expense{
		exp("u", "2026-08-26", 10, Food),          // today, week, month
		exp("u", "2026-08-24", 20, Transportation), // week, month
		exp("u", "2026-08-30", 40, Shopping),       // next week, month
		exp("u", "2026-08-01", 80, Housing),        // month only
		exp("u", "2026-07-31", 160, Food),          // out of range
		exp("u", "not-a-date", 320, Food),          // skipped
	}

	got := Summarize(expenses, now)
	if got.Today != 10 {
		t.Fatalf("today: got %v, want 10", got.Today)
	}
	if got.Week != 30 {
		t.Fatalf("week: got %v, want 30", got.Week)
	}
	if got.Month != 150 {
		t.Fatalf("month: got %v, want 150", got.Month)
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []Expense{
		exp("u", "2026-08-01", 5, Food),
		exp("u", "2026-08-02", 25, Transportation),
		exp("u", "2026-08-03", 10, Food),
	}
	got := CategoryTotals(expenses)
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2", len(got))
	}
	if got[0].Category != Transportation || got[0].Amount != 25 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Category != Food || got[1].Amount != 15 {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestDailySeries(t *testing.T) {
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	expenses := []Expense{
		exp("u", "2026-08-26", 3, Food),
		exp("u", "2026-08-26", 4, Other),
		exp("u", "2026-08-24", 5, Food),
		exp("u", "2026-08-20", 99, Food), // before the window
	}

	series := DailySeries(expenses, now, 3)
	if len(series) != 3 {
		t.Fatalf("got %d points, want 3", len(series))
	}
	if series[0].Date != "2026-08-24" || series[0].Amount != 5 {
		t.Fatalf("unexpected first point: %+v", series[0])
	}
	if series[1].Date != "2026-08-25" || series[1].Amount != 0 {
		t.Fatalf("expected zero-filled middle point, got %+v", series[1])
	}
	if series[2].Date != "2026-08-26" || series[2].Amount != 7 {
		t.Fatalf("unexpected last point: %+v", series[2])
	}
}

func TestGroupByDate(t *testing.T) {
	expenses := []Expense{
		exp("u", "2026-08-26", 1, Food),
		exp("u", "2026-08-24", 2, Food),
		exp("u", "2026-08-26", 3, Other),
		exp("u", "bogus", 4, Other),
	}

	groups := GroupByDate(expenses)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Date != "2026-08-26" || groups[0].Total != 4 || len(groups[0].Expenses) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Date != "2026-08-24" || groups[1].Total != 2 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}

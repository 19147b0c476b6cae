package charts

import (
	"bytes"
	"testing"

	"trackmaster/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryBarChart(t *testing.T) {
	g := NewGenerator()

	png, err := g.CategoryBarChart([]core.CategoryAmount{
		{Category: core.Food, Amount: 42.50},
		{Category: core.Transportation, Amount: 12},
	})
	if err != nil {
		t.Fatalf("CategoryBarChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestCategoryBarChartEmpty(t *testing.T) {
	g := NewGenerator()

	png, err := g.CategoryBarChart(nil)
	if err != nil {
		t.Fatalf("CategoryBarChart: %v", err)
	}
	if png != nil {
		t.Error("expected nil for empty totals")
	}
}

func TestDailyLineChart(t *testing.T) {
	g := NewGenerator()

	png, err := g.DailyLineChart([]core.DayAmount{
		{Date: "2026-08-24", Amount: 10},
		{Date: "2026-08-25", Amount: 0},
		{Date: "2026-08-26", Amount: 31.20},
	})
	if err != nil {
		t.Fatalf("DailyLineChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestDailyLineChartTooShort(t *testing.T) {
	g := NewGenerator()

	png, err := g.DailyLineChart([]core.DayAmount{{Date: "2026-08-24", Amount: 10}})
	if err != nil {
		t.Fatalf("DailyLineChart: %v", err)
	}
	if png != nil {
		t.Error("expected nil for single-point series")
	}
}

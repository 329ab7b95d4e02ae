package analytics

import (
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
)

// Cell is one heatmap day.
type Cell struct {
	Day   time.Time
	Count int
	Level int
}

// HeatmapLevel buckets count relative to max into levels 0-4.
// A max below 1 is treated as 1.
func HeatmapLevel(count, maxCount int) int {
	ratio := float64(count) / float64(max(1, maxCount))
	switch {
	case ratio <= 0:
		return 0
	case ratio < 0.25:
		return 1
	case ratio < 0.5:
		return 2
	case ratio < 0.75:
		return 3
	default:
		return constants.HeatmapLevels - 1
	}
}

// Heatmap returns one cell per day in [start, end], leveled against the busiest day in that range.
func (e *Engine) Heatmap(start, end time.Time) []Cell {
	days := e.cal.Days(start, end)
	cells := make([]Cell, len(days))
	busiest := 1
	for i, day := range days {
		cells[i] = Cell{Day: day, Count: e.CompletedCount(day)}
		busiest = max(busiest, cells[i].Count)
	}
	for i := range cells {
		cells[i].Level = HeatmapLevel(cells[i].Count, busiest)
	}
	return cells
}

// HeatmapWeeks groups cells into week columns by week-of-year, keeping order.
func (e *Engine) HeatmapWeeks(cells []Cell) [][]Cell {
	var weeks [][]Cell
	prevYear, prevWeek := 0, 0
	for _, c := range cells {
		year, week := e.cal.WeekOfYear(c.Day)
		if len(weeks) == 0 || year != prevYear || week != prevWeek {
			weeks = append(weeks, nil)
			prevYear, prevWeek = year, week
		}
		weeks[len(weeks)-1] = append(weeks[len(weeks)-1], c)
	}
	return weeks
}

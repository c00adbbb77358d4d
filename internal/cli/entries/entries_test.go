package entries

import (
	"strings"
	"testing"

	"github.com/tyamagishi/kaizen/internal/calendar"
	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/models"
)

func TestRenderMonth_March2024(t *testing.T) {
	anchor := dateutil.MustParseDayKey("2024-03-15")
	grid := calendar.MonthGrid(2024, 3)
	statuses := map[string]models.DateStatus{
		"2024-03-01": {Date: "2024-03-01", HasEntries: true, EntryCount: 2},
	}

	out := renderMonth(anchor, grid, statuses)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Title, weekday header, and six week rows.
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "March 2024") {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.Contains(out, "1:2") {
		t.Errorf("expected entry count on March 1:\n%s", out)
	}
	// The grid starts on Monday Feb 26 and ends on Sunday Apr 7.
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "26") {
		t.Errorf("first week row = %q", lines[2])
	}
	if !strings.Contains(lines[7], " 7") {
		t.Errorf("last week row = %q", lines[7])
	}
}

func TestRenderMonth_CountsOnlyInsideMonth(t *testing.T) {
	anchor := dateutil.MustParseDayKey("2024-03-15")
	grid := calendar.MonthGrid(2024, 3)
	// Feb 26 sits in the leading cells; its count must not render there.
	statuses := map[string]models.DateStatus{
		"2024-02-26": {Date: "2024-02-26", HasEntries: true, EntryCount: 5},
	}

	out := renderMonth(anchor, grid, statuses)
	if strings.Contains(out, "26:5") {
		t.Errorf("out-of-month day should render plainly:\n%s", out)
	}
}

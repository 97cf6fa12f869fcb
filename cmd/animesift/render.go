package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/session"
	"github.com/animesift/animesift/internal/usecase"
)

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// wrapString wraps a string to fit within maxWidth, accounting for wide characters.
func wrapString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range s {
		charWidth := runewidth.RuneWidth(r)
		if currentWidth+charWidth > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}
		currentLine.WriteRune(r)
		currentWidth += charWidth
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// gridColumns holds the title and tag widths for the current terminal.
type gridColumns struct {
	title     int
	original  int
	tags      int
	showExtra bool
}

// fixed columns: pos, id, score, year, status, marker
const gridFixedWidth = 4 + 8 + 5 + 5 + 10 + 3

func calculateGridColumns(termWidth int, layout filter.Layout) gridColumns {
	available := termWidth - gridFixedWidth - 8*3
	cols := gridColumns{showExtra: layout != filter.LayoutSmall}

	if !cols.showExtra {
		cols.title = max(available, 12)
		return cols
	}

	cols.title = max(available*2/5, 12)
	cols.original = max(available/4, 8)
	cols.tags = max(available-cols.title-cols.original, 8)
	return cols
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

func formatYear(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

// renderGrid prints the current page as a table. Large layout wraps titles
// instead of truncating them.
func renderGrid(w io.Writer, sess *session.Session) {
	state := sess.Filter()
	cols := calculateGridColumns(getTerminalWidth(), state.Layout)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Page %d", sess.Page()))

	header := table.Row{"Pos", "ID", "Title", "Score", "Year", "Status", "Sel"}
	if cols.showExtra {
		header = table.Row{"Pos", "ID", "Title", "Original", "Score", "Year", "Tags", "Status", "Sel"}
	}
	t.AppendHeader(header)

	fit := func(s string, width int) string {
		if state.Layout == filter.LayoutLarge {
			return wrapString(s, width)
		}
		return runewidth.Truncate(s, width, "...")
	}

	for _, slot := range sess.Slots() {
		if slot.Item == nil {
			if cols.showExtra {
				t.AppendRow(table.Row{slot.Position, "-", "(empty)", "", "", "", "", "", ""})
			} else {
				t.AppendRow(table.Row{slot.Position, "-", "(empty)", "", "", "", ""})
			}
			continue
		}

		item := slot.Item
		marker := ""
		if slot.Selected {
			marker = "*"
		}
		if cols.showExtra {
			t.AppendRow(table.Row{
				slot.Position,
				item.ID,
				fit(item.Title, cols.title),
				fit(item.OriginalTitle, cols.original),
				formatScore(item.Score),
				formatYear(item.Year),
				runewidth.Truncate(item.Tags, cols.tags, "..."),
				string(slot.Status),
				marker,
			})
		} else {
			t.AppendRow(table.Row{
				slot.Position,
				item.ID,
				fit(item.Title, cols.title),
				formatScore(item.Score),
				formatYear(item.Year),
				string(slot.Status),
				marker,
			})
		}
	}

	t.Render()
	renderFilterLine(w, state, sess.HasActiveFilters())
	renderCounters(w, sess.Counters())
}

func renderFilterLine(w io.Writer, state filter.State, active bool) {
	parts := []string{fmt.Sprintf("status=%s", state.WatchStatus), fmt.Sprintf("layout=%s", state.Layout)}
	if state.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("search=%q", state.SearchQuery))
	}
	if len(state.SelectedTags) > 0 {
		parts = append(parts, "tags="+strings.Join(state.SelectedTags, ","))
	}
	if state.MinRating > 0 {
		parts = append(parts, fmt.Sprintf("rating>=%.1f", state.MinRating))
	}
	if state.YearStart != nil || state.YearEnd != nil {
		from, to := "", ""
		if state.YearStart != nil {
			from = strconv.Itoa(*state.YearStart)
		}
		if state.YearEnd != nil {
			to = strconv.Itoa(*state.YearEnd)
		}
		parts = append(parts, fmt.Sprintf("years=%s..%s", from, to))
	}
	line := "Filters: " + strings.Join(parts, " ")
	if active {
		line += " (active)"
	}
	fmt.Fprintln(w, line)
}

func renderCounters(w io.Writer, c session.Counters) {
	fmt.Fprintf(w, "Reviewed %d/%d matching | watched %d, interested %d, skipped %d, unmarked %d of %d\n",
		c.FilteredReviewed, c.FilteredTotal, c.Watched, c.Interested, c.Skipped, c.Unmarked, c.CatalogSize)
}

func renderItems(w io.Writer, items []catalog.Item) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Score", "Year"})

	titleWidth := max(getTerminalWidth()-30, 20)
	for _, item := range items {
		t.AppendRow(table.Row{item.ID, runewidth.Truncate(item.Title, titleWidth, "..."), formatScore(item.Score), formatYear(item.Year)})
	}
	t.Render()
}

func renderStats(w io.Writer, stats usecase.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Profile " + stats.Profile)

	c := stats.Counters
	t.AppendRows([]table.Row{
		{"Catalog", runewidth.Truncate(stats.Catalog, max(getTerminalWidth()-20, 20), "...")},
		{"Catalog size", c.CatalogSize},
		{"Watched", c.Watched},
		{"Interested", c.Interested},
		{"Skipped", c.Skipped},
		{"Unmarked", c.Unmarked},
		{"Matching filter", fmt.Sprintf("%d/%d reviewed", c.FilteredReviewed, c.FilteredTotal)},
		{"Decisions logged", stats.Decisions},
	})
	t.Render()

	if len(stats.Sessions) == 0 {
		return
	}
	st := table.NewWriter()
	st.SetOutputMirror(w)
	st.SetStyle(table.StyleLight)
	st.AppendHeader(table.Row{"Session", "Started", "Decisions"})
	for _, s := range stats.Sessions {
		st.AppendRow(table.Row{s.SessionID, s.StartedAt, s.DecisionCount})
	}
	st.Render()
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

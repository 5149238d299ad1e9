package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"movie-explore/model"
	"movie-explore/state"
)

const cardHeight = 5

var errNoFetcher = errors.New("no catalog fetcher configured")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Padding(0, 1)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	selectedStyle = cardStyle.BorderForeground(lipgloss.Color("63"))
	paddingStyle  = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1)
	ratingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m appModel) View() string {
	header := m.headerView()
	switch m.screen() {
	case screenLogin:
		return header + "\n\n" + m.loginView()
	case screenLoading:
		return header + "\n\n" + m.loadingView()
	}

	var body string
	switch {
	case m.editingTitle:
		body = "Title: " + m.titleInput.View() + "\n" + hint("enter save • esc cancel")
	case m.core.ActiveDrop != state.DropNone:
		body = m.activeList().View()
	default:
		body = m.gridView()
	}
	return header + "\n" + m.filterView() + "\n\n" + body + "\n\n" + m.help.View(m.keys)
}

func (m appModel) headerView() string {
	title := titleStyle.Render(m.core.Title)
	return title + "\n" + hint("Find what to watch this night")
}

func (m appModel) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("API Key"))
	b.WriteString("\n")
	b.WriteString(hint("You need a MovieDB API Key in order to access movies' data"))
	b.WriteString("\n\n")
	b.WriteString(m.keyInput.View())
	if msg := loginError(m.core.Control); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(msg))
	}
	b.WriteString("\n\n")
	b.WriteString(hint("enter submit • ctrl+c quit"))
	return b.String()
}

// loginError is the message shown above the key form for the current
// control state.
func loginError(cs state.ControlState) string {
	switch {
	case !cs.CredentialAreValid:
		return "Invalid API Key"
	case !cs.HasConnection:
		return "Check internet connection"
	default:
		return ""
	}
}

func (m appModel) loadingView() string {
	var parts []string
	if m.core.Control.IsLoadingGenres {
		parts = append(parts, "genres")
	}
	if m.core.Control.IsLoadingMovieList {
		parts = append(parts, "movies")
	}
	return fmt.Sprintf("%s Loading %s\n\n%s", m.spinner.View(), strings.Join(parts, " and "), hint("Fetching data..."))
}

func (m appModel) filterView() string {
	var chips []string
	for _, g := range m.core.FilteredGenres.Values() {
		chips = append(chips, chipStyle.Render(g))
	}
	for _, r := range m.core.FilteredRatings.Values() {
		chips = append(chips, chipStyle.Render("★ "+formatRating(r)))
	}
	summary := fmt.Sprintf("Showing %d of %d", len(m.view.Movies), len(m.core.Movies))
	if m.core.PrimaryFilter != state.FilterNone {
		summary += " • by " + m.core.PrimaryFilter.String()
	}
	if len(chips) == 0 {
		return hint(summary)
	}
	return strings.Join(chips, " ") + "  " + hint(summary)
}

func (m appModel) gridView() string {
	if len(m.view.Movies) == 0 {
		if m.fetchErr != nil {
			return errorStyle.Render("Could not load the catalog: "+m.fetchErr.Error()) + "\n" + hint("Press ctrl+l to enter the key again and retry.")
		}
		if len(m.core.Movies) == 0 {
			return hint("No movies in the catalog.")
		}
		return hint("No movie matches the selected filters. Press c to clear them.")
	}

	rows := model.Grid(m.view.Movies, m.columns)
	cursorRow := m.cursor / m.columns
	first, last := visibleRowRange(len(rows), cursorRow, m.visibleRows())

	width := m.cardWidth()
	rendered := make([]string, 0, last-first)
	for r := first; r < last; r++ {
		cells := make([]string, 0, len(rows[r]))
		for c, cell := range rows[r] {
			index := r*m.columns + c
			cells = append(cells, renderCell(cell, width, index == m.cursor))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m appModel) visibleRows() int {
	if m.height == 0 {
		return 3
	}
	n := (m.height - 10) / (cardHeight + 2)
	if n < 1 {
		n = 1
	}
	return n
}

func (m appModel) cardWidth() int {
	if m.width == 0 {
		return 24
	}
	w := m.width/m.columns - 4
	if w < 12 {
		w = 12
	}
	return w
}

// visibleRowRange returns the window of rows [first, last) that keeps the
// cursor row on screen.
func visibleRowRange(total int, cursorRow int, visible int) (int, int) {
	if visible >= total {
		return 0, total
	}
	first := cursorRow - visible + 1
	if first < 0 {
		first = 0
	}
	last := first + visible
	if last > total {
		last = total
		first = total - visible
	}
	return first, last
}

func renderCell(cell model.Cell, width int, selected bool) string {
	movie, ok := cell.Movie()
	if !ok {
		return paddingStyle.Width(width).Height(cardHeight).Render("")
	}
	lines := []string{
		titleStyle.Render(truncate(movie.Title, width)),
		ratingStyle.Render("★ " + formatRating(movie.Rating)),
		hint(truncate(strings.Join(movie.Genres, ", "), width)),
	}
	if movie.Poster != "" {
		lines = append(lines, hint(truncate(movie.Poster.String(), width)))
	}
	style := cardStyle
	if selected || movie.IsSelected {
		style = selectedStyle
	}
	return style.Width(width).Height(cardHeight).Render(strings.Join(lines, "\n"))
}

type optionItem struct {
	label       string
	selected    bool
	rating      bool
	genre       string
	ratingValue float64
}

func (o optionItem) Title() string {
	if o.selected {
		return "[x] " + o.label
	}
	return "[ ] " + o.label
}

func (o optionItem) Description() string { return "" }

func (o optionItem) FilterValue() string { return o.label }

func buildGenreItems(options []string, selected state.Set[string]) []list.Item {
	items := make([]list.Item, 0, len(options))
	for _, g := range options {
		items = append(items, optionItem{label: g, genre: g, selected: selected.Has(g)})
	}
	// Keep selected values reachable even when narrowing hides them.
	for _, g := range selected.Values() {
		if !containsString(options, g) {
			items = append(items, optionItem{label: g, genre: g, selected: true})
		}
	}
	return items
}

func buildRatingItems(options []float64, selected state.Set[float64]) []list.Item {
	items := make([]list.Item, 0, len(options))
	seen := make(map[float64]bool, len(options))
	for i := len(options) - 1; i >= 0; i-- {
		r := options[i]
		seen[r] = true
		items = append(items, optionItem{label: "★ " + formatRating(r), rating: true, ratingValue: r, selected: selected.Has(r)})
	}
	for _, r := range selected.Values() {
		if !seen[r] {
			items = append(items, optionItem{label: "★ " + formatRating(r), rating: true, ratingValue: r, selected: true})
		}
	}
	return items
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

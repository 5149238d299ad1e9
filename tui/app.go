package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"movie-explore/model"
	"movie-explore/service"
	"movie-explore/state"
)

type screen int

const (
	screenLogin screen = iota
	screenLoading
	screenBrowse
)

const defaultFetchTimeout = 30 * time.Second

// FetchFunc loads the catalog for an API key.
type FetchFunc func(ctx context.Context, apiKey string) ([]model.Movie, error)

// Options wires the program's collaborators.
type Options struct {
	Fetch   FetchFunc
	Logger  *slog.Logger
	Title   string
	APIKey  string
	Columns int

	// FetchTimeout bounds one catalog load. Zero means 30s.
	FetchTimeout time.Duration
}

type appModel struct {
	fetch        FetchFunc
	fetchTimeout time.Duration
	fetchErr     error
	logger       *slog.Logger

	core state.Model
	view state.View

	width   int
	height  int
	columns int
	cursor  int

	startKey     string
	keyInput     textinput.Model
	titleInput   textinput.Model
	editingTitle bool

	genreList  list.Model
	ratingList list.Model

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// dispatchMsg carries an action that must go through the guard, such as
// the corrections the filter engine asks for.
type dispatchMsg struct {
	action state.Action
}

type fetchResultMsg struct {
	movies []model.Movie
	err    error
}

func New(opts Options) tea.Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = state.DefaultTitle
	}
	columns := opts.Columns
	if columns < 1 {
		columns = 4
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	m := appModel{
		fetch:        opts.Fetch,
		fetchTimeout: timeout,
		logger:       logger,
		core:     state.InitialWithTitle(title),
		columns:  columns,
		startKey: strings.TrimSpace(opts.APIKey),
		keys:     newKeyMap(),
		help:     help.New(),
	}
	m.view = state.Derive(m.core)

	m.keyInput = textinput.New()
	m.keyInput.Placeholder = "MovieDB API key..."
	m.keyInput.EchoMode = textinput.EchoPassword
	m.keyInput.EchoCharacter = '•'
	m.keyInput.CharLimit = 128
	m.keyInput.Focus()

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "New title"
	m.titleInput.CharLimit = 64

	m.genreList = newDropdown("Genres")
	m.ratingList = newDropdown("Ratings")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	if m.startKey != "" {
		return dispatchCmd(state.UpdateCredentials{Credentials: m.startKey})
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.screen() == screenLoading {
			return m, cmd
		}
		return m, nil

	case dispatchMsg:
		return m.dispatch(msg.action)

	case fetchResultMsg:
		return m.report(msg)
	}

	var cmd tea.Cmd
	switch m.screen() {
	case screenLogin:
		m.keyInput, cmd = m.keyInput.Update(msg)
	case screenBrowse:
		if m.editingTitle {
			m.titleInput, cmd = m.titleInput.Update(msg)
		}
	}
	return m, cmd
}

// dispatch runs a UI-originated action through the guard and the reducer
// and then re-derives the view.
func (m appModel) dispatch(action state.Action) (appModel, tea.Cmd) {
	before := m.core
	admitted := state.Admit(&before.Control, action)
	m.core = state.Reduce(before, action)
	if _, rejected := admitted.(state.DoNothing); rejected {
		if _, noop := action.(state.DoNothing); !noop {
			m.logger.Debug("action discarded", "kind", action.Kind(), "control", before.Control)
		}
	} else {
		m.logger.Debug("action applied", "kind", admitted.Kind())
	}

	var cmds []tea.Cmd
	if creds, ok := admitted.(state.UpdateCredentials); ok {
		m.core = state.Reduce(m.core, state.UpdateControl{Control: service.Loading(m.core.Control)})
		m.keyInput.Blur()
		cmds = append(cmds, m.fetchCatalogCmd(creds.Credentials), m.spinner.Tick)
	}
	cmds = append(cmds, m.refresh())
	return m, tea.Batch(cmds...)
}

// report folds the fetch collaborator's outcome. These actions bypass the
// guard: it would otherwise reject the report that ends the load.
func (m appModel) report(msg fetchResultMsg) (appModel, tea.Cmd) {
	m.fetchErr = nil
	if msg.err != nil && !service.IsInvalidKey(msg.err) && !service.IsConnectivity(msg.err) {
		m.fetchErr = msg.err
	}
	if msg.err != nil {
		m.logger.Warn("catalog fetch failed", "err", msg.err,
			"invalid_key", service.IsInvalidKey(msg.err),
			"connectivity", service.IsConnectivity(msg.err))
	}
	for _, action := range service.ReportActions(m.core.Control, msg.movies, msg.err) {
		m.core = state.Fold(m.core, action)
	}
	m.cursor = 0
	if m.screen() == screenLogin {
		m.keyInput.SetValue("")
		focus := m.keyInput.Focus()
		refresh := m.refresh()
		return m, tea.Batch(focus, refresh)
	}
	refresh := m.refresh()
	return m, refresh
}

// refresh recomputes the derived view and hands back any correction as a
// command, so the filter engine itself never dispatches.
func (m *appModel) refresh() tea.Cmd {
	m.view = state.Derive(m.core)
	if m.cursor >= len(m.view.Movies) {
		m.cursor = max(0, len(m.view.Movies)-1)
	}
	m.genreList.SetItems(buildGenreItems(m.view.GenreOptions, m.core.FilteredGenres))
	m.ratingList.SetItems(buildRatingItems(m.view.RatingOptions, m.core.FilteredRatings))
	if m.view.Correction != nil {
		return dispatchCmd(m.view.Correction)
	}
	return nil
}

func (m appModel) screen() screen {
	cs := m.core.Control
	if !cs.HasCredential || !cs.CredentialAreValid {
		return screenLogin
	}
	if cs.IsLoading() {
		return screenLoading
	}
	return screenBrowse
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen() {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.editingTitle {
		return m.handleTitleKey(msg)
	}
	if m.core.ActiveDrop != state.DropNone {
		return m.handleDropdownKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Genre):
		return m.dispatch(state.SetActiveDrop{Target: state.DropGenre})
	case key.Matches(msg, m.keys.Rating):
		return m.dispatch(state.SetActiveDrop{Target: state.DropRating})
	case key.Matches(msg, m.keys.ClearFilter):
		return m.clearFilters()
	case key.Matches(msg, m.keys.EditTitle):
		m.editingTitle = true
		m.titleInput.SetValue(m.core.Title)
		return m, m.titleInput.Focus()
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns)
	}
	return m, nil
}

// logout drops the credential and hands the key form back to the user.
func (m appModel) logout() (appModel, tea.Cmd) {
	control := m.core.Control
	control.HasCredential = false
	next, cmd := m.dispatch(state.UpdateControl{Control: control})
	next.fetchErr = nil
	next.keyInput.SetValue("")
	focus := next.keyInput.Focus()
	return next, tea.Batch(cmd, focus)
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.keyInput.Value())
		if value == "" {
			return m, nil
		}
		return m.dispatch(state.UpdateCredentials{Credentials: value})
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m appModel) handleTitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editingTitle = false
		m.titleInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editingTitle = false
		m.titleInput.Blur()
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			return m, nil
		}
		return m.dispatch(state.UpdateTitle{Title: title})
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m appModel) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m.dispatch(state.SetActiveDrop{Target: state.DropNone})
	case key.Matches(msg, m.keys.Genre):
		return m.toggleDrop(state.DropGenre)
	case key.Matches(msg, m.keys.Rating):
		return m.toggleDrop(state.DropRating)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelectedOption()
	}

	var cmd tea.Cmd
	listPtr := m.activeList()
	*listPtr, cmd = listPtr.Update(msg)
	return m, cmd
}

func (m appModel) toggleDrop(target state.Drop) (appModel, tea.Cmd) {
	if m.core.ActiveDrop == target {
		return m.dispatch(state.SetActiveDrop{Target: state.DropNone})
	}
	return m.dispatch(state.SetActiveDrop{Target: target})
}

// toggleSelectedOption flips the highlighted dropdown option. Adding a
// value also claims the primary filter for its category; the reducer
// ignores the claim when the other category already owns it.
func (m appModel) toggleSelectedOption() (appModel, tea.Cmd) {
	item, ok := m.activeList().SelectedItem().(optionItem)
	if !ok {
		return m, nil
	}
	index := m.activeList().Index()

	var actions []state.Action
	switch {
	case item.rating && item.selected:
		actions = []state.Action{state.RemoveFilteredRating{Rating: item.ratingValue}}
	case item.rating:
		actions = []state.Action{
			state.AddFilteredRating{Rating: item.ratingValue},
			state.UpdatePrimaryFilter{Filter: state.FilterRating},
		}
	case item.selected:
		actions = []state.Action{state.RemoveFilteredGenre{Genre: item.genre}}
	default:
		actions = []state.Action{
			state.AddFilteredGenre{Genre: item.genre},
			state.UpdatePrimaryFilter{Filter: state.FilterGenre},
		}
	}

	next, cmd := m.dispatchAll(actions...)
	if listPtr := next.activeList(); listPtr != nil && index < len(listPtr.Items()) {
		listPtr.Select(index)
	}
	next.cursor = 0
	return next, cmd
}

func (m appModel) clearFilters() (appModel, tea.Cmd) {
	var actions []state.Action
	for _, g := range m.core.FilteredGenres.Values() {
		actions = append(actions, state.RemoveFilteredGenre{Genre: g})
	}
	for _, r := range m.core.FilteredRatings.Values() {
		actions = append(actions, state.RemoveFilteredRating{Rating: r})
	}
	if len(actions) == 0 {
		return m, nil
	}
	m.cursor = 0
	return m.dispatchAll(actions...)
}

func (m appModel) dispatchAll(actions ...state.Action) (appModel, tea.Cmd) {
	var cmds []tea.Cmd
	for _, a := range actions {
		var cmd tea.Cmd
		m, cmd = m.dispatch(a)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) moveCursor(delta int) {
	if len(m.view.Movies) == 0 {
		m.cursor = 0
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.view.Movies) {
		return
	}
	m.cursor = next
}

func (m *appModel) activeList() *list.Model {
	switch m.core.ActiveDrop {
	case state.DropGenre:
		return &m.genreList
	case state.DropRating:
		return &m.ratingList
	default:
		return nil
	}
}

func (m appModel) fetchCatalogCmd(apiKey string) tea.Cmd {
	fetch := m.fetch
	timeout := m.fetchTimeout
	return func() tea.Msg {
		if fetch == nil {
			return fetchResultMsg{err: errNoFetcher}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		movies, err := fetch(ctx, apiKey)
		return fetchResultMsg{movies: movies, err: err}
	}
}

func dispatchCmd(action state.Action) tea.Cmd {
	return func() tea.Msg {
		return dispatchMsg{action: action}
	}
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	w := m.width / 2
	if w < 24 {
		w = m.width
	}
	m.genreList.SetSize(w, h)
	m.ratingList.SetSize(w, h)
	m.help.Width = m.width
}

func newDropdown(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	l := list.New([]list.Item{}, delegate, 32, 14)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

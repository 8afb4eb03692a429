package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/up4down/up4down-server/internal/browse"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/search"
)

type focusArea int

const (
	focusItems focusArea = iota
	focusCategories
	focusSearch
)

const (
	suggestDelay    = 300 * time.Millisecond
	suggestMinChars = 2
	fetchTimeout    = 10 * time.Second
)

// Messages flowing through the event loop. Item results carry the session
// token they were fetched under so superseded responses can be dropped.
type (
	categoriesLoadedMsg struct{ categories []domain.Category }
	itemsLoadedMsg      struct {
		token uint64
		items []domain.Item
	}
	suggestRequestMsg   struct{ query string }
	suggestionsMsg      struct{ suggestions []search.Suggestion }
	clearSuggestionsMsg struct{}
	downloadDoneMsg     struct {
		title string
		url   string
	}
	errMsg struct{ err error }
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// itemEntry adapts a catalog item to the bubbles list.
type itemEntry struct {
	item domain.Item
}

func (e itemEntry) Title() string { return e.item.Title }

func (e itemEntry) Description() string {
	desc := fmt.Sprintf("%s · %d downloads", e.item.FileType, e.item.DownloadCount)
	if e.item.RatingCount > 0 {
		desc += fmt.Sprintf(" · %.1f★ (%d)", e.item.AverageRating, e.item.RatingCount)
	}
	if e.item.Version != "" {
		desc += " · v" + e.item.Version
	}
	return desc
}

func (e itemEntry) FilterValue() string { return e.item.Title }

// Model is the catalog browser. All state changes happen on the Bubble Tea
// event loop; fetches run as commands and come back as messages.
type Model struct {
	api API

	session   *browse.Session
	debouncer *browse.Debouncer
	// events carries debouncer callbacks back onto the event loop.
	events chan tea.Msg

	searchInput textinput.Model
	itemList    list.Model

	categories []domain.Category
	catCursor  int

	items       []domain.Item
	suggestions []search.Suggestion

	focus   focusArea
	loading bool
	status  string
	err     error

	width  int
	height int
}

// New creates the browser model. initialSlugs seeds the category filter
// before the first fetch.
func New(api API, initialSlugs []string) Model {
	input := textinput.New()
	input.Placeholder = "Search titles..."
	input.CharLimit = 100
	input.Width = 40

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("170")).
		BorderForeground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("244")).
		BorderForeground(lipgloss.Color("170"))

	itemList := list.New(nil, delegate, 0, 0)
	itemList.SetShowTitle(false)
	itemList.SetShowStatusBar(false)
	itemList.SetFilteringEnabled(false)
	itemList.SetShowHelp(false)

	events := make(chan tea.Msg, 16)

	m := Model{
		api:         api,
		session:     browse.NewSession(),
		events:      events,
		searchInput: input,
		itemList:    itemList,
		loading:     true,
	}
	m.debouncer = browse.NewDebouncer(suggestDelay, suggestMinChars,
		func(query string) { events <- suggestRequestMsg{query: query} },
		func() { events <- clearSuggestionsMsg{} },
	)

	if len(initialSlugs) > 0 {
		m.session.SetFilter(browse.Filter{CategorySlugs: initialSlugs})
	}

	return m
}

// Init starts the category and item fetches and the debouncer event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCategories(),
		m.fetchItems(m.session.SetFilter(m.session.Filter())),
		m.nextEvent(),
		textinput.Blink,
	)
}

// nextEvent delivers the next debouncer callback as a message.
func (m Model) nextEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m Model) fetchCategories() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		categories, err := m.api.Categories(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return categoriesLoadedMsg{categories: categories}
	}
}

func (m Model) fetchItems(token uint64) tea.Cmd {
	filter := m.session.Filter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := m.api.Browse(ctx, filter)
		if err != nil {
			return errMsg{err: err}
		}
		return itemsLoadedMsg{token: token, items: items}
	}
}

func (m Model) fetchSuggestions(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		suggestions, err := m.api.Suggest(ctx, query)
		if err != nil {
			// Suggestions are best-effort; a failed lookup just clears them.
			return clearSuggestionsMsg{}
		}
		return suggestionsMsg{suggestions: suggestions}
	}
}

func (m Model) triggerDownload(item domain.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		url, err := m.api.Download(ctx, item.ID)
		if err != nil {
			return errMsg{err: err}
		}
		return downloadDoneMsg{title: item.Title, url: url}
	}
}

// applyFilter records the new filter on the session and starts a fetch
// carrying the returned token.
func (m *Model) applyFilter(filter browse.Filter) tea.Cmd {
	token := m.session.SetFilter(filter)
	m.loading = true
	return m.fetchItems(token)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.itemList.SetSize(msg.Width-36, msg.Height-8)
		return m, nil

	case categoriesLoadedMsg:
		m.categories = msg.categories
		return m, nil

	case itemsLoadedMsg:
		if !m.session.Admit(msg.token) {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.items = msg.items
		entries := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			entries[i] = itemEntry{item: item}
		}
		m.itemList.SetItems(entries)
		m.itemList.ResetSelected()
		return m, nil

	case suggestRequestMsg:
		return m, tea.Batch(m.fetchSuggestions(msg.query), m.nextEvent())

	case suggestionsMsg:
		m.suggestions = msg.suggestions
		return m, nil

	case clearSuggestionsMsg:
		m.suggestions = nil
		return m, m.nextEvent()

	case downloadDoneMsg:
		m.status = fmt.Sprintf("%s: %s", msg.title, msg.url)
		token := m.session.SetFilter(m.session.Filter())
		return m, m.fetchItems(token)

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.debouncer.Stop()
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3
		if m.focus == focusSearch {
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		m.searchInput.Blur()
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		return m.updateSearch(msg)
	case focusCategories:
		return m.updateCategories(msg)
	default:
		return m.updateItems(msg)
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		filter := m.session.Filter()
		filter.Query = m.searchInput.Value()
		m.suggestions = nil
		m.status = ""
		cmd := m.applyFilter(filter)
		return m, cmd

	case "esc":
		m.searchInput.SetValue("")
		m.suggestions = nil
		m.debouncer.Stop()
		filter := m.session.Filter()
		if filter.Query != "" {
			filter.Query = ""
			cmd := m.applyFilter(filter)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Input(m.searchInput.Value())
	return m, cmd
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.debouncer.Stop()
		return m, tea.Quit

	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
		return m, nil

	case "down", "j":
		if m.catCursor < len(m.categories)-1 {
			m.catCursor++
		}
		return m, nil

	case "enter", " ":
		if m.catCursor >= len(m.categories) {
			return m, nil
		}
		slug := m.categories[m.catCursor].Slug
		m.status = ""
		cmd := m.applyFilter(m.session.Filter().ToggleCategory(slug))
		return m, cmd
	}

	return m, nil
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.debouncer.Stop()
		return m, tea.Quit

	case "enter", "d":
		if entry, ok := m.itemList.SelectedItem().(itemEntry); ok {
			return m, m.triggerDownload(entry.item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m Model) selectedSlugs() map[string]bool {
	selected := make(map[string]bool)
	for _, slug := range m.session.Filter().CategorySlugs {
		selected[slug] = true
	}
	return selected
}

func (m Model) View() string {
	header := titleStyle.Render("Up4Down Browser")

	search := m.viewSearch()
	sidebar := m.viewCategories()
	content := m.viewItems()

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)

	footer := dimStyle.Render("[tab] switch panel · [↑↓] navigate · [enter] toggle/download · [q] quit")
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	if m.err != nil {
		footer = errorStyle.Render("error: "+m.err.Error()) + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, search, body, footer)
}

func (m Model) viewSearch() string {
	view := m.searchInput.View()
	for _, s := range m.suggestions {
		view += "\n  " + dimStyle.Render(s.Title)
	}

	style := boxStyle
	if m.focus == focusSearch {
		style = focusedBoxStyle
	}
	return style.Render(view)
}

func (m Model) viewCategories() string {
	selected := m.selectedSlugs()

	view := ""
	for i, cat := range m.categories {
		mark := "[ ]"
		if selected[cat.Slug] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, cat.Name)
		if m.focus == focusCategories && i == m.catCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		if i > 0 {
			view += "\n"
		}
		view += line
	}
	if view == "" {
		view = dimStyle.Render("no categories")
	}

	style := boxStyle
	if m.focus == focusCategories {
		style = focusedBoxStyle
	}
	return style.Width(30).Render(view)
}

func (m Model) viewItems() string {
	style := boxStyle
	if m.focus == focusItems {
		style = focusedBoxStyle
	}

	if m.loading {
		return style.Render(dimStyle.Render("loading..."))
	}
	if len(m.items) == 0 {
		return style.Render(dimStyle.Render("no items found"))
	}
	return style.Render(m.itemList.View())
}

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/browse"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/search"
)

// fakeAPI serves canned responses and records browse filters.
type fakeAPI struct {
	categories  []domain.Category
	items       []domain.Item
	suggestions []search.Suggestion
	downloadURL string

	browseFilters []browse.Filter
}

func (f *fakeAPI) Categories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) Browse(ctx context.Context, filter browse.Filter) ([]domain.Item, error) {
	f.browseFilters = append(f.browseFilters, filter)
	return f.items, nil
}

func (f *fakeAPI) Suggest(ctx context.Context, query string) ([]search.Suggestion, error) {
	return f.suggestions, nil
}

func (f *fakeAPI) Download(ctx context.Context, itemID string) (string, error) {
	return f.downloadURL, nil
}

func makeCategory(name, slug string) domain.Category {
	c := domain.Category{Name: name, Slug: slug}
	c.ID = "category-" + slug
	return c
}

func makeItem(id, title string) domain.Item {
	i := domain.Item{Title: title, DownloadURL: "https://example.com/" + id + ".zip", FileType: "zip"}
	i.ID = "item-" + id
	return i
}

func newTestModel(api *fakeAPI, slugs ...string) Model {
	m := New(api, slugs)
	m.width = 120
	m.height = 40
	return m
}

// update runs one message through the model and returns the new state.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func keyPress(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestToggleCategoryFetchesFilteredItems(t *testing.T) {
	api := &fakeAPI{
		categories: []domain.Category{makeCategory("Games", "games"), makeCategory("Tools", "tools")},
		items:      []domain.Item{makeItem("one", "First")},
	}
	m := newTestModel(api)
	m, _ = update(t, m, categoriesLoadedMsg{categories: api.categories})

	m.focus = focusCategories
	m, cmd := update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	msg := cmd()
	loaded, ok := msg.(itemsLoadedMsg)
	require.True(t, ok)

	m, _ = update(t, m, loaded)
	assert.False(t, m.loading)
	require.Len(t, m.items, 1)
	assert.Equal(t, "First", m.items[0].Title)

	require.Len(t, api.browseFilters, 1)
	assert.Equal(t, []string{"games"}, api.browseFilters[0].CategorySlugs)
}

func TestToggleCategoryTwiceRemovesSlug(t *testing.T) {
	api := &fakeAPI{categories: []domain.Category{makeCategory("Games", "games")}}
	m := newTestModel(api)
	m, _ = update(t, m, categoriesLoadedMsg{categories: api.categories})
	m.focus = focusCategories

	m, cmd := update(t, m, keyPress("enter"))
	cmd()
	m, cmd = update(t, m, keyPress("enter"))
	cmd()

	require.Len(t, api.browseFilters, 2)
	assert.Equal(t, []string{"games"}, api.browseFilters[0].CategorySlugs)
	assert.Empty(t, api.browseFilters[1].CategorySlugs)
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	api := &fakeAPI{
		categories: []domain.Category{makeCategory("Games", "games"), makeCategory("Tools", "tools")},
	}
	m := newTestModel(api)
	m, _ = update(t, m, categoriesLoadedMsg{categories: api.categories})
	m.focus = focusCategories

	// First toggle starts a fetch we hold on to.
	api.items = []domain.Item{makeItem("old", "Old Result")}
	m, staleCmd := update(t, m, keyPress("enter"))
	staleMsg := staleCmd()

	// Second toggle supersedes it before it lands.
	m, _ = update(t, m, keyPress("down"))
	api.items = []domain.Item{makeItem("new", "New Result")}
	m, freshCmd := update(t, m, keyPress("enter"))
	freshMsg := freshCmd()

	m, _ = update(t, m, freshMsg)
	require.Len(t, m.items, 1)
	assert.Equal(t, "New Result", m.items[0].Title)

	// The stale response arrives late and must not overwrite the list.
	m, _ = update(t, m, staleMsg)
	require.Len(t, m.items, 1)
	assert.Equal(t, "New Result", m.items[0].Title)
	assert.False(t, m.loading)
}

func TestSearchEnterAppliesQuery(t *testing.T) {
	api := &fakeAPI{items: []domain.Item{makeItem("ed", "Editor")}}
	m := newTestModel(api)
	m.focus = focusSearch
	m.searchInput.Focus()
	m.searchInput.SetValue("editor")

	m, cmd := update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, api.browseFilters, 1)
	assert.Equal(t, "editor", api.browseFilters[0].Query)
	assert.Equal(t, "editor", m.session.Filter().Query)
}

func TestSearchEscClearsQuery(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)
	m.focus = focusSearch
	m.searchInput.SetValue("editor")
	m.session.SetFilter(browse.Filter{Query: "editor"})

	m, cmd := update(t, m, keyPress("esc"))
	require.NotNil(t, cmd)
	cmd()

	assert.Empty(t, m.searchInput.Value())
	assert.Empty(t, m.session.Filter().Query)
	require.Len(t, api.browseFilters, 1)
	assert.Empty(t, api.browseFilters[0].Query)
}

func TestSuggestionsRoundTrip(t *testing.T) {
	api := &fakeAPI{suggestions: []search.Suggestion{{ID: "item-ed", Title: "Editor"}}}
	m := newTestModel(api)

	m, cmd := update(t, m, suggestRequestMsg{query: "edi"})
	require.NotNil(t, cmd)

	var suggested suggestionsMsg
	found := false
	for _, msg := range drainBatch(cmd) {
		if s, ok := msg.(suggestionsMsg); ok {
			suggested = s
			found = true
		}
	}
	require.True(t, found)

	m, _ = update(t, m, suggested)
	require.Len(t, m.suggestions, 1)
	assert.Equal(t, "Editor", m.suggestions[0].Title)

	m, _ = update(t, m, clearSuggestionsMsg{})
	assert.Empty(t, m.suggestions)
}

// drainBatch executes the commands in a batch, skipping the blocking event
// pump, and returns their messages.
func drainBatch(cmd tea.Cmd) []tea.Msg {
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		if c == nil {
			continue
		}
		msgs = append(msgs, c())
		if len(msgs) == 1 {
			// First command in the batch is the fetch; the second is the
			// event pump, which blocks until the debouncer fires again.
			break
		}
	}
	return msgs
}

func TestDownloadSelectedItem(t *testing.T) {
	api := &fakeAPI{downloadURL: "https://example.com/first.zip"}
	m := newTestModel(api)

	items := []domain.Item{makeItem("one", "First")}
	token := m.session.SetFilter(m.session.Filter())
	m, _ = update(t, m, itemsLoadedMsg{token: token, items: items})

	m.focus = focusItems
	m, cmd := update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(downloadDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/first.zip", done.url)

	m, refresh := update(t, m, done)
	assert.Contains(t, m.status, "https://example.com/first.zip")
	require.NotNil(t, refresh)
}

func TestViewShowsEmptyState(t *testing.T) {
	m := newTestModel(&fakeAPI{})

	token := m.session.SetFilter(m.session.Filter())
	m, _ = update(t, m, itemsLoadedMsg{token: token, items: nil})

	assert.True(t, strings.Contains(m.View(), "no items found"))
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(&fakeAPI{})
	assert.Equal(t, focusItems, m.focus)

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, focusCategories, m.focus)

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, focusSearch, m.focus)
	assert.True(t, m.searchInput.Focused())

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, focusItems, m.focus)
	assert.False(t, m.searchInput.Focused())
}

func TestInitialCategoryFlagSeedsFilter(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api, "games")

	assert.Equal(t, []string{"games"}, m.session.Filter().CategorySlugs)

	cmd := m.fetchItems(m.session.SetFilter(m.session.Filter()))
	cmd()
	require.Len(t, api.browseFilters, 1)
	assert.Equal(t, []string{"games"}, api.browseFilters[0].CategorySlugs)
}

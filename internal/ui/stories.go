package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/storyapi"
)

// storyRow is one rendered line of a story list.
type storyRow struct {
	story storyapi.Story
	class reconcile.Classification
	// removed marks a favorite whose story is no longer in the catalog.
	removed bool
}

// rows returns the rows for the current view. Classification is recomputed
// from the current session on every call.
func (m Model) rows() []storyRow {
	switch m.currentView {
	case ViewFavorites:
		return m.recordRows(m.session.FavoriteStories())
	case ViewMine:
		return m.recordRows(m.session.OwnStories())
	default:
		all := reconcile.ClassifyAll(m.session, m.catalog)
		out := make([]storyRow, 0, len(all))
		for _, r := range all {
			out = append(out, storyRow{story: r.Story, class: r.Classification})
		}
		return out
	}
}

// recordRows resolves session story records against the catalog. Records
// missing from the catalog are kept and flagged as removed.
func (m Model) recordRows(records []storyapi.Story) []storyRow {
	out := make([]storyRow, 0, len(records))
	for _, rec := range records {
		story, ok := m.catalog.Find(rec.StoryID)
		if !ok {
			story = rec
		}
		out = append(out, storyRow{
			story:   story,
			class:   reconcile.Classify(m.session, story),
			removed: !ok,
		})
	}
	return out
}

// selected returns the row under the cursor.
func (m Model) selected() (storyRow, bool) {
	rows := m.rows()
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return storyRow{}, false
	}
	return rows[m.selectedRow], true
}

// clampSelection keeps the cursor on the same story id when it is still
// listed, otherwise inside the list bounds.
func (m *Model) clampSelection(prevID string) {
	rows := m.rows()
	if len(rows) == 0 {
		m.selectedRow = 0
		return
	}
	if prevID != "" {
		for i, r := range rows {
			if r.story.StoryID == prevID {
				m.selectedRow = i
				return
			}
		}
	}
	m.selectedRow = max(0, min(m.selectedRow, len(rows)-1))
}

func (m Model) selectedID() string {
	if row, ok := m.selected(); ok {
		return row.story.StoryID
	}
	return ""
}

func (m Model) listHeight() int {
	return max(1, m.height-chromeLines)
}

// renderStories renders the visible window of the current list.
func (m Model) renderStories() string {
	styles := m.theme.Styles()
	rows := m.rows()
	height := m.listHeight()

	if len(rows) == 0 {
		return lipgloss.NewStyle().Height(height).Render(styles.MutedText.Render("  " + m.emptyText()))
	}

	start := 0
	if m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(len(rows), start+height)

	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(rows[i], i == m.selectedRow, styles))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) emptyText() string {
	switch m.currentView {
	case ViewFavorites:
		return "No favorites added!"
	case ViewMine:
		return "No stories added by user yet!"
	}
	if m.catalogErr != nil {
		return "Stories unavailable. Press r to retry."
	}
	if m.catalog.LoadedAt.IsZero() {
		return "Loading stories..."
	}
	return "No stories yet."
}

func (m Model) renderRow(row storyRow, selected bool, styles Styles) string {
	star := " "
	switch row.class.Variant {
	case reconcile.Favorited:
		star = styles.Star.Render("★")
	case reconcile.Unfavorited:
		star = styles.FaintText.Render("☆")
	}
	if m.pending[row.story.StoryID] {
		star = styles.WarningText.Render("…")
	}

	trash := " "
	if row.class.IsOwn {
		trash = styles.Trash.Render("✖")
	}

	title := truncate(row.story.Title, max(10, m.width/2))
	parts := []string{star, trash, styles.Text.Bold(true).Render(title)}
	if host := hostName(row.story.URL); host != "" {
		parts = append(parts, styles.InfoText.Render("("+host+")"))
	}
	if m.width >= LayoutCompactWidth {
		parts = append(parts,
			styles.MutedText.Render("by "+row.story.Author),
			styles.FaintText.Render("posted by "+row.story.Username),
		)
	}
	if row.removed {
		parts = append(parts, styles.DangerText.Render("[removed]"))
	}
	line := strings.Join(parts, " ")

	if selected {
		return styles.Selected.Width(m.width).Render(line)
	}
	return line
}

// plainRow renders a row without styling for non-interactive output.
func plainRow(row storyRow) string {
	star := " "
	switch row.class.Variant {
	case reconcile.Favorited:
		star = "*"
	case reconcile.Unfavorited:
		star = "-"
	}
	own := " "
	if row.class.IsOwn {
		own = "x"
	}
	return fmt.Sprintf("%s%s %s (%s) by %s, posted by %s [%s]",
		star, own, row.story.Title, hostName(row.story.URL), row.story.Author, row.story.Username, row.story.StoryID)
}

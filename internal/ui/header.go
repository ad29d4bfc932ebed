package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderStories())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// renderHeader renders the logo, user, view and catalog summary.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("snooze")}

	switch {
	case !m.started:
		parts = append(parts, styles.WarningText.Render("connecting..."))
	case m.session.Authenticated():
		parts = append(parts, styles.SuccessText.Render("● "+m.session.Username()))
	default:
		parts = append(parts, styles.MutedText.Render("○ anonymous"))
	}

	parts = append(parts, styles.AccentText.Bold(true).Render(m.currentView.label()))
	parts = append(parts,
		styles.MutedText.Render("Stories:")+" "+styles.Text.Render(fmt.Sprintf("%d", m.catalog.Len())),
	)
	if m.session.Authenticated() {
		parts = append(parts,
			styles.MutedText.Render("Favorites:")+" "+styles.Star.Render(fmt.Sprintf("%d", m.session.User.Favorites.Len())),
			styles.MutedText.Render("Mine:")+" "+styles.Text.Render(fmt.Sprintf("%d", m.session.User.Owned.Len())),
		)
	}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+m.lastUpdated.Format("15:04:05")))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderCommandBar shows the key hints that apply to the current state.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type hint struct{ key, desc string }
	hints := []hint{{"a", "all"}}
	if m.session.Authenticated() {
		hints = append(hints,
			hint{"f", "favorites"},
			hint{"m", "mine"},
			hint{"space", "star"},
			hint{"n", "submit"},
			hint{"d", "delete"},
			hint{"L", "logout"},
		)
	} else {
		hints = append(hints, hint{"l", "login"}, hint{"c", "sign up"})
	}
	hints = append(hints, hint{"r", "refresh"}, hint{"?", "help"}, hint{"q", "quit"})

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.WarningText.Render(h.key)+" "+styles.MutedText.Render(h.desc))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderStatusLine shows the last message, if any.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.DangerText.Render("! ") + styles.DangerText.UnsetBold().Render(truncate(m.status, max(20, m.width-2)))
	}
	return styles.InfoText.Render(truncate(m.status, m.width))
}

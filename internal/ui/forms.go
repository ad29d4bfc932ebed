package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formLogin formKind = iota
	formSignup
	formSubmit
)

func (k formKind) title() string {
	switch k {
	case formSignup:
		return "Create Account"
	case formSubmit:
		return "Submit Story"
	default:
		return "Log In"
	}
}

// form is a small modal of labelled text inputs.
type form struct {
	kind   formKind
	labels []string
	inputs []textinput.Model
	focus  int
	busy   bool
	err    string
}

type fieldDef struct {
	label    string
	secret   bool
	limit    int
	prefill  string
	placehdr string
}

func newForm(kind formKind, username string) *form {
	var fields []fieldDef
	switch kind {
	case formLogin:
		fields = []fieldDef{
			{label: "Username", limit: 50, prefill: username},
			{label: "Password", secret: true, limit: 72},
		}
	case formSignup:
		fields = []fieldDef{
			{label: "Name", limit: 100},
			{label: "Username", limit: 50},
			{label: "Password", secret: true, limit: 72},
		}
	case formSubmit:
		fields = []fieldDef{
			{label: "Author", limit: 200},
			{label: "Title", limit: 300},
			{label: "URL", limit: 2048, placehdr: "https://"},
		}
	}

	f := &form{kind: kind}
	for _, fd := range fields {
		in := textinput.New()
		in.CharLimit = fd.limit
		in.Placeholder = fd.placehdr
		in.Prompt = ""
		in.Width = 40
		in.SetValue(fd.prefill)
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	// Start on the first empty field.
	for i, in := range f.inputs {
		if in.Value() == "" {
			f.focus = i
			break
		}
	}
	f.inputs[f.focus].Focus()
	return f
}

// value returns the trimmed value of field i. Secret fields are not trimmed.
func (f *form) value(i int) string {
	in := f.inputs[i]
	if in.EchoMode == textinput.EchoPassword {
		return in.Value()
	}
	return strings.TrimSpace(in.Value())
}

func (f *form) setFocus(i int) {
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// formAction is what a key press asked the form owner to do.
type formAction int

const (
	formNone formAction = iota
	formCancel
	formSubmitted
)

func (f *form) update(msg tea.KeyMsg, keys keyMap) (formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		return formCancel, nil
	case f.busy:
		return formNone, nil
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return formNone, nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus(f.focus - 1)
		return formNone, nil
	case key.Matches(msg, keys.Confirm):
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
			return formNone, nil
		}
		f.err = ""
		return formSubmitted, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formNone, cmd
}

func (f *form) view(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.kind.title()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Width(10)
	for i, in := range f.inputs {
		l := label
		if i == f.focus {
			l = l.Foreground(lipgloss.Color(theme.Accent)).Bold(true)
		}
		b.WriteString(l.Render(f.labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.busy:
		b.WriteString(styles.WarningText.Render("Working..."))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(truncate(f.err, 60)))
	default:
		b.WriteString(styles.FaintText.Render("enter next/submit  tab move  esc cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(60).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rivo/tview"
)

type bubbleConfirmModel struct {
	title    string
	body     string
	approved bool
	done     bool
}

func (m bubbleConfirmModel) Init() tea.Cmd { return nil }

func (m bubbleConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(k.String()) {
		case "y":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "esc", "ctrl+c", "enter":
			m.approved = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m bubbleConfirmModel) View() string {
	lines := []string{titleStyle.Render(m.title), ""}
	if m.body != "" {
		lines = append(lines, bodyStyle.Render(m.body), "")
	}
	lines = append(lines, hintStyle.Render("[y] yes  [n] no"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func confirmWithBubbleTea(title, body string) (bool, error) {
	model := bubbleConfirmModel{title: strings.TrimSpace(title), body: strings.TrimSpace(body)}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	out, ok := final.(bubbleConfirmModel)
	if !ok || !out.done {
		return false, nil
	}
	return out.approved, nil
}

func confirmWithHuh(title, body string) (bool, error) {
	approved := false
	prompt := huh.NewConfirm().
		Title(strings.TrimSpace(title)).
		Description(strings.TrimSpace(body)).
		Affirmative("Yes").
		Negative("No").
		Value(&approved).
		WithTheme(huh.ThemeCharm())
	if err := prompt.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

func confirmWithTView(title, body string) (bool, error) {
	app := tview.NewApplication()
	approved := false

	text := strings.TrimSpace(title)
	if body = strings.TrimSpace(body); body != "" {
		text += "\n\n" + body
	}
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(_ int, label string) {
			approved = strings.EqualFold(strings.TrimSpace(label), "yes")
			app.Stop()
		})

	if err := app.SetRoot(modal, true).Run(); err != nil {
		return false, err
	}
	return approved, nil
}

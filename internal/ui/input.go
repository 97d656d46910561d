package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type bubbleInputModel struct {
	title     string
	input     textinput.Model
	submitted bool
}

func newBubbleInputModel(title, placeholder string) bubbleInputModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 512
	input.Width = 72
	input.Focus()
	return bubbleInputModel{title: strings.TrimSpace(title), input: input}
}

func (m bubbleInputModel) Init() tea.Cmd { return textinput.Blink }

func (m bubbleInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m bubbleInputModel) View() string {
	return cardStyle.Render(strings.Join([]string{
		titleStyle.Render(m.title),
		"",
		m.input.View(),
		"",
		hintStyle.Render("[enter] accept  [esc] cancel"),
	}, "\n"))
}

func (m bubbleInputModel) value() string {
	if !m.submitted {
		return ""
	}
	return strings.TrimSpace(m.input.Value())
}

func inputWithBubbleTea(title, placeholder string) (string, error) {
	final, err := tea.NewProgram(newBubbleInputModel(title, placeholder), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	out, ok := final.(bubbleInputModel)
	if !ok {
		return "", nil
	}
	return out.value(), nil
}

func inputWithHuh(title, placeholder string) (string, error) {
	value := ""
	prompt := huh.NewInput().
		Title(strings.TrimSpace(title)).
		Placeholder(placeholder).
		Value(&value).
		WithTheme(huh.ThemeCharm())
	if err := prompt.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func inputWithTView(title, placeholder string) (string, error) {
	app := tview.NewApplication()
	value := ""
	field := tview.NewInputField().
		SetLabel(strings.TrimSpace(title) + ": ").
		SetPlaceholder(placeholder).
		SetFieldWidth(60)
	field.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			value = field.GetText()
		}
		app.Stop()
	})
	field.SetBorder(true)

	if err := app.SetRoot(field, true).SetFocus(field).Run(); err != nil {
		return "", err
	}
	return value, nil
}

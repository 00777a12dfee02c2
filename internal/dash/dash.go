// Package dash is the interactive profile dashboard: one tab per
// harness, the harness's profiles listed inside. The model only
// collects a selection; the command layer performs the actual switch
// after the program exits.
package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samhoang/reins/internal/harness"
	"github.com/samhoang/reins/internal/profile"
)

const maxVisibleItems = 10 // Maximum profiles to show before scrolling

// Tab holds one harness and its profiles
type Tab struct {
	Kind     harness.Kind
	Status   harness.Status
	Profiles []profile.Info
	cursor   int
	offset   int
}

// Selection is what the user picked before confirming
type Selection struct {
	Kind    harness.Kind
	Profile string
}

// Model is the Bubble Tea model for the dashboard
type Model struct {
	tabs       []Tab
	currentTab int
	done       bool
	quitting   bool
	selection  *Selection
}

// New creates a dashboard model
func New(tabs []Tab) Model {
	return Model{tabs: tabs}
}

// ChosenSwitch returns the profile the user confirmed, if any
func (m Model) ChosenSwitch() (Selection, bool) {
	if m.selection == nil {
		return Selection{}, false
	}
	return *m.selection, true
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// adjustScroll ensures cursor is visible within the viewport
func (m *Model) adjustScroll() {
	tab := &m.tabs[m.currentTab]
	count := len(tab.Profiles)

	if tab.cursor >= count {
		tab.cursor = count - 1
	}
	if tab.cursor < 0 {
		tab.cursor = 0
	}
	if tab.cursor < tab.offset {
		tab.offset = tab.cursor
	}
	if tab.cursor >= tab.offset+maxVisibleItems {
		tab.offset = tab.cursor - maxVisibleItems + 1
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, dashKeys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, dashKeys.Left):
			if m.currentTab > 0 {
				m.currentTab--
			}

		case key.Matches(msg, dashKeys.Right):
			if m.currentTab < len(m.tabs)-1 {
				m.currentTab++
			}

		case key.Matches(msg, dashKeys.Up):
			tab := &m.tabs[m.currentTab]
			if tab.cursor > 0 {
				tab.cursor--
				m.adjustScroll()
			} else if len(tab.Profiles) > 0 {
				// Wrap to bottom
				tab.cursor = len(tab.Profiles) - 1
				m.adjustScroll()
			}

		case key.Matches(msg, dashKeys.Down):
			tab := &m.tabs[m.currentTab]
			if tab.cursor < len(tab.Profiles)-1 {
				tab.cursor++
				m.adjustScroll()
			} else if len(tab.Profiles) > 0 {
				// Wrap to top
				tab.cursor = 0
				tab.offset = 0
			}

		case key.Matches(msg, dashKeys.Confirm):
			tab := m.tabs[m.currentTab]
			if len(tab.Profiles) > 0 && tab.cursor < len(tab.Profiles) {
				picked := tab.Profiles[tab.cursor]
				if !picked.Active {
					m.selection = &Selection{Kind: tab.Kind, Profile: picked.Name}
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	activeTabStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	inactiveTabStyle := lipgloss.NewStyle().Faint(true)
	activeProfileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle := lipgloss.NewStyle().Faint(true)
	scrollIndicatorStyle := lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("240"))

	b.WriteString(titleStyle.Render("Profiles"))
	b.WriteString("\n\n")

	var tabNames []string
	for i, tab := range m.tabs {
		label := tab.Kind.DisplayName()
		if tab.Status != harness.FullyInstalled {
			label += dimStyle.Render(" (" + tab.Status.String() + ")")
		}
		if i == m.currentTab {
			tabNames = append(tabNames, activeTabStyle.Render(label))
		} else {
			tabNames = append(tabNames, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabNames, "  |  "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n\n")

	tab := m.tabs[m.currentTab]
	if len(tab.Profiles) == 0 {
		b.WriteString(dimStyle.Render("  (no profiles)"))
		b.WriteString("\n")
	} else {
		if tab.offset > 0 {
			b.WriteString(scrollIndicatorStyle.Render(fmt.Sprintf("  ↑ %d more above", tab.offset)))
			b.WriteString("\n")
		}

		start := tab.offset
		end := start + maxVisibleItems
		if end > len(tab.Profiles) {
			end = len(tab.Profiles)
		}

		for i := start; i < end; i++ {
			p := tab.Profiles[i]
			cursor := "  "
			if i == tab.cursor {
				cursor = cursorStyle.Render("> ")
			}

			marker := "   "
			name := p.Name
			if p.Active {
				marker = activeProfileStyle.Render(" ● ")
				name = activeProfileStyle.Render(name)
			}

			line := fmt.Sprintf("%s%s%s", cursor, marker, name)
			if p.Description != "" {
				line += dimStyle.Render("  " + p.Description)
			}
			line += dimStyle.Render(fmt.Sprintf("  (%d files)", p.Files))
			b.WriteString(line)
			b.WriteString("\n")
		}

		remaining := len(tab.Profiles) - end
		if remaining > 0 {
			b.WriteString(scrollIndicatorStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	helpText := "←/→: switch harness • ↑/↓: navigate • enter: switch to profile • q: quit"
	b.WriteString(dimStyle.Render(helpText))

	return b.String()
}

// dashKeyMap defines the key bindings for the dashboard
type dashKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var dashKeys = dashKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
	),
}

// Run shows the dashboard and returns the confirmed switch, if the
// user picked one
func Run(tabs []Tab) (*Selection, error) {
	m := New(tabs)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm := finalModel.(Model)
	if sel, ok := fm.ChosenSwitch(); ok {
		return &sel, nil
	}
	return nil, nil
}

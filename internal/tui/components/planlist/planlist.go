package planlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/macroplan/internal/models"
)

type AddPlanMsg struct{}

type OpenPlanMsg struct {
	ID string
}

type RenamePlanMsg struct {
	Plan models.PlanSummary
}

type Item struct {
	Plan    models.PlanSummary
	Current bool
}

func (i Item) Title() string {
	if i.Current {
		return "● " + i.Plan.Name
	}
	return i.Plan.Name
}

func (i Item) Description() string {
	created := i.Plan.CreatedAt
	if ts, err := time.Parse(time.RFC3339, i.Plan.CreatedAt); err == nil {
		created = ts.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("created %s | %s", created, i.Plan.ID)
}

func (i Item) FilterValue() string { return i.Plan.Name }

type KeyMap struct {
	Add    key.Binding
	Open   key.Binding
	Rename key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new plan"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(plans []models.PlanSummary, currentID string, width, height int) Model {
	l := list.New(items(plans, currentID), list.NewDefaultDelegate(), width, height)
	l.Title = "Plans"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Rename}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Rename}
	}

	return Model{list: l, keys: keys}
}

func items(plans []models.PlanSummary, currentID string) []list.Item {
	out := make([]list.Item, len(plans))
	for i, p := range plans {
		out[i] = Item{Plan: p, Current: p.ID == currentID}
	}
	return out
}

func (m *Model) SetPlans(plans []models.PlanSummary, currentID string) {
	m.list.SetItems(items(plans, currentID))
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddPlanMsg{} }
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenPlanMsg{ID: i.Plan.ID} }
			}
		case key.Matches(msg, m.keys.Rename):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return RenamePlanMsg{Plan: i.Plan} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No plans yet.\n  Press 'a' to create one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

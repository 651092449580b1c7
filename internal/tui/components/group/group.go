package group

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
	"github.com/julianstephens/macroplan/internal/suggest"
)

// AddSuggestedMsg asks for the suggested quantity of a candidate to be added.
type AddSuggestedMsg struct {
	Group      models.MacroGroupCoordinates
	Suggestion suggest.Suggestion
}

type AddItemMsg struct {
	Group models.MacroGroupCoordinates
}

type EditItemMsg struct {
	Group models.MacroGroupCoordinates
	Item  models.GroupItem
}

type RemoveItemMsg struct {
	Group  models.MacroGroupCoordinates
	ItemID string
}

type SetBaselineMsg struct {
	Group models.MacroGroupCoordinates
}

type ClearBaselineMsg struct {
	Group models.MacroGroupCoordinates
}

type focus int

const (
	focusItems focus = iota
	focusSuggestions
)

type KeyMap struct {
	Switch        key.Binding
	NextMacro     key.Binding
	AddSuggested  key.Binding
	Add           key.Binding
	Edit          key.Binding
	Remove        key.Binding
	Baseline      key.Binding
	ClearBaseline key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "items/proportions"),
		),
		NextMacro: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "next macro"),
		),
		AddSuggested: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add suggested"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit qta"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Baseline: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "set baseline"),
		),
		ClearBaseline: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "clear baseline"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	overStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("205"))
)

// Model shows one macro group: its items, its baseline, and the proportions
// table for the group's macro type.
type Model struct {
	items       table.Model
	suggestions table.Model
	keys        KeyMap
	aggregator  *nutrition.Aggregator
	engine      *suggest.Engine
	plan        *models.DietPlan
	coords      models.MacroGroupCoordinates
	group       *models.MacroGroup
	proportions suggest.Table
	focus       focus
	err         error
	width       int
	height      int
}

func New(agg *nutrition.Aggregator, eng *suggest.Engine, width, height int) Model {
	m := Model{
		items:       newTable(itemColumns()),
		suggestions: newTable(suggestionColumns()),
		keys:        DefaultKeyMap(),
		aggregator:  agg,
		engine:      eng,
	}
	m.SetSize(width, height)
	m.applyFocus()
	return m
}

func newTable(cols []table.Column) table.Model {
	t := table.New(table.WithColumns(cols))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func itemColumns() []table.Column {
	return []table.Column{
		{Title: "Food", Width: 24},
		{Title: "Qta", Width: 8},
		{Title: "kcal", Width: 8},
	}
}

func suggestionColumns() []table.Column {
	return []table.Column{
		{Title: "Food", Width: 24},
		{Title: "Qta", Width: 8},
		{Title: "kcal", Width: 8},
	}
}

// SetGroup points the view at a macro group of plan and rebuilds both tables.
func (m *Model) SetGroup(plan *models.DietPlan, c models.MacroGroupCoordinates) error {
	group, err := plan.MacroGroup(c)
	if err != nil {
		return err
	}
	proportions, err := m.engine.ForMacroGroup(plan, c)
	if err != nil {
		return err
	}

	m.plan = plan
	m.coords = c
	m.group = group
	m.proportions = proportions
	m.err = nil
	m.render()
	return nil
}

func (m Model) Coordinates() models.MacroGroupCoordinates {
	return m.coords
}

func (m *Model) render() {
	rows := make([]table.Row, 0, len(m.group.Items))
	for _, item := range m.group.Items {
		rows = append(rows, table.Row{
			item.Name,
			fmt.Sprintf("%g", item.Qta),
			fmt.Sprintf("%d", m.aggregator.ItemCalories(item.ItemID, item.Qta)),
		})
	}
	m.items.SetRows(rows)
	if m.items.Cursor() >= len(rows) && len(rows) > 0 {
		m.items.SetCursor(len(rows) - 1)
	}

	rows = make([]table.Row, 0, len(m.proportions.Rows))
	for _, s := range m.proportions.Rows {
		rows = append(rows, table.Row{
			s.Item.Label(),
			fmt.Sprintf("%d", s.Qta),
			fmt.Sprintf("%d", s.Calories),
		})
	}
	m.suggestions.SetRows(rows)
}

func (m *Model) applyFocus() {
	if m.focus == focusItems {
		m.items.Focus()
		m.suggestions.Blur()
	} else {
		m.items.Blur()
		m.suggestions.Focus()
	}
}

func (m Model) selectedItem() (models.GroupItem, bool) {
	if m.group == nil {
		return models.GroupItem{}, false
	}
	i := m.items.Cursor()
	if i < 0 || i >= len(m.group.Items) {
		return models.GroupItem{}, false
	}
	return m.group.Items[i], true
}

func (m Model) selectedSuggestion() (suggest.Suggestion, bool) {
	i := m.suggestions.Cursor()
	if i < 0 || i >= len(m.proportions.Rows) {
		return suggest.Suggestion{}, false
	}
	return m.proportions.Rows[i], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.plan != nil {
		c := m.coords
		switch {
		case key.Matches(msg, m.keys.Switch):
			if m.focus == focusItems {
				m.focus = focusSuggestions
			} else {
				m.focus = focusItems
			}
			m.applyFocus()
			return m, nil
		case key.Matches(msg, m.keys.NextMacro):
			next := c
			for i, mt := range models.MacroTypes {
				if mt == c.MacroType {
					next.MacroType = models.MacroTypes[(i+1)%len(models.MacroTypes)]
					break
				}
			}
			if err := m.SetGroup(m.plan, next); err != nil {
				m.err = err
			}
			return m, nil
		case key.Matches(msg, m.keys.AddSuggested) && m.focus == focusSuggestions:
			if s, ok := m.selectedSuggestion(); ok {
				return m, func() tea.Msg { return AddSuggestedMsg{Group: c, Suggestion: s} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddItemMsg{Group: c} }
		case key.Matches(msg, m.keys.Edit) && m.focus == focusItems:
			if item, ok := m.selectedItem(); ok {
				return m, func() tea.Msg { return EditItemMsg{Group: c, Item: item} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Remove) && m.focus == focusItems:
			if item, ok := m.selectedItem(); ok {
				return m, func() tea.Msg { return RemoveItemMsg{Group: c, ItemID: item.ItemID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Baseline):
			return m, func() tea.Msg { return SetBaselineMsg{Group: c} }
		case key.Matches(msg, m.keys.ClearBaseline):
			return m, func() tea.Msg { return ClearBaselineMsg{Group: c} }
		}
	}

	var cmd tea.Cmd
	if m.focus == focusItems {
		m.items, cmd = m.items.Update(msg)
	} else {
		m.suggestions, cmd = m.suggestions.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.plan == nil {
		return "No group selected."
	}

	header := titleStyle.Render(fmt.Sprintf("%s / %s / %s", m.coords.Day, m.coords.MealType, m.coords.MacroType))

	baseline := labelStyle.Render("baseline: ") + "none"
	if b := m.group.Baseline; b != nil {
		baseline = labelStyle.Render("baseline: ") +
			fmt.Sprintf("%s %g (%.0f kcal)", b.FoodItem.Label(), b.Qta, m.proportions.BaselineCalories)
	}
	gap := labelStyle.Render("gap: ") + fmt.Sprintf("%.0f kcal", m.proportions.Gap)
	if m.proportions.OverBudget {
		gap = overStyle.Render(fmt.Sprintf("over budget by %.0f kcal", -m.proportions.Gap))
	}
	summary := lipgloss.JoinVertical(lipgloss.Left,
		baseline,
		labelStyle.Render("current: ")+fmt.Sprintf("%.0f kcal", m.proportions.GroupCalories),
		gap,
	)

	itemsPane, suggestionsPane := paneStyle, paneStyle
	if m.focus == focusItems {
		itemsPane = focusedPaneStyle
	} else {
		suggestionsPane = focusedPaneStyle
	}
	tables := lipgloss.JoinHorizontal(lipgloss.Top,
		itemsPane.Render(lipgloss.JoinVertical(lipgloss.Left, "Items", m.items.View())),
		suggestionsPane.Render(lipgloss.JoinVertical(lipgloss.Left, "Proportions", m.suggestions.View())),
	)

	parts := []string{header, summary, tables}
	if m.err != nil {
		parts = append(parts, overStyle.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	h := height - 8
	if h < 5 {
		h = 5
	}
	m.items.SetHeight(h)
	m.suggestions.SetHeight(h)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

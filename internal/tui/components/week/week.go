package week

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
)

type OpenMealMsg struct {
	Meal models.MealCoordinates
}

type OpenDayMsg struct {
	WeekID string
	Day    models.Day
}

type CopyMealMsg struct {
	Meal models.MealCoordinates
}

type PasteMealMsg struct {
	Meal models.MealCoordinates
}

type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Open  key.Binding
	Day   key.Binding
	Copy  key.Binding
	Paste key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev meal"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next meal"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open meal"),
		),
		Day: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "day details"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy meal"),
		),
		Paste: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "paste meal"),
		),
	}
}

var selectedCellStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true)

// Model is the week grid: one row per day, one column per meal, cells in kcal.
type Model struct {
	table      table.Model
	keys       KeyMap
	aggregator *nutrition.Aggregator
	plan       *models.DietPlan
	weekID     string
	mealCol    int
}

func New(agg *nutrition.Aggregator, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(len(models.Days)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("236")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		table:      t,
		keys:       DefaultKeyMap(),
		aggregator: agg,
	}
}

func columns(width int) []table.Column {
	cellWidth := 12
	if width > 0 {
		if w := (width - 14) / (len(models.MealTypes) + 1); w > cellWidth {
			cellWidth = w
		}
	}
	cols := []table.Column{{Title: "Day", Width: 12}}
	for _, meal := range models.MealTypes {
		cols = append(cols, table.Column{Title: string(meal), Width: cellWidth})
	}
	return append(cols, table.Column{Title: "total", Width: cellWidth})
}

func (m *Model) SetPlan(plan *models.DietPlan, weekID string) {
	m.plan = plan
	m.weekID = weekID
	m.Render()
}

func (m Model) WeekID() string {
	return m.weekID
}

// Selected returns the coordinates of the highlighted meal.
func (m Model) Selected() models.MealCoordinates {
	row := m.table.Cursor()
	if row < 0 || row >= len(models.Days) {
		row = 0
	}
	return models.MealCoordinates{
		WeekID:   m.weekID,
		Day:      models.Days[row],
		MealType: models.MealTypes[m.mealCol],
	}
}

func (m *Model) Render() {
	if m.plan == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(models.Days))
	for _, day := range models.Days {
		row := table.Row{string(day)}
		for col, meal := range models.MealTypes {
			mc := models.MealCoordinates{WeekID: m.weekID, Day: day, MealType: meal}
			cell := fmt.Sprintf("%.0f", m.aggregator.MealCalories(m.plan, mc))
			if col == m.mealCol {
				cell = "▸ " + cell
			}
			row = append(row, cell)
		}
		row = append(row, fmt.Sprintf("%.0f", m.aggregator.DayCalories(m.plan, m.weekID, day)))
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.plan != nil {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.mealCol = (m.mealCol - 1 + len(models.MealTypes)) % len(models.MealTypes)
			m.Render()
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.mealCol = (m.mealCol + 1) % len(models.MealTypes)
			m.Render()
			return m, nil
		case key.Matches(msg, m.keys.Open):
			sel := m.Selected()
			return m, func() tea.Msg { return OpenMealMsg{Meal: sel} }
		case key.Matches(msg, m.keys.Day):
			sel := m.Selected()
			return m, func() tea.Msg { return OpenDayMsg{WeekID: sel.WeekID, Day: sel.Day} }
		case key.Matches(msg, m.keys.Copy):
			sel := m.Selected()
			return m, func() tea.Msg { return CopyMealMsg{Meal: sel} }
		case key.Matches(msg, m.keys.Paste):
			sel := m.Selected()
			return m, func() tea.Msg { return PasteMealMsg{Meal: sel} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.plan == nil {
		return "No plan loaded."
	}
	total := m.aggregator.WeekCalories(m.plan, m.weekID)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.table.View(),
		selectedCellStyle.Render(fmt.Sprintf("week total: %.0f kcal", total)),
	)
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

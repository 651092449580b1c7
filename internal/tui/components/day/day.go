package day

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
)

var (
	mealStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(12).
			Bold(true)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(12).
			Align(lipgloss.Right)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows the day details: grams of each macro per meal, the day total,
// and the items of every group.
type Model struct {
	viewport   viewport.Model
	aggregator *nutrition.Aggregator
	plan       *models.DietPlan
	weekID     string
	Day        models.Day
	width      int
	height     int
}

func New(agg *nutrition.Aggregator, width, height int) Model {
	vp := viewport.New(width, height)
	return Model{
		viewport:   vp,
		aggregator: agg,
		Day:        models.Monday,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.plan == nil {
		return "No plan loaded."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetDay(plan *models.DietPlan, weekID string, day models.Day) {
	m.plan = plan
	m.weekID = weekID
	m.Day = day
	m.Render()
}

func (m *Model) Render() {
	if m.plan == nil {
		m.viewport.SetContent("No plan loaded.")
		return
	}

	b := m.aggregator.DayBreakdown(m.plan, m.weekID, m.Day)

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(""),
		headerStyle.Align(lipgloss.Right).Render("Carbs"),
		headerStyle.Align(lipgloss.Right).Render("Proteins"),
		headerStyle.Align(lipgloss.Right).Render("Fats"),
		headerStyle.Align(lipgloss.Right).Render("kcal"),
	))
	sb.WriteString("\n")
	for _, row := range b.Meals {
		sb.WriteString(m.line(string(row.MealType), row.Macros, row.Calories))
	}
	sb.WriteString(m.line("total", b.Total, b.Calories))
	sb.WriteString("\n")

	for _, mealType := range models.MealTypes {
		mc := models.MealCoordinates{WeekID: m.weekID, Day: m.Day, MealType: mealType}
		meal, err := m.plan.Meal(mc)
		if err != nil {
			continue
		}
		sb.WriteString(mealStyle.Render(string(mealType)))
		sb.WriteString("\n")
		for _, mt := range models.MacroTypes {
			group := meal.Macro.Group(mt)
			if group == nil || len(group.Items) == 0 {
				continue
			}
			names := make([]string, 0, len(group.Items))
			for _, item := range group.Items {
				names = append(names, fmt.Sprintf("%s %g", item.Name, item.Qta))
			}
			sb.WriteString(itemStyle.Render(fmt.Sprintf("  %s: %s", mt, strings.Join(names, ", "))))
			sb.WriteString("\n")
		}
	}

	m.viewport.SetContent(sb.String())
}

func (m *Model) line(label string, macros nutrition.Macros, kcal float64) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		mealStyle.Render(label),
		numberStyle.Render(fmt.Sprintf("%.1f g", macros.Carbs)),
		numberStyle.Render(fmt.Sprintf("%.1f g", macros.Proteins)),
		numberStyle.Render(fmt.Sprintf("%.1f g", macros.Fats)),
		numberStyle.Render(fmt.Sprintf("%.0f", kcal)),
	) + "\n"
}

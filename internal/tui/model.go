package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
	"github.com/julianstephens/macroplan/internal/planstore"
	"github.com/julianstephens/macroplan/internal/suggest"
	"github.com/julianstephens/macroplan/internal/tui/components/day"
	"github.com/julianstephens/macroplan/internal/tui/components/group"
	"github.com/julianstephens/macroplan/internal/tui/components/planlist"
	"github.com/julianstephens/macroplan/internal/tui/components/week"
)

type SessionState int

const (
	StatePlans SessionState = iota
	StateWeek
	StateDay
	StateGroup
	StateForm
	StateConfirmQuit
)

type formKind int

const (
	formCreatePlan formKind = iota
	formRenamePlan
	formAddItem
	formEditItem
	formBaseline
)

type PlanFormModel struct {
	Name string
}

type ItemFormModel struct {
	ItemID string
	Qta    string
}

// activity is shared by every copy of the Model so the store subscription
// can report changes back to the view.
type activity struct {
	last    planstore.Change
	changes int
}

type Model struct {
	ctx        context.Context
	store      *planstore.Store
	catalog    *catalog.Index
	aggregator *nutrition.Aggregator
	engine     *suggest.Engine

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	planList  planlist.Model
	weekModel week.Model
	dayModel  day.Model
	groupView group.Model

	form        *huh.Form
	formKind    formKind
	planForm    *PlanFormModel
	itemForm    *ItemFormModel
	formGroup   models.MacroGroupCoordinates
	renameID    string
	editingItem string

	activity *activity
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the editor around a plan store. When planID is not empty
// that plan is loaded and the week grid is shown first.
func NewModel(ctx context.Context, store *planstore.Store, cat *catalog.Index, planID string) Model {
	agg := nutrition.NewAggregator(cat)
	eng := suggest.NewEngine(cat, agg)

	m := Model{
		ctx:        ctx,
		store:      store,
		catalog:    cat,
		aggregator: agg,
		engine:     eng,
		state:      StatePlans,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		weekModel:  week.New(agg, 0, 0),
		dayModel:   day.New(agg, 0, 0),
		groupView:  group.New(agg, eng, 0, 0),
		activity:   &activity{},
	}

	act := m.activity
	store.Subscribe(func(c planstore.Change) {
		act.last = c
		act.changes++
	})

	if err := store.RefreshSummaries(ctx); err != nil {
		logger.Warn("Failed to list plans", "error", err)
		m.err = err
	}
	m.planList = planlist.New(store.Summaries(), store.CurrentPlanID(), 0, 0)

	if planID != "" {
		if err := m.openPlan(planID); err != nil {
			m.err = err
		}
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Back, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StatePlans:
		pk := planlist.DefaultKeyMap()
		keys = append(keys, pk.Add, pk.Open, pk.Rename)
	case StateWeek:
		wk := m.weekModel.Keys()
		keys = append(keys, wk.Open, wk.Day, wk.Copy, wk.Paste, m.keys.Save)
	case StateGroup:
		gk := m.groupView.Keys()
		keys = append(keys, gk.Switch, gk.AddSuggested, gk.Add, gk.Baseline, m.keys.Save)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Back, m.keys.Quit, m.keys.Help, m.keys.Save}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StatePlans:
		pk := planlist.DefaultKeyMap()
		actions = []key.Binding{pk.Add, pk.Open, pk.Rename}
	case StateWeek:
		wk := m.weekModel.Keys()
		actions = []key.Binding{wk.Open, wk.Day, wk.Copy, wk.Paste}
	case StateGroup:
		gk := m.groupView.Keys()
		actions = []key.Binding{gk.Switch, gk.NextMacro, gk.AddSuggested, gk.Add, gk.Edit, gk.Remove, gk.Baseline, gk.ClearBaseline}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// openPlan shows planID in the week grid. The current plan is not reloaded
// so unsaved edits survive.
func (m *Model) openPlan(planID string) error {
	if planID != m.store.CurrentPlanID() {
		if _, err := m.store.Load(m.ctx, planID); err != nil {
			return err
		}
	}
	m.state = StateWeek
	m.previousState = StateWeek
	m.refresh()
	return nil
}

func (m *Model) currentWeek() string {
	if id := m.weekModel.WeekID(); id != "" {
		if plan := m.store.Plan(); plan != nil {
			if _, ok := plan.Weeks[id]; ok {
				return id
			}
		}
	}
	ids, err := m.store.WeekIDs()
	if err != nil || len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// refresh pushes the store's current state into every component.
func (m *Model) refresh() {
	m.planList.SetPlans(m.store.Summaries(), m.store.CurrentPlanID())

	plan := m.store.Plan()
	if plan == nil {
		return
	}
	weekID := m.currentWeek()
	m.weekModel.SetPlan(plan, weekID)
	m.dayModel.SetDay(plan, weekID, m.dayModel.Day)
	if m.state == StateGroup || m.previousState == StateGroup {
		if err := m.groupView.SetGroup(plan, m.groupView.Coordinates()); err != nil {
			m.err = err
		}
	}
}

func (m *Model) resize() {
	h := m.height - 4
	if h < 0 {
		h = 0
	}
	m.planList.SetSize(m.width, h)
	m.weekModel.SetSize(m.width, h)
	m.dayModel.SetSize(m.width, h)
	m.groupView.SetSize(m.width, h)
}

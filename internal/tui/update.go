package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/tui/components/group"
	"github.com/julianstephens/macroplan/internal/tui/components/planlist"
	"github.com/julianstephens/macroplan/internal/tui/components/week"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		if m.state != StateForm {
			return m, nil
		}
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirmQuit:
		return m.updateConfirmQuit(msg)
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !(m.state == StatePlans && m.planList.Filtering()) {
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.store.Dirty() {
				m.previousState = m.state
				m.state = StateConfirmQuit
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Save) && m.state != StatePlans:
			m.save()
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.back()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StatePlans:
		m.planList, cmd = m.planList.Update(msg)
	case StateWeek:
		m.weekModel, cmd = m.weekModel.Update(msg)
	case StateDay:
		m.dayModel, cmd = m.dayModel.Update(msg)
	case StateGroup:
		m.groupView, cmd = m.groupView.Update(msg)
	}
	return m, cmd
}

func (m *Model) back() {
	m.err = nil
	switch m.state {
	case StateGroup, StateDay:
		m.state = StateWeek
	case StateWeek:
		m.state = StatePlans
	}
	m.previousState = m.state
}

func (m *Model) save() {
	if err := m.store.Save(m.ctx); err != nil {
		logger.Error("Failed to save plan", "error", err)
		m.err = err
		return
	}
	m.err = nil
	m.status = "Plan saved"
	m.refresh()
}

// apply runs a store mutation and refreshes the components when it succeeds.
func (m *Model) apply(status string, fn func() error) {
	if err := fn(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = status
	m.refresh()
}

func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case planlist.AddPlanMsg:
		if m.store.Dirty() {
			m.err = fmt.Errorf("save the current plan before creating a new one")
			return true, nil
		}
		m.planForm = &PlanFormModel{}
		return true, m.startForm(formCreatePlan, NewPlanForm(m.planForm, "New plan name"))

	case planlist.RenamePlanMsg:
		m.renameID = msg.Plan.ID
		m.planForm = &PlanFormModel{Name: msg.Plan.Name}
		return true, m.startForm(formRenamePlan, NewPlanForm(m.planForm, "Rename plan"))

	case planlist.OpenPlanMsg:
		if msg.ID != m.store.CurrentPlanID() && m.store.Dirty() {
			m.err = fmt.Errorf("save the current plan before switching")
			return true, nil
		}
		if err := m.openPlan(msg.ID); err != nil {
			m.err = err
		}
		return true, nil

	case week.OpenMealMsg:
		if err := m.groupView.SetGroup(m.store.Plan(), msg.Meal.Group(models.MacroCarbs)); err != nil {
			m.err = err
			return true, nil
		}
		m.state = StateGroup
		m.previousState = StateGroup
		return true, nil

	case week.OpenDayMsg:
		m.dayModel.SetDay(m.store.Plan(), msg.WeekID, msg.Day)
		m.state = StateDay
		m.previousState = StateDay
		return true, nil

	case week.CopyMealMsg:
		m.apply(fmt.Sprintf("Copied %s %s", msg.Meal.Day, msg.Meal.MealType), func() error {
			return m.store.CopyMeal(msg.Meal)
		})
		return true, nil

	case week.PasteMealMsg:
		pasted := false
		m.apply(fmt.Sprintf("Pasted into %s %s", msg.Meal.Day, msg.Meal.MealType), func() error {
			var err error
			pasted, err = m.store.PasteMeal(msg.Meal)
			return err
		})
		if m.err == nil && !pasted {
			m.status = "Nothing copied yet"
		}
		return true, nil

	case group.AddSuggestedMsg:
		if msg.Suggestion.Qta <= 0 {
			m.err = fmt.Errorf("no room left for %s in this group", msg.Suggestion.Item.Label())
			return true, nil
		}
		m.apply(fmt.Sprintf("Added %d of %s", msg.Suggestion.Qta, msg.Suggestion.Item.Label()), func() error {
			return m.store.AddFoodItem(msg.Group, msg.Suggestion.Item.ID, float64(msg.Suggestion.Qta))
		})
		return true, nil

	case group.AddItemMsg:
		m.formGroup = msg.Group
		m.itemForm = &ItemFormModel{}
		return true, m.startForm(formAddItem,
			NewItemForm(m.itemForm, "Add food item", m.catalog.ByMacroType(msg.Group.MacroType)))

	case group.EditItemMsg:
		m.formGroup = msg.Group
		m.editingItem = msg.Item.ItemID
		m.itemForm = &ItemFormModel{ItemID: msg.Item.ItemID, Qta: strconv.FormatFloat(msg.Item.Qta, 'f', -1, 64)}
		unit := models.UnitGrams
		if food, ok := m.catalog.ByID(msg.Item.ItemID); ok {
			unit = food.Unit
		}
		return true, m.startForm(formEditItem, NewQtaForm(m.itemForm, msg.Item, unit))

	case group.RemoveItemMsg:
		m.apply("Item removed", func() error {
			return m.store.RemoveFoodItem(msg.Group, msg.ItemID)
		})
		return true, nil

	case group.SetBaselineMsg:
		m.formGroup = msg.Group
		m.itemForm = &ItemFormModel{}
		if b, err := m.store.Baseline(msg.Group); err == nil && b != nil {
			m.itemForm.ItemID = b.FoodItem.ID
			m.itemForm.Qta = strconv.FormatFloat(b.Qta, 'f', -1, 64)
		}
		return true, m.startForm(formBaseline,
			NewItemForm(m.itemForm, "Baseline food item", m.catalog.ByMacroType(msg.Group.MacroType)))

	case group.ClearBaselineMsg:
		m.apply("Baseline cleared", func() error {
			return m.store.ClearBaseline(msg.Group)
		})
		return true, nil
	}
	return false, nil
}

func (m *Model) startForm(kind formKind, form *huh.Form) tea.Cmd {
	m.previousState = m.state
	m.state = StateForm
	m.formKind = kind
	m.form = form
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		m.submitForm()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) submitForm() {
	switch m.formKind {
	case formCreatePlan:
		id, err := m.store.Create(m.ctx, m.planForm.Name)
		if err != nil {
			m.err = err
			return
		}
		m.status = "Plan created"
		if err := m.openPlan(id); err != nil {
			m.err = err
		}

	case formRenamePlan:
		m.apply("Plan renamed", func() error {
			return m.store.Rename(m.ctx, m.renameID, m.planForm.Name)
		})

	case formAddItem, formEditItem, formBaseline:
		unit := models.UnitGrams
		if food, ok := m.catalog.ByID(m.itemForm.ItemID); ok {
			unit = food.Unit
		}
		qta, err := parseQta(m.itemForm.Qta, unit)
		if err != nil {
			m.err = err
			return
		}
		switch m.formKind {
		case formAddItem:
			m.apply("Item added", func() error {
				return m.store.AddFoodItem(m.formGroup, m.itemForm.ItemID, qta)
			})
		case formEditItem:
			m.apply("Quantity updated", func() error {
				return m.store.UpdateFoodItem(m.formGroup, m.editingItem, qta)
			})
		case formBaseline:
			m.apply("Baseline set", func() error {
				return m.store.SetBaseline(m.formGroup, m.itemForm.ItemID, qta)
			})
		}
	}
}

func (m Model) updateConfirmQuit(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Save):
		m.save()
		if m.err != nil {
			m.state = m.previousState
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.state = m.previousState
	}
	return m, nil
}

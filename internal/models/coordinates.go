package models

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned when a week, day, meal or macro key does
// not exist in a plan. Coordinates are normally taken from the plan's own
// keys, so this indicates a caller bug.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

type MealCoordinates struct {
	WeekID   string
	Day      Day
	MealType MealType
}

// Group extends the meal coordinates to one of its macro groups.
func (c MealCoordinates) Group(t MacroType) MacroGroupCoordinates {
	return MacroGroupCoordinates{WeekID: c.WeekID, Day: c.Day, MealType: c.MealType, MacroType: t}
}

func (c MealCoordinates) String() string {
	return fmt.Sprintf("%s/%s/%s", c.WeekID, c.Day, c.MealType)
}

type MacroGroupCoordinates struct {
	WeekID    string
	Day       Day
	MealType  MealType
	MacroType MacroType
}

// Meal drops the macro type.
func (c MacroGroupCoordinates) Meal() MealCoordinates {
	return MealCoordinates{WeekID: c.WeekID, Day: c.Day, MealType: c.MealType}
}

func (c MacroGroupCoordinates) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.WeekID, c.Day, c.MealType, c.MacroType)
}

// Week resolves a week by id.
func (p *DietPlan) Week(weekID string) (*Week, error) {
	week, ok := p.Weeks[weekID]
	if !ok || week == nil {
		return nil, fmt.Errorf("%w: week %q", ErrInvalidCoordinate, weekID)
	}
	return week, nil
}

// Day resolves a day of a week.
func (p *DietPlan) Day(weekID string, day Day) (*DayPlan, error) {
	week, err := p.Week(weekID)
	if err != nil {
		return nil, err
	}
	dp, ok := week.Days[day]
	if !ok || dp == nil {
		return nil, fmt.Errorf("%w: day %q", ErrInvalidCoordinate, day)
	}
	return dp, nil
}

// Meal resolves a meal.
func (p *DietPlan) Meal(c MealCoordinates) (*Meal, error) {
	dp, err := p.Day(c.WeekID, c.Day)
	if err != nil {
		return nil, err
	}
	meal, ok := dp.Meals[c.MealType]
	if !ok || meal == nil {
		return nil, fmt.Errorf("%w: meal %q", ErrInvalidCoordinate, c.MealType)
	}
	return meal, nil
}

// MacroGroup resolves a macro group.
func (p *DietPlan) MacroGroup(c MacroGroupCoordinates) (*MacroGroup, error) {
	meal, err := p.Meal(c.Meal())
	if err != nil {
		return nil, err
	}
	group := meal.Macro.Group(c.MacroType)
	if group == nil {
		return nil, fmt.Errorf("%w: macro group %q", ErrInvalidCoordinate, c.MacroType)
	}
	return group, nil
}

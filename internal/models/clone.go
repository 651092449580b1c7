package models

// Clone copies the group; the copy shares no slices or pointers with g.
func (g *MacroGroup) Clone() *MacroGroup {
	if g == nil {
		return nil
	}
	c := &MacroGroup{Items: make([]GroupItem, len(g.Items))}
	copy(c.Items, g.Items)
	if g.Baseline != nil {
		c.Baseline = &Baseline{
			FoodItem: g.Baseline.FoodItem.Clone(),
			Qta:      g.Baseline.Qta,
		}
	}
	return c
}

// Clone copies all three groups.
func (s MacroSet) Clone() MacroSet {
	return MacroSet{
		Carbs:    s.Carbs.Clone(),
		Proteins: s.Proteins.Clone(),
		Fats:     s.Fats.Clone(),
	}
}

// Clone copies the whole plan tree.
func (p *DietPlan) Clone() *DietPlan {
	if p == nil {
		return nil
	}
	c := &DietPlan{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		Weeks:     make(map[string]*Week, len(p.Weeks)),
	}
	for weekID, week := range p.Weeks {
		if week == nil {
			continue
		}
		cw := &Week{ID: week.ID, Days: make(map[Day]*DayPlan, len(week.Days))}
		for day, dp := range week.Days {
			if dp == nil {
				continue
			}
			cd := &DayPlan{ID: dp.ID, Day: dp.Day, Meals: make(map[MealType]*Meal, len(dp.Meals))}
			for mealType, meal := range dp.Meals {
				if meal == nil {
					continue
				}
				cd.Meals[mealType] = &Meal{ID: meal.ID, Name: meal.Name, Macro: meal.Macro.Clone()}
			}
			cw.Days[day] = cd
		}
		c.Weeks[weekID] = cw
	}
	return c
}

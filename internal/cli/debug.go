package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/macroplan/internal/models"
)

type InspectCmd struct {
	DBPath   InspectDBPathCmd   `cmd:"" help:"Show database path."`
	DumpPlan InspectDumpPlanCmd `cmd:"" help:"Dump a plan as JSON."`
	DumpDay  InspectDumpDayCmd  `cmd:"" help:"Dump a day breakdown as JSON."`
}

type InspectDBPathCmd struct{}

func (cmd *InspectDBPathCmd) Run(ctx *Context) error {
	return writeJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type InspectDumpPlanCmd struct {
	PlanID string `arg:"" name:"plan" help:"ID of the plan to dump."`
}

func (cmd *InspectDumpPlanCmd) Run(ctx *Context) error {
	plan, err := ctx.Store.GetPlan(context.Background(), cmd.PlanID)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}
	return writeJSON(ctx, plan)
}

type InspectDumpDayCmd struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
	Day    string `arg:"" help:"Day."`
	Week   string `help:"Week ID. Defaults to the plan's first week."`
}

func (cmd *InspectDumpDayCmd) Run(ctx *Context) error {
	s, err := ctx.OpenPlan(context.Background(), cmd.PlanID)
	if err != nil {
		return err
	}
	weekID, err := resolveWeek(s, cmd.Week)
	if err != nil {
		return err
	}
	day, err := models.ParseDay(cmd.Day)
	if err != nil {
		return err
	}
	return writeJSON(ctx, ctx.Aggregator().DayBreakdown(s.Plan(), weekID, day))
}

func writeJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.out(), string(jsonBytes))
	return nil
}

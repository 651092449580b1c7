package main

import (
	"context"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/cli"
	"github.com/julianstephens/macroplan/internal/config"
	"github.com/julianstephens/macroplan/internal/constants"
	"github.com/julianstephens/macroplan/internal/errors"
	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"Database file (*.db or *.json), PostgreSQL connection string, or 'postgres' to use the stored connection. Credentials must NOT be embedded in the connection string." type:"string" env:"MACROPLAN_STORE" default:"${default_config}"`
	Catalog    string `help:"Food catalog file (JSON or TOML). Defaults to the built-in catalog." type:"path" env:"MACROPLAN_CATALOG"`
	Settings   string `help:"Settings file (TOML)." type:"path" env:"MACROPLAN_SETTINGS" default:"${default_settings}"`
	Debug      bool   `help:"Log debug output to stderr." env:"MACROPLAN_DEBUG"`
	BackupKeep int    `help:"Number of automatic backups to keep." default:"${max_backups}"`
	BackupAuto bool   `help:"Back up the database before saving a plan." default:"true" negatable:""`

	Init   cli.InitCmd   `cmd:"" help:"Initialize macroplan storage."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive editor." default:"withargs"`
	Plan   struct {
		Create cli.PlanCreateCmd `cmd:"" help:"Create an empty plan."`
		List   cli.PlanListCmd   `cmd:"" help:"List plans."`
		Show   cli.PlanShowCmd   `cmd:"" help:"Show calories per day and meal."`
		Rename cli.PlanRenameCmd `cmd:"" help:"Rename a plan."`
		Check  cli.PlanCheckCmd  `cmd:"" help:"List food items the catalog cannot resolve."`
	} `cmd:"" help:"Manage diet plans."`
	Day  cli.DayCmd `cmd:"" help:"Show the macro breakdown of a day."`
	Item struct {
		Add    cli.ItemAddCmd    `cmd:"" help:"Add a food item to a macro group."`
		Update cli.ItemUpdateCmd `cmd:"" help:"Change the quantity of a food item."`
		Remove cli.ItemRemoveCmd `cmd:"" help:"Remove a food item from a macro group."`
	} `cmd:"" help:"Edit the food items of a macro group."`
	Baseline struct {
		Set   cli.BaselineSetCmd   `cmd:"" help:"Set the calorie target of a macro group."`
		Clear cli.BaselineClearCmd `cmd:"" help:"Remove the calorie target of a macro group."`
	} `cmd:"" help:"Manage macro group targets."`
	Meal struct {
		Copy cli.MealCopyCmd `cmd:"" help:"Copy a meal into other meals."`
	} `cmd:"" help:"Copy meals."`
	Suggest cli.SuggestCmd `cmd:"" help:"Show how much of each food closes a group's gap."`
	Foods   cli.FoodsCmd   `cmd:"" help:"List the food catalog."`
	Backup  struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability and the stored connection."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Inspect cli.InspectCmd `cmd:"" help:"Inspect stored data for troubleshooting."`
}

func main() {
	settingsPath := config.SettingsPath(os.Args[1:], os.Getenv(constants.EnvSettings), constants.DefaultSettingsPath)

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly diet plan editor with macro targets and portion suggestions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.TOML, settingsPath),
		kong.Vars{
			"version":          constants.Version,
			"default_config":   constants.DefaultConfigPath,
			"default_settings": constants.DefaultSettingsPath,
			"max_backups":      strconv.Itoa(constants.MaxBackups),
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cli.LogDir(CLI.Config),
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "settings", settingsPath)

	items, err := loadCatalog(CLI.Catalog)
	if err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenRepository(CLI.Config, os.Getenv(constants.EnvDBConnection))
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Catalog:    catalog.BuildIndex(items),
		BackupKeep: CLI.BackupKeep,
		AutoBackup: CLI.BackupAuto,
	}

	// Load the store before running the command (init handles its own loading)
	if cli.NeedsStore(ctx.Command()) {
		if err := store.Load(context.Background()); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func loadCatalog(path string) ([]models.FoodItem, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

package constants

const (
	AppName             = "macroplan"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigPath   = "~/.config/macroplan/macroplan.db"
	DefaultSettingsPath = "~/.config/macroplan/config.toml"
	Version             = "v0.3.0"

	// Environment variables
	EnvStore        = "MACROPLAN_STORE"
	EnvCatalog      = "MACROPLAN_CATALOG"
	EnvDebug        = "MACROPLAN_DEBUG"
	EnvSettings     = "MACROPLAN_SETTINGS"
	EnvDBConnection = "MACROPLAN_DB_CONNECTION"
	EnvTestPostgres = "MACROPLAN_TEST_POSTGRES"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "macroplan-"
	BackupFileSuffix = ".db"

	// Log constants
	LogDirName    = "logs"
	LogFileName   = "macroplan.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// DefaultPlanName is used when a plan is created without a name
	DefaultPlanName = "Empty meal plan"

	// Quantity input hints: items measured per piece step by 1 up to 20,
	// gram items by 10 up to 1000.
	PieceQtaStep = 1
	PieceQtaMax  = 20
	GramQtaStep  = 10
	GramQtaMax   = 1000
)

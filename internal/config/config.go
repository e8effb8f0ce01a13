package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Transfer   TransferConfig   `mapstructure:"transfer" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=525600"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// RedisConfig controls the optional simulation cache. When Enabled is false
// the server falls back to an in-process cache.
type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0,lte=15"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gte=0"`
}

// SimulationConfig overrides the kinetic model grid and profile defaults.
type SimulationConfig struct {
	StepHours       float64 `mapstructure:"step_hours" validate:"required,gt=0,lte=24"`
	HorizonHours    float64 `mapstructure:"horizon_hours" validate:"required,gt=0,lte=8760"`
	PatchWearHours  float64 `mapstructure:"patch_wear_hours" validate:"required,gt=0"`
	DefaultWeightKG float64 `mapstructure:"default_weight_kg" validate:"required,gt=0,lte=500"`
}

// TransferConfig contains settings for export/import and backups.
type TransferConfig struct {
	PBKDF2Iterations int `mapstructure:"pbkdf2_iterations" validate:"required,gte=10000"`
	MaxBackups       int `mapstructure:"max_backups" validate:"gte=0"`
}

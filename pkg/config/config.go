package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Org      OrgConfig
	Deadline DeadlineConfig
	Backup   BackupConfig
	Metrics  MetricsConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  time.Duration
	Schema       string
	TimeZone     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// OrgConfig carries organisation-wide scheduling policy.
type OrgConfig struct {
	UTCOffsetHours             int
	PrimaryRegion              string
	HolidayBlocksEmployeeMeals bool
}

// Location returns the fixed organisational timezone.
func (o OrgConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", o.UTCOffsetHours), o.UTCOffsetHours*3600)
}

// TimeZoneName renders the offset as an IANA Etc zone, whose sign is
// inverted: UTC+9 is Etc/GMT-9.
func (o OrgConfig) TimeZoneName() string {
	if o.UTCOffsetHours == 0 {
		return "UTC"
	}
	return fmt.Sprintf("Etc/GMT%+d", -o.UTCOffsetHours)
}

// SlotDeadline holds the cut-off hours of a single meal slot.
type SlotDeadline struct {
	DayOffset int
	SelfHour  int
	AdminHour int
}

// DeadlineConfig configures per-slot editing deadlines.
type DeadlineConfig struct {
	Breakfast SlotDeadline
	Lunch     SlotDeadline
	Dinner    SlotDeadline
}

// BackupConfig controls the daily database snapshot task.
type BackupConfig struct {
	Enabled          bool
	Dir              string
	Retention        time.Duration
	Hour             int
	Minute           int
	Retries          int
	DiscordToken     string
	DiscordChannelID string
}

// ExportConfig tunes report rendering. PDFFont points to a UTF-8 TTF file;
// without it PDF output falls back to the core Helvetica font.
type ExportConfig struct {
	PDFFont string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Path:         v.GetString("DB_PATH"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		BusyTimeout:  parseDuration(v.GetString("DB_BUSY_TIMEOUT"), 5*time.Second),
		Schema:       v.GetString("DB_SCHEMA"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Org = OrgConfig{
		UTCOffsetHours:             v.GetInt("ORG_UTC_OFFSET_HOURS"),
		PrimaryRegion:              v.GetString("PRIMARY_REGION"),
		HolidayBlocksEmployeeMeals: v.GetBool("HOLIDAY_BLOCKS_EMPLOYEE_MEALS"),
	}
	cfg.Database.TimeZone = cfg.Org.TimeZoneName()

	cfg.Deadline = DeadlineConfig{
		Breakfast: SlotDeadline{
			DayOffset: -1,
			SelfHour:  v.GetInt("DEADLINE_BREAKFAST_SELF_HOUR"),
			AdminHour: v.GetInt("DEADLINE_BREAKFAST_ADMIN_HOUR"),
		},
		Lunch: SlotDeadline{
			SelfHour:  v.GetInt("DEADLINE_LUNCH_SELF_HOUR"),
			AdminHour: v.GetInt("DEADLINE_LUNCH_ADMIN_HOUR"),
		},
		Dinner: SlotDeadline{
			SelfHour:  v.GetInt("DEADLINE_DINNER_SELF_HOUR"),
			AdminHour: v.GetInt("DEADLINE_DINNER_ADMIN_HOUR"),
		},
	}

	cfg.Backup = BackupConfig{
		Enabled:          v.GetBool("ENABLE_BACKUP"),
		Dir:              v.GetString("BACKUP_DIR"),
		Retention:        parseDuration(v.GetString("BACKUP_RETENTION"), 7*24*time.Hour),
		Hour:             v.GetInt("BACKUP_HOUR"),
		Minute:           v.GetInt("BACKUP_MINUTE"),
		Retries:          v.GetInt("BACKUP_RETRIES"),
		DiscordToken:     v.GetString("BACKUP_DISCORD_TOKEN"),
		DiscordChannelID: v.GetString("BACKUP_DISCORD_CHANNEL_ID"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Export = ExportConfig{PDFFont: v.GetString("EXPORT_PDF_FONT")}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Org.UTCOffsetHours < -12 || c.Org.UTCOffsetHours > 14 {
		return fmt.Errorf("ORG_UTC_OFFSET_HOURS out of range: %d", c.Org.UTCOffsetHours)
	}
	slots := map[string]SlotDeadline{
		"breakfast": c.Deadline.Breakfast,
		"lunch":     c.Deadline.Lunch,
		"dinner":    c.Deadline.Dinner,
	}
	for name, slot := range slots {
		if slot.SelfHour < 0 || slot.SelfHour > 23 || slot.AdminHour < 0 || slot.AdminHour > 23 {
			return fmt.Errorf("%s deadline hours must be within 0..23", name)
		}
		if slot.AdminHour < slot.SelfHour {
			return fmt.Errorf("%s admin deadline precedes self-service deadline", name)
		}
	}
	if c.Backup.Hour < 0 || c.Backup.Hour > 23 || c.Backup.Minute < 0 || c.Backup.Minute > 59 {
		return fmt.Errorf("invalid backup time %02d:%02d", c.Backup.Hour, c.Backup.Minute)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "db.sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "meals")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_BUSY_TIMEOUT", "5s")
	v.SetDefault("DB_SCHEMA", "public")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ORG_UTC_OFFSET_HOURS", 9)
	v.SetDefault("PRIMARY_REGION", "EcoCenter")
	v.SetDefault("HOLIDAY_BLOCKS_EMPLOYEE_MEALS", false)

	v.SetDefault("DEADLINE_BREAKFAST_SELF_HOUR", 15)
	v.SetDefault("DEADLINE_BREAKFAST_ADMIN_HOUR", 20)
	v.SetDefault("DEADLINE_LUNCH_SELF_HOUR", 10)
	v.SetDefault("DEADLINE_LUNCH_ADMIN_HOUR", 12)
	v.SetDefault("DEADLINE_DINNER_SELF_HOUR", 15)
	v.SetDefault("DEADLINE_DINNER_ADMIN_HOUR", 17)

	v.SetDefault("ENABLE_BACKUP", true)
	v.SetDefault("BACKUP_DIR", "./backups")
	v.SetDefault("BACKUP_RETENTION", "168h")
	v.SetDefault("BACKUP_HOUR", 0)
	v.SetDefault("BACKUP_MINUTE", 0)
	v.SetDefault("BACKUP_RETRIES", 3)
	v.SetDefault("BACKUP_DISCORD_TOKEN", "")
	v.SetDefault("BACKUP_DISCORD_CHANNEL_ID", "")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("EXPORT_PDF_FONT", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

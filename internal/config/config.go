// Package config loads rsview settings from rsview.cfg.json, RSVIEW_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rsview/rsview/internal/database"
	"github.com/rsview/rsview/internal/display/websocket"
	"github.com/rsview/rsview/internal/influx"
	"github.com/rsview/rsview/internal/table"
	"github.com/rsview/rsview/pkg/core"
)

// FileName is the config file looked up in the config directory.
const FileName = "rsview.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the in-memory SQLite backend.
type SQLiteConfig struct {
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// StorageConfig selects and configures the run storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// APIConfig points at the review server receiving exported overlays.
type APIConfig struct {
	ServerURL string
	APIKey    string
}

// Enabled reports whether uploads are configured.
func (c APIConfig) Enabled() bool { return c.ServerURL != "" }

// WatchConfig controls the table watcher.
type WatchConfig struct {
	Debounce time.Duration
}

// GraylogConfig controls the GELF log sink.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// returned as an error; defaults remain in effect.
func Load(configDir string) error {
	d := core.DefaultSettings()
	viper.SetDefault("settings.pixelSize", d.PixelSizeNm)
	viper.SetDefault("settings.xColumn", d.XColumn)
	viper.SetDefault("settings.yColumn", d.YColumn)
	viper.SetDefault("settings.tColumn", d.TColumn)
	viper.SetDefault("settings.startFrame", d.StartFrame)
	viper.SetDefault("settings.markerSize", d.MarkerSize)
	viper.SetDefault("settings.form", d.Form.String())

	dialect := table.DefaultDialect()
	viper.SetDefault("table.delimiter", dialect.Delimiter)
	viper.SetDefault("table.commentPrefix", dialect.CommentPrefix)

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.memory.outputDir", "./overlays")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "rsview")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "rsview")
	viper.SetDefault("influx.bucket", "overlay")
	viper.SetDefault("influx.backupPath", "./rsview_influx_backup.lp.gz")

	viper.SetDefault("liveview.url", "")
	viper.SetDefault("liveview.token", "")
	viper.SetDefault("liveview.ackTimeout", "10s")

	viper.SetDefault("api.serverUrl", "")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("watch.debounce", "500ms")

	viper.SetEnvPrefix("RSVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// flagKeys maps run-settings flags to their config keys.
var flagKeys = []struct {
	flag, key string
}{
	{"pixel-size", "settings.pixelSize"},
	{"x-column", "settings.xColumn"},
	{"y-column", "settings.yColumn"},
	{"t-column", "settings.tColumn"},
	{"start-frame", "settings.startFrame"},
	{"marker-size", "settings.markerSize"},
	{"form", "settings.form"},
}

// RegisterFlags defines the run-settings flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := core.DefaultSettings()
	fs.Float64("pixel-size", d.PixelSizeNm, "Pixel size [nm]")
	fs.Int("x-column", d.XColumn, "Column with X values")
	fs.Int("y-column", d.YColumn, "Column with Y values")
	fs.Int("t-column", d.TColumn, "Column with t values")
	fs.Int("start-frame", d.StartFrame, "Start loading localizations at frame")
	fs.Float64("marker-size", d.MarkerSize, "Width/Height of overlay [px]")
	fs.String("form", d.Form.String(), "Form (Square or Oval)")
}

// BindFlags binds the flags defined by RegisterFlags so that explicitly set
// flags override the config file.
func BindFlags(fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			return fmt.Errorf("flag --%s not registered", fk.flag)
		}
		if err := viper.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", fk.flag, err)
		}
	}
	return nil
}

// GetSettings returns the validated run settings.
func GetSettings() (core.Settings, error) {
	form, err := core.ParseForm(viper.GetString("settings.form"))
	if err != nil {
		return core.Settings{}, err
	}
	s := core.Settings{
		PixelSizeNm: viper.GetFloat64("settings.pixelSize"),
		XColumn:     viper.GetInt("settings.xColumn"),
		YColumn:     viper.GetInt("settings.yColumn"),
		TColumn:     viper.GetInt("settings.tColumn"),
		StartFrame:  viper.GetInt("settings.startFrame"),
		MarkerSize:  viper.GetFloat64("settings.markerSize"),
		Form:        form,
	}
	if err := s.Validate(); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

// GetDialect returns the table dialect.
func GetDialect() table.Dialect {
	return table.Dialect{
		Delimiter:     viper.GetString("table.delimiter"),
		CommentPrefix: viper.GetString("table.commentPrefix"),
	}
}

// GetStorageConfig returns storage configuration.
func GetStorageConfig() (StorageConfig, error) {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return cfg, fmt.Errorf("reading storage config: %w", err)
	}
	return cfg, nil
}

// GetDatabaseConfig returns the PostgreSQL connection settings.
func GetDatabaseConfig() database.Config {
	return database.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetWebsocketConfig returns the live-view connection settings. An empty URL
// disables the live view.
func GetWebsocketConfig() websocket.Config {
	return websocket.Config{
		URL:        viper.GetString("liveview.url"),
		Token:      viper.GetString("liveview.token"),
		AckTimeout: viper.GetDuration("liveview.ackTimeout"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() influx.Config {
	return influx.Config{
		Enabled:    viper.GetBool("influx.enabled"),
		Protocol:   viper.GetString("influx.protocol"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetAPIConfig returns the review server settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
	}
}

// GetWatchConfig returns the table watcher settings.
func GetWatchConfig() WatchConfig {
	d := viper.GetDuration("watch.debounce")
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	return WatchConfig{Debounce: d}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

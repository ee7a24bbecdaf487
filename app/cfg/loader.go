package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

const envFile = ".env"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type serveCommand struct{}

type importCommand struct {
	Feeds           []string `long:"feed" env:"IMPORT_FEEDS" env-delim:"," description:"Feed URL to import (repeatable)"`
	FeedsDir        string   `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed configuration files"`
	FromDir         string   `long:"from-dir" env:"IMPORT_FROM_DIR" description:"Articles directory to copy into the database"`
	DefaultCategory string   `long:"default-category" env:"DEFAULT_CATEGORY" default:"programming" description:"Category for feed items without a known category"`
	FetchContent    bool     `long:"fetch-content" env:"FETCH_CONTENT" description:"Extract content from the linked page of each feed item"`
	Timeout         int      `long:"timeout" env:"IMPORT_TIMEOUT" default:"30" description:"HTTP timeout in seconds for each request; feed tasks get one timeout per request they make"`
	Workers         int      `long:"workers" env:"IMPORT_WORKERS" default:"4" description:"Number of import workers"`
}

type rawCfg struct {
	// Site configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseURL        string `long:"base-url" env:"BASE_URL" description:"Public base URL of the blog (e.g., https://blog.example.com)"`
	SiteTitle      string `long:"site-title" env:"SITE_TITLE" default:"MyLog" description:"Site title"`
	ArticlesDir    string `long:"articles-dir" env:"ARTICLES_DIR" default:"./articles" description:"Directory containing article files"`
	CategoriesFile string `long:"categories-file" env:"CATEGORIES_FILE" description:"YAML file overriding the category table"`
	DBPath         string `long:"db-path" env:"DB_PATH" description:"SQLite database path"`
	Source         string `long:"source" env:"SOURCE" default:"auto" choice:"auto" choice:"files" choice:"sqlite" choice:"embedded" description:"Where articles are loaded from"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"MyLog/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Serve  serveCommand  `command:"serve" description:"Serve the blog (default)"`
	Import importCommand `command:"import" description:"Import articles from feeds or a directory into the SQLite database"`
}

// Load reads configuration from .env, the environment and os.Args. It
// returns nil without error when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("failed to parse configuration: unexpected arguments: %s", strings.Join(rest, " "))
	}

	command := CommandServe
	if parser.Active != nil {
		command = parser.Active.Name
	}

	cfg := &Cfg{
		Command:        command,
		Port:           raw.Port,
		BaseURL:        strings.TrimSuffix(cmp.Or(raw.BaseURL, "http://localhost:"+raw.Port), "/"),
		SiteTitle:      raw.SiteTitle,
		ArticlesDir:    raw.ArticlesDir,
		CategoriesFile: raw.CategoriesFile,
		DBPath:         raw.DBPath,
		Source:         raw.Source,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
		Import: ImportCfg{
			Feeds:           raw.Import.Feeds,
			FeedsDir:        raw.Import.FeedsDir,
			FromDir:         raw.Import.FromDir,
			DefaultCategory: raw.Import.DefaultCategory,
			FetchContent:    raw.Import.FetchContent,
			Timeout:         raw.Import.Timeout,
			Workers:         raw.Import.Workers,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.Source == "sqlite" && cfg.DBPath == "" {
		return fmt.Errorf("--db-path is required for the sqlite source")
	}

	if cfg.Command == CommandImport {
		if cfg.DBPath == "" {
			return fmt.Errorf("--db-path is required for import")
		}
		if cfg.Import.Timeout < 0 {
			return fmt.Errorf("timeout must be non-negative")
		}
		if cfg.Import.Workers < 1 {
			return fmt.Errorf("workers must be at least 1")
		}
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}

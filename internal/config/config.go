package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprintlens/sprintlens/pkg/types"
)

// Config is the full runtime configuration shared by the one-shot CLI
// and the daemon
type Config struct {
	Jira   JiraConfig   `yaml:"jira"`
	Filter FilterConfig `yaml:"filter"`
	GitHub GitHubConfig `yaml:"github"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Report ReportConfig `yaml:"report"`
	Server ServerConfig `yaml:"server"`
}

// JiraConfig locates the tracker and scopes the analysis
type JiraConfig struct {
	BaseURL       string   `yaml:"base_url"`
	Username      string   `yaml:"username"`
	APIToken      string   `yaml:"api_token"`
	Projects      []string `yaml:"projects"`
	ScrumBoardIDs []int    `yaml:"scrum_board_ids"`
}

// DateRangeConfig is the file form of the sprint date-range filter.
// Dates accept YYYY-MM-DD or RFC3339; an empty end of an enabled range
// means "up to now".
type DateRangeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// FilterConfig is the file form of the sprint filter
type FilterConfig struct {
	DateRange        DateRangeConfig `yaml:"date_range"`
	SprintStates     []string        `yaml:"sprint_states"`
	SprintIDs        []int           `yaml:"sprint_ids"`
	IncludeNoEndDate bool            `yaml:"include_no_end_date"`
}

// GitHubConfig enables the code-activity collaborator when both the
// token and at least one repository are set
type GitHubConfig struct {
	Token string   `yaml:"token"`
	Repos []string `yaml:"repos"`
}

// OpenAIConfig enables the executive summary when the API key is set
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ReportConfig controls where rendered reports are written
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// ServerConfig configures the daemon's HTTP listener and schedule
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Schedule string `yaml:"schedule"`
	Timezone string `yaml:"timezone"`
}

// Load reads the configuration file when present, applies environment
// overrides and fills defaults. A missing file is not an error so that
// env-only deployments work.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// env-only configuration
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	envOverride(&cfg.Jira.BaseURL, "JIRA_BASE_URL")
	envOverride(&cfg.Jira.Username, "JIRA_USERNAME")
	envOverride(&cfg.Jira.APIToken, "JIRA_API_TOKEN")
	envOverrideList(&cfg.Jira.Projects, "JIRA_PROJECTS")
	envOverride(&cfg.GitHub.Token, "GITHUB_TOKEN")
	envOverrideList(&cfg.GitHub.Repos, "GITHUB_REPOS")
	envOverride(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	envOverride(&cfg.OpenAI.Model, "OPENAI_MODEL")
	envOverride(&cfg.Report.OutputDir, "SPRINTLENS_OUTPUT_DIR")
	envOverride(&cfg.Server.Addr, "SPRINTLENS_ADDR")
	envOverride(&cfg.Server.Schedule, "SPRINTLENS_SCHEDULE")
	envOverride(&cfg.Server.Timezone, "SPRINTLENS_TIMEZONE")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Schedule == "" {
		cfg.Server.Schedule = "0 8 * * 1"
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}
}

// Validate reports configuration errors. Both binaries call this before
// creating any client so that bad configuration aborts startup.
func (c Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return errors.New("jira.base_url is required")
	}
	if c.Jira.Username == "" {
		return errors.New("jira.username is required")
	}
	if c.Jira.APIToken == "" {
		return errors.New("jira.api_token is required")
	}
	if len(c.Jira.Projects) == 0 {
		return errors.New("jira.projects must name at least one project")
	}
	if len(c.Jira.ScrumBoardIDs) == 0 {
		return errors.New("jira.scrum_board_ids must name at least one board")
	}
	if len(c.GitHub.Repos) > 0 && c.GitHub.Token == "" {
		return errors.New("github.token is required when github.repos is set")
	}

	filter, err := c.SprintFilter()
	if err != nil {
		return err
	}
	return filter.Validate()
}

// SprintFilter converts the file form into the domain filter. The end
// of an enabled range defaults to the current time.
func (c Config) SprintFilter() (types.SprintFilter, error) {
	filter := types.SprintFilter{
		States:           c.Filter.SprintStates,
		SprintIDs:        c.Filter.SprintIDs,
		IncludeNoEndDate: c.Filter.IncludeNoEndDate,
	}
	if !c.Filter.DateRange.Enabled {
		return filter, nil
	}

	start, err := parseDate(c.Filter.DateRange.Start)
	if err != nil {
		return types.SprintFilter{}, fmt.Errorf("invalid filter.date_range.start: %w", err)
	}

	end := time.Now().UTC()
	if c.Filter.DateRange.End != "" {
		end, err = parseDate(c.Filter.DateRange.End)
		if err != nil {
			return types.SprintFilter{}, fmt.Errorf("invalid filter.date_range.end: %w", err)
		}
	}

	filter.DateRange = types.DateRange{Enabled: true, Start: start, End: end}
	return filter, nil
}

// CodeActivityEnabled reports whether merged pull requests should be
// collected
func (c Config) CodeActivityEnabled() bool {
	return c.GitHub.Token != "" && len(c.GitHub.Repos) > 0
}

// SummaryEnabled reports whether the executive summary should be
// generated
func (c Config) SummaryEnabled() bool {
	return c.OpenAI.APIKey != ""
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or RFC3339)", s)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideList(field *[]string, envKey string) {
	val := os.Getenv(envKey)
	if val == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	*field = items
}

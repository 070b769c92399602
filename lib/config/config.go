package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"ironman-results/lib/configutil"
	"ironman-results/lib/ironman"
)

const FileName = "ironman.json5"

type Config struct {
	ResultsDir     string   `json:"results_dir"`
	SlotsFile      string   `json:"slots_file"`
	AgeGroups      []string `json:"age_groups"`
	BaseUrl        string   `json:"base_url"`
	ResultsApi     string   `json:"results_api"`
	EventsUrl      string   `json:"events_url"`
	QualifyingUrls []string `json:"qualifying_urls"`
	UserAgent      string   `json:"user_agent"`
	RequestDelayMs int      `json:"request_delay_ms"`
	RetryCount     int      `json:"retry_count"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	// when set, every http exchange of the scraper is written into this directory
	DumpHttpDir string `json:"dump_http_dir"`
}

func Default() Config {
	return Config{
		ResultsDir: "results",
		SlotsFile:  "qualifying_slots.json",
		AgeGroups:  ironman.DefaultAgeGroups,
		BaseUrl:    "https://www.ironman.com",
		ResultsApi: "https://labs-v2.competitor.com/api/results",
		EventsUrl:  "https://labs-v2.competitor.com/results/event",
		QualifyingUrls: []string{
			"https://www.ironman.com/races/im-world-championship-kona/qualifying-events-2025",
			"https://www.ironman.com/races/im703-world-championship-2025/qualfying-events-2025",
		},
		UserAgent:      "Mozilla/5.0 (compatible; IRONMANResultsBot/1.0; +https://www.ironman.com)",
		RequestDelayMs: 1500,
		RetryCount:     3,
		TimeoutSeconds: 30,
	}
}

func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the nearest ironman.json5 (plus its .local override) and fills
// everything it leaves out with the defaults.
func Load() (Config, error) {
	cfg, path, err := configutil.ReadRecursively[Config](FileName)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "name", FileName)
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	slog.Debug("loaded config", "path", path)
	return configutil.WithDefaults(cfg, Default())
}

// LoadFile is Load with an explicit path.
func LoadFile(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, Default())
}

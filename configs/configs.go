package configs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBackendURL   = "http://localhost:8000"
	DefaultStartURL     = "https://x.com/explore"
	DefaultMinPosts     = 50
	DefaultMaxScrolls   = 10
	DefaultScrollStep   = 800
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "mistral"
	DefaultKeywordsFile = "keywords.txt"
	DefaultDataDir      = "data"
)

var (
	mu       sync.RWMutex
	headless = true
	binPath  string
)

// InitHeadless 设置浏览器是否以无头模式启动
func InitHeadless(h bool) {
	mu.Lock()
	defer mu.Unlock()
	headless = h
}

func IsHeadless() bool {
	mu.RLock()
	defer mu.RUnlock()
	return headless
}

func SetBinPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	binPath = p
}

func GetBinPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return binPath
}

// Config holds everything the runner, the backend service and the CLI read
// from the environment.
type Config struct {
	BackendURL   string
	MyHandle     string
	StartURL     string
	MinPosts     int
	MaxScrolls   int
	ScrollStep   int
	Shuffle      bool
	DataDir      string
	KeywordsFile string
	OllamaURL    string
	OllamaModel  string
	ReplyEmail   string
	LogLevel     string
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		BackendURL:   DefaultBackendURL,
		StartURL:     DefaultStartURL,
		MinPosts:     DefaultMinPosts,
		MaxScrolls:   DefaultMaxScrolls,
		ScrollStep:   DefaultScrollStep,
		DataDir:      DefaultDataDir,
		KeywordsFile: DefaultKeywordsFile,
		OllamaURL:    DefaultOllamaURL,
		OllamaModel:  DefaultOllamaModel,
		LogLevel:     "info",
	}
}

// Load reads an optional .env file and then applies SMARTX_* overrides.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to load .env: %v", err)
	}

	cfg := Default()
	cfg.loadFromEnv()
	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SMARTX_BACKEND_URL"); val != "" {
		c.BackendURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("SMARTX_MY_HANDLE"); val != "" {
		c.MyHandle = val
	}
	if val := os.Getenv("SMARTX_START_URL"); val != "" {
		c.StartURL = val
	}
	if val := os.Getenv("SMARTX_MIN_POSTS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.MinPosts = v
		}
	}
	if val := os.Getenv("SMARTX_MAX_SCROLLS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.MaxScrolls = v
		}
	}
	if val := os.Getenv("SMARTX_SCROLL_STEP"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.ScrollStep = v
		}
	}
	if val := os.Getenv("SMARTX_SHUFFLE"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.Shuffle = v
		}
	}
	if val := os.Getenv("SMARTX_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("SMARTX_KEYWORDS_FILE"); val != "" {
		c.KeywordsFile = val
	}
	if val := os.Getenv("SMARTX_OLLAMA_URL"); val != "" {
		c.OllamaURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("SMARTX_OLLAMA_MODEL"); val != "" {
		c.OllamaModel = val
	}
	if val := os.Getenv("SMARTX_REPLY_EMAIL"); val != "" {
		c.ReplyEmail = val
	}
	if val := os.Getenv("SMARTX_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// DBPath is where the backend keeps processed ids and saved settings.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "smartxbot.db")
}

// ApplyLogLevel configures the global logrus level; unknown levels keep info.
func (c *Config) ApplyLogLevel() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

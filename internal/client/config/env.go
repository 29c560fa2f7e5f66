package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/swipecatalog/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CATALOG"

// envConfig mirrors Config for envconfig. Unset variables keep the value the
// struct was seeded with.
type envConfig struct {
	APIBaseURL          string        `envconfig:"API_BASE_URL"`
	DataDir             string        `envconfig:"DATA_DIR"`
	StoreBackend        string        `envconfig:"STORE_BACKEND"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`
	ProbeTimeout        time.Duration `envconfig:"PROBE_TIMEOUT"`
	ImageCacheSize      int           `envconfig:"IMAGE_CACHE_SIZE"`
	UploadWorkers       int           `envconfig:"UPLOAD_WORKERS"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	LogFile             string        `envconfig:"LOG_FILE"`
}

// parseEnv loads the dotenv file named by -e or -env (or ./.env when it
// exists) and overlays CATALOG_* variables. It panics on malformed input.
// Variables already set in the process environment win over the file.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlag()
	if envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			envFile = ".env"
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	ec := envConfig(*cfg)
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}
	*cfg = Config(ec)
}

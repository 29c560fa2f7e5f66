// Package config loads runtime configuration for the catalog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment (see parseEnv): a dotenv file selected via -e or -env
//     (".env" when present otherwise), then CATALOG_* variables.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the catalog API
//	-d string   directory for local data
//	-s string   local store backend: file, sqlite or bolt
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://app.getswipe.in",
//	  "data_dir": "~/.swipecatalog",
//	  "store_backend": "sqlite",
//	  "online_check_interval": "3s",
//	  "probe_timeout": "2s",
//	  "image_cache_size": 128,
//	  "upload_workers": 4,
//	  "log_level": "info",
//	  "log_file": "catalog.log"
//	}
//
// # Environment
//
//	CATALOG_API_BASE_URL, CATALOG_DATA_DIR, CATALOG_STORE_BACKEND,
//	CATALOG_ONLINE_CHECK_INTERVAL, CATALOG_PROBE_TIMEOUT,
//	CATALOG_IMAGE_CACHE_SIZE, CATALOG_UPLOAD_WORKERS,
//	CATALOG_LOG_LEVEL, CATALOG_LOG_FILE
package config

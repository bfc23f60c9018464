// Package config loads runtime configuration for the library console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or LIBADMIN_CONFIG.
//  3. Environment variables with the LIBADMIN_ prefix, after a .env file in
//     the working directory has been merged in.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL, e.g. http://127.0.0.1:8080/api
//	-t int      request timeout (seconds)
//	-s string   path of the local session store
//	-l string   log level: debug|info|warn|error
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://library.school.local/api",
//	  "request_timeout": "10s",
//	  "store_path": "libadmin.db",
//	  "retries": 0,
//	  "max_rps": 0,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "report_dir": "reports",
//	  "s3_bucket": "library-reports",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123"
//	}
package config

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: memory, sqlite or postgres (default: sqlite)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required unless memory)
  - AccountKeySalt: Secret for account key HMAC (required)
  - RedisURL: Redis server for call events (optional; events are logged without it)
  - EventChannel: Redis channel name (default: pollchain:events)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  Database type
	--account-salt       Account key salt
	--redis-url          Redis URL
	--event-channel      Redis channel
	--log-level          Log level

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	ACCOUNT_KEY_SALT → --account-salt
	REDIS_URL        → --redis-url
	EVENT_CHANNEL    → --event-channel
	LOG_LEVEL        → --log-level

CLI flags take precedence over environment variables, and real environment
variables take precedence over a .env file.
*/
package cliparse

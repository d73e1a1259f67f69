// Package config provides configuration loading and defaults for usermanual.
package config

import "time"

// DefaultConfigDir is the default location for usermanual configuration.
const DefaultConfigDir = "~/.config/usermanual"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "usermanual.db"

// DefaultLanguage is the assessment language when none is configured.
const DefaultLanguage = "en"

// EnvPrefix prefixes environment overrides, e.g. USERMANUAL_LANGUAGE.
const EnvPrefix = "USERMANUAL"

// DefaultStore selects the embedded SQLite store.
var DefaultStore = Store{
	Driver:        "sqlite",
	MongoDatabase: "usermanual",
}

// DefaultCache leaves Redis disabled; analyses are cached for an hour when
// an address is configured.
var DefaultCache = Cache{
	TTL: time.Hour,
}

// DefaultNarrative holds the narrative generation defaults.
var DefaultNarrative = Narrative{
	Model:          "gemini-2.5-flash",
	Concurrency:    3,
	ChapterTimeout: 90 * time.Second,
}

// DefaultServer listens on localhost only.
var DefaultServer = Server{
	Addr:     "127.0.0.1:8080",
	TokenTTL: 24 * time.Hour,
}

// DefaultOutput defines the default output settings.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLogLevel is the zap level used unless --verbose is set.
const DefaultLogLevel = "warn"

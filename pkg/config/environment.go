package config

const (
	// EnvLeafstoreRoot overrides the directory that all segment paths are resolved under.
	// Relative values are taken relative to the working directory.
	EnvLeafstoreRoot = "LEAFSTORE_ROOT"
	// EnvLeafstoreLogLevel sets the log threshold, by name ("warn") or ordinal ("3").
	EnvLeafstoreLogLevel = "LEAFSTORE_LOG_LEVEL"
	// EnvLeafstoreLogMode selects the log sink.  Only "console" is supported.
	EnvLeafstoreLogMode = "LEAFSTORE_LOG_MODE"
)

// NOTE: keep this up to date or the config loader won't load them
var envKeys = []string{
	EnvLeafstoreRoot,
	EnvLeafstoreLogLevel,
	EnvLeafstoreLogMode,
}

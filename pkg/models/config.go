package models

// Config is the on-disk connection profile for tabload
type Config struct {
	Snowflake Snowflake `yaml:"snowflake"`
	Ingest    Ingest    `yaml:"ingest"`
	LogFile   string    `yaml:"log_file"`
}

// Snowflake holds destination connection settings
type Snowflake struct {
	Account   string `yaml:"account"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"` // empty means resolve via keyring or environment
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
}

// Ingest holds defaults for ingestion runs; flags override these per run
type Ingest struct {
	BatchSize     int    `yaml:"batch_size"`
	SampleRows    int    `yaml:"sample_rows"`
	VarcharLength string `yaml:"varchar_length"` // numeric string or "max"
	TimeoutSecs   int    `yaml:"timeout_seconds"`
}

// DefaultIngest returns the built-in ingestion defaults
func DefaultIngest() Ingest {
	return Ingest{
		BatchSize:     5000,
		SampleRows:    1000,
		VarcharLength: "255",
		TimeoutSecs:   0,
	}
}

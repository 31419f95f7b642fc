package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of keys per bulk statement.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLoadSourceFile sets the path to the staged-record file.
func OptLoadSourceFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Load Source File", s) {
			c.Load.SourceFile = s
		}
	}
}

// OptLoadStaleDeletePercent sets the safety valve for stale
// cross-reference deletion.
func OptLoadStaleDeletePercent(i int) Option {
	return func(c *Config) {
		if isValidPercent("Load Stale Delete Percent", i) {
			c.Load.StaleDeletePercent = i
		}
	}
}

// OptAnnotateCreatedBy sets the curator id of generated annotations.
func OptAnnotateCreatedBy(i int) Option {
	return func(c *Config) {
		if isValidInt("Annotate Created By", i) {
			c.Annotate.CreatedBy = i
		}
	}
}

// OptAnnotateRefID sets the reference id of generated annotations.
func OptAnnotateRefID(i int) Option {
	return func(c *Config) {
		if isValidInt("Annotate Ref ID", i) {
			c.Annotate.RefID = i
		}
	}
}

// OptAnnotateDataSource sets the data source of generated annotations.
func OptAnnotateDataSource(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Annotate Data Source", s) {
			c.Annotate.DataSource = s
		}
	}
}

// OptAnnotateEvidence sets the evidence code of variant annotations.
func OptAnnotateEvidence(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)
	return func(c *Config) {
		if isValidString("Annotate Evidence", s) {
			c.Annotate.Evidence = s
		}
	}
}

// OptAnnotateStaleDeletePercent sets the safety valve for stale
// annotation deletion.
func OptAnnotateStaleDeletePercent(i int) Option {
	return func(c *Config) {
		if isValidPercent("Annotate Stale Delete Percent", i) {
			c.Annotate.StaleDeletePercent = i
		}
	}
}

// OptAnnotateVariantTypes sets variant types eligible for annotation.
func OptAnnotateVariantTypes(ss []string) Option {
	ss = cleanList(ss)
	return func(c *Config) {
		if len(ss) > 0 {
			c.Annotate.VariantTypes = ss
		}
	}
}

// OptAnnotateExcludedSignificance sets clinical significance values
// that disqualify variants from annotation.
func OptAnnotateExcludedSignificance(ss []string) Option {
	ss = cleanList(ss)
	return func(c *Config) {
		if len(ss) > 0 {
			c.Annotate.ExcludedSignificance = ss
		}
	}
}

// OptAnnotateExcludedConditions sets condition names that never
// produce annotations.
// Runtime-only field - not in ToOptions().
func OptAnnotateExcludedConditions(ss []string) Option {
	ss = cleanList(ss)
	return func(c *Config) {
		c.Annotate.ExcludedConditions = ss
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func cleanList(ss []string) []string {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

/*
Copyright © 2026 Rat Genome Database, Medical College of Wisconsin

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iofs"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iologger"
	clinvar "github.com/rat-genome-database/clinvar-pipeline/pkg"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", clinvar.Version, clinvar.Build),
		Use:     "clinvar",
		Short:   "Clinvar reconciles ClinVar variants with the RGD database",
		Long: `Clinvar loads ClinVar submissions into a PostgreSQL database of
variants and generates disease and phenotype annotations for them.

The pipeline provides these phases:
  - create: Schema Management, create tables and indexes
  - migrate: Schema Management, update tables to the latest version
  - load: Variant Reconciliation of a staged-record file
  - annotate: Annotation of variants and their genes with RDO and HP terms
  - check-terms: report ambiguous names of an ontology

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (CLINVAR_*)
  3. Config file (~/.config/clinvar-pipeline/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → CLINVAR_DATABASE_HOST).

  Examples:
    CLINVAR_DATABASE_HOST           PostgreSQL host
    CLINVAR_DATABASE_PASSWORD       PostgreSQL password
    CLINVAR_LOAD_SOURCE_FILE        staged-record SQLite file
    CLINVAR_JOBS_NUMBER             number of workers`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "clinvar version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for clinvar")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getLoadCmd(),
		getAnnotateCmd(),
		getCheckTermsCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureExclusionsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	exclusions, err := iofs.LoadExclusions(homeDir)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// runtime-only fields
	cfg.Update([]config.Option{
		config.OptHomeDir(homeDir),
		config.OptAnnotateExcludedConditions(exclusions),
	})

	// Reconfigure logging with user's settings, keeping records of the
	// first initialization
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"excluded_conditions", len(exclusions),
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute builds the root command and runs it. This is called by
// main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("CLINVAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "CLINVAR_DATABASE_HOST")
	v.BindEnv("database.port", "CLINVAR_DATABASE_PORT")
	v.BindEnv("database.user", "CLINVAR_DATABASE_USER")
	v.BindEnv("database.password", "CLINVAR_DATABASE_PASSWORD")
	v.BindEnv("database.database", "CLINVAR_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "CLINVAR_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "CLINVAR_DATABASE_BATCH_SIZE")

	// Load configuration
	v.BindEnv("load.source_file", "CLINVAR_LOAD_SOURCE_FILE")
	v.BindEnv("load.stale_delete_percent", "CLINVAR_LOAD_STALE_DELETE_PERCENT")

	// Annotate configuration
	v.BindEnv("annotate.created_by", "CLINVAR_ANNOTATE_CREATED_BY")
	v.BindEnv("annotate.ref_id", "CLINVAR_ANNOTATE_REF_ID")
	v.BindEnv("annotate.data_source", "CLINVAR_ANNOTATE_DATA_SOURCE")
	v.BindEnv("annotate.evidence", "CLINVAR_ANNOTATE_EVIDENCE")
	v.BindEnv("annotate.stale_delete_percent", "CLINVAR_ANNOTATE_STALE_DELETE_PERCENT")

	// Log configuration
	v.BindEnv("log.level", "CLINVAR_LOG_LEVEL")
	v.BindEnv("log.format", "CLINVAR_LOG_FORMAT")
	v.BindEnv("log.destination", "CLINVAR_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "CLINVAR_JOBS_NUMBER")

	v.AutomaticEnv()
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabload/internal/config"
	"tabload/internal/infer"
	"tabload/internal/loader"
	"tabload/internal/runlog"
	"tabload/internal/schema"
	"tabload/internal/security"
	"tabload/internal/snowflake"
	"tabload/internal/source"
	"tabload/internal/ui"
	"tabload/pkg/errors"
	"tabload/pkg/models"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Bulk-load a CSV or Excel file into a Snowflake table",
	Long: `Infer a schema from sample rows, create or reuse the destination table,
and stream the file into it in bounded batches.

The destination is a dotted identifier: schema.table, database.schema.table,
or account.database.schema.table. An existing table is appended to as-is;
--force drops and recreates it from the inferred schema.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	registerIngestFlags(ingestCmd)
}

func registerIngestFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Path to the source .csv, .txt, .xlsx, or .xlsm file")
	cmd.Flags().String("destination", "", "Destination table as [account.][database.]schema.table")
	cmd.Flags().Int("batch-size", 5000, "Rows per bulk-write batch")
	cmd.Flags().String("varchar-length", "255", "Length for inferred text columns, or \"max\"")
	cmd.Flags().Int("timeout-seconds", 0, "Per-operation destination timeout; 0 means no timeout")
	cmd.Flags().Int("sample-rows", 1000, "Rows examined for type inference")
	cmd.Flags().String("sheet", "", "Sheet name for spreadsheet sources; first sheet when empty")
	cmd.Flags().Bool("force", false, "Drop and recreate an existing destination table")
	cmd.Flags().Bool("debug", false, "Print the inferred schema and generated DDL")
	cmd.Flags().String("log-file", "", "Append a timestamped run log to this path")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("destination")
}

// ingestOptions is the merged, validated configuration for one run; it is
// passed by value so no component reads ambient state
type ingestOptions struct {
	sourcePath    string
	sheet         string
	destination   models.Destination
	batchSize     int
	varcharLength string
	timeout       time.Duration
	sampleRows    int
	force         bool
	debug         bool
	logFile       string
}

func collectOptions(cmd *cobra.Command, cfg *models.Config) (ingestOptions, error) {
	flags := cmd.Flags()

	opts := ingestOptions{
		batchSize:     cfg.Ingest.BatchSize,
		varcharLength: cfg.Ingest.VarcharLength,
		timeout:       time.Duration(cfg.Ingest.TimeoutSecs) * time.Second,
		sampleRows:    cfg.Ingest.SampleRows,
		logFile:       cfg.LogFile,
	}

	opts.sourcePath, _ = flags.GetString("source")
	opts.sheet, _ = flags.GetString("sheet")
	opts.force, _ = flags.GetBool("force")
	opts.debug, _ = flags.GetBool("debug")

	if flags.Changed("batch-size") {
		opts.batchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("varchar-length") {
		opts.varcharLength, _ = flags.GetString("varchar-length")
	}
	if flags.Changed("timeout-seconds") {
		seconds, _ := flags.GetInt("timeout-seconds")
		opts.timeout = time.Duration(seconds) * time.Second
	}
	if flags.Changed("sample-rows") {
		opts.sampleRows, _ = flags.GetInt("sample-rows")
	}
	if flags.Changed("log-file") {
		opts.logFile, _ = flags.GetString("log-file")
	}

	if opts.batchSize <= 0 {
		return opts, errors.ValidationError("batch-size", opts.batchSize, "must be a positive row count")
	}
	if opts.sampleRows <= 0 {
		return opts, errors.ValidationError("sample-rows", opts.sampleRows, "must be a positive row count")
	}
	if opts.timeout < 0 {
		return opts, errors.ValidationError("timeout-seconds", opts.timeout, "must be zero or positive")
	}

	destArg, _ := flags.GetString("destination")
	dest, err := models.ParseDestination(destArg)
	if err != nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, err.Error()).WithComponent("cli")
	}
	opts.destination = dest

	return opts, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to load configuration")
	}

	opts, err := collectOptions(cmd, cfg)
	if err != nil {
		return err
	}

	log := runlog.Discard()
	if opts.logFile != "" {
		log, err = runlog.Open(opts.logFile)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to open run log")
		}
	}
	defer log.Close()

	file, err := source.Detect(opts.sourcePath, opts.sheet)
	if err != nil {
		return err
	}

	log.Info("run started", map[string]interface{}{
		"source":      file.Path,
		"format":      file.Format,
		"destination": opts.destination.String(),
		"batch_size":  opts.batchSize,
		"force":       opts.force,
	})

	service, err := connectDestination(cfg, opts)
	if err != nil {
		log.Error("destination unreachable", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer service.Close()

	target, err := inferTarget(file, opts)
	if err != nil {
		log.Error("inference failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	ctx := context.Background()
	reconciler := schema.NewReconciler(service)
	reconcile, err := reconciler.Reconcile(ctx, target, opts.force)
	if err != nil {
		log.Error("schema reconciliation failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	if reconcile.Dropped {
		ui.ShowWarning(fmt.Sprintf("Dropped existing table %s", target.Destination.QualifiedName()))
	}
	if opts.debug {
		ui.ShowSchemaPreview(target, reconcile.Created)
		if reconcile.Created {
			color.Cyan("DDL: %s", schema.CreateDDL(target))
		}
		color.Cyan("Sampled up to %d rows for inference", opts.sampleRows)
	}
	log.Info("schema ready", map[string]interface{}{
		"created": reconcile.Created,
		"dropped": reconcile.Dropped,
		"columns": target.ColumnCount(),
	})

	progress := ui.NewLoadProgress(false)
	result, err := loadRows(ctx, service, file, target, opts, progress)
	progress.Finish(result.RowsWritten, result.Batches, string(result.Status))
	log.Info("run finished", map[string]interface{}{
		"status":  result.Status,
		"rows":    result.RowsWritten,
		"batches": result.Batches,
		"elapsed": result.Elapsed.Round(time.Millisecond),
	})

	if err != nil {
		// Rows committed before the failure stand; operators decide
		// between truncate-and-rerun and resume-by-append
		ui.ShowWarning(fmt.Sprintf("%d rows in %d batches were committed before the failure",
			result.RowsWritten, result.Batches))
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("Loaded %d rows into %s", result.RowsWritten, target.Destination.QualifiedName()))
	return nil
}

// connectDestination builds the Snowflake service from the profile, the
// destination identifier, and the resolved password
func connectDestination(cfg *models.Config, opts ingestOptions) (*snowflake.Service, error) {
	account := cfg.Snowflake.Account
	if opts.destination.Account != "" {
		account = opts.destination.Account
	}
	database := cfg.Snowflake.Database
	if opts.destination.Database != "" {
		database = opts.destination.Database
	}

	store := security.NewCredentialStore(config.GetConfigPath())
	resolved, err := security.ResolvePassword(store, account, cfg.Snowflake.Password)
	if err != nil {
		return nil, err
	}

	sfConfig := snowflake.Config{
		Account:   account,
		Username:  cfg.Snowflake.Username,
		Password:  resolved.Password,
		Database:  database,
		Schema:    opts.destination.Schema,
		Warehouse: cfg.Snowflake.Warehouse,
		Role:      cfg.Snowflake.Role,
		Timeout:   opts.timeout,
	}
	if err := snowflake.ValidateConfig(sfConfig); err != nil {
		return nil, errors.ConfigError(err.Error(), "snowflake")
	}

	service := snowflake.NewService(sfConfig)
	if err := service.Connect(); err != nil {
		return nil, err
	}
	return service, nil
}

// inferTarget draws the preview sample in its own read pass and maps the
// inferred profiles onto the candidate schema
func inferTarget(file source.SourceFile, opts ingestOptions) (schema.TargetTableSchema, error) {
	stream, err := source.Open(file)
	if err != nil {
		return schema.TargetTableSchema{}, err
	}
	defer stream.Close()

	engine := infer.NewEngine(opts.sampleRows)
	sample, err := engine.Sample(stream)
	if err != nil {
		return schema.TargetTableSchema{}, err
	}

	profiles := engine.Profile(stream.Headers(), sample)
	return schema.BuildTarget(opts.destination, profiles, opts.varcharLength)
}

// loadRows runs the full load pass against the finalized schema
func loadRows(ctx context.Context, service *snowflake.Service, file source.SourceFile, target schema.TargetTableSchema, opts ingestOptions, progress *ui.LoadProgress) (loader.LoadResult, error) {
	stream, err := source.Open(file)
	if err != nil {
		return loader.LoadResult{Status: loader.StatusFailed}, err
	}
	defer stream.Close()

	run := loader.New(service, opts.batchSize, progress.BatchFlushed)
	return run.Load(ctx, target, stream)
}

package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/pkg/errors"
	"tabload/pkg/models"
)

func TestRootCommandHelp(t *testing.T) {
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "ingest")
	assert.Contains(t, output, "config")
	assert.Contains(t, output, "version")
}

func TestInvalidCommand(t *testing.T) {
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"invalid-command"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestIngestRequiresSourceAndDestination(t *testing.T) {
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"ingest"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

// newIngestCommand builds a throwaway command so flag Changed state never
// leaks between tests
func newIngestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "ingest"}
	registerIngestFlags(cmd)
	return cmd
}

func TestCollectOptionsDefaultsFromConfig(t *testing.T) {
	cfg := &models.Config{Ingest: models.Ingest{
		BatchSize:     2500,
		SampleRows:    500,
		VarcharLength: "max",
		TimeoutSecs:   30,
	}}

	cmd := newIngestCommand(t)
	require.NoError(t, cmd.Flags().Set("source", "orders.csv"))
	require.NoError(t, cmd.Flags().Set("destination", "analytics.public.orders"))

	opts, err := collectOptions(cmd, cfg)
	require.NoError(t, err)

	assert.Equal(t, "orders.csv", opts.sourcePath)
	assert.Equal(t, "analytics", opts.destination.Database)
	assert.Equal(t, "public", opts.destination.Schema)
	assert.Equal(t, "orders", opts.destination.Table)
	assert.Equal(t, 2500, opts.batchSize)
	assert.Equal(t, 500, opts.sampleRows)
	assert.Equal(t, "max", opts.varcharLength)
	assert.Equal(t, 30*time.Second, opts.timeout)
}

func TestCollectOptionsFlagsOverrideConfig(t *testing.T) {
	cfg := &models.Config{Ingest: models.DefaultIngest()}

	cmd := newIngestCommand(t)
	require.NoError(t, cmd.Flags().Set("source", "orders.csv"))
	require.NoError(t, cmd.Flags().Set("destination", "acct1.analytics.public.orders"))
	require.NoError(t, cmd.Flags().Set("batch-size", "100"))
	require.NoError(t, cmd.Flags().Set("timeout-seconds", "5"))

	opts, err := collectOptions(cmd, cfg)
	require.NoError(t, err)

	assert.Equal(t, "acct1", opts.destination.Account)
	assert.Equal(t, 100, opts.batchSize)
	assert.Equal(t, 5*time.Second, opts.timeout)
}

func TestCollectOptionsRejectsBadValues(t *testing.T) {
	cfg := &models.Config{Ingest: models.DefaultIngest()}

	cmd := newIngestCommand(t)
	require.NoError(t, cmd.Flags().Set("source", "orders.csv"))
	require.NoError(t, cmd.Flags().Set("destination", "analytics.public.orders"))
	require.NoError(t, cmd.Flags().Set("batch-size", "0"))

	_, err := collectOptions(cmd, cfg)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
}

func TestCollectOptionsRejectsBadDestination(t *testing.T) {
	cfg := &models.Config{Ingest: models.DefaultIngest()}

	cmd := newIngestCommand(t)
	require.NoError(t, cmd.Flags().Set("source", "orders.csv"))
	require.NoError(t, cmd.Flags().Set("destination", "just-a-table"))
	require.NoError(t, cmd.Flags().Set("batch-size", "100"))

	_, err := collectOptions(cmd, cfg)
	assert.Error(t, err)
}

package snowflake

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/internal/infer"
	"tabload/internal/loader"
	"tabload/internal/schema"
	"tabload/internal/source"
	"tabload/pkg/models"
)

// Exercises the whole ingestion path against one mocked destination: a CSV
// is read, profiled, the table is created from the inferred schema, and
// both rows land in a single batch.
func TestCsvIngestionEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "Amount,SignupDate,Notes\n" +
		"19.99,2024-01-15,first order\n" +
		",2024-02-01 09:30:00,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	file, err := source.Detect(path, "")
	require.NoError(t, err)

	dest, err := models.ParseDestination("ANALYTICS.PUBLIC.ORDERS")
	require.NoError(t, err)

	// Inference pass
	stream, err := source.Open(file)
	require.NoError(t, err)
	engine := infer.NewEngine(1000)
	sample, err := engine.Sample(stream)
	require.NoError(t, err)
	profiles := engine.Profile(stream.Headers(), sample)
	require.NoError(t, stream.Close())

	target, err := schema.BuildTarget(dest, profiles, "255")
	require.NoError(t, err)
	require.Equal(t, []schema.Column{
		{Name: "Amount", SQLType: "NUMBER(18,2)"},
		{Name: "SignupDate", SQLType: "TIMESTAMP_NTZ"},
		{Name: "Notes", SQLType: "VARCHAR(255)"},
	}, target.Columns)

	service, mock := newMockService(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM ANALYTICS.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = UPPER(?) AND TABLE_NAME = UPPER(?)")).
		WithArgs("PUBLIC", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(
		`CREATE TABLE ANALYTICS.PUBLIC.ORDERS ("Amount" NUMBER(18,2), "SignupDate" TIMESTAMP_NTZ, "Notes" VARCHAR(255))`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO ANALYTICS.PUBLIC.ORDERS VALUES (?,?,?),(?,?,?)")).
		WithArgs("19.99", "2024-01-15", "first order", nil, "2024-02-01 09:30:00", nil).
		WillReturnResult(sqlmock.NewResult(0, 2))

	ctx := context.Background()
	reconciler := schema.NewReconciler(service)
	reconcile, err := reconciler.Reconcile(ctx, target, false)
	require.NoError(t, err)
	assert.True(t, reconcile.Created)

	// Load pass
	stream, err = source.Open(file)
	require.NoError(t, err)
	defer stream.Close()

	var progressCalls []int
	run := loader.New(service, 5000, func(rowsWritten int64, batchIndex int) {
		progressCalls = append(progressCalls, batchIndex)
	})
	result, err := run.Load(ctx, target, stream)
	require.NoError(t, err)

	assert.Equal(t, loader.StatusSucceeded, result.Status)
	assert.Equal(t, int64(2), result.RowsWritten)
	assert.Equal(t, 1, result.Batches)
	assert.Equal(t, []int{1}, progressCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

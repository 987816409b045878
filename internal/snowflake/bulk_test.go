package snowflake

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/pkg/errors"
)

func TestBuildInsertStatement(t *testing.T) {
	statement := buildInsertStatement("ANALYTICS.PUBLIC.ORDERS", 3, 2)
	assert.Equal(t, "INSERT INTO ANALYTICS.PUBLIC.ORDERS VALUES (?,?,?),(?,?,?)", statement)

	single := buildInsertStatement("T", 1, 1)
	assert.Equal(t, "INSERT INTO T VALUES (?)", single)
}

func TestBindRowsNullMapping(t *testing.T) {
	args := bindRows([][]string{
		{"19.99", "2024-03-01", "ok"},
		{"", "2024-03-02", ""},
	}, 3)

	require.Len(t, args, 6)
	assert.Equal(t, "19.99", args[0])
	assert.Nil(t, args[3])
	assert.Equal(t, "2024-03-02", args[4])
	assert.Nil(t, args[5])
}

func TestBindRowsShortRowPadsNull(t *testing.T) {
	args := bindRows([][]string{{"a"}}, 3)
	require.Len(t, args, 3)
	assert.Equal(t, "a", args[0])
	assert.Nil(t, args[1])
	assert.Nil(t, args[2])
}

func TestBulkInsert(t *testing.T) {
	service, mock := newMockService(t)

	mock.ExpectExec("INSERT INTO ANALYTICS.PUBLIC.ORDERS VALUES").
		WithArgs("19.99", "2024-03-01", "ok", nil, "2024-03-02", nil).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := service.BulkInsert(context.Background(), "ANALYTICS.PUBLIC.ORDERS", 3, [][]string{
		{"19.99", "2024-03-01", "ok"},
		{"", "2024-03-02", ""},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsertEmptyBatchIsNoop(t *testing.T) {
	service, mock := newMockService(t)

	err := service.BulkInsert(context.Background(), "ANALYTICS.PUBLIC.ORDERS", 3, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsertFailure(t *testing.T) {
	service, mock := newMockService(t)

	mock.ExpectExec("INSERT INTO").
		WillReturnError(fmt.Errorf("Numeric value 'oops' is not recognized"))

	err := service.BulkInsert(context.Background(), "ANALYTICS.PUBLIC.ORDERS", 1, [][]string{{"oops"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBatchWriteFailed, errors.GetErrorCode(err))
}

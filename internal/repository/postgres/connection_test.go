package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_NilPool(t *testing.T) {
	c := &Connection{}

	assert.NoError(t, c.Close())
	assert.Error(t, c.Ping(context.Background()))
}

func TestConnection_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	c := &Connection{DB: db}
	require.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, c.Close())
}

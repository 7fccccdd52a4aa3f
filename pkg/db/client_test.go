package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/config"
)

func newSQLiteClient(t *testing.T) *Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return NewWithConn(conn)
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestWithTxCommits(t *testing.T) {
	client := newSQLiteClient(t)
	require.NoError(t, client.DB().Exec(`CREATE TABLE IF NOT EXISTS tx_probe (id INTEGER PRIMARY KEY, val TEXT)`).Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO tx_probe (val) VALUES ('committed')`).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM tx_probe`).Scan(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newSQLiteClient(t)
	require.NoError(t, client.DB().Exec(`CREATE TABLE IF NOT EXISTS tx_probe_rb (id INTEGER PRIMARY KEY, val TEXT)`).Error)

	sentinel := errors.New("abort")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO tx_probe_rb (val) VALUES ('doomed')`).Error; err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM tx_probe_rb`).Scan(&count).Error)
	require.EqualValues(t, 0, count)
}

package kvstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKV_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		key       string
		mock      func(mock sqlmock.Sqlmock)
		wantValue string
		wantOK    bool
		wantErr   bool
	}{
		{
			name: "present",
			key:  "events",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv WHERE key = \?`).
					WithArgs("events").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
			},
			wantValue: `[]`,
			wantOK:    true,
		},
		{
			name: "absent",
			key:  "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv WHERE key = \?`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantOK: false,
		},
		{
			name: "db error",
			key:  "events",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv WHERE key = \?`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			kv := NewSQLiteKV(db)
			value, ok, err := kv.Get(ctx, tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteKV_Put(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO kv \(key, value\) VALUES \(\?, \?\)`).
		WithArgs("events", `[{"id":"ev-1"}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	kv := NewSQLiteKV(db)
	require.NoError(t, kv.Put(ctx, "events", `[{"id":"ev-1"}]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Put_error(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO kv`).WillReturnError(sql.ErrConnDone)

	kv := NewSQLiteKV(db)
	require.Error(t, kv.Put(ctx, "events", `[]`))
}

func TestSQLiteKV_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM kv WHERE key = \?`).
		WithArgs("user").
		WillReturnResult(sqlmock.NewResult(0, 1))

	kv := NewSQLiteKV(db)
	require.NoError(t, kv.Delete(ctx, "user"))
	require.NoError(t, mock.ExpectationsWereMet())
}

package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string  { return e.msg }
func (e *codedError) ErrorCode() int { return e.code }

func TestErrorCode(t *testing.T) {
	assert.Equal(t, 0, ErrorCode(errors.New("plain")))
	assert.Equal(t, 17, ErrorCode(&codedError{code: 17, msg: "x"}))
	assert.Equal(t, 17, ErrorCode(errors.Join(errors.New("ctx"), &codedError{code: 17, msg: "x"})))
}

func TestDefaultClassify(t *testing.T) {
	info := DefaultClassify(&codedError{code: 3, msg: "permission denied"})
	require.NotNil(t, info.Message)
	assert.Equal(t, "permission denied", *info.Message)
	assert.Equal(t, 3, info.Code)
}

func TestSQLHandle_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSQLHandle(nil, nil, nil)

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				h.DB = db
			}

			assert.NoError(t, h.Close())
		})
	}
}

func TestSQLHandle_PrepareExecute(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantOK    bool
		wantMsg   string
		wantCode  int
	}{
		{
			name: "exec success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SET SCHEMA PUBLIC").
					ExpectExec().
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantOK: true,
		},
		{
			name: "exec with coded error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SET SCHEMA PUBLIC").
					ExpectExec().
					WillReturnError(&codedError{code: 9, msg: "schema not found"})
			},
			wantOK:   false,
			wantMsg:  "schema not found",
			wantCode: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			h := NewSQLHandle(db, nil, nil)
			stmt, err := h.Prepare(context.Background(), "SET SCHEMA PUBLIC")
			require.NoError(t, err)

			ok := stmt.Execute(context.Background())
			assert.Equal(t, tt.wantOK, ok)

			info := stmt.ErrorInfo()
			if tt.wantOK {
				assert.Nil(t, info.Message)
			} else {
				require.NotNil(t, info.Message)
				assert.Equal(t, tt.wantMsg, *info.Message)
				assert.Equal(t, tt.wantCode, info.Code)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLHandle_PrepareError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectPrepare("INVALID").WillReturnError(assert.AnError)

	h := NewSQLHandle(db, nil, nil)
	_, err = h.Prepare(context.Background(), "INVALID SQL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare statement")
}

func TestSQLHandle_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME"}).
					AddRow("analytics", "orders").
					AddRow("analytics", "customers")
				mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)
			},
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SHOW TABLES").WillReturnError(assert.AnError)
			},
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSQLHandle(nil, nil, nil)

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				tt.setupMock(mock)
				h.DB = db
			}

			cols, rows, err := h.Query(context.Background(), "SHOW TABLES")
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"TABLE_SCHEMA", "TABLE_NAME"}, cols)
			require.Len(t, rows, 2)
			assert.Equal(t, "orders", rows[0][1])
		})
	}
}

func TestSQLHandle_Ping(t *testing.T) {
	assert.Error(t, NewSQLHandle(nil, nil, nil).Ping(context.Background()))

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectPing()

	assert.NoError(t, NewSQLHandle(db, nil, nil).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

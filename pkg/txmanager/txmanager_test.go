package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	beginner  *fakeBeginner
	commitErr error
}

func (f *fakeTx) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) Commit() error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.beginner.commits++
	return nil
}

func (f *fakeTx) Rollback() error {
	f.beginner.rollbacks++
	return nil
}

// fakeBeginner считает попытки; первые commitFailures коммитов падают с commitErr
type fakeBeginner struct {
	commitFailures int
	commitErr      error

	begins    int
	commits   int
	rollbacks int
}

func (f *fakeBeginner) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	tx := &fakeTx{beginner: f}
	if f.begins <= f.commitFailures {
		tx.commitErr = f.commitErr
	}
	return tx, nil
}

func serializationFailure() *pq.Error {
	return &pq.Error{Code: pgSerializationFailure}
}

func TestDoSerializable_RetriesSerializationFailureAtCommit(t *testing.T) {
	db := &fakeBeginner{commitFailures: 2, commitErr: serializationFailure()}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, db.begins)
	assert.Equal(t, 1, db.commits)
}

func TestDoSerializable_ExhaustsRetriesOnPersistentConflict(t *testing.T) {
	db := &fakeBeginner{commitFailures: maxRetries + 10, commitErr: serializationFailure()}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxCommit)

	// После исчерпания попыток код Postgres остаётся доступен через errors.As
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode(pgSerializationFailure), pqErr.Code)

	assert.Equal(t, int(maxRetries)+1, db.begins)
	assert.Equal(t, 0, db.commits)
}

func TestDoSerializable_NonRetryableCommitErrorNotRetried(t *testing.T) {
	db := &fakeBeginner{commitFailures: 1, commitErr: errors.New("connection reset")}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxCommit)
	assert.Equal(t, 1, db.begins)
}

func TestDoSerializable_RetriesDeadlockFromFn(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("repo: execute query: %w", &pq.Error{Code: pgDeadlockDetected})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, db.rollbacks)
	assert.Equal(t, 1, db.commits)
}

func TestDoSerializable_FnErrorNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, db.rollbacks)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", &pq.Error{Code: pgSerializationFailure}, true},
		{"deadlock", &pq.Error{Code: pgDeadlockDetected}, true},
		{"other pq code", &pq.Error{Code: "23505"}, false},
		{
			"serialization failure wrapped at commit",
			fmt.Errorf("%w: %w", ErrTxCommit, &pq.Error{Code: pgSerializationFailure}),
			true,
		},
		{
			"deadlock wrapped by repository",
			fmt.Errorf("repo: Confirm - execute update: %w", &pq.Error{Code: pgDeadlockDetected}),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

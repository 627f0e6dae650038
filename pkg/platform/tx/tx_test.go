package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)
	assert.Equal(t, ctx, WithTx(ctx, nil), "nil transaction leaves context untouched")

	sqlTx := &sql.Tx{}
	got, ok := From(WithTx(ctx, sqlTx))
	assert.True(t, ok)
	assert.Same(t, sqlTx, got)
}

func TestExecutorFrom(t *testing.T) {
	db := &sql.DB{}
	sqlTx := &sql.Tx{}

	assert.Same(t, db, ExecutorFrom(context.Background(), db))
	assert.Same(t, sqlTx, ExecutorFrom(WithTx(context.Background(), sqlTx), db))
}

func TestRunJoinsOuterTransaction(t *testing.T) {
	outer := &sql.Tx{}
	ctx := WithTx(context.Background(), outer)

	var seen *sql.Tx
	err := Run(ctx, nil, func(ctx context.Context) error {
		seen, _ = From(ctx)
		return nil
	})
	assert.NoError(t, err)
	assert.Same(t, outer, seen)
}

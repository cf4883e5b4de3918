package reconciliation

import (
	"context"
	"testing"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspenseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	statement := f.importStatement(t,
		line{date: "2024-03-04", amount: "100"},
		line{date: "2024-03-05", amount: "-8.75"},
	)
	f.addMovement(t, testAccount, "100", "2024-03-04", "")
	_, err := f.uc.AutoMatch(ctx, statement.ID, "alice")
	require.NoError(t, err)

	items := f.items(t, statement.ID)
	matched, fee := items[0], items[1]

	t.Run("matched items cannot be parked", func(t *testing.T) {
		_, err := f.uc.MarkSuspense(ctx, entity.SuspenseRequest{StatementID: statement.ID, ItemID: matched.ID, Operator: "alice"})
		assert.ErrorIs(t, err, entity.ErrAlreadyMatched)
	})

	t.Run("resolve requires suspense", func(t *testing.T) {
		_, err := f.uc.ResolveSuspense(ctx, entity.ResolveSuspenseRequest{StatementID: statement.ID, ItemID: fee.ID, ResolutionNotes: "n/a", Operator: "alice"})
		assert.ErrorIs(t, err, entity.ErrNotSuspense)
	})

	t.Run("mark", func(t *testing.T) {
		item, err := f.uc.MarkSuspense(ctx, entity.SuspenseRequest{StatementID: statement.ID, ItemID: fee.ID, Notes: "check with bank", Operator: "alice"})
		require.NoError(t, err)
		assert.True(t, item.IsSuspense)
		assert.False(t, item.SuspenseResolved)

		st := f.statement(t, statement.ID)
		assert.Equal(t, int64(1), st.SuspenseCount)
		assert.Equal(t, int64(0), st.PendingCount)
		assert.Equal(t, consts.StatementStateInProgress, st.State)
		assertCounters(t, f, statement.ID)
	})

	t.Run("mark again only updates notes", func(t *testing.T) {
		item, err := f.uc.MarkSuspense(ctx, entity.SuspenseRequest{StatementID: statement.ID, ItemID: fee.ID, Notes: "bank says monthly fee", Operator: "alice"})
		require.NoError(t, err)
		assert.True(t, item.IsSuspense)
		assert.Equal(t, "bank says monthly fee", item.SuspenseNotes)
		assert.Equal(t, int64(1), f.statement(t, statement.ID).SuspenseCount)
	})

	t.Run("resolution notes required", func(t *testing.T) {
		_, err := f.uc.ResolveSuspense(ctx, entity.ResolveSuspenseRequest{StatementID: statement.ID, ItemID: fee.ID, Operator: "alice"})
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})

	t.Run("resolve completes the statement", func(t *testing.T) {
		item, err := f.uc.ResolveSuspense(ctx, entity.ResolveSuspenseRequest{StatementID: statement.ID, ItemID: fee.ID, ResolutionNotes: "booked as bank fee", Operator: "bob"})
		require.NoError(t, err)
		assert.True(t, item.IsSuspense)
		assert.True(t, item.SuspenseResolved)
		assert.Equal(t, "bob", item.SuspenseResolvedBy)

		st := f.statement(t, statement.ID)
		assert.Equal(t, consts.StatementStateCompleted, st.State)

		summary, err := f.uc.GetSummary(ctx, statement.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.SuspenseResolved)
		assert.Equal(t, int64(0), summary.Pending)
	})
}

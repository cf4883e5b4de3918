package reconciliation

import (
	"testing"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePath(t *testing.T) {
	tests := []struct {
		from, to string
		want     []string
	}{
		{consts.StatementStatePending, consts.StatementStatePending, nil},
		{consts.StatementStatePending, consts.StatementStateInProgress, []string{consts.StatementStateInProgress}},
		{consts.StatementStatePending, consts.StatementStateCompleted, []string{consts.StatementStateInProgress, consts.StatementStateCompleted}},
		{consts.StatementStateInProgress, consts.StatementStateWithDifferences, []string{consts.StatementStateWithDifferences}},
		{consts.StatementStateCompleted, consts.StatementStateInProgress, []string{consts.StatementStateInProgress}},
		{consts.StatementStateWithDifferences, consts.StatementStateClosed, []string{consts.StatementStateClosed}},
		{consts.StatementStateCompleted, consts.StatementStateClosed, []string{consts.StatementStateClosed}},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			path, err := statePath(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}

	_, err := statePath(consts.StatementStateClosed, consts.StatementStateInProgress)
	assert.Error(t, err)
}

func TestDeriveState(t *testing.T) {
	done := entity.ItemCounters{Total: 2, Matched: 1, Suspense: 1, SuspenseResolved: 1}
	open := entity.ItemCounters{Total: 2, Matched: 1}

	assert.Equal(t, consts.StatementStatePending, deriveState(consts.StatementStatePending, consts.ActionImport, open))
	assert.Equal(t, consts.StatementStateInProgress, deriveState(consts.StatementStatePending, consts.ActionAutoMatch, open))
	assert.Equal(t, consts.StatementStateCompleted, deriveState(consts.StatementStateInProgress, consts.ActionResolveSuspense, done))
	assert.Equal(t, consts.StatementStateInProgress, deriveState(consts.StatementStateCompleted, consts.ActionUnmatch, open))
	assert.Equal(t, consts.StatementStateWithDifferences, deriveState(consts.StatementStateWithDifferences, consts.ActionMatch, open))
	assert.Equal(t, consts.StatementStateCompleted, deriveState(consts.StatementStateWithDifferences, consts.ActionMatch, done))
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		prev, had := os.LookupEnv(k)
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() {
			if had {
				os.Setenv(k, prev)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, consts.DefaultChunkSize, cfg.Reconciliation.ChunkSize)
	assert.Equal(t, time.Duration(consts.DefaultIntervalInSec)*time.Second, cfg.Worker.Interval)
	assert.Equal(t, 5, cfg.Reconciliation.Matcher.DateWindowDays)
	assert.True(t, decimal.RequireFromString("0.01").Equal(cfg.Reconciliation.Matcher.AmountTolerancePct))
}

func TestFromEnvOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"AUTO_MATCH_CHUNK_SIZE":      "50",
		"VALIDATE_RUNNING_BALANCE":   "true",
		"MATCH_AMOUNT_TOLERANCE_ABS": "0.50",
		"MATCH_DATE_WINDOW_DAYS":     "3",
		"WORKER_COUNT":               "4",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Reconciliation.ChunkSize)
	assert.True(t, cfg.Reconciliation.ValidateRunningBalance)
	assert.True(t, decimal.RequireFromString("0.5").Equal(cfg.Reconciliation.Matcher.AmountToleranceAbs))
	assert.Equal(t, 3, cfg.Reconciliation.Matcher.DateWindowDays)
	assert.Equal(t, 4, cfg.Worker.Workers)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"AUTO_MATCH_CHUNK_SIZE":    "many",
		"MATCH_HIGH_THRESHOLD":     "0.5",
		"MATCH_REFERENCE_BONUS":    "abc",
		"VALIDATE_RUNNING_BALANCE": "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setEnv(t, map[string]string{key: value})
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

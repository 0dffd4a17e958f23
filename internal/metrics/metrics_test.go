package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, ProbesTotal)
	assert.NotNil(t, ProbeDuration)
	assert.NotNil(t, SweepsTotal)
	assert.NotNil(t, SweepDuration)
	assert.NotNil(t, TransitionsTotal)
	assert.NotNil(t, WatchesAvailable)
	assert.NotNil(t, SchedulerNextSweepTimestamp)
	assert.NotNil(t, UpdatesTotal)
	assert.NotNil(t, UpdatePollErrorsTotal)
	assert.NotNil(t, AuthAttemptsTotal)
	assert.NotNil(t, WatchesTotal)
	assert.NotNil(t, AuthorizedUsersTotal)
	assert.NotNil(t, PersistFailuresTotal)
	assert.NotNil(t, AlertsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}

func TestLabelledCounters(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(ProbesTotal.WithLabelValues("sentinel"))
	ProbesTotal.WithLabelValues("sentinel").Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(ProbesTotal.WithLabelValues("sentinel")), 0.0001)
}

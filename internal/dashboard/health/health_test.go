package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats map[string]interface{}

func (s fixedStats) Stats() map[string]interface{} { return s }

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestCheckHealthy(t *testing.T) {
	c := NewChecker("dashboard", fixedStats{"state": "closed"},
		Dependency{Name: "snapshot_store", Critical: true, Check: ok},
		Dependency{Name: "catalog", Check: ok},
	)

	h := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, h.Status)
	assert.Len(t, h.Dependencies, 2)
	assert.Equal(t, "closed", h.Breaker["state"])
}

func TestCheckDegradedWhenUpstreamDown(t *testing.T) {
	c := NewChecker("dashboard", nil,
		Dependency{Name: "snapshot_store", Critical: true, Check: ok},
		Dependency{Name: "catalog", Check: fail},
	)

	h := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, h.Status)
	assert.Equal(t, "connection refused", h.Dependencies["catalog"].Error)
	assert.Nil(t, h.Breaker)
}

func TestCheckUnhealthyWhenStoreDown(t *testing.T) {
	c := NewChecker("dashboard", nil,
		Dependency{Name: "snapshot_store", Critical: true, Check: fail},
		Dependency{Name: "catalog", Check: ok},
	)

	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)
}

func TestCheckReportsDurationsInNamedUnits(t *testing.T) {
	slow := func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}
	c := NewChecker("dashboard", nil, Dependency{Name: "catalog", Check: slow})
	c.startTime = time.Now().Add(-90 * time.Second)

	raw, err := json.Marshal(c.Check(context.Background()))
	require.NoError(t, err)

	var body struct {
		Uptime       float64 `json:"uptime_seconds"`
		Dependencies map[string]struct {
			LatencyMs int64 `json:"latency_ms"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.InDelta(t, 90, body.Uptime, 5)
	assert.GreaterOrEqual(t, body.Dependencies["catalog"].LatencyMs, int64(20))
	assert.Less(t, body.Dependencies["catalog"].LatencyMs, int64(5000))
}

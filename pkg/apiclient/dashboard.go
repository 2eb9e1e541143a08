package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

// Dashboard metric names, as used in /dashboard/<name>.
const (
	MetricStats                  = "stats"
	MetricDepartmentDistribution = "department-distribution"
	MetricPositionDistribution   = "position-distribution"
	MetricWorkModeDistribution   = "workmode-distribution"
	MetricWorkloadDistribution   = "workload-distribution"
	MetricMovementHistory        = "movement-history"
	MetricSalaryAnalysis         = "salary-analysis"
	MetricBudgetComparison       = "budget-comparison"
)

// DefaultHistoryMonths is the window used when MovementHistory gets months <= 0.
const DefaultHistoryMonths = 12

// MetricNames lists every dashboard metric.
func MetricNames() []string {
	return []string{
		MetricStats,
		MetricDepartmentDistribution,
		MetricPositionDistribution,
		MetricWorkModeDistribution,
		MetricWorkloadDistribution,
		MetricMovementHistory,
		MetricSalaryAnalysis,
		MetricBudgetComparison,
	}
}

// Dashboard groups the read-only /dashboard endpoints. Payloads are returned
// undecoded since their shape is owned by the server.
type Dashboard struct {
	c *Client
}

func (c *Client) Dashboard() *Dashboard {
	return &Dashboard{c: c}
}

func (d *Dashboard) Stats(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricStats, nil)
}

func (d *Dashboard) DepartmentDistribution(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricDepartmentDistribution, nil)
}

func (d *Dashboard) PositionDistribution(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricPositionDistribution, nil)
}

func (d *Dashboard) WorkModeDistribution(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricWorkModeDistribution, nil)
}

func (d *Dashboard) WorkloadDistribution(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricWorkloadDistribution, nil)
}

// MovementHistory returns movements of the last months months.
func (d *Dashboard) MovementHistory(ctx context.Context, months int) (json.RawMessage, error) {
	if months <= 0 {
		months = DefaultHistoryMonths
	}
	return d.get(ctx, MetricMovementHistory, url.Values{"meses": {strconv.Itoa(months)}})
}

func (d *Dashboard) SalaryAnalysis(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricSalaryAnalysis, nil)
}

func (d *Dashboard) BudgetComparison(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, MetricBudgetComparison, nil)
}

// Metric fetches a metric by name with default parameters.
func (d *Dashboard) Metric(ctx context.Context, name string) (json.RawMessage, error) {
	if !slices.Contains(MetricNames(), name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	if name == MetricMovementHistory {
		return d.MovementHistory(ctx, 0)
	}
	return d.get(ctx, name, nil)
}

func (d *Dashboard) get(ctx context.Context, name string, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := d.c.call(ctx, http.MethodGet, "/dashboard/"+name, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

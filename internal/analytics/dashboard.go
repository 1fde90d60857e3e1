package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"leadboard/internal/models"
)

// DashboardQuery selects the reporting period for period-scoped metrics.
type DashboardQuery struct {
	Filter DateFilter
	Start  *time.Time
	End    *time.Time
}

// Dashboard computes every derived structure for one snapshot. The
// aggregators only read leads, so they run concurrently; each goroutine
// writes a distinct field of the result.
func (c *Calculator) Dashboard(ctx context.Context, leads []models.Lead, q DashboardQuery) (models.Dashboard, error) {
	var d models.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { d.Metrics = c.Metrics(leads, q.Filter, q.Start, q.End) })
	run(func() { d.Funnel = Funnel(leads) })
	run(func() { d.Pipeline = Pipeline(leads) })
	run(func() { d.Distributions = Distributions(leads) })
	run(func() { d.Trends = c.Trends(leads) })
	run(func() { d.Alerts = c.Alerts(leads) })
	run(func() {
		d.Advanced = Advanced(leads)
		d.Insights = Insights(leads, d.Advanced)
	})

	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}
	return d, nil
}

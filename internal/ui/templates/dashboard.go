// Package templates holds the server-rendered dashboard page. Widgets load
// their data over SSE; filter inputs re-trigger the refresh endpoint with
// the current selection.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the single-page analytics view.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Sales Performance Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f8f9fa; color: #212529; }
header { text-align: center; padding: 1.5rem; color: #1f77b4; }
header h1 { margin: 0; font-size: 2rem; }
.filters { display: flex; flex-wrap: wrap; gap: 1rem; padding: 0 2rem 1rem; align-items: end; }
.filters label { display: block; font-size: 0.8rem; color: #666; margin-bottom: 0.25rem; }
.metric-row { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; padding: 0 2rem; }
.metric-card { background: #f0f2f6; padding: 1rem; border-radius: 0.5rem; border-left: 5px solid #1f77b4; }
.metric-label { display: block; font-size: 0.8rem; color: #666; }
.metric-card strong { font-size: 1.4rem; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; padding: 2rem; }
.chart-panel { background: #fff; border-radius: 0.5rem; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.chart-panel h2 { font-size: 1rem; margin: 0 0 0.5rem; }
.actions { padding: 0 2rem 2rem; }
button, .export-link { background: #1f77b4; color: #fff; border: none; border-radius: 0.25rem; padding: 0.5rem 1rem; cursor: pointer; text-decoration: none; }
</style>
</head>
<body data-signals="{start: '', end: '', regions: '', categories: '', products: '', monthlyData: [], regionsData: [], productsData: [], repsData: [], quarterlyData: []}"
      data-on-load="@get('/sse/refresh-all')">
<header>
<h1>Sales Performance Dashboard</h1>
<p>Synthetic transactional sales analytics</p>
</header>
<section class="filters">
<div><label for="start">Start date</label><input id="start" type="date" data-bind-start/></div>
<div><label for="end">End date</label><input id="end" type="date" data-bind-end/></div>
<div><label for="regions">Regions (comma-separated)</label><input id="regions" type="text" data-bind-regions/></div>
<div><label for="categories">Categories</label><input id="categories" type="text" data-bind-categories/></div>
<div><label for="products">Products</label><input id="products" type="text" data-bind-products/></div>
<div><button data-on-click="@get('/sse/refresh-all?start='+$start+'&end='+$end+'&regions='+$regions+'&categories='+$categories+'&products='+$products)">Apply Filters</button></div>
</section>
<div id="metrics" class="metric-row"></div>
<section class="charts">
<div class="chart-panel"><h2>Monthly Revenue Trend</h2><canvas id="monthly-chart"></canvas></div>
<div class="chart-panel"><h2>Revenue by Region</h2><canvas id="regions-chart"></canvas></div>
<div class="chart-panel"><h2>Top Performing Products</h2><canvas id="products-chart"></canvas></div>
<div class="chart-panel"><h2>Sales Rep Performance</h2><canvas id="reps-chart"></canvas></div>
<div class="chart-panel"><h2>Quarterly Revenue</h2><canvas id="quarterly-chart"></canvas></div>
<div class="chart-panel"><h2>Quarterly Growth Rate (%)</h2><canvas id="growth-chart"></canvas></div>
</section>
<div id="charts-status"></div>
<section class="actions">
<a class="export-link" data-attr-href="'/api/export?start='+$start+'&end='+$end+'&regions='+$regions+'&categories='+$categories+'&products='+$products" href="/api/export">Download Filtered Data (CSV)</a>
</section>
<script>
const charts = {};
function draw(id, type, labels, values, label) {
  if (charts[id]) charts[id].destroy();
  charts[id] = new Chart(document.getElementById(id), {
    type: type,
    data: { labels: labels, datasets: [{ label: label, data: values, backgroundColor: '#1f77b4' }] },
    options: { responsive: true, plugins: { legend: { display: type === 'pie' } } }
  });
}
function renderCharts() {
  const s = window.datastarSignals || {};
  const monthly = s.monthlyData || [];
  draw('monthly-chart', 'line', monthly.map(m => m.month), monthly.map(m => m.revenue), 'Revenue');
  const regions = s.regionsData || [];
  draw('regions-chart', 'pie', regions.map(r => r.region), regions.map(r => r.total_revenue), 'Revenue');
  const products = s.productsData || [];
  draw('products-chart', 'bar', products.map(p => p.product), products.map(p => p.revenue), 'Revenue');
  const reps = s.repsData || [];
  draw('reps-chart', 'bar', reps.map(r => r.sales_rep), reps.map(r => r.revenue), 'Revenue');
  const quarterly = s.quarterlyData || [];
  draw('quarterly-chart', 'bar', quarterly.map(q => q.label), quarterly.map(q => q.revenue), 'Revenue');
  draw('growth-chart', 'line', quarterly.map(q => q.label), quarterly.map(q => q.growth), 'Growth %');
}
document.addEventListener('datastar-signal-patch', e => {
  window.datastarSignals = Object.assign(window.datastarSignals || {}, e.detail);
  renderCharts();
});
</script>
</body>
</html>`

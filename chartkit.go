// Package chartkit is an embeddable chart-state engine for tabular data.
//
// Usage:
//
//	ds, _ := helpers.LoadFile("sales.csv")
//	sess := session.Start()
//	defer sess.Close()
//	sess.Load(ds)
//	sess.Update(chart.Bar, "region", "revenue")
//	result, err := sess.Aggregate()
//
// A loaded dataset is immutable. The chart configuration (type, X column,
// Y columns) lives in a state.Model and changes only through reversible
// commands kept by a command.Manager, so every edit can be undone and redone.
// engine.Aggregate turns the dataset and configuration into render-ready
// series; the render package draws them with go-chart or go-echarts.
//
// Nothing here touches the network and nothing is persisted.
package chartkit

package main

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// launchStatsView serves runtime charts for long runs and returns a stop
// function.
func launchStatsView(addr string) func() {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	go func() {
		mgr.Start()
	}()

	Logger().Infof("stats server available at http://%s/debug/statsview", addr)
	return func() {
		mgr.Stop()
	}
}

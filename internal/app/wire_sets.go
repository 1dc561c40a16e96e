//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
)

var DataSet = wire.NewSet(
	NewCacheStore,
	NewResultCache,
	NewSources,
	NewCuratedTable,
	NewCuratedScheduler,
)

var EngineSet = wire.NewSet(
	NewToolbox,
	NewRegistry,
	NewTracker,
	NewEngine,
	NewGenerator,
	NewAssistant,
	NewMCPServer,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	DataSet,
	EngineSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)

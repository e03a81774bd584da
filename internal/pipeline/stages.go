package pipeline

// Имена стадий используются в логах, метриках, отчётах и ошибках
const (
	StageLineShapeFilter         = "line_shape_filter"
	StageSpeedSegmentFilter      = "speed_segment_filter"
	StageSpatialSegmentJoiner    = "spatial_segment_joiner"
	StageRidershipReshaper       = "ridership_reshaper"
	StageStationRegistryFilter   = "station_registry_filter"
	StageCommunePopulationJoiner = "commune_population_joiner"
	StageNetworkFusionEngine     = "network_fusion_engine"
)

// StageOrder is the canonical order of stages in a run report.
var StageOrder = []string{
	StageLineShapeFilter,
	StageSpeedSegmentFilter,
	StageSpatialSegmentJoiner,
	StageRidershipReshaper,
	StageStationRegistryFilter,
	StageCommunePopulationJoiner,
	StageNetworkFusionEngine,
}

func stageRank(stage string) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return len(StageOrder)
}

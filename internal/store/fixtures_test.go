package store

import (
	"time"

	"github.com/mwhydro/hydromap/internal/model"
)

func sampleRun() model.Run {
	return model.Run{
		Schemes: []model.Scheme{
			{Name: "Nkula A", Status: model.StatusOperational, Longitude: 34.76, Latitude: -15.52},
			{Name: "Fufu", Status: model.StatusProposed, Longitude: 34.02, Latitude: -10.70},
		},
		Proximity: []model.ProximityRow{
			{
				Scheme: "Nkula A", Status: model.StatusOperational,
				MinDistanceKM: 538.92, AvgDistanceKM: 538.92, MaxDistanceKM: 538.92,
				Neighbors: []model.Neighbor{{Scheme: "Fufu", Status: model.StatusProposed, DistanceKM: 538.92}},
			},
		},
		StatusPairs: []model.StatusProximityRow{
			{
				Status1: model.StatusOperational, Status2: model.StatusProposed,
				MinDistanceKM: 538.92, AvgDistanceKM: 538.92, MaxDistanceKM: 538.92,
				TotalComparisons: 1,
			},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

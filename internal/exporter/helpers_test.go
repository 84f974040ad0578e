package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"drtkpi/internal/extract"
	"drtkpi/internal/kpi"
)

func testReport(t *testing.T) *kpi.Report {
	t.Helper()
	trip := &extract.TripinfoStats{
		Legs: extract.TripLegStats{
			RawPersons:      3,
			Filtered:        1,
			FilteredInvalid: 1,
			Accepted:        2,
			RideTimeLoss:    []float64{30, 10},
			RideDuration:    []float64{300, 240},
			RideWaiting:     []float64{120, 60},
			RideLength:      []float64{3000, 2500},
		},
		Vehicles: extract.VehicleTripStats{
			VehicleType:      "drt",
			Duration:         []float64{600, 400},
			StopTime:         []float64{100, 50},
			RouteLength:      []float64{9000, 6000},
			OccupiedDistance: []float64{4000, 2000},
			OccupiedTime:     []float64{300, 180},
		},
	}
	r, err := kpi.Aggregate(trip, extract.Absent[extract.DispatchStats](), extract.Absent[extract.DirectRouteStats]())
	require.NoError(t, err)
	return r
}

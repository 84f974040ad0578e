package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/extract"
)

// scenarioTrip mirrors three person records (two valid rides, one unassigned)
// served by two vehicles with durations 600s/400s and stop times 100s/50s.
func scenarioTrip() *extract.TripinfoStats {
	return &extract.TripinfoStats{
		Legs: extract.TripLegStats{
			RawPersons:      3,
			Filtered:        1,
			FilteredInvalid: 1,
			Accepted:        2,
			RideTimeLoss:    []float64{30, 10},
			RideDuration:    []float64{300, 240},
			RideWaiting:     []float64{120, 60},
			RideLength:      []float64{3000, 2500},
			WalkDuration:    []float64{60, 60},
			WalkLength:      []float64{80, 70},
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
}

func scenarioDispatch() extract.Optional[extract.DispatchStats] {
	return extract.Present(extract.DispatchStats{
		Trips:       1,
		Persons:     2,
		RelTimeLoss: []float64{0.2, 0.3},
		AbsTimeLoss: []float64{40, 60},
	})
}

func scenarioDirect() extract.Optional[extract.DirectRouteStats] {
	return extract.Present(extract.DirectRouteStats{
		Routes:     2,
		TravelTime: []float64{120, 180},
		Length:     []float64{3000, 3000},
	})
}

func noDispatch() extract.Optional[extract.DispatchStats] {
	return extract.Absent[extract.DispatchStats]()
}

func noDirect() extract.Optional[extract.DirectRouteStats] {
	return extract.Absent[extract.DirectRouteStats]()
}

func value(t *testing.T, r *Report, key string) float64 {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing key %s", key)
	return v
}

func TestAggregate_TripinfoOnly(t *testing.T) {
	r, err := Aggregate(scenarioTrip(), noDispatch(), noDirect())
	require.NoError(t, err)

	want := map[string]float64{
		KeyPersonInfoRaw:               3,
		KeyFiltered:                    1,
		KeyFilteredWindow:              0,
		KeyRateFiltered:                1.0 / 3.0,
		KeyWalkingOnly:                 0,
		KeyRides:                       2,
		KeyTrips:                       Sentinel,
		KeyRequestsPerTrip:             Sentinel,
		KeyTripsPooling:                Sentinel,
		KeyPersonsPooling:              Sentinel,
		KeyRatePooling:                 Sentinel,
		KeyWaitingRideMean:             1.5,
		KeyWaitingRideStd:              0.5,
		KeyDistanceRide:                5.5,
		KeyDistanceRideMean:            2.75,
		KeyDurationRideMean:            4.5,
		KeyTimeLossRideMean:            20.0 / 60.0,
		KeyDurationTripMean:            6.5,
		KeyTimeLossRelMean:             Sentinel,
		KeyTimeLossRelMax:              Sentinel,
		KeyTimeLossAbsMean:             Sentinel,
		KeyWalks:                       2,
		KeyDistanceWalkMean:            0.075,
		KeyDurationWalkMean:            1,
		KeyVehicles:                    2,
		KeyDistanceVehicle:             15,
		KeyDistanceVehicleMean:         7.5,
		KeyDistanceVehicleOccupied:     6,
		KeyDistanceVehicleOccupiedMean: 3,
		KeyDistanceVehicleEmpty:        9,
		KeyDurationVehicle:             1000.0 / 60.0,
		KeyDurationVehicleDriving:      850.0 / 60.0,
		KeyDurationVehicleOccupied:     8,
		KeyDurationVehicleOccupiedMean: 4,
		KeyDurationVehicleStop:         2.5,
		KeyDurationVehicleStopMean:     1.25,
		KeyPassengersPerTimeOccupied:   540.0 / 480.0,
		KeyPassengersPerTimeDriving:    540.0 / 850.0,
		KeyOperationalEfficiency:       5500.0 / 15000.0,
		KeyDirectRoutes:                Sentinel,
		KeyDurationDirectMean:          Sentinel,
		KeyDistanceDirect:              Sentinel,
		KeySystemEfficiency:            Sentinel,
	}

	require.Len(t, want, r.Len())
	for key, expected := range want {
		assert.InDelta(t, expected, value(t, r, key), 1e-9, key)
	}
	assert.InDelta(t, 14.17, value(t, r, KeyDurationVehicleDriving), 0.005)
}

func TestAggregate_WithDispatch(t *testing.T) {
	r, err := Aggregate(scenarioTrip(), scenarioDispatch(), noDirect())
	require.NoError(t, err)

	assert.Equal(t, 2.0, value(t, r, KeyPersonsPooling))
	assert.Equal(t, 1.0, value(t, r, KeyTripsPooling))
	assert.Equal(t, 2.0/value(t, r, KeyRides), value(t, r, KeyRatePooling))
	assert.Equal(t, 1.0, value(t, r, KeyTrips))
	assert.Equal(t, 2.0, value(t, r, KeyRequestsPerTrip))
	assert.InDelta(t, 0.25, value(t, r, KeyTimeLossRelMean), 1e-9)
	assert.InDelta(t, 0.3, value(t, r, KeyTimeLossRelMax), 1e-9)
	assert.InDelta(t, 50.0/60.0, value(t, r, KeyTimeLossAbsMean), 1e-9)
	assert.Equal(t, Sentinel, value(t, r, KeySystemEfficiency))
}

func TestAggregate_WithDirectRoutes(t *testing.T) {
	r, err := Aggregate(scenarioTrip(), noDispatch(), scenarioDirect())
	require.NoError(t, err)

	assert.Equal(t, 2.0, value(t, r, KeyDirectRoutes))
	assert.InDelta(t, 2.5, value(t, r, KeyDurationDirectMean), 1e-9)
	assert.InDelta(t, 6, value(t, r, KeyDistanceDirect), 1e-9)
	assert.InDelta(t, 0.4, value(t, r, KeySystemEfficiency), 1e-9)
	assert.Equal(t, Sentinel, value(t, r, KeyTripsPooling))
}

func TestAggregate_OptionalInputsOnlyTouchTheirKeys(t *testing.T) {
	base, err := Aggregate(scenarioTrip(), noDispatch(), noDirect())
	require.NoError(t, err)
	full, err := Aggregate(scenarioTrip(), scenarioDispatch(), scenarioDirect())
	require.NoError(t, err)

	dependent := map[string]bool{
		KeyTrips: true, KeyRequestsPerTrip: true, KeyTripsPooling: true, KeyPersonsPooling: true,
		KeyRatePooling: true, KeyTimeLossRelMean: true, KeyTimeLossRelMax: true, KeyTimeLossAbsMean: true,
		KeyDirectRoutes: true, KeyDurationDirectMean: true, KeyDistanceDirect: true, KeySystemEfficiency: true,
	}
	for _, e := range base.Entries() {
		if dependent[e.Key] {
			assert.Equal(t, Sentinel, e.Value, e.Key)
			assert.NotEqual(t, Sentinel, value(t, full, e.Key), e.Key)
			continue
		}
		assert.Equal(t, e.Value, value(t, full, e.Key), e.Key)
	}
}

func TestAggregate_NoWalks(t *testing.T) {
	trip := scenarioTrip()
	trip.Legs.WalkDuration = nil
	trip.Legs.WalkLength = nil

	r, err := Aggregate(trip, noDispatch(), noDirect())
	require.NoError(t, err)

	assert.Equal(t, 0.0, value(t, r, KeyWalks))
	assert.Equal(t, 0.0, value(t, r, KeyDistanceWalkMean))
	assert.Equal(t, 0.0, value(t, r, KeyDurationWalkMean))
	assert.InDelta(t, 4.5, value(t, r, KeyDurationTripMean), 1e-9)
}

func TestAggregate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*extract.TripinfoStats)
		dispatch   extract.Optional[extract.DispatchStats]
		wantType   apperrors.ErrorType
		wantSubstr string
	}{
		{
			name: "no accepted rides",
			mutate: func(s *extract.TripinfoStats) {
				s.Legs.RideDuration, s.Legs.RideWaiting, s.Legs.RideLength, s.Legs.RideTimeLoss = nil, nil, nil, nil
			},
			wantType:   apperrors.ErrTypeMissingData,
			wantSubstr: "ride legs",
		},
		{
			name:       "no vehicle trips",
			mutate:     func(s *extract.TripinfoStats) { s.Vehicles = extract.VehicleTripStats{} },
			wantType:   apperrors.ErrTypeMissingData,
			wantSubstr: "vehicle trips",
		},
		{
			name: "never occupied",
			mutate: func(s *extract.TripinfoStats) {
				s.Vehicles.OccupiedDistance, s.Vehicles.OccupiedTime = nil, nil
			},
			wantType:   apperrors.ErrTypeDegenerateInput,
			wantSubstr: "occupied segment count",
		},
		{
			name: "occupied time sums to zero",
			mutate: func(s *extract.TripinfoStats) {
				s.Vehicles.OccupiedTime = []float64{0, 0}
			},
			wantType:   apperrors.ErrTypeDegenerateInput,
			wantSubstr: KeyPassengersPerTimeOccupied,
		},
		{
			name: "vehicles never driving",
			mutate: func(s *extract.TripinfoStats) {
				s.Vehicles.StopTime = []float64{600, 400}
			},
			wantType:   apperrors.ErrTypeDegenerateInput,
			wantSubstr: KeyPassengersPerTimeDriving,
		},
		{
			name: "zero vehicle distance",
			mutate: func(s *extract.TripinfoStats) {
				s.Vehicles.RouteLength = []float64{0, 0}
			},
			wantType:   apperrors.ErrTypeDegenerateInput,
			wantSubstr: KeyOperationalEfficiency,
		},
		{
			name:   "pooling leaves no trips",
			mutate: func(s *extract.TripinfoStats) {},
			dispatch: extract.Present(extract.DispatchStats{
				Trips: 1, Persons: 3, RelTimeLoss: []float64{0.1, 0.1}, AbsTimeLoss: []float64{1, 1},
			}),
			wantType:   apperrors.ErrTypeDegenerateInput,
			wantSubstr: KeyRequestsPerTrip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := scenarioTrip()
			tt.mutate(trip)
			dispatch := tt.dispatch
			if !dispatch.IsPresent() {
				dispatch = noDispatch()
			}

			r, err := Aggregate(trip, dispatch, noDirect())
			require.Error(t, err)
			assert.Nil(t, r, "no partial report on error")
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantSubstr)
		})
	}
}

func TestAggregate_NilTrip(t *testing.T) {
	_, err := Aggregate(nil, noDispatch(), noDirect())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingData(err))
}

func TestAggregate_OperationalEfficiencyPositive(t *testing.T) {
	for _, length := range []float64{1, 500, 1e6} {
		trip := scenarioTrip()
		trip.Vehicles.RouteLength = []float64{length}
		r, err := Aggregate(trip, noDispatch(), noDirect())
		require.NoError(t, err)
		assert.Greater(t, value(t, r, KeyOperationalEfficiency), 0.0)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	first, err := Aggregate(scenarioTrip(), scenarioDispatch(), scenarioDirect())
	require.NoError(t, err)
	second, err := Aggregate(scenarioTrip(), scenarioDispatch(), scenarioDirect())
	require.NoError(t, err)

	assert.Equal(t, first.Entries(), second.Entries())
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	trip := scenarioTrip()
	_, err := Aggregate(trip, scenarioDispatch(), scenarioDirect())
	require.NoError(t, err)
	assert.Equal(t, scenarioTrip(), trip)
}

package kpi

import (
	"errors"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/extract"
	"drtkpi/internal/stats"
)

const (
	secondsPerMinute = 60.0
	metresPerKm      = 1000.0
)

// Aggregate computes the report from the trip record sets and the optional
// pooling and direct-route summaries. It fails with a missing-data error when
// no ride legs were accepted and with a degenerate-input error when a ratio
// denominator is zero.
func Aggregate(trip *extract.TripinfoStats, dispatch extract.Optional[extract.DispatchStats], direct extract.Optional[extract.DirectRouteStats]) (*Report, error) {
	if trip == nil {
		return nil, apperrors.NewMissingDataError(extract.SourceTripinfo, "trip records")
	}
	legs, veh := &trip.Legs, &trip.Vehicles
	if legs.Rides() == 0 {
		return nil, apperrors.NewMissingDataError(extract.SourceTripinfo, "accepted ride legs")
	}
	if veh.Vehicles() == 0 {
		return nil, apperrors.NewMissingDataError(extract.SourceTripinfo, "vehicle trips")
	}

	a := &aggregator{report: newReport()}
	a.persons(legs)
	a.pooling(legs, dispatch)
	a.rides(legs)
	a.timeLoss(dispatch)
	a.walks(legs)
	a.vehicles(legs, veh)
	a.direct(veh, direct)
	if a.err != nil {
		return nil, a.err
	}

	if err := a.report.complete(); err != nil {
		return nil, err
	}
	return a.report, nil
}

// aggregator keeps the first error so the KPI groups read as straight-line code.
type aggregator struct {
	report *Report
	err    error
}

func (a *aggregator) set(key string, v float64) {
	a.report.set(key, v)
}

func (a *aggregator) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// mean reduces values, recording a missing-data error for key when empty.
func (a *aggregator) mean(key, source string, values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		a.fail(reductionError(key, source, err))
	}
	return m
}

func (a *aggregator) stdDev(key, source string, values []float64) float64 {
	s, err := stats.StdDev(values)
	if err != nil {
		a.fail(reductionError(key, source, err))
	}
	return s
}

func (a *aggregator) max(key, source string, values []float64) float64 {
	m, err := stats.Max(values)
	if err != nil {
		a.fail(reductionError(key, source, err))
	}
	return m
}

// ratio divides, recording a degenerate-input error for key when den is zero.
func (a *aggregator) ratio(key, denominator string, num, den float64) float64 {
	if den == 0 {
		a.fail(apperrors.NewDegenerateInputError(key, denominator))
		return 0
	}
	return num / den
}

func reductionError(key, source string, err error) error {
	if errors.Is(err, stats.ErrEmpty) {
		return apperrors.NewMissingDataError(source, "values for "+key).WithContext("kpi", key)
	}
	return err
}

func (a *aggregator) persons(legs *extract.TripLegStats) {
	a.set(KeyPersonInfoRaw, float64(legs.RawPersons))
	a.set(KeyFiltered, float64(legs.Filtered))
	a.set(KeyFilteredWindow, float64(legs.FilteredWindow))
	a.set(KeyRateFiltered, legs.FilteredRate())
	a.set(KeyWalkingOnly, float64(legs.WalkOnly))
}

func (a *aggregator) pooling(legs *extract.TripLegStats, dispatch extract.Optional[extract.DispatchStats]) {
	rides := float64(legs.Rides())
	a.set(KeyRides, rides)

	d, ok := dispatch.Get()
	if !ok {
		a.set(KeyTrips, Sentinel)
		a.set(KeyRequestsPerTrip, Sentinel)
		a.set(KeyTripsPooling, Sentinel)
		a.set(KeyPersonsPooling, Sentinel)
		a.set(KeyRatePooling, Sentinel)
		return
	}

	trips := rides - float64(d.Persons) + float64(d.Trips)
	a.set(KeyTrips, trips)
	a.set(KeyRequestsPerTrip, a.ratio(KeyRequestsPerTrip, KeyTrips, rides, trips))
	a.set(KeyTripsPooling, float64(d.Trips))
	a.set(KeyPersonsPooling, float64(d.Persons))
	a.set(KeyRatePooling, a.ratio(KeyRatePooling, KeyRides, float64(d.Persons), rides))
}

func (a *aggregator) rides(legs *extract.TripLegStats) {
	src := extract.SourceTripinfo
	a.set(KeyWaitingRideMean, a.mean(KeyWaitingRideMean, src, legs.RideWaiting)/secondsPerMinute)
	a.set(KeyWaitingRideStd, a.stdDev(KeyWaitingRideStd, src, legs.RideWaiting)/secondsPerMinute)
	a.set(KeyDistanceRide, stats.Sum(legs.RideLength)/metresPerKm)
	a.set(KeyDistanceRideMean, a.mean(KeyDistanceRideMean, src, legs.RideLength)/metresPerKm)

	rideDuration := a.mean(KeyDurationRideMean, src, legs.RideDuration) / secondsPerMinute
	a.set(KeyDurationRideMean, rideDuration)
	a.set(KeyTimeLossRideMean, a.mean(KeyTimeLossRideMean, src, legs.RideTimeLoss)/secondsPerMinute)

	// a ride is bracketed by an access and an egress walk
	a.set(KeyDurationTripMean, rideDuration+2*walkMean(legs.WalkDuration)/secondsPerMinute)
}

func (a *aggregator) timeLoss(dispatch extract.Optional[extract.DispatchStats]) {
	d, ok := dispatch.Get()
	if !ok {
		a.set(KeyTimeLossRelMean, Sentinel)
		a.set(KeyTimeLossRelMax, Sentinel)
		a.set(KeyTimeLossAbsMean, Sentinel)
		return
	}
	src := extract.SourceDispatchInfo
	a.set(KeyTimeLossRelMean, a.mean(KeyTimeLossRelMean, src, d.RelTimeLoss))
	a.set(KeyTimeLossRelMax, a.max(KeyTimeLossRelMax, src, d.RelTimeLoss))
	a.set(KeyTimeLossAbsMean, a.mean(KeyTimeLossAbsMean, src, d.AbsTimeLoss)/secondsPerMinute)
}

func (a *aggregator) walks(legs *extract.TripLegStats) {
	a.set(KeyWalks, float64(legs.Walks()))
	a.set(KeyDistanceWalkMean, walkMean(legs.WalkLength)/metresPerKm)
	a.set(KeyDurationWalkMean, walkMean(legs.WalkDuration)/secondsPerMinute)
}

// walkMean is 0 for a run without walk legs.
func walkMean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func (a *aggregator) vehicles(legs *extract.TripLegStats, veh *extract.VehicleTripStats) {
	src := extract.SourceTripinfo

	distance := stats.Sum(veh.RouteLength)
	occupiedDistance := stats.Sum(veh.OccupiedDistance)
	duration := stats.Sum(veh.Duration)
	stop := stats.Sum(veh.StopTime)
	occupiedTime := stats.Sum(veh.OccupiedTime)
	driving := duration - stop
	rideDuration := stats.Sum(legs.RideDuration)

	a.set(KeyVehicles, float64(veh.Vehicles()))
	a.set(KeyDistanceVehicle, distance/metresPerKm)
	a.set(KeyDistanceVehicleMean, a.mean(KeyDistanceVehicleMean, src, veh.RouteLength)/metresPerKm)
	a.set(KeyDistanceVehicleOccupied, occupiedDistance/metresPerKm)
	a.set(KeyDistanceVehicleOccupiedMean, a.occupiedMean(KeyDistanceVehicleOccupiedMean, veh.OccupiedDistance)/metresPerKm)
	a.set(KeyDistanceVehicleEmpty, (distance-occupiedDistance)/metresPerKm)

	a.set(KeyDurationVehicle, duration/secondsPerMinute)
	a.set(KeyDurationVehicleDriving, driving/secondsPerMinute)
	a.set(KeyDurationVehicleOccupied, occupiedTime/secondsPerMinute)
	a.set(KeyDurationVehicleOccupiedMean, a.occupiedMean(KeyDurationVehicleOccupiedMean, veh.OccupiedTime)/secondsPerMinute)
	a.set(KeyDurationVehicleStop, stop/secondsPerMinute)
	a.set(KeyDurationVehicleStopMean, a.mean(KeyDurationVehicleStopMean, src, veh.StopTime)/secondsPerMinute)

	a.set(KeyPassengersPerTimeOccupied, a.ratio(KeyPassengersPerTimeOccupied, "occupied vehicle time", rideDuration, occupiedTime))
	a.set(KeyPassengersPerTimeDriving, a.ratio(KeyPassengersPerTimeDriving, "vehicle driving time", rideDuration, driving))
	a.set(KeyOperationalEfficiency, a.ratio(KeyOperationalEfficiency, "vehicle distance", stats.Sum(legs.RideLength), distance))
}

// occupiedMean treats a run without occupied segments as degenerate.
func (a *aggregator) occupiedMean(key string, values []float64) float64 {
	if len(values) == 0 {
		a.fail(apperrors.NewDegenerateInputError(key, "occupied segment count"))
		return 0
	}
	return a.mean(key, extract.SourceTripinfo, values)
}

func (a *aggregator) direct(veh *extract.VehicleTripStats, direct extract.Optional[extract.DirectRouteStats]) {
	d, ok := direct.Get()
	if !ok {
		a.set(KeyDirectRoutes, Sentinel)
		a.set(KeyDurationDirectMean, Sentinel)
		a.set(KeyDistanceDirect, Sentinel)
		a.set(KeySystemEfficiency, Sentinel)
		return
	}
	directLength := stats.Sum(d.Length)
	a.set(KeyDirectRoutes, float64(d.Routes))
	a.set(KeyDurationDirectMean, a.mean(KeyDurationDirectMean, extract.SourceDirectRoutes, d.TravelTime)/secondsPerMinute)
	a.set(KeyDistanceDirect, directLength/metresPerKm)
	a.set(KeySystemEfficiency, a.ratio(KeySystemEfficiency, "vehicle distance", directLength, stats.Sum(veh.RouteLength)))
}

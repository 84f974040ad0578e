package kpi

// Sentinel marks a KPI that is undefined because the optional input it needs was absent.
const Sentinel = -1.0

// KPI keys in report order.
const (
	KeyPersonInfoRaw    = "n_personinfo_raw"
	KeyFiltered         = "n_filtered"
	KeyFilteredWindow   = "n_filtered_window"
	KeyRateFiltered     = "rate_filtered"
	KeyWalkingOnly      = "n_walking_only"
	KeyRides            = "n_rides"
	KeyTrips            = "n_trips"
	KeyRequestsPerTrip  = "requests_per_trip"
	KeyTripsPooling     = "n_trips_pooling"
	KeyPersonsPooling   = "n_persons_pooling"
	KeyRatePooling      = "rate_pooling"
	KeyWaitingRideMean  = "waiting_ride_mean"
	KeyWaitingRideStd   = "waiting_ride_std"
	KeyDistanceRide     = "distance_ride"
	KeyDistanceRideMean = "distance_ride_mean"
	KeyDurationRideMean = "duration_ride_mean"
	KeyTimeLossRideMean = "timeloss_ride_mean"
	KeyDurationTripMean = "duration_trip_mean"
	KeyTimeLossRelMean  = "timeloss_rel_mean"
	KeyTimeLossRelMax   = "timeloss_rel_max"
	KeyTimeLossAbsMean  = "timeloss_abs_mean"
	KeyWalks            = "n_walks"
	KeyDistanceWalkMean = "distance_walk_mean"
	KeyDurationWalkMean = "duration_walk_mean"

	KeyVehicles                    = "n_vehicles"
	KeyDistanceVehicle             = "distance_vehicle"
	KeyDistanceVehicleMean         = "distance_vehicle_mean"
	KeyDistanceVehicleOccupied     = "distance_vehicle_occupied"
	KeyDistanceVehicleOccupiedMean = "distance_vehicle_occupied_mean"
	KeyDurationVehicle             = "duration_vehicle"
	KeyDurationVehicleDriving      = "duration_vehicle_driving"
	KeyDurationVehicleOccupied     = "duration_vehicle_occupied"
	KeyDurationVehicleOccupiedMean = "duration_vehicle_occupied_mean"
	KeyDistanceVehicleEmpty        = "distance_vehicle_empty"
	KeyDurationVehicleStop         = "duration_vehicle_stop"
	KeyDurationVehicleStopMean     = "duration_vehicle_stop_mean"
	KeyPassengersPerTimeOccupied   = "passengers_per_time_occupied"
	KeyPassengersPerTimeDriving    = "passengers_per_time_driving"
	KeyOperationalEfficiency       = "operational_efficiency"

	KeyDirectRoutes       = "n_direct_routes"
	KeyDurationDirectMean = "duration_direct_mean"
	KeyDistanceDirect     = "distance_direct"
	KeySystemEfficiency   = "system_efficiency"
)

var orderedKeys = []string{
	KeyPersonInfoRaw,
	KeyFiltered,
	KeyFilteredWindow,
	KeyRateFiltered,
	KeyWalkingOnly,
	KeyRides,
	KeyTrips,
	KeyRequestsPerTrip,
	KeyTripsPooling,
	KeyPersonsPooling,
	KeyRatePooling,
	KeyWaitingRideMean,
	KeyWaitingRideStd,
	KeyDistanceRide,
	KeyDistanceRideMean,
	KeyDurationRideMean,
	KeyTimeLossRideMean,
	KeyDurationTripMean,
	KeyTimeLossRelMean,
	KeyTimeLossRelMax,
	KeyTimeLossAbsMean,
	KeyWalks,
	KeyDistanceWalkMean,
	KeyDurationWalkMean,
	KeyVehicles,
	KeyDistanceVehicle,
	KeyDistanceVehicleMean,
	KeyDistanceVehicleOccupied,
	KeyDistanceVehicleOccupiedMean,
	KeyDurationVehicle,
	KeyDurationVehicleDriving,
	KeyDurationVehicleOccupied,
	KeyDurationVehicleOccupiedMean,
	KeyDistanceVehicleEmpty,
	KeyDurationVehicleStop,
	KeyDurationVehicleStopMean,
	KeyPassengersPerTimeOccupied,
	KeyPassengersPerTimeDriving,
	KeyOperationalEfficiency,
	KeyDirectRoutes,
	KeyDurationDirectMean,
	KeyDistanceDirect,
	KeySystemEfficiency,
}

// Keys returns the fixed KPI key set in report order.
func Keys() []string {
	out := make([]string, len(orderedKeys))
	copy(out, orderedKeys)
	return out
}

package extract

// Source names used in errors, logs and the run manifest.
const (
	SourceTripinfo     = "tripinfo"
	SourceDispatchInfo = "dispatchinfo"
	SourceDirectRoutes = "directRoutes"
)

// NullVehicle is the vehicle id the simulator writes for a ride that was never assigned.
const NullVehicle = "NULL"

// LegKind distinguishes ride and walk legs.
type LegKind string

const (
	LegRide LegKind = "ride"
	LegWalk LegKind = "walk"
)

// PersonLeg is one ride or walk segment of a person's journey.
// WaitingTime, TimeLoss and Vehicle are only meaningful for rides.
type PersonLeg struct {
	Kind        LegKind
	Depart      float64
	Arrival     float64
	Duration    float64
	WaitingTime float64
	RouteLength float64
	TimeLoss    float64
	Vehicle     string
}

// Valid reports whether the leg may be counted. Walk legs are always valid;
// a ride needs non-negative times and length and an assigned vehicle.
func (l PersonLeg) Valid() bool {
	if l.Kind != LegRide {
		return true
	}
	return l.Depart >= 0 && l.Arrival >= 0 && l.RouteLength >= 0 && l.Vehicle != NullVehicle
}

// PersonJourney is the ordered legs of one traveler, built from one <personinfo>.
type PersonJourney struct {
	ID     string
	Depart float64
	Legs   []PersonLeg
}

// EarliestDepart returns the smallest leg depart time, or Depart when there are no legs.
func (j PersonJourney) EarliestDepart() float64 {
	if len(j.Legs) == 0 {
		return j.Depart
	}
	earliest := j.Legs[0].Depart
	for _, l := range j.Legs[1:] {
		if l.Depart < earliest {
			earliest = l.Depart
		}
	}
	return earliest
}

// LatestArrival returns the largest leg arrival time, or Depart when there are no legs.
func (j PersonJourney) LatestArrival() float64 {
	if len(j.Legs) == 0 {
		return j.Depart
	}
	latest := j.Legs[0].Arrival
	for _, l := range j.Legs[1:] {
		if l.Arrival > latest {
			latest = l.Arrival
		}
	}
	return latest
}

// HasRide reports whether the journey contains a ride leg.
func (j PersonJourney) HasRide() bool { return j.hasKind(LegRide) }

// HasWalk reports whether the journey contains a walk leg.
func (j PersonJourney) HasWalk() bool { return j.hasKind(LegWalk) }

func (j PersonJourney) hasKind(kind LegKind) bool {
	for _, l := range j.Legs {
		if l.Kind == kind {
			return true
		}
	}
	return false
}

// FirstInvalidRide returns the index of the first invalid ride leg, or -1.
func (j PersonJourney) FirstInvalidRide() int {
	for i, l := range j.Legs {
		if !l.Valid() {
			return i
		}
	}
	return -1
}

// OccupiedSegment is one stretch of a vehicle trip with passengers on board.
type OccupiedSegment struct {
	Distance float64
	Time     float64
}

// VehicleTrip is one vehicle's full duty cycle.
type VehicleTrip struct {
	ID          string
	Duration    float64
	StopTime    float64
	RouteLength float64
	Occupied    []OccupiedSegment
}

// TimeWindow restricts which journeys are counted. A nil bound is disabled.
type TimeWindow struct {
	DepartEarliest *float64
	ArrivalLatest  *float64
}

// Excludes reports whether j falls outside the window.
func (w TimeWindow) Excludes(j PersonJourney) bool {
	if w.DepartEarliest != nil && j.Depart < *w.DepartEarliest {
		return true
	}
	if w.ArrivalLatest != nil && j.LatestArrival() > *w.ArrivalLatest {
		return true
	}
	return false
}

// TripLegStats is the accepted person-leg record set of a tripinfo document.
type TripLegStats struct {
	RawPersons      int
	Filtered        int
	FilteredWindow  int
	FilteredInvalid int
	Accepted        int
	WalkOnly        int

	RideTimeLoss []float64
	RideDuration []float64
	RideWaiting  []float64
	RideLength   []float64
	WalkDuration []float64
	WalkLength   []float64
}

// FilteredRate returns the share of person records that were discarded.
// Extract never yields RawPersons == 0; a zero TripLegStats reports 0.
func (s *TripLegStats) FilteredRate() float64 {
	if s.RawPersons == 0 {
		return 0
	}
	return float64(s.Filtered) / float64(s.RawPersons)
}

// Rides returns the number of accepted ride legs.
func (s *TripLegStats) Rides() int { return len(s.RideDuration) }

// Walks returns the number of accepted walk legs.
func (s *TripLegStats) Walks() int { return len(s.WalkDuration) }

// VehicleTripStats is the vehicle-trip record set of a tripinfo document.
type VehicleTripStats struct {
	VehicleType      string
	Duration         []float64
	StopTime         []float64
	RouteLength      []float64
	OccupiedDistance []float64
	OccupiedTime     []float64
}

// Vehicles returns the number of vehicle trips.
func (s *VehicleTripStats) Vehicles() int { return len(s.Duration) }

// TripinfoStats combines both record sets read from one tripinfo document.
type TripinfoStats struct {
	Legs     TripLegStats
	Vehicles VehicleTripStats
}

// DispatchStats summarizes pooled dispatch events.
type DispatchStats struct {
	Trips       int
	Persons     int
	RelTimeLoss []float64
	AbsTimeLoss []float64
}

// DirectRouteStats summarizes direct-route baselines.
type DirectRouteStats struct {
	Routes     int
	TravelTime []float64
	Length     []float64
}

package extract

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/xmltree"
)

// TripLegExtractor reads <personinfo> records and filters them into accepted leg arrays.
type TripLegExtractor struct {
	logger *slog.Logger
}

// NewTripLegExtractor creates a trip-leg extractor.
func NewTripLegExtractor(logger *slog.Logger) *TripLegExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripLegExtractor{logger: logger}
}

// Extract applies, per person record and in order, the time window filter,
// the ride validity filter, and acceptance of all remaining legs. A discarded
// journey contributes none of its legs.
func (x *TripLegExtractor) Extract(ctx context.Context, doc *xmltree.Document, window TimeWindow) (*TripLegStats, error) {
	persons := doc.Root().Children("personinfo")
	if len(persons) == 0 {
		return nil, apperrors.NewMissingDataError(SourceTripinfo, "personinfo records")
	}

	stats := &TripLegStats{RawPersons: len(persons)}

	for _, el := range persons {
		journey, legEls, err := parseJourney(el)
		if err != nil {
			return nil, err
		}

		if window.Excludes(journey) {
			stats.Filtered++
			stats.FilteredWindow++
			x.logger.DebugContext(ctx, "Journey outside time window",
				slog.String("person", journey.ID),
				slog.Float64("depart", journey.Depart),
				slog.Float64("arrival", journey.LatestArrival()))
			continue
		}

		if idx := journey.FirstInvalidRide(); idx >= 0 {
			stats.Filtered++
			stats.FilteredInvalid++
			x.logger.DebugContext(ctx, "Journey has invalid ride leg",
				slog.String("person", journey.ID),
				slog.Int("leg", idx),
				slog.String("vehicle", journey.Legs[idx].Vehicle))
			continue
		}

		if err := stats.accept(journey, legEls); err != nil {
			return nil, err
		}
	}

	x.logger.InfoContext(ctx, "Extracted trip legs",
		slog.Int("persons_raw", stats.RawPersons),
		slog.Int("persons_accepted", stats.Accepted),
		slog.Int("filtered_window", stats.FilteredWindow),
		slog.Int("filtered_invalid", stats.FilteredInvalid),
		slog.Int("rides", stats.Rides()),
		slog.Int("walks", stats.Walks()))

	return stats, nil
}

// accept appends every leg of an accepted journey to the leg arrays.
func (s *TripLegStats) accept(j PersonJourney, legEls []xmltree.Element) error {
	for i := range j.Legs {
		leg := j.Legs[i]
		if err := measureLeg(legEls[i], &leg); err != nil {
			return err
		}
		switch leg.Kind {
		case LegRide:
			s.RideTimeLoss = append(s.RideTimeLoss, leg.TimeLoss)
			s.RideDuration = append(s.RideDuration, leg.Duration)
			s.RideWaiting = append(s.RideWaiting, leg.WaitingTime)
			s.RideLength = append(s.RideLength, leg.RouteLength)
		case LegWalk:
			s.WalkDuration = append(s.WalkDuration, leg.Duration)
			s.WalkLength = append(s.WalkLength, leg.RouteLength)
		}
	}

	s.Accepted++
	if j.HasWalk() && !j.HasRide() {
		s.WalkOnly++
	}
	return nil
}

// parseJourney reads the attributes needed for filtering. The returned
// elements are parallel to the journey's legs.
//
// Legs after the first invalid ride belong to a discarded journey. They are
// read leniently and only feed the time window check, so a malformed record
// there cannot fail the run.
func parseJourney(el xmltree.Element) (PersonJourney, []xmltree.Element, error) {
	id, _ := el.Attr("id")
	journey := PersonJourney{ID: id}

	var legEls []xmltree.Element
	discarded := false
	for _, c := range el.Children("") {
		kind := LegKind(c.Tag())
		if kind != LegRide && kind != LegWalk {
			continue
		}

		if discarded {
			if leg, ok := parseDiscardedLeg(c, kind); ok {
				journey.Legs = append(journey.Legs, leg)
				legEls = append(legEls, c)
			}
			continue
		}

		leg, err := parseLeg(c, kind)
		if err != nil {
			return PersonJourney{}, nil, err
		}
		journey.Legs = append(journey.Legs, leg)
		legEls = append(legEls, c)
		discarded = kind == LegRide && !leg.Valid()
	}

	if el.HasAttr("depart") {
		depart, err := el.Float("depart")
		if err != nil {
			return PersonJourney{}, nil, err
		}
		journey.Depart = depart
	} else {
		journey.Depart = journey.EarliestDepart()
	}

	return journey, legEls, nil
}

func parseLeg(el xmltree.Element, kind LegKind) (PersonLeg, error) {
	leg := PersonLeg{Kind: kind}
	var err error

	if leg.Depart, err = el.Float("depart"); err != nil {
		return leg, err
	}
	if leg.Arrival, err = el.Float("arrival"); err != nil {
		return leg, err
	}
	if leg.RouteLength, err = el.Float("routeLength"); err != nil {
		return leg, err
	}
	if kind == LegRide {
		if leg.Vehicle, err = el.String("vehicle"); err != nil {
			return leg, err
		}
	}
	return leg, nil
}

// parseDiscardedLeg keeps a leg only when its times parse.
func parseDiscardedLeg(el xmltree.Element, kind LegKind) (PersonLeg, bool) {
	depart, err := el.Float("depart")
	if err != nil {
		return PersonLeg{}, false
	}
	arrival, err := el.Float("arrival")
	if err != nil {
		return PersonLeg{}, false
	}
	leg := PersonLeg{Kind: kind, Depart: depart, Arrival: arrival}
	leg.RouteLength, _ = el.Float("routeLength")
	leg.Vehicle, _ = el.Attr("vehicle")
	return leg, true
}

// measureLeg reads the values only needed once a leg is accepted.
func measureLeg(el xmltree.Element, leg *PersonLeg) error {
	var err error
	if leg.Duration, err = el.Float("duration"); err != nil {
		return err
	}
	if leg.Kind != LegRide {
		return nil
	}
	if leg.WaitingTime, err = el.Float("waitingTime"); err != nil {
		return err
	}
	if leg.TimeLoss, err = el.Float("timeLoss"); err != nil {
		return err
	}
	return nil
}

// VehicleTripExtractor reads <tripinfo> summaries of one vehicle type.
type VehicleTripExtractor struct {
	logger *slog.Logger
}

// NewVehicleTripExtractor creates a vehicle-trip extractor.
func NewVehicleTripExtractor(logger *slog.Logger) *VehicleTripExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &VehicleTripExtractor{logger: logger}
}

// Extract accepts every trip of vehicleType and all of its occupied segments without filtering.
func (x *VehicleTripExtractor) Extract(ctx context.Context, doc *xmltree.Document, vehicleType string) (*VehicleTripStats, error) {
	trips := doc.Root().ChildrenWhere("tripinfo", "vType", vehicleType)
	if len(trips) == 0 {
		return nil, apperrors.NewMissingDataError(SourceTripinfo, fmt.Sprintf("tripinfo records of vType %q", vehicleType))
	}

	stats := &VehicleTripStats{VehicleType: vehicleType}
	for _, el := range trips {
		trip, err := parseVehicleTrip(el)
		if err != nil {
			return nil, err
		}
		stats.Duration = append(stats.Duration, trip.Duration)
		stats.StopTime = append(stats.StopTime, trip.StopTime)
		stats.RouteLength = append(stats.RouteLength, trip.RouteLength)
		for _, seg := range trip.Occupied {
			stats.OccupiedDistance = append(stats.OccupiedDistance, seg.Distance)
			stats.OccupiedTime = append(stats.OccupiedTime, seg.Time)
		}
	}

	x.logger.InfoContext(ctx, "Extracted vehicle trips",
		slog.String("vtype", vehicleType),
		slog.Int("vehicles", stats.Vehicles()),
		slog.Int("occupied_segments", len(stats.OccupiedTime)))

	return stats, nil
}

// parseVehicleTrip reads a <tripinfo>. Any child element carrying occupancy
// attributes is an occupied segment.
func parseVehicleTrip(el xmltree.Element) (VehicleTrip, error) {
	id, _ := el.Attr("id")
	trip := VehicleTrip{ID: id}
	var err error

	if trip.Duration, err = el.Float("duration"); err != nil {
		return trip, err
	}
	if trip.StopTime, err = el.Float("stopTime"); err != nil {
		return trip, err
	}
	if trip.RouteLength, err = el.Float("routeLength"); err != nil {
		return trip, err
	}

	for _, c := range el.Children("") {
		if !c.HasAttr("occupiedDistance") && !c.HasAttr("occupiedTime") {
			continue
		}
		var seg OccupiedSegment
		if seg.Distance, err = c.Float("occupiedDistance"); err != nil {
			return trip, err
		}
		if seg.Time, err = c.Float("occupiedTime"); err != nil {
			return trip, err
		}
		trip.Occupied = append(trip.Occupied, seg)
	}

	return trip, nil
}

// TripinfoOptions selects what ExtractTripinfo counts.
type TripinfoOptions struct {
	VehicleType string
	Window      TimeWindow
}

// ExtractTripinfo extracts both record sets of a tripinfo document.
func ExtractTripinfo(ctx context.Context, doc *xmltree.Document, opts TripinfoOptions, logger *slog.Logger) (*TripinfoStats, error) {
	legs, err := NewTripLegExtractor(logger).Extract(ctx, doc, opts.Window)
	if err != nil {
		return nil, err
	}
	vehicles, err := NewVehicleTripExtractor(logger).Extract(ctx, doc, opts.VehicleType)
	if err != nil {
		return nil, err
	}
	return &TripinfoStats{Legs: *legs, Vehicles: *vehicles}, nil
}

// Package extract turns simulator output documents into record sets ready for
// aggregation.
//
// There are four independent extractors:
//
//	TripLegExtractor        person ride/walk legs, with window and validity filtering (tripinfo)
//	VehicleTripExtractor    vehicle trip summaries and occupied segments (tripinfo)
//	DispatchExtractor       pooled dispatch events (dispatchinfo, optional)
//	DirectRouteExtractor    uncongested direct-route baselines (optional)
//
// ExtractTripinfo runs the first two over the same document. Optional inputs
// yield Absent when the document lists no matching entries; that is an
// expected condition, not an error.
//
// Attribute names are the contract with the simulator and are matched exactly.
package extract

package extract

import (
	"context"
	"log/slog"

	"drtkpi/internal/xmltree"
)

// DirectRouteExtractor reads baseline <vehicle> routes computed without pooling or detours.
type DirectRouteExtractor struct {
	logger *slog.Logger
}

// NewDirectRouteExtractor creates a direct-route extractor.
func NewDirectRouteExtractor(logger *slog.Logger) *DirectRouteExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectRouteExtractor{logger: logger}
}

// Extract returns Absent when the document lists no vehicles. The cost and
// routeLength of each vehicle are taken from its <route> child when present
// there, otherwise from the vehicle element.
func (x *DirectRouteExtractor) Extract(ctx context.Context, doc *xmltree.Document) (Optional[DirectRouteStats], error) {
	vehicles := doc.Root().Children("vehicle")
	if len(vehicles) == 0 {
		x.logger.InfoContext(ctx, "No direct routes, efficiency baseline undefined",
			slog.String("source", SourceDirectRoutes))
		return Absent[DirectRouteStats](), nil
	}

	stats := DirectRouteStats{
		Routes:     len(vehicles),
		TravelTime: make([]float64, 0, len(vehicles)),
		Length:     make([]float64, 0, len(vehicles)),
	}

	for _, v := range vehicles {
		cost, err := routeAttr(v, "cost").Float("cost")
		if err != nil {
			return Absent[DirectRouteStats](), err
		}
		length, err := routeAttr(v, "routeLength").Float("routeLength")
		if err != nil {
			return Absent[DirectRouteStats](), err
		}
		stats.TravelTime = append(stats.TravelTime, cost)
		stats.Length = append(stats.Length, length)
	}

	x.logger.InfoContext(ctx, "Extracted direct routes", slog.Int("routes", stats.Routes))

	return Present(stats), nil
}

// routeAttr picks the element that carries attr: the <route> child if it has it, else the vehicle.
func routeAttr(vehicle xmltree.Element, attr string) xmltree.Element {
	if route, ok := vehicle.Child("route"); ok && route.HasAttr(attr) {
		return route
	}
	return vehicle
}

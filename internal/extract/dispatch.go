package extract

import (
	"context"
	"log/slog"
	"strings"

	"drtkpi/internal/xmltree"
)

// DispatchExtractor reads <dispatchShared> events of a dispatchinfo document.
type DispatchExtractor struct {
	logger *slog.Logger
}

// NewDispatchExtractor creates a dispatch extractor.
func NewDispatchExtractor(logger *slog.Logger) *DispatchExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchExtractor{logger: logger}
}

// Extract returns Absent when the document lists no shared dispatch events.
// Both legs of each shared match go into the same time-loss distributions.
func (x *DispatchExtractor) Extract(ctx context.Context, doc *xmltree.Document) (Optional[DispatchStats], error) {
	events := doc.Root().Children("dispatchShared")
	if len(events) == 0 {
		x.logger.InfoContext(ctx, "No pooled dispatch events, pooling KPIs undefined",
			slog.String("source", SourceDispatchInfo))
		return Absent[DispatchStats](), nil
	}

	stats := DispatchStats{
		Trips:       len(events),
		RelTimeLoss: make([]float64, 0, 2*len(events)),
		AbsTimeLoss: make([]float64, 0, 2*len(events)),
	}

	for _, ev := range events {
		persons, err := ev.String("persons")
		if err != nil {
			return Absent[DispatchStats](), err
		}
		sharing, err := ev.String("sharingPersons")
		if err != nil {
			return Absent[DispatchStats](), err
		}
		stats.Persons += len(strings.Fields(persons)) + len(strings.Fields(sharing))

		for _, attr := range []string{"relLoss", "relLoss2"} {
			v, err := ev.Float(attr)
			if err != nil {
				return Absent[DispatchStats](), err
			}
			stats.RelTimeLoss = append(stats.RelTimeLoss, v)
		}
		for _, attr := range []string{"absLoss", "absLoss2"} {
			v, err := ev.Float(attr)
			if err != nil {
				return Absent[DispatchStats](), err
			}
			stats.AbsTimeLoss = append(stats.AbsTimeLoss, v)
		}
	}

	x.logger.InfoContext(ctx, "Extracted pooled dispatch events",
		slog.Int("trips_pooling", stats.Trips),
		slog.Int("persons_pooling", stats.Persons))

	return Present(stats), nil
}

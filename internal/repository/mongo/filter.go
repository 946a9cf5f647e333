package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// buildEventFilter translates an EventFilter into a MongoDB query document.
// The search term is matched literally, case-insensitively, against title,
// venue name and description.
func buildEventFilter(f repository.EventFilter) bson.D {
	filter := bson.D{{Key: "city", Value: f.City}}

	switch len(f.Statuses) {
	case 0:
	case 1:
		filter = append(filter, bson.E{Key: "status", Value: string(f.Statuses[0])})
	default:
		statuses := make(bson.A, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		filter = append(filter, bson.E{Key: "status", Value: bson.D{{Key: "$in", Value: statuses}}})
	}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "venue.name", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
		}})
	}

	if f.From != nil || f.To != nil {
		dateRange := bson.D{}
		if f.From != nil {
			dateRange = append(dateRange, bson.E{Key: "$gte", Value: *f.From})
		}
		if f.To != nil {
			dateRange = append(dateRange, bson.E{Key: "$lte", Value: *f.To})
		}
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}

	return filter
}

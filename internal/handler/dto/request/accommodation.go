package request

import (
	"strings"

	"unihaven/internal/usecase/queries"
)

// AccommodationListQuery binds the browse filters from the query string. Dates
// use YYYY-MM-DD like everywhere else on the wire.
type AccommodationListQuery struct {
	University     string `form:"university"`
	AvailableFrom  string `form:"available_from"`
	AvailableUntil string `form:"available_until"`
}

func (q *AccommodationListQuery) ToFilter() (queries.AccommodationFilter, error) {
	var filter queries.AccommodationFilter

	if q.University != "" {
		code := strings.ToLower(q.University)
		filter.University = &code
	}
	if q.AvailableFrom != "" {
		from, err := parseDate(q.AvailableFrom)
		if err != nil {
			return queries.AccommodationFilter{}, err
		}
		filter.AvailableFrom = &from
	}
	if q.AvailableUntil != "" {
		until, err := parseDate(q.AvailableUntil)
		if err != nil {
			return queries.AccommodationFilter{}, err
		}
		filter.AvailableUntil = &until
	}
	return filter, nil
}

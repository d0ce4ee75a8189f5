package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by the catalog service
const (
	ParamQuery       = "query"
	ParamGenre       = "genre"
	ParamReleaseYear = "releaseYear"
	ParamRatingFrom  = "ratingFrom"
)

// Criteria narrows a catalog request. Nil pointers and an empty Query are absent.
type Criteria struct {
	Query       string
	Genre       *Genre
	ReleaseYear *int
	RatingFrom  *float64
}

// IsEmpty reports whether no criterion is set
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == "" && c.Genre == nil && c.ReleaseYear == nil && c.RatingFrom == nil
}

// Values returns the URL query parameters for the present criteria
func (c Criteria) Values() url.Values {
	params := url.Values{}
	if q := strings.TrimSpace(c.Query); q != "" {
		params.Set(ParamQuery, q)
	}
	if c.Genre != nil {
		params.Set(ParamGenre, c.Genre.String())
	}
	if c.ReleaseYear != nil {
		params.Set(ParamReleaseYear, strconv.Itoa(*c.ReleaseYear))
	}
	if c.RatingFrom != nil {
		params.Set(ParamRatingFrom, formatRating(*c.RatingFrom))
	}
	return params
}

// BuildURL combines the base endpoint with the present criteria.
// It fails only when base is not an absolute URL.
func BuildURL(base string, c Criteria) (string, error) {
	u, err := parseEndpoint(base)
	if err != nil {
		return "", err
	}

	params := u.Query()
	for key, vals := range c.Values() {
		params[key] = vals
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// parseEndpoint validates that base can be used as the catalog endpoint
func parseEndpoint(base string) (*url.URL, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("%w: catalog URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: catalog URL %q must be absolute", ErrInvalidConfig, base)
	}
	return u, nil
}

// formatRating renders a rating with at least one decimal place, e.g. 7 -> "7.0"
func formatRating(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package observability

import (
	"strings"
)

const (
	AttrQueryShape     = "covidcol.query.shape"
	AttrQueryID        = "covidcol.query.id"
	AttrRegion         = "covidcol.region"
	AttrRowLimit       = "covidcol.row_limit"
	AttrRowCount       = "covidcol.row_count"
	AttrOutcome        = "covidcol.resolution.outcome"
	AttrDataset        = "covidcol.dataset"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrErrorType      = "error.type"
)

// Query shapes supported by the remote source.
const (
	ShapeByRegion   = "by_region"
	ShapeUnfiltered = "unfiltered"
	ShapeRegions    = "regions"
)

var secretKeySubstrings = []string{
	"token",
	"secret",
	"password",
	"authorization",
}

// RedactAttributeValue masks values for known-sensitive attribute keys.
func RedactAttributeValue(key string, value string) string {
	lower := strings.ToLower(key)
	for _, needle := range secretKeySubstrings {
		if strings.Contains(lower, needle) {
			return "[REDACTED]"
		}
	}
	return value
}

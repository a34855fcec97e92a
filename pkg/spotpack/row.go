package spotpack

import (
	"fmt"
	"strconv"
	"strings"
)

// SkipReason explains why a CSV row produced no spot.
type SkipReason string

const (
	SkipMissingCoordinates SkipReason = "missing-coordinates"
	SkipInvalidCoordinates SkipReason = "invalid-coordinates"
	SkipOutOfRange         SkipReason = "out-of-range"
)

// RowResult is the outcome of normalizing one CSV row: either Spot or Skip is set.
type RowResult struct {
	Line int
	Spot *Spot
	Skip SkipReason
}

func parseCoords(latStr string, lngStr string) (float64, float64, SkipReason) {
	latStr = strings.TrimSpace(latStr)
	lngStr = strings.TrimSpace(lngStr)
	if latStr == "" || lngStr == "" {
		return 0, 0, SkipMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, SkipInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, SkipInvalidCoordinates
	}

	// written so that NaN fails
	if !(lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180) {
		return 0, 0, SkipOutOfRange
	}
	return lat, lng, ""
}

// NormalizeRow turns a CSV row into a spot. emitted is the number of spots already
// produced for source, and numbers the synthetic id of rows that carry no id.
func NormalizeRow(r Row, cols Columns, source string, emitted int, photos PhotoIndex) RowResult {
	res := RowResult{Line: r.Line}

	lat, lng, skip := parseCoords(cols.Value(r.Fields, RoleLat), cols.Value(r.Fields, RoleLng))
	if skip != "" {
		res.Skip = skip
		return res
	}

	id := strings.TrimSpace(cols.Value(r.Fields, RoleID))
	if id == "" {
		id, _ = ExtractID(cols.Value(r.Fields, RoleURL))
	}

	name := strings.TrimSpace(cols.Value(r.Fields, RoleName))
	if name == "" {
		if id != "" {
			name = fmt.Sprintf("Spot %s", id)
		} else {
			name = fmt.Sprintf("Unknown (%.4f, %.4f)", lat, lng)
		}
	}

	s := &Spot{
		ID:      id,
		Name:    name,
		Lat:     lat,
		Lng:     lng,
		Type:    SpotType,
		Source:  source,
		Address: strings.TrimSpace(cols.Value(r.Fields, RoleAddress)),
		Memo:    strings.TrimSpace(cols.Value(r.Fields, RoleMemo)),
	}

	if id != "" {
		s.Photos = photos.Paths(id)
	} else {
		s.ID = fmt.Sprintf("%s_%d", source, emitted)
	}

	res.Spot = s
	return res
}

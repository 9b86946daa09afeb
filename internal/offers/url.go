package offers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// OffersPath is the listings search endpoint relative to the API base URL.
const OffersPath = "/api/v1/offers/"

// BuildURL returns the nearby-offers request URL for center and radius.
// Coordinates are written with six decimal digits; the radius is escaped but otherwise left as typed.
func BuildURL(baseURL string, center models.GeoPosition, radius string) string {
	return fmt.Sprintf(
		"%s%s?counts=false&nearby_location=%.6f,%.6f&nearby_radius=%s&aggregate_by=with_photo",
		strings.TrimRight(baseURL, "/"),
		OffersPath,
		center.Latitude,
		center.Longitude,
		url.QueryEscape(radius),
	)
}

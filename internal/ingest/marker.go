package ingest

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

const (
	// DefaultAltitude is the anchor altitude, in meters, given to every listing marker.
	DefaultAltitude = 165.0
	// DefaultImage is the pin shown for listing markers.
	DefaultImage = "pin3"
)

// MarkerFromListing builds the scene marker for a listing. It reports false when
// the listing has no id or no complete coordinate, such listings are never placed.
func MarkerFromListing(listing models.Listing, altitude float64, image string) (models.Marker, bool) {
	if listing.ID == nil {
		return models.Marker{}, false
	}

	lat, lon, ok := listing.Coordinate()
	if !ok {
		return models.Marker{}, false
	}

	location := models.GeoPosition{Latitude: lat, Longitude: lon}.WithAltitude(altitude)

	return models.Marker{
		Tag:                     strconv.Itoa(*listing.ID),
		Location:                location,
		Image:                   image,
		ScaleRelativeToDistance: true,
	}, true
}

// ListingID recovers the listing id carried by a marker tag.
func ListingID(marker models.Marker) (int, error) {
	return strconv.Atoi(marker.Tag)
}

// TapURL is the page opened when the marker with the given tag is tapped.
func TapURL(baseURL, tag string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(tag)
}

package models

// Listing is a real-estate offer as returned by the listings API.
// Every field is optional on the wire.
type Listing struct {
	ID       *int             `json:"id"`
	Rooms    *int             `json:"rooms"`
	Area     *float64         `json:"area"`
	Floor    *int             `json:"floor"`
	Floors   *int             `json:"floors"`
	Price    *float64         `json:"price"`
	Location *ListingLocation `json:"location"`
}

// ListingLocation is the coordinate block of a listing.
type ListingLocation struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Coordinate returns the listing coordinate and whether both parts are present.
func (l Listing) Coordinate() (float64, float64, bool) {
	if l.Location == nil || l.Location.Lat == nil || l.Location.Lon == nil {
		return 0, 0, false
	}

	return *l.Location.Lat, *l.Location.Lon, true
}

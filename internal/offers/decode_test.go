package offers_test

import (
	"testing"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/offers"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDecode(t *testing.T) {
	t.Run("single item with location only", func(t *testing.T) {
		listings, err := offers.Decode([]byte(`{"result":{"items":[{"id":1,"location":{"lat":55.7,"lon":37.6}}]}}`))

		require.NoError(t, err)
		want := []models.Listing{{
			ID:       ptr(1),
			Location: &models.ListingLocation{Lat: ptr(55.7), Lon: ptr(37.6)},
		}}
		if diff := cmp.Diff(want, listings); diff != "" {
			t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("all fields and unknown extras", func(t *testing.T) {
		payload := `{"result":{"total":1,"items":[{"id":7,"rooms":2,"area":54.5,"floor":3,"floors":9,
			"price":12500000,"photo":["a.jpg"],"location":{"lat":1.5,"lon":2.5,"precision":"exact"}}]}}`

		listings, err := offers.Decode([]byte(payload))

		require.NoError(t, err)
		want := []models.Listing{{
			ID:       ptr(7),
			Rooms:    ptr(2),
			Area:     ptr(54.5),
			Floor:    ptr(3),
			Floors:   ptr(9),
			Price:    ptr(12500000.0),
			Location: &models.ListingLocation{Lat: ptr(1.5), Lon: ptr(2.5)},
		}}
		if diff := cmp.Diff(want, listings); diff != "" {
			t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("null location is kept without coordinate", func(t *testing.T) {
		listings, err := offers.Decode([]byte(`{"result":{"items":[{"id":2,"location":null},{"id":3}]}}`))

		require.NoError(t, err)
		require.Len(t, listings, 2)
		_, _, ok := listings[0].Coordinate()
		assert.False(t, ok)
		_, _, ok = listings[1].Coordinate()
		assert.False(t, ok)
	})

	t.Run("null entries are skipped", func(t *testing.T) {
		listings, err := offers.Decode([]byte(`{"result":{"items":[null,{"id":4}]}}`))

		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, 4, *listings[0].ID)
	})

	t.Run("missing result", func(t *testing.T) {
		listings, err := offers.Decode([]byte(`{"result":null}`))

		require.ErrorIs(t, err, offers.ErrDecode)
		require.ErrorIs(t, err, offers.ErrMissingResult)
		assert.Nil(t, listings)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := offers.Decode([]byte(`not json`))

		require.ErrorIs(t, err, offers.ErrDecode)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := offers.Decode([]byte(`{"result":{"items":[{"id":"abc"}]}}`))

		require.ErrorIs(t, err, offers.ErrDecode)
	})
}

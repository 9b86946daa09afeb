package offers

import (
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// offersResponse represents the JSON response from the listings API.
type offersResponse struct {
	Result *struct {
		Items []*models.Listing `json:"items"`
	} `json:"result"`
}

// Decode parses a listings payload. Null entries in items are skipped;
// entries without a location are kept. A payload without a result object is rejected.
func Decode(body []byte) ([]models.Listing, error) {
	var resp offersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if resp.Result == nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrMissingResult)
	}

	listings := make([]models.Listing, 0, len(resp.Result.Items))
	for _, item := range resp.Result.Items {
		if item == nil {
			continue
		}
		listings = append(listings, *item)
	}

	return listings, nil
}

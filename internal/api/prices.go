package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Historical price query shape. The window is widened a few days past the
// target so weekends and market holidays still yield a candle; the first
// candle at or after the target wins.
const (
	priceResolution  = "DAY"
	priceWindowDays  = 5
	priceCandleLimit = 10
)

// ResolveClose returns the daily close nearest the target date, or nil
// when the provider has no history there. Missing history is a normal
// outcome for instruments younger than the lookback window, not an error.
func (c *Client) ResolveClose(ctx context.Context, epic string, target time.Time) (*float64, error) {
	query := url.Values{}
	query.Set("resolution", priceResolution)
	query.Set("max", strconv.Itoa(priceCandleLimit))
	query.Set("from", target.Format(snapshotTimeLayout))
	query.Set("to", target.AddDate(0, 0, priceWindowDays).Format(snapshotTimeLayout))

	var resp pricesResponse
	if err := c.get(ctx, "/prices/"+epic, query, &resp); err != nil {
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusNotFound {
			// The provider answers 404 for ranges before the instrument
			// existed. Same meaning as an empty candle list.
			return nil, nil
		}
		return nil, fmt.Errorf("prices %s: %w", epic, err)
	}

	for _, candle := range resp.Prices {
		if point, ok := candle.closePoint(); ok {
			return &point.Close, nil
		}
	}
	return nil, nil
}

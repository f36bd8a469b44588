package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"capitalperf/internal/model"
)

// navigationPageLimit is the provider's maximum page size for navigation
// market lists.
const navigationPageLimit = 500

// CategoryMarkets fetches the instruments listed under a market navigation
// node, preserving provider order. Category caps are applied by the
// caller, not here.
func (c *Client) CategoryMarkets(ctx context.Context, nodeID, category string) ([]model.Instrument, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(navigationPageLimit))

	var resp navigationResponse
	if err := c.get(ctx, "/marketnavigation/"+nodeID, query, &resp); err != nil {
		return nil, fmt.Errorf("market navigation %s: %w", nodeID, err)
	}

	instruments := make([]model.Instrument, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		instruments = append(instruments, m.toInstrument(category))
	}
	return instruments, nil
}

// MarketDetails fetches instrument metadata plus the current snapshot for
// a single epic.
func (c *Client) MarketDetails(ctx context.Context, epic string) (*model.MarketDetails, error) {
	var resp marketDetailsResponse
	if err := c.get(ctx, "/markets/"+epic, nil, &resp); err != nil {
		return nil, fmt.Errorf("market details %s: %w", epic, err)
	}

	details := resp.toDetails()
	if details.Instrument.Epic == "" {
		details.Instrument.Epic = epic
	}
	return &details, nil
}

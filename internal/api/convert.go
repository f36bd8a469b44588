package api

import (
	"time"

	"capitalperf/internal/model"
)

// snapshotTimeLayout is the provider's candle timestamp format.
const snapshotTimeLayout = "2006-01-02T15:04:05"

// toInstrument converts a navigation market entry to the model type. The
// display name falls back to the epic when the provider omits it.
func (m navigationMarket) toInstrument(category string) model.Instrument {
	name := m.InstrumentName
	if name == "" {
		name = m.Epic
	}
	return model.Instrument{
		Epic:         m.Epic,
		Name:         name,
		Category:     category,
		Type:         m.InstrumentType,
		MarketStatus: m.MarketStatus,
	}
}

// toDetails converts a market details response to the model type.
func (r marketDetailsResponse) toDetails() model.MarketDetails {
	return model.MarketDetails{
		Instrument: model.Instrument{
			Epic:         r.Instrument.Epic,
			Name:         r.Instrument.Name,
			Currency:     r.Instrument.Currency,
			Type:         r.Instrument.Type,
			MarketStatus: r.Snapshot.MarketStatus,
		},
		Snapshot: model.Snapshot{
			Bid:          r.Snapshot.Bid,
			Offer:        r.Snapshot.Offer,
			ChangeToday:  r.Snapshot.PercentageChange,
			MarketStatus: r.Snapshot.MarketStatus,
		},
	}
}

// closePoint extracts the bid-side close from a candle, if present.
func (p priceCandle) closePoint() (model.PricePoint, bool) {
	if p.ClosePrice == nil || p.ClosePrice.Bid == nil {
		return model.PricePoint{}, false
	}
	point := model.PricePoint{Close: *p.ClosePrice.Bid}
	if t, err := time.Parse(snapshotTimeLayout, p.SnapshotTime); err == nil {
		point.Time = t
	}
	return point, true
}

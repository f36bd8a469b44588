package api

import (
	"testing"
	"time"

	"capitalperf/internal/model"
)

func TestNavigationMarketToInstrument(t *testing.T) {
	tests := []struct {
		name     string
		market   navigationMarket
		category string
		want     model.Instrument
	}{
		{
			name: "full entry",
			market: navigationMarket{
				Epic:           "AAPL",
				InstrumentName: "Apple Inc",
				InstrumentType: "SHARES",
				MarketStatus:   "TRADEABLE",
				Bid:            model.Float(187.5),
			},
			category: "shares",
			want: model.Instrument{
				Epic:         "AAPL",
				Name:         "Apple Inc",
				Category:     "shares",
				Type:         "SHARES",
				MarketStatus: "TRADEABLE",
			},
		},
		{
			name: "name falls back to epic",
			market: navigationMarket{
				Epic:           "BTCUSD",
				InstrumentType: "CRYPTOCURRENCIES",
			},
			category: "cryptocurrencies",
			want: model.Instrument{
				Epic:     "BTCUSD",
				Name:     "BTCUSD",
				Category: "cryptocurrencies",
				Type:     "CRYPTOCURRENCIES",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.market.toInstrument(tt.category)
			if got != tt.want {
				t.Errorf("toInstrument = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMarketDetailsResponseToDetails(t *testing.T) {
	resp := marketDetailsResponse{
		Instrument: instrumentDetails{
			Epic:     "GOLD",
			Name:     "Gold",
			Type:     "COMMODITIES",
			Currency: "USD",
		},
		Snapshot: marketSnapshot{
			Bid:              model.Float(2411.3),
			Offer:            model.Float(2411.8),
			PercentageChange: model.Float(-0.35),
			MarketStatus:     "TRADEABLE",
		},
	}

	details := resp.toDetails()

	if details.Instrument.Epic != "GOLD" {
		t.Errorf("Epic = %q, want %q", details.Instrument.Epic, "GOLD")
	}
	if details.Instrument.Currency != "USD" {
		t.Errorf("Currency = %q, want %q", details.Instrument.Currency, "USD")
	}
	if details.Snapshot.Bid == nil || *details.Snapshot.Bid != 2411.3 {
		t.Errorf("Bid = %v, want 2411.3", details.Snapshot.Bid)
	}
	if details.Snapshot.ChangeToday == nil || *details.Snapshot.ChangeToday != -0.35 {
		t.Errorf("ChangeToday = %v, want -0.35", details.Snapshot.ChangeToday)
	}
	if details.Instrument.MarketStatus != "TRADEABLE" {
		t.Errorf("MarketStatus = %q, want %q", details.Instrument.MarketStatus, "TRADEABLE")
	}
}

func TestMarketDetailsMissingSnapshotFields(t *testing.T) {
	resp := marketDetailsResponse{
		Instrument: instrumentDetails{Epic: "HALTED"},
	}

	details := resp.toDetails()
	if details.Snapshot.Bid != nil {
		t.Errorf("Bid = %v, want nil", *details.Snapshot.Bid)
	}
	if details.Snapshot.ChangeToday != nil {
		t.Errorf("ChangeToday = %v, want nil", *details.Snapshot.ChangeToday)
	}
}

func TestPriceCandleClosePoint(t *testing.T) {
	t.Run("bid-side close", func(t *testing.T) {
		candle := priceCandle{
			SnapshotTime: "2024-06-08T00:00:00",
			ClosePrice:   &apiQuote{Bid: model.Float(95000), Ask: model.Float(95010)},
		}

		point, ok := candle.closePoint()
		if !ok {
			t.Fatal("closePoint() = false, want true")
		}
		if point.Close != 95000 {
			t.Errorf("Close = %v, want 95000", point.Close)
		}
		want := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
		if !point.Time.Equal(want) {
			t.Errorf("Time = %v, want %v", point.Time, want)
		}
	})

	t.Run("missing close price", func(t *testing.T) {
		if _, ok := (priceCandle{SnapshotTime: "2024-06-08T00:00:00"}).closePoint(); ok {
			t.Error("closePoint() = true for candle without close")
		}
	})

	t.Run("close without bid", func(t *testing.T) {
		candle := priceCandle{ClosePrice: &apiQuote{Ask: model.Float(95010)}}
		if _, ok := candle.closePoint(); ok {
			t.Error("closePoint() = true for close without bid")
		}
	})

	t.Run("unparseable time still yields price", func(t *testing.T) {
		candle := priceCandle{
			SnapshotTime: "not-a-time",
			ClosePrice:   &apiQuote{Bid: model.Float(42)},
		}
		point, ok := candle.closePoint()
		if !ok {
			t.Fatal("closePoint() = false, want true")
		}
		if !point.Time.IsZero() {
			t.Errorf("Time = %v, want zero", point.Time)
		}
	})
}

// Package spread derives cross-venue spreads from top-of-book prices.
package spread

import "github.com/sawpanic/spreadscan/internal/data/venue/types"

// TopOfBook holds a venue's best bid and ask. A nil field means the side is
// unavailable, either because the book side was empty or the fetch failed.
type TopOfBook struct {
	Bid *float64 `json:"best_bid"`
	Ask *float64 `json:"best_ask"`
}

// PairSpread holds both directions for a left/right venue pair.
//
//	SpreadSell = left best bid  - right best ask (sell left, buy right)
//	SpreadBuy  = right best bid - left best ask  (sell right, buy left)
type PairSpread struct {
	SpreadSell *float64 `json:"spread_sell"`
	SpreadBuy  *float64 `json:"spread_buy"`
}

// BestPrices extracts the top of book. A nil book yields an empty TopOfBook.
func BestPrices(book *types.OrderBook) TopOfBook {
	var top TopOfBook
	if bid, ok := book.BestBid(); ok {
		top.Bid = price(bid.Price)
	}
	if ask, ok := book.BestAsk(); ok {
		top.Ask = price(ask.Price)
	}
	return top
}

// Spreads computes each direction independently; a direction is nil when
// either of its two inputs is missing.
func Spreads(left, right TopOfBook) PairSpread {
	var out PairSpread
	if left.Bid != nil && right.Ask != nil {
		out.SpreadSell = price(*left.Bid - *right.Ask)
	}
	if right.Bid != nil && left.Ask != nil {
		out.SpreadBuy = price(*right.Bid - *left.Ask)
	}
	return out
}

func price(v float64) *float64 { return &v }

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"github.com/shopspring/decimal"
)

const (
	minPrice = 100.0
	maxPrice = 200.0
	minQty   = 1
	maxQty   = 100
)

type stats struct {
	matches      int
	matchedQty   int64
	cancelled    int
	cancelMisses int
}

// simulate sends n random instructions to engine: cancelPct percent cancels
// of orders it rested earlier, marketPct percent market orders and limit
// orders for the rest. Any rejected instruction stops the run.
func simulate(engine *orderbook.MatchingEngine, rng *rand.Rand, start time.Time, n, marketPct, cancelPct int) (stats, error) {
	var st stats
	engine.RegisterTradeCallback(func(trades []orderbook.Trade) {
		for _, t := range trades {
			st.matches++
			st.matchedQty += t.Qty
			if st.matches <= 5 {
				log.Printf("match: buyer[%s] <=> seller[%s] @ %s qty %d maker #%d\n",
					t.BuyerID, t.SellerID, t.Price, t.Qty, t.MakerOrderID)
			}
		}
	})

	var resting []uint64
	for i := 0; i < n; i++ {
		side := orderbook.Bid
		if rng.Intn(2) == 0 {
			side = orderbook.Offer
		}
		qty := int64(rng.Intn(maxQty-minQty+1) + minQty)
		firm := fmt.Sprintf("ORD-%06d", i+1)
		ts := start.Add(time.Duration(i))

		switch r := rng.Intn(100); {
		case r < cancelPct && len(resting) > 0:
			j := rng.Intn(len(resting))
			id := resting[j]
			resting[j] = resting[len(resting)-1]
			resting = resting[:len(resting)-1]
			if engine.CancelOrder(id) == nil {
				st.cancelled++
			} else {
				st.cancelMisses++
			}
		case r < cancelPct+marketPct:
			if _, err := engine.ProcessMarketOrder(ts, side, qty, firm); err != nil {
				return st, err
			}
		default:
			price := decimal.NewFromFloat(minPrice + rng.Float64()*(maxPrice-minPrice))
			report, err := engine.ProcessLimitOrder(ts, side, qty, price, firm)
			if err != nil {
				return st, err
			}
			if report.OrderInBook {
				resting = append(resting, report.Order.ID)
			}
		}
	}
	return st, nil
}

func main() {
	numOrders := flag.Int("orders", 1_000_000, "number of random instructions")
	marketRatio := flag.Int("market-pct", 5, "percentage of market orders")
	cancelRatio := flag.Int("cancel-pct", 10, "percentage of cancels")
	flag.Parse()

	engine, err := orderbook.NewMatchingEngine(decimal.RequireFromString("0.01"))
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(start.UnixNano()))
	st, err := simulate(engine, rng, start, *numOrders, *marketRatio, *cancelRatio)
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	bids, _ := engine.OrderCount(orderbook.Bid)
	asks, _ := engine.OrderCount(orderbook.Offer)

	fmt.Println("--------")
	fmt.Printf("Total Instructions : %d\n", *numOrders)
	fmt.Printf("Total Matches      : %d\n", st.matches)
	fmt.Printf("Total Matched Qty  : %d\n", st.matchedQty)
	fmt.Printf("Cancelled          : %d (%d already filled)\n", st.cancelled, st.cancelMisses)
	fmt.Printf("Resting            : %d bids, %d offers\n", bids, asks)
	fmt.Printf("Time Taken         : %s\n", elapsed)
}

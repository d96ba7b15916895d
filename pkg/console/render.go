package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"github.com/shopspring/decimal"
)

// Render writes both sides of the book, best level first, followed by the
// trade tape.
func (s *Session) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(" -------- The Order Book --------\n")
	b.WriteString("|                                |\n")
	b.WriteString("|   ------- Bid  Book --------   |\n")
	if err := s.renderSide(&b, orderbook.Bid); err != nil {
		return err
	}
	b.WriteString("|   ------ Offer  Book -------   |\n")
	if err := s.renderSide(&b, orderbook.Offer); err != nil {
		return err
	}
	b.WriteString("|   -------- Trades  ---------   |\n")
	for _, t := range s.engine.Tape() {
		fmt.Fprintf(&b, "| %s %d @ %s (%s/%s)\n",
			t.Time.Format("15:04:05"), t.Qty, s.formatPrice(t.Price), t.BuyerID, t.SellerID)
	}
	b.WriteString(" --------------------------------\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (s *Session) renderSide(b *strings.Builder, side orderbook.Side) error {
	levels, err := s.engine.Levels(side)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return nil
	}
	volume, _ := s.engine.VolumeOnSide(side)
	count, _ := s.engine.OrderCount(side)

	var maxPrice, minPrice decimal.Decimal
	if side == orderbook.Bid {
		maxPrice, _ = s.engine.BestBid()
		minPrice, _ = s.engine.WorstBid()
	} else {
		maxPrice, _ = s.engine.WorstOffer()
		minPrice, _ = s.engine.BestOffer()
	}

	fmt.Fprintf(b, "| Max price = %s\n", s.formatPrice(maxPrice))
	fmt.Fprintf(b, "| Min price = %s\n", s.formatPrice(minPrice))
	fmt.Fprintf(b, "| Volume in book = %d\n", volume)
	fmt.Fprintf(b, "| Depth of book = %d\n", len(levels))
	fmt.Fprintf(b, "| Orders in book = %d\n", count)
	for _, lv := range levels {
		fmt.Fprintf(b, "| %s x %d\n", s.formatPrice(lv.Price), lv.Volume)
		for _, o := range lv.Orders {
			fmt.Fprintf(b, "|   #%d %d %s\n", o.ID, o.Qty, o.FirmID)
		}
	}
	b.WriteString("|\n")
	return nil
}

func (s *Session) formatPrice(p decimal.Decimal) string {
	return p.StringFixed(s.engine.PricePlaces())
}

// Package console drives a MatchingEngine from text instructions and renders
// the book for a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joripage/limit-orderbook/pkg/instruction"
	"github.com/joripage/limit-orderbook/pkg/logging"
	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"go.uber.org/zap"
)

var ErrPairMismatch = errors.New("instrument not traded by this book")

const defaultFirmID = "console"

// Session executes instructions for one instrument. Every instruction
// advances a logical clock by one second from the session epoch; the
// resulting time stamps resting orders and trades.
type Session struct {
	engine *orderbook.MatchingEngine
	pair   string
	firmID string
	out    io.Writer
	logger *logging.Logger

	epoch time.Time
	clock int64
}

type SessionOption func(*Session)

func WithFirmID(firmID string) SessionOption {
	return func(s *Session) {
		if firmID != "" {
			s.firmID = firmID
		}
	}
}

func WithEpoch(epoch time.Time) SessionOption {
	return func(s *Session) {
		s.epoch = epoch
	}
}

func NewSession(engine *orderbook.MatchingEngine, pair string, out io.Writer, logger *logging.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = logging.New(nil)
	}
	s := &Session{
		engine: engine,
		pair:   strings.ToLower(pair),
		firmID: defaultFirmID,
		out:    out,
		logger: logger.Named("console"),
		epoch:  time.Unix(0, 0).UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes r line by line until EOF or ctx is done. A failing line is
// reported on the output and does not stop the session.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineCtx := logging.WithRequestID(ctx, "")
		if err := s.Execute(lineCtx, scanner.Text()); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Execute runs one line. Blank lines and lines starting with '#' are ignored.
// Besides order-entry instructions it understands "show" and "reset".
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	switch strings.ToLower(line) {
	case "show":
		return s.Render(s.out)
	case "reset":
		s.engine.Reset()
		s.clock = 0
		s.logger.Info(ctx, "book reset")
		fmt.Fprintln(s.out, "book reset")
		return nil
	}

	ins, err := instruction.Parse(line)
	if err != nil {
		s.logger.Warn(ctx, "instruction rejected", zap.String("line", line), zap.Error(err))
		return err
	}
	if ins.Kind != instruction.Cancel && ins.Pair != s.pair {
		err := fmt.Errorf("%w: %s", ErrPairMismatch, ins.Pair)
		s.logger.Warn(ctx, "instruction rejected", zap.String("line", line), zap.Error(err))
		return err
	}

	s.clock++
	ts := s.epoch.Add(time.Duration(s.clock) * time.Second)
	s.logger.Info(ctx, "instruction", zap.Stringer("kind", ins.Kind), zap.Int64("clock", s.clock))

	switch ins.Kind {
	case instruction.MarketOrder:
		report, err := s.engine.ProcessMarketOrder(ts, ins.Side, ins.Qty, s.firmID)
		if err != nil {
			return err
		}
		s.writeTrades(report.Trades)
		fmt.Fprintf(s.out, "market %s filled %d of %d\n", ins.Side, report.FilledQty(), ins.Qty)
	case instruction.LimitOrder:
		report, err := s.engine.ProcessLimitOrder(ts, ins.Side, ins.Qty, ins.Price, s.firmID)
		if err != nil {
			return err
		}
		s.writeTrades(report.Trades)
		if report.OrderInBook {
			fmt.Fprintf(s.out, "order %d resting %s %d @ %s\n",
				report.Order.ID, report.Order.Side, report.Order.Qty, s.formatPrice(report.Order.Price))
		} else {
			fmt.Fprintf(s.out, "limit %s filled %d of %d\n", ins.Side, report.FilledQty(), ins.Qty)
		}
	case instruction.Cancel:
		if err := s.engine.CancelOrder(ins.OrderID); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "order %d cancelled\n", ins.OrderID)
	}
	return nil
}

func (s *Session) writeTrades(trades []orderbook.Trade) {
	for _, t := range trades {
		fmt.Fprintf(s.out, "trade %d @ %s maker=%d buyer=%s seller=%s\n",
			t.Qty, s.formatPrice(t.Price), t.MakerOrderID, t.BuyerID, t.SellerID)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joripage/limit-orderbook/config"
	"github.com/joripage/limit-orderbook/pkg/console"
	"github.com/joripage/limit-orderbook/pkg/logging"
	"github.com/joripage/limit-orderbook/pkg/orderbook"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, configFile, os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lob: %v\n", err)
		os.Exit(1)
	}
}

// run serves instructions from in until EOF or ctx is done. The logger is
// flushed on every return path.
func run(ctx context.Context, configFile string, in io.Reader, out, status io.Writer) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(level, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer logger.Sync()
	restore := zap.ReplaceGlobals(logger.Zap())
	defer restore()

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	engine, err := orderbook.NewMatchingEngine(cfg.Book.TickSize, orderbook.WithLogger(logger.Zap().Named("engine")))
	if err != nil {
		zap.S().Errorf("init matching engine fail with err: %v", err)
		return err
	}

	session := console.NewSession(engine, cfg.Book.Pair, out, logger)
	fmt.Fprintf(status, "%s ready, tick %s. Type 'show' to print the book.\n", cfg.Book.Pair, engine.TickSize())

	if err := session.Run(ctx, in); err != nil && ctx.Err() == nil {
		zap.S().Errorf("read instructions fail with err: %v", err)
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/adapter/http/controller"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/adapter/http/middleware"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/adapter/http/router"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/config"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/ledger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/logger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/policy"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/session"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var codec pincode.Codec
	switch cfg.PinCodec {
	case config.PinCodecBcrypt:
		codec = pincode.NewBcryptCodec()
	default:
		codec = pincode.NewShiftCodec()
	}

	// Seed PINs equal the card numbers, matching the historical data
	// set the directory has always shipped with.
	seeds := make([]ledger.Seed, 0, len(cfg.SeedAccounts))
	for _, seed := range cfg.SeedAccounts {
		seeds = append(seeds, ledger.Seed{
			CardNumber: seed.CardNumber,
			Pin:        seed.CardNumber,
			Balance:    seed.Balance,
		})
	}

	directory, err := ledger.NewDirectory(codec, policy.New(cfg.StrictFeeCheck), seeds)
	if err != nil {
		log.Fatalf("build account directory: %v", err)
	}

	teller := services.NewTellerService(session.NewManager(directory))

	limiter := middleware.NewLimiter(cfg.LoginRatePerSec, middleware.CardNumberKey)
	mux := router.New(
		controller.NewTellerController(teller),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		middleware.RateLimit(limiter),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Metrics()(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", logger.Fields{
			"port":     cfg.Port,
			"accounts": directory.Size(),
			"pinCodec": cfg.PinCodec,
		})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutMS)*time.Millisecond)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	logger.Info("server stopped", nil)
}

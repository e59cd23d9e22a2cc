package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/tunichain/tunichain-contract/contracts"
	"github.com/tunichain/tunichain-contract/deploy"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractsDir := flag.String("contracts", "contracts", "Directory with compiled Tunichain contracts")
	timeout := flag.Duration("timeout", 5*time.Minute, "Deployment timeout")
	debug := flag.Bool("debug", false, "Enable debug logs")

	flag.Parse()

	// WIF is not accepted as a flag to keep it out of the process list.
	wif := os.Getenv("TUNICHAIN_DEPLOYER_WIF")

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case wif == "":
		log.Fatal("missing deployer key in TUNICHAIN_DEPLOYER_WIF")
	}

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	res, err := _deploy(ctx, logger, *neoRPCEndpoint, *contractsDir, wif)
	if err != nil {
		logger.Fatal("deployment failed", zap.Error(err))
	}

	fmt.Printf("TUNICHAIN_REGISTRY=%s\n", res.Registry.StringLE())
	fmt.Printf("TUNICHAIN_INVOICE_VALIDATION=%s\n", res.InvoiceValidation.StringLE())
	fmt.Printf("TUNICHAIN_PAYMENT_REGISTRY=%s\n", res.PaymentRegistry.StringLE())
	fmt.Printf("TUNICHAIN_VAT_CONTROL=%s\n", res.VATControl.StringLE())
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func _deploy(ctx context.Context, logger *zap.Logger, endpoint, contractsDir, wif string) (deploy.Contracts, error) {
	var res deploy.Contracts

	acc, err := wallet.NewAccountFromWIF(wif)
	if err != nil {
		return res, fmt.Errorf("decode deployer key: %w", err)
	}

	set, err := contracts.Read(os.DirFS(contractsDir))
	if err != nil {
		return res, fmt.Errorf("read compiled contracts: %w", err)
	}

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return res, fmt.Errorf("RPC client dial: %w", err)
	}
	defer c.Close()

	err = c.Init()
	if err != nil {
		return res, fmt.Errorf("RPC client init: %w", err)
	}

	return deploy.Deploy(ctx, deploy.Prm{
		Logger:       logger,
		Blockchain:   c,
		LocalAccount: acc,
		Contracts:    set,
	})
}

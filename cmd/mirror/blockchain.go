package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/tunichain/tunichain-contract/deploy"
	"github.com/tunichain/tunichain-contract/internal/config"
	"github.com/tunichain/tunichain-contract/rpc/invoice"
	"github.com/tunichain/tunichain-contract/rpc/payment"
	"github.com/tunichain/tunichain-contract/rpc/registry"
	"github.com/tunichain/tunichain-contract/rpc/vatcontrol"
	"go.uber.org/zap"
)

// newRemoteBlockchain dials Neo RPC server configured in cfg.
func newRemoteBlockchain(ctx context.Context, cfg *config.Config) (*rpcclient.Client, error) {
	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return c, nil
}

// checkContracts makes sure configured contracts are deployed and wired with
// each other.
func checkContracts(log *zap.Logger, c *rpcclient.Client, hs deploy.Contracts) error {
	inv := invoker.New(c, nil)

	v, err := registry.NewReader(inv, hs.Registry).Version()
	if err != nil {
		return fmt.Errorf("call Registry contract %s: %w", hs.Registry.StringLE(), err)
	}
	log.Info("Registry contract found", zap.Stringer("address", hs.Registry), zap.Stringer("version", v))

	invoiceVAT, err := invoice.NewReader(inv, hs.InvoiceValidation).VATControl()
	if err != nil {
		return fmt.Errorf("call InvoiceValidation contract %s: %w", hs.InvoiceValidation.StringLE(), err)
	}

	paymentVAT, err := payment.NewReader(inv, hs.PaymentRegistry).VATControl()
	if err != nil {
		return fmt.Errorf("call PaymentRegistry contract %s: %w", hs.PaymentRegistry.StringLE(), err)
	}

	vatInvoices, err := vatcontrol.NewReader(inv, hs.VATControl).InvoiceValidation()
	if err != nil {
		return fmt.Errorf("call VATControl contract %s: %w", hs.VATControl.StringLE(), err)
	}

	if !invoiceVAT.Equals(hs.VATControl) || !paymentVAT.Equals(hs.VATControl) || !vatInvoices.Equals(hs.InvoiceValidation) {
		log.Warn("contracts are not wired with each other, VAT events may be missing",
			zap.Stringer("invoice ledger VATControl", invoiceVAT),
			zap.Stringer("payment ledger VATControl", paymentVAT),
			zap.Stringer("VATControl invoice ledger", vatInvoices))
	}

	return nil
}

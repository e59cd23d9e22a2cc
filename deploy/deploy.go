package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/tunichain/tunichain-contract/contracts"
	"github.com/tunichain/tunichain-contract/rpc/invoice"
	"github.com/tunichain/tunichain-contract/rpc/payment"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Tunichain deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups all parameters of the Tunichain deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to be used.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It deploys all contracts and becomes the Tax-Admin of the Registry.
	LocalAccount *wallet.Account

	// Compiled contracts to deploy.
	Contracts contracts.Set
}

// Contracts groups on-chain addresses of the deployed Tunichain contracts.
type Contracts struct {
	Registry          util.Uint160
	InvoiceValidation util.Uint160
	PaymentRegistry   util.Uint160
	VATControl        util.Uint160
}

// Deploy deploys Tunichain contracts to the Neo network represented by given
// Prm.Blockchain and wires VATControl contract into both ledgers.
//
// Deploy is idempotent: contracts already deployed by the local account are
// skipped, as well as wiring that is already done. Deployment progress is
// logged in detail. Stages:
//  1. Registry with the local account as Tax-Admin
//  2. InvoiceValidation bound to the Registry
//  3. PaymentRegistry bound to the Registry and InvoiceValidation
//  4. VATControl accepting records from both ledgers
//  5. VATControl wiring into InvoiceValidation and PaymentRegistry
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	var res Contracts

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      act,
	}

	admin := prm.LocalAccount.ScriptHash()

	steps := []struct {
		name     string
		contract contracts.Contract
		addr     *util.Uint160
		args     func() []any
	}{
		{"Registry", prm.Contracts.Registry, &res.Registry, func() []any {
			return []any{admin}
		}},
		{"InvoiceValidation", prm.Contracts.InvoiceValidation, &res.InvoiceValidation, func() []any {
			return []any{res.Registry}
		}},
		{"PaymentRegistry", prm.Contracts.PaymentRegistry, &res.PaymentRegistry, func() []any {
			return []any{res.Registry, res.InvoiceValidation}
		}},
		{"VATControl", prm.Contracts.VATControl, &res.VATControl, func() []any {
			return []any{res.InvoiceValidation, res.PaymentRegistry}
		}},
	}

	for _, s := range steps {
		prm.Logger.Info("synchronizing contract with the chain...", zap.String("contract", s.name))

		syncPrm.name = s.name
		syncPrm.contract = s.contract
		syncPrm.deployArgs = s.args()

		*s.addr, err = syncContract(ctx, syncPrm)
		if err != nil {
			return res, fmt.Errorf("sync %s contract with the chain: %w", s.name, err)
		}

		prm.Logger.Info("contract successfully synchronized",
			zap.String("contract", s.name), zap.Stringer("address", *s.addr))
	}

	prm.Logger.Info("wiring VATControl contract into the ledgers...")

	invoices := invoice.New(act, res.InvoiceValidation)
	err = wireVATControl(ctx, prm.Logger, act, "InvoiceValidation", res.VATControl, invoices.VATControl, invoices.SetVATControl)
	if err != nil {
		return res, err
	}

	payments := payment.New(act, res.PaymentRegistry)
	err = wireVATControl(ctx, prm.Logger, act, "PaymentRegistry", res.VATControl, payments.VATControl, payments.SetVATControl)
	if err != nil {
		return res, err
	}

	prm.Logger.Info("Tunichain contracts successfully deployed")

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor

	name       string
	contract   contracts.Contract
	deployArgs []any
}

// syncContract deploys the contract unless it is already on the chain and
// returns its address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.actor.Sender(), prm.contract.NEF.Checksum, prm.contract.Manifest.Name)

	_, err := prm.blockchain.GetContractStateByHash(addr)
	if err == nil {
		prm.logger.Debug("contract is already deployed, skip",
			zap.String("contract", prm.name), zap.Stringer("address", addr))
		return addr, nil
	}
	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get state of the contract by hash '%s': %w", addr.StringLE(), err)
	}

	prm.logger.Info("contract is missing on the chain, deploying...",
		zap.String("contract", prm.name), zap.Stringer("address", addr))

	txHash, vub, err := management.New(prm.actor).Deploy(&prm.contract.NEF, &prm.contract.Manifest, prm.deployArgs)
	if err != nil {
		return addr, fmt.Errorf("send deployment transaction: %w", err)
	}

	err = await(ctx, prm.actor, txHash, vub)
	if err != nil {
		return addr, fmt.Errorf("deployment transaction %s: %w", txHash.StringLE(), err)
	}

	return addr, nil
}

// wireVATControl sets VATControl contract in the ledger unless it is already
// set.
func wireVATControl(ctx context.Context, l *zap.Logger, act *actor.Actor, ledger string, vatControl util.Uint160,
	get func() (util.Uint160, error), set func(util.Uint160) (util.Uint256, uint32, error)) error {
	cur, err := get()
	if err != nil {
		return fmt.Errorf("read VATControl of %s: %w", ledger, err)
	}

	if cur.Equals(vatControl) {
		l.Debug("VATControl is already wired, skip", zap.String("contract", ledger))
		return nil
	}

	txHash, vub, err := set(vatControl)
	if err != nil {
		return fmt.Errorf("send setVATControl transaction to %s: %w", ledger, err)
	}

	err = await(ctx, act, txHash, vub)
	if err != nil {
		return fmt.Errorf("setVATControl transaction %s to %s: %w", txHash.StringLE(), ledger, err)
	}

	l.Info("VATControl wired", zap.String("contract", ledger), zap.Stringer("vatControl", vatControl))

	return nil
}

// await waits for the transaction to be accepted and checks it is not
// FAULTed.
func await(ctx context.Context, act *actor.Actor, txHash util.Uint256, vub uint32) error {
	res, err := act.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction failed: %s", res.FaultException)
	}

	return nil
}

// isErrContractNotFound checks whether RPC error reports missing contract
// state. Node returns it as a plain message, so the text is matched.
func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

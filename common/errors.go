package common

// Fault messages thrown by Tunichain contracts. They are part of the public
// contract interface: clients and the event mirror match on them.
const (
	// ErrOnlyAdmin is thrown when the method requires Tax-Admin witness.
	ErrOnlyAdmin = "only admin"
	// ErrNotSeller is thrown when the caller is not an active seller.
	ErrNotSeller = "not registered seller"
	// ErrNotBank is thrown when the caller is not an active bank.
	ErrNotBank = "not registered bank"
	// ErrInvoiceExists is thrown on invoice hash reuse.
	ErrInvoiceExists = "already stored"
	// ErrInvoiceUnknown is thrown when the referenced invoice does not exist.
	ErrInvoiceUnknown = "invoice unknown"
	// ErrPaymentExists is thrown on payment hash reuse.
	ErrPaymentExists = "payment exists"
	// ErrPaymentUnknown is thrown when the requested payment does not exist.
	ErrPaymentUnknown = "payment unknown"
	// ErrNotWiredLedger is thrown when VATControl recorders are called by
	// anything but the ledgers it was deployed with.
	ErrNotWiredLedger = "caller is not a wired ledger"
	// ErrSellerRegistered is thrown when an active seller is added again.
	ErrSellerRegistered = "seller already registered"
	// ErrBankRegistered is thrown when an active bank is added again.
	ErrBankRegistered = "bank already registered"

	ErrInvalidAddress = "invalid address"
	ErrInvalidHash    = "invalid hash"
	ErrInvalidAmount  = "invalid amount"
	ErrInvalidVATRate = "invalid VAT rate"
)

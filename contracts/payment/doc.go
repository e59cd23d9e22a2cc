/*
Package payment implements PaymentRegistry contract, the append-only ledger
of bank payment confirmations.

A bank registered in the Registry contract confirms that an invoice stored in
InvoiceValidation contract was paid. Payments are identified by a 32-byte
digest of the payment document and get sequential identifiers starting from 1.
A payment for an unknown invoice is rejected, so every payment references an
existing invoice.

# Contract notifications

PaymentStored notification. This notification is produced when a bank stores
a new payment.

	PaymentStored:
	  - name: paymentId
	    type: Integer
	  - name: bank
	    type: Hash160
	  - name: invoiceId
	    type: Integer
	  - name: paymentHash
	    type: Hash256
	  - name: amountPaid
	    type: Integer

VATControlSet notification. This notification is produced when the Tax-Admin
wires VATControl contract.

	VATControlSet:
	  - name: vatControl
	    type: Hash160
*/
package payment

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'r' -> interop.Hash160
    Registry contract
  - 'n' -> interop.Hash160
    InvoiceValidation contract
  - 'v' -> interop.Hash160
    VATControl contract, absent until wired
  - 'c' -> int
    the latest payment identifier
  - 'p' + decimal ID -> std.Serialize(Payment)
    payments
  - 'h' + interop.Hash256 -> int
    payment identifier by document digest
*/

/*
Package vatcontrol implements VATControl contract, the per-seller VAT
aggregator of Tunichain.

VATControl has no public writers. It accepts invoice records only from the
InvoiceValidation contract and payment records only from the PaymentRegistry
contract it was deployed with, so the totals always equal the sums of ledger
entries stored after the ledger was wired.

# Contract notifications

VATRecorded notification. This notification is produced when an invoice is
recorded. sellerTotalTaxBase is the seller tax base after the record.

	VATRecorded:
	  - name: seller
	    type: Hash160
	  - name: invoiceId
	    type: Integer
	  - name: taxableAmount
	    type: Integer
	  - name: vatRatePermille
	    type: Integer
	  - name: vatAmount
	    type: Integer
	  - name: sellerTotalTaxBase
	    type: Integer
	  - name: timestamp
	    type: Integer

VATPaymentRecorded notification. This notification is produced when a
payment is recorded. sellerTotalVatPaid is the seller paid VAT after the
record.

	VATPaymentRecorded:
	  - name: seller
	    type: Hash160
	  - name: paymentId
	    type: Integer
	  - name: invoiceId
	    type: Integer
	  - name: amountPaid
	    type: Integer
	  - name: vatRatePermille
	    type: Integer
	  - name: vatAmount
	    type: Integer
	  - name: sellerTotalVatPaid
	    type: Integer
	  - name: timestamp
	    type: Integer
*/
package vatcontrol

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'i' -> interop.Hash160
    InvoiceValidation contract
  - 'p' -> interop.Hash160
    PaymentRegistry contract
  - 't' + interop.Hash160 -> std.Serialize(Totals)
    seller totals
*/

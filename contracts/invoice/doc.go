/*
Package invoice implements InvoiceValidation contract, the append-only ledger
of seller invoices.

Sellers registered in the Registry contract submit a 32-byte digest of the
invoice document together with the taxable amount and VAT rate in permille.
The contract never stores the document itself. Every invoice gets a
sequential identifier starting from 1, and the same digest can be stored only
once.

After deployment the Tax-Admin wires VATControl contract with SetVATControl.
From then on every stored invoice is also reported to VATControl in the same
transaction, so a failure there reverts the submission.

# Contract notifications

InvoiceStored notification. This notification is produced when a seller
stores a new invoice.

	InvoiceStored:
	  - name: invoiceId
	    type: Integer
	  - name: seller
	    type: Hash160
	  - name: invoiceHash
	    type: Hash256
	  - name: amount
	    type: Integer
	  - name: vatRatePermille
	    type: Integer
	  - name: vatAmount
	    type: Integer

VATControlSet notification. This notification is produced when the Tax-Admin
wires VATControl contract.

	VATControlSet:
	  - name: vatControl
	    type: Hash160
*/
package invoice

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'r' -> interop.Hash160
    Registry contract
  - 'v' -> interop.Hash160
    VATControl contract, absent until wired
  - 'c' -> int
    the latest invoice identifier
  - 'i' + decimal ID -> std.Serialize(Invoice)
    invoices
  - 'h' + interop.Hash256 -> int
    invoice identifier by document digest
*/

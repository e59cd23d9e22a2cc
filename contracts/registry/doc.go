/*
Package registry implements Registry contract, the authorization oracle of
Tunichain.

Registry keeps two independent sets of accounts: sellers, who issue invoices
to InvoiceValidation contract, and banks, who confirm payments in
PaymentRegistry contract. Both sets are managed by a single Tax-Admin account
set on deployment. Ledger contracts call IsSeller and IsBank on every
submission and resolve the Tax-Admin through Admin method to authorize their
own wiring methods.

An account may belong to both sets only if it was added to each of them
explicitly. Removal never erases an entry, it only marks it inactive, so
metadata history stays readable through Seller and Bank methods.

# Contract notifications

SellerAdded notification. This notification is produced when the Tax-Admin
adds (or re-activates) a seller.

	SellerAdded:
	  - name: seller
	    type: Hash160
	  - name: metadata
	    type: String

BankAdded notification. This notification is produced when the Tax-Admin adds
(or re-activates) a bank.

	BankAdded:
	  - name: bank
	    type: Hash160
	  - name: metadata
	    type: String

SellerRemoved notification. This notification is produced when an active
seller is deactivated.

	SellerRemoved:
	  - name: seller
	    type: Hash160

BankRemoved notification. This notification is produced when an active bank
is deactivated.

	BankRemoved:
	  - name: bank
	    type: Hash160
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'a' -> interop.Hash160
    Tax-Admin account
  - 's' + interop.Hash160 -> std.Serialize(Entry)
    seller entries
  - 'b' + interop.Hash160 -> std.Serialize(Entry)
    bank entries
*/

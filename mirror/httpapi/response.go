package httpapi

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tunichain/tunichain-contract/mirror"
)

type confirmationResponse struct {
	TxHash   string `json:"txHash"`
	Block    uint32 `json:"block"`
	LogIndex uint32 `json:"logIndex"`
	LedgerID uint64 `json:"ledgerId,omitempty"`
}

type recordResponse struct {
	ID         uuid.UUID             `json:"id"`
	Kind       string                `json:"kind"`
	Key        string                `json:"key"`
	Status     string                `json:"status"`
	Payload    json.RawMessage       `json:"payload,omitempty"`
	Paid       bool                  `json:"paid"`
	Blockchain *confirmationResponse `json:"blockchain,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

func toRecordResponse(r *mirror.Record) recordResponse {
	resp := recordResponse{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Key:       r.Key,
		Status:    string(r.Status),
		Payload:   r.Payload,
		Paid:      r.Paid,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if c := r.Confirmation; c != nil {
		resp.Blockchain = &confirmationResponse{
			TxHash:   "0x" + c.TxHash.StringLE(),
			Block:    c.Block,
			LogIndex: c.LogIndex,
			LedgerID: c.LedgerID,
		}
	}

	return resp
}

type totalsResponse struct {
	Seller  string `json:"seller"`
	TaxBase string `json:"taxBase"`
	VATPaid string `json:"vatPaid"`
}

// toTotalsResponse encodes amounts as decimal strings since they may not fit
// into JSON number precision.
func toTotalsResponse(t *mirror.Totals) totalsResponse {
	m := mirror.Totals{Seller: t.Seller}.Merge(*t)
	return totalsResponse{
		Seller:  m.Seller,
		TaxBase: m.TaxBase.String(),
		VATPaid: m.VATPaid.String(),
	}
}

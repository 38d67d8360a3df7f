package dto

import (
	"time"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// PointsAdjustRequest carries a manual balance adjustment.
type PointsAdjustRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// LedgerEntryResponse is the public projection of one ledger row.
type LedgerEntryResponse struct {
	ID           int64            `json:"id"`
	Delta        int64            `json:"delta"`
	BalanceAfter int64            `json:"balance_after"`
	Kind         model.LedgerKind `json:"kind"`
	Reason       string           `json:"reason"`
	Operator     string           `json:"operator"`
	RefID        *string          `json:"ref_id"`
	CreatedAt    time.Time        `json:"created_at"`
}

// LedgerListResponse is a paged collection of ledger entries.
type LedgerListResponse struct {
	Items    []LedgerEntryResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func NewLedgerEntryResponse(e *model.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID,
		Delta:        e.Delta,
		BalanceAfter: e.BalanceAfter,
		Kind:         e.Kind,
		Reason:       e.Reason,
		Operator:     e.Operator,
		RefID:        e.RefID,
		CreatedAt:    e.CreatedAt,
	}
}

func NewLedgerListResponse(entries []model.LedgerEntry, total int64, page, pageSize int) LedgerListResponse {
	items := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, NewLedgerEntryResponse(&entries[i]))
	}
	return LedgerListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}

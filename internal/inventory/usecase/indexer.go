package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const movementIndex = "stock_movements"

type movementDocument struct {
	MovementType string    `json:"movement_type"`
	PartID       string    `json:"part_id"`
	Quantity     int64     `json:"quantity"`
	Reference    string    `json:"reference"`
	LotIDs       []string  `json:"lot_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// indexMovement mirrors a committed movement into Elasticsearch for the audit
// search UI. Best effort: the ledger is the source of truth and the service
// runs fine without ES.
func (uc *inventoryUseCase) indexMovement(ctx context.Context, doc *movementDocument) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"movement_type": { "type": "keyword" },
				"part_id": { "type": "keyword" },
				"quantity": { "type": "long" },
				"reference": { "type": "keyword" },
				"lot_ids": { "type": "keyword" },
				"occurred_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, movementIndex, mapping)

	docID := fmt.Sprintf("%s-%s", doc.MovementType, doc.Reference)
	if err := uc.es.Index(ctx, movementIndex, docID, doc); err != nil {
		uc.logger.Error("failed to index movement", zap.Error(err))
	}
}

package services

import (
	"context"
	"fmt"

	"fineops/internal/models"
	"fineops/internal/utils/logger"
)

// ImageResolver is the best-effort product image lookup used while
// assembling order lines.
type ImageResolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// OrderFetcher lists pending orders for a campaign.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, campaign models.Campaign) ([]models.OrderLineRecord, error)
}

// OrdersService combines the marketplace fetch with the per-line image
// lookup.
type OrdersService struct {
	market OrderFetcher
	images ImageResolver
	log    *logger.Logger
}

func NewOrdersService(market OrderFetcher, images ImageResolver) *OrdersService {
	return &OrdersService{
		market: market,
		images: images,
		log:    logger.New("orders"),
	}
}

// Fetch returns the pending order lines for the campaign. A failed
// image lookup leaves ImagePath empty and never aborts the batch.
func (s *OrdersService) Fetch(ctx context.Context, campaign models.Campaign) ([]models.OrderLineRecord, error) {
	records, err := s.market.FetchOrders(ctx, campaign)
	if err != nil {
		return nil, err
	}

	for i := range records {
		query := fmt.Sprintf("%s %s", records[i].ProductName, records[i].SKU)
		path, err := s.images.Resolve(ctx, query)
		if err != nil {
			s.log.Warn("image lookup failed for order %s: %v", records[i].OrderID, err)
			continue
		}
		records[i].ImagePath = path
	}
	return records, nil
}

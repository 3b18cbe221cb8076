package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fineops/internal/models"
	"fineops/internal/utils/logger"
)

const defaultMarketBaseURL = "https://api.partner.market.yandex.ru"

// UpstreamError carries the marketplace API response body so the HTTP
// layer can surface it to the client on a 500.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("marketplace orders error (%d): %s", e.StatusCode, e.Body)
}

// MarketClient talks to the marketplace partner API with a per-campaign
// OAuth token.
type MarketClient struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

// NewMarketClient creates the partner API client. baseURL is only
// overridden by tests; pass "" for the production endpoint.
func NewMarketClient(baseURL string) *MarketClient {
	if baseURL == "" {
		baseURL = defaultMarketBaseURL
	}
	return &MarketClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.New("market"),
	}
}

type marketOrdersResponse struct {
	Orders []marketOrder `json:"orders"`
}

type marketOrder struct {
	ID    int64        `json:"id"`
	Items []marketItem `json:"items"`
}

type marketItem struct {
	OfferName string `json:"offerName"`
	ShopSKU   string `json:"shopSku"`
	Barcode   string `json:"barcode"`
	Count     int    `json:"count"`
}

// FetchOrders lists pending orders for the campaign and flattens every
// order item into one OrderLineRecord, preserving upstream ordering.
func (c *MarketClient) FetchOrders(ctx context.Context, campaign models.Campaign) ([]models.OrderLineRecord, error) {
	url := fmt.Sprintf("%s/v2/campaigns/%d/orders?status=PROCESSING&substatus=STARTED", c.baseURL, campaign.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+campaign.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read marketplace response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed marketOrdersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode marketplace response: %w", err)
	}

	var records []models.OrderLineRecord
	for _, order := range parsed.Orders {
		for _, item := range order.Items {
			rec := models.OrderLineRecord{
				OrderID:     fmt.Sprintf("%d", order.ID),
				ProductName: item.OfferName,
				SKU:         item.ShopSKU,
				Barcode:     item.Barcode,
				Quantity:    item.Count,
			}
			if rec.SKU == "" {
				rec.SKU = "-"
			}
			if rec.Barcode == "" {
				rec.Barcode = "-"
			}
			if rec.Quantity <= 0 {
				rec.Quantity = 1
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fineops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOrdersFlattensItems(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"orders": [
				{"id": 111, "items": [
					{"offerName": "Phone case", "shopSku": "SKU-1", "barcode": "4870001", "count": 2},
					{"offerName": "Charger"}
				]},
				{"id": 222, "items": [
					{"offerName": "Screen protector", "shopSku": "SKU-3", "barcode": "4870003", "count": 1}
				]}
			]
		}`))
	}))
	defer srv.Close()

	client := NewMarketClient(srv.URL)
	campaign := models.Campaign{ID: 42, Name: "Main", Token: "secret-token"}

	records, err := client.FetchOrders(context.Background(), campaign)
	require.NoError(t, err)

	assert.Equal(t, "/v2/campaigns/42/orders?status=PROCESSING&substatus=STARTED", gotPath)
	assert.Equal(t, "OAuth secret-token", gotAuth)

	require.Len(t, records, 3)
	assert.Equal(t, models.OrderLineRecord{
		OrderID: "111", ProductName: "Phone case", SKU: "SKU-1", Barcode: "4870001", Quantity: 2,
	}, records[0])

	// Missing item fields fall back to "-" and quantity 1.
	assert.Equal(t, models.OrderLineRecord{
		OrderID: "111", ProductName: "Charger", SKU: "-", Barcode: "-", Quantity: 1,
	}, records[1])

	assert.Equal(t, "222", records[2].OrderID)
}

func TestFetchOrdersUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "token expired"}`))
	}))
	defer srv.Close()

	client := NewMarketClient(srv.URL)
	_, err := client.FetchOrders(context.Background(), models.Campaign{ID: 1})
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "token expired")
}

func TestFetchOrdersEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders": []}`))
	}))
	defer srv.Close()

	records, err := NewMarketClient(srv.URL).FetchOrders(context.Background(), models.Campaign{ID: 1})
	require.NoError(t, err)
	assert.Empty(t, records)
}

package main

import (
	"time"

	"github.com/stevenpatino/storefront/catalog"
)

// checkoutRequest is the wire shape of POST /payments/checkout.
type checkoutRequest struct {
	ProductID     string       `json:"productId" binding:"required"`
	Email         string       `json:"email" binding:"required,email"`
	AmountInCents int          `json:"amountInCents" binding:"required,gt=0"`
	Installments  int          `json:"installments"`
	Card          checkoutCard `json:"card" binding:"required"`
}

type checkoutCard struct {
	Number     string `json:"number" binding:"required"`
	CVC        string `json:"cvc" binding:"required"`
	ExpMonth   string `json:"exp_month" binding:"required"`
	ExpYear    string `json:"exp_year" binding:"required"`
	CardHolder string `json:"card_holder" binding:"required"`
}

// seedCatalog is the static catalog served by the stub.
func seedCatalog() ([]catalog.Category, []catalog.Product) {
	now := time.Now().UTC()

	categories := []catalog.Category{
		{ID: "cat-audio", Name: "Audio", CreatedAt: now, UpdatedAt: now},
		{ID: "cat-wearables", Name: "Wearables", CreatedAt: now, UpdatedAt: now},
	}

	products := []catalog.Product{
		{
			ID:           "prod-headphones",
			Name:         "Wireless Headphones",
			PriceInCents: 24990000,
			Currency:     "COP",
			Stock:        12,
			CategoryID:   "cat-audio",
			Description:  "Over-ear wireless headphones with noise cancelling",
		},
		{
			ID:           "prod-speaker",
			Name:         "Bluetooth Speaker",
			PriceInCents: 9990000,
			Currency:     "COP",
			Stock:        30,
			CategoryID:   "cat-audio",
			Description:  "Portable speaker, 12h battery",
		},
		{
			ID:           "prod-watch",
			Name:         "Smart Watch",
			PriceInCents: 45990000,
			Currency:     "COP",
			Stock:        5,
			CategoryID:   "cat-wearables",
			Description:  "Fitness tracking and notifications",
		},
	}

	return categories, products
}

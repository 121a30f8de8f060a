// Package templates ships the quick-start widget configurations the UI
// offers before a user has built anything. Each one is a real provider
// endpoint with a working field selection.
package templates

import "findash/internal/extract"

// Widget is the configuration a template pre-fills. Persisting and laying
// out widgets happens outside this repository; templates only describe them.
type Widget struct {
	Name            string          `json:"name"`
	APIURL          string          `json:"apiUrl"`
	DisplayMode     string          `json:"displayMode"`
	RefreshInterval int             `json:"refreshInterval"`
	SelectedFields  []extract.Field `json:"selectedFields"`
	TemplateID      string          `json:"templateId"`
}

// Template is one quick-start entry.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Config      Widget `json:"config"`
}

// Quick lists the built-in templates in display order.
var Quick = []Template{
	{
		ID:          "btc-price-coinbase",
		Name:        "Bitcoin Price",
		Description: "BTC exchange rates via Coinbase",
		Icon:        "bitcoin",
		Config: Widget{
			Name:            "Bitcoin Price",
			APIURL:          "https://api.coinbase.com/v2/exchange-rates?currency=BTC",
			DisplayMode:     "card",
			RefreshInterval: 30,
			SelectedFields: []extract.Field{
				{Path: "data~>rates~>USD", Label: "BTC / USD", Type: "number", Format: "number"},
				{Path: "data~>rates~>EUR", Label: "BTC / EUR", Type: "number", Format: "number"},
				{Path: "data~>rates~>INR", Label: "BTC / INR", Type: "number", Format: "number"},
				{Path: "data~>rates~>GBP", Label: "BTC / GBP", Type: "number", Format: "number"},
				{Path: "data~>rates~>JPY", Label: "BTC / JPY", Type: "number", Format: "number"},
			},
			TemplateID: "btc-price-coinbase",
		},
	},
	{
		ID:          "eth-price-coinbase",
		Name:        "Ethereum Price",
		Description: "ETH exchange rates via Coinbase",
		Icon:        "ethereum",
		Config: Widget{
			Name:            "Ethereum Price",
			APIURL:          "https://api.coinbase.com/v2/exchange-rates?currency=ETH",
			DisplayMode:     "card",
			RefreshInterval: 30,
			SelectedFields: []extract.Field{
				{Path: "data~>rates~>USD", Label: "ETH / USD", Type: "number", Format: "number"},
				{Path: "data~>rates~>EUR", Label: "ETH / EUR", Type: "number", Format: "number"},
				{Path: "data~>rates~>INR", Label: "ETH / INR", Type: "number", Format: "number"},
				{Path: "data~>rates~>GBP", Label: "ETH / GBP", Type: "number", Format: "number"},
				{Path: "data~>rates~>JPY", Label: "ETH / JPY", Type: "number", Format: "number"},
			},
			TemplateID: "eth-price-coinbase",
		},
	},
	{
		ID:          "global-forex",
		Name:        "Global Exchange Rates",
		Description: "USD forex rates (Top currencies)",
		Icon:        "globe",
		Config: Widget{
			Name:            "Global Exchange Rates",
			APIURL:          "https://api.exchangerate-api.com/v4/latest/USD",
			DisplayMode:     "table",
			RefreshInterval: 60,
			SelectedFields: []extract.Field{
				{Path: "rates~>INR", Label: "USD → INR (India)", Type: "number", Format: "number"},
				{Path: "rates~>EUR", Label: "USD → EUR (EU)", Type: "number", Format: "number"},
				{Path: "rates~>GBP", Label: "USD → GBP (UK)", Type: "number", Format: "number"},
				{Path: "rates~>JPY", Label: "USD → JPY (Japan)", Type: "number", Format: "number"},
				{Path: "rates~>CAD", Label: "USD → CAD (Canada)", Type: "number", Format: "number"},
				{Path: "rates~>AUD", Label: "USD → AUD (Australia)", Type: "number", Format: "number"},
				{Path: "rates~>CHF", Label: "USD → CHF (Switzerland)", Type: "number", Format: "number"},
				{Path: "rates~>CNY", Label: "USD → CNY (China)", Type: "number", Format: "number"},
				{Path: "rates~>SGD", Label: "USD → SGD (Singapore)", Type: "number", Format: "number"},
				{Path: "rates~>ZAR", Label: "USD → ZAR (South Africa)", Type: "number", Format: "number"},
			},
			TemplateID: "global-forex",
		},
	},
}

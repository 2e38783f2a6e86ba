package types

import "iruka/iruka/sources/catalog"

// CatalogItemResponse is one item as shown in the product detail view.
type CatalogItemResponse struct {
	catalog.Item
	OrderLink string `json:"order_link"`
}

type CatalogListResponse struct {
	Items []catalog.Item `json:"items"`
	Total int            `json:"total"`
}

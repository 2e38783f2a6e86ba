package controllers

import (
	"errors"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/utils/types"
)

var ErrItemNotFound = errors.New("fabric not found")

// FeaturedCount is how many items the landing page shows.
const FeaturedCount = 3

type CatalogController struct {
	catalog    *catalog.Catalog
	orderPhone string
}

func NewCatalogController(c *catalog.Catalog, orderPhone string) *CatalogController {
	return &CatalogController{catalog: c, orderPhone: orderPhone}
}

func (c *CatalogController) List(query, category string) *types.CatalogListResponse {
	items := c.catalog.Search(query, category)
	return &types.CatalogListResponse{Items: items, Total: len(items)}
}

func (c *CatalogController) Get(id int) (*types.CatalogItemResponse, error) {
	item, ok := c.catalog.ByID(id)
	if !ok {
		return nil, ErrItemNotFound
	}
	return &types.CatalogItemResponse{Item: item, OrderLink: catalog.OrderLink(c.orderPhone, item)}, nil
}

func (c *CatalogController) Categories() []string {
	return c.catalog.Categories()
}

func (c *CatalogController) Featured() *types.CatalogListResponse {
	items := c.catalog.Featured(FeaturedCount)
	return &types.CatalogListResponse{Items: items, Total: len(items)}
}

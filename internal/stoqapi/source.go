package stoqapi

import (
	"context"
	"fmt"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
)

// ProductLister is the subset of ProductAPI a list view needs.
type ProductLister interface {
	ListProducts(ctx context.Context, query ListQuery) (catalog.ListResponse, error)
}

// ProductSource feeds a listctl.Controller from the products endpoint.
type ProductSource struct {
	API ProductLister
}

var _ listctl.DataSource[catalog.Product] = ProductSource{}

// Fetch implements listctl.DataSource.
func (s ProductSource) Fetch(ctx context.Context, q listctl.Query) (listctl.Result[catalog.Product], error) {
	if s.API == nil {
		return listctl.Result[catalog.Product]{}, fmt.Errorf("product source has no client")
	}
	resp, err := s.API.ListProducts(ctx, ListQuery{Page: q.Page, Size: q.Size, Name: q.Filter})
	if err != nil {
		return listctl.Result[catalog.Product]{}, err
	}
	return listctl.Result[catalog.Product]{Items: resp.Items, Total: resp.Total}, nil
}

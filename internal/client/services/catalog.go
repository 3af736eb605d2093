package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// Catalog endpoints.
const (
	FirmsPath           = "/firms/"
	PaymentMethodsPath  = "/payment_method/"
	KeepingServicesPath = "/keeping_service/"
	WorkingServicesPath = "/working_service/"
	ProductsPath        = "/items/product/"
	StoragesPath        = "/storage/"
	TransportTypesPath  = "/transport/type/"
	ModesPath           = "/modes/modes/"
)

// CatalogService loads the reference data the draft ids point into.
type CatalogService interface {
	// Prefetch loads every catalog concurrently. One failure fails the
	// whole batch and no partial data is returned.
	Prefetch(ctx context.Context) (models.Catalogs, error)
	SearchFirms(ctx context.Context, query string) (models.CatalogList, error)
	SearchProducts(ctx context.Context, query string) (models.CatalogList, error)
}

type catalogService struct {
	api API
}

func NewCatalogService(api API) CatalogService {
	return &catalogService{api: api}
}

func (s *catalogService) Prefetch(ctx context.Context) (models.Catalogs, error) {
	var c models.Catalogs
	targets := []struct {
		path string
		dst  *models.CatalogList
	}{
		{FirmsPath, &c.Firms},
		{PaymentMethodsPath, &c.PaymentMethods},
		{KeepingServicesPath, &c.KeepingServices},
		{WorkingServicesPath, &c.WorkingServices},
		{ProductsPath, &c.Products},
		{StoragesPath, &c.Storages},
		{TransportTypesPath, &c.TransportTypes},
		{ModesPath, &c.Modes},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			list, err := s.list(gctx, t.path, nil)
			if err != nil {
				return err
			}
			*t.dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Catalogs{}, err
	}
	return c, nil
}

func (s *catalogService) SearchFirms(ctx context.Context, query string) (models.CatalogList, error) {
	return s.list(ctx, FirmsPath, url.Values{"search": {query}})
}

func (s *catalogService) SearchProducts(ctx context.Context, query string) (models.CatalogList, error) {
	return s.list(ctx, ProductsPath, url.Values{"search": {query}})
}

func (s *catalogService) list(ctx context.Context, path string, q url.Values) (models.CatalogList, error) {
	resp, err := s.api.Do(ctx, &client.Request{Method: http.MethodGet, Path: path, Query: q})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	var list models.CatalogList
	if err := resp.Decode(&list); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if list == nil {
		list = models.CatalogList{}
	}
	return list, nil
}

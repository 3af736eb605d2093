package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/dmitrijs2005/cargodesk/internal/client/search"
)

func (a *App) loadCatalogs(ctx context.Context) error {
	c, err := a.catalogs.Prefetch(ctx)
	if err != nil {
		return err
	}
	a.cache = &c
	return nil
}

func (a *App) Catalogs(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if err := a.loadCatalogs(ctx); err != nil {
		return err
	}

	c := a.cache
	for _, row := range []struct {
		title string
		list  models.CatalogList
	}{
		{"firms", c.Firms},
		{"payment methods", c.PaymentMethods},
		{"keeping services", c.KeepingServices},
		{"working services", c.WorkingServices},
		{"products", c.Products},
		{"storages", c.Storages},
		{"transport types", c.TransportTypes},
		{"modes", c.Modes},
	} {
		a.printf("%s:\n", row.title)
		a.printList(row.list)
	}
	return nil
}

func (a *App) printList(list models.CatalogList) {
	if len(list) == 0 {
		a.printf("  (none)\n")
		return
	}
	for _, it := range list {
		a.printf("  %4d  %s\n", it.ID, it.Name)
	}
}

// Search looks up firms or products. Without a query it reads queries
// line by line, debounced, until an empty line.
func (a *App) Search(ctx context.Context, args []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: search <firms|products> [query]")
	}

	var lookup search.Lookup[models.CatalogList]
	switch args[0] {
	case "firms":
		lookup = a.catalogs.SearchFirms
	case "products":
		lookup = a.catalogs.SearchProducts
	default:
		return fmt.Errorf("cannot search %q", args[0])
	}

	if len(args) > 1 {
		list, err := lookup(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		a.printList(list)
		return nil
	}

	return a.typeAhead(ctx, lookup)
}

func (a *App) typeAhead(ctx context.Context, lookup search.Lookup[models.CatalogList]) error {
	d := search.NewDebouncer(a.config.SearchDebounce, lookup, func(r search.Result[models.CatalogList]) {
		if r.Err != nil {
			a.printf("search %q failed: %v\n", r.Query, r.Err)
			return
		}
		a.printf("results for %q:\n", r.Query)
		a.printList(r.Value)
	}, search.DiscardStale())
	defer d.Stop()

	a.printf("Type to search, empty line to finish\n")
	for {
		line, err := readLine(a.reader)
		if err != nil || line == "" {
			d.Flush()
			return nil
		}
		d.Type(ctx, line)
	}
}

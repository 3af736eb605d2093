package models

import (
	"bytes"
	"encoding/json"
)

// CatalogItem is the common shape of every reference-data row: an id and
// a display name. Endpoints differ in the name field, so several are tried.
type CatalogItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *CatalogItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	switch {
	case raw.Name != "":
		c.Name = raw.Name
	case raw.Title != "":
		c.Name = raw.Title
	default:
		c.Name = raw.Type
	}
	return nil
}

// CatalogList decodes either a bare JSON array or a {"results": [...]} page.
type CatalogList []CatalogItem

func (l *CatalogList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []CatalogItem
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var page struct {
		Results []CatalogItem `json:"results"`
	}
	if err := json.Unmarshal(b, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

// Catalogs is the reference data prefetched on entry to the create flow.
type Catalogs struct {
	Firms           CatalogList
	PaymentMethods  CatalogList
	KeepingServices CatalogList
	WorkingServices CatalogList
	Products        CatalogList
	Storages        CatalogList
	TransportTypes  CatalogList
	Modes           CatalogList
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/client/flow"
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/shopspring/decimal"
)

func (a *App) Show(_ context.Context) error {
	if err := a.requireDraft(); err != nil {
		return err
	}
	a.printf("%s", a.render())
	return nil
}

func (a *App) render() string {
	d := *a.draft
	var c models.Catalogs
	if a.cache != nil {
		c = *a.cache
	}

	var b strings.Builder
	if d.ApplicationID > 0 {
		fmt.Fprintf(&b, "Application #%d (%s)\n", d.ApplicationID, d.Mode)
	} else {
		fmt.Fprintf(&b, "New application (%s)\n", d.Mode)
	}
	fmt.Fprintf(&b, "Step %d/%d: %s\n", a.flow.Index()+1, len(a.flow.Steps()), a.flow.Current())

	fmt.Fprintf(&b, "  firm:        %s\n", ref(c.Firms, d.FirmID))
	fmt.Fprintf(&b, "  brutto:      %s\n", weightText(d.BruttoWeight))
	fmt.Fprintf(&b, "  netto:       %s\n", weightText(d.NettoWeight))
	fmt.Fprintf(&b, "  coming date: %s\n", dateText(&d.ComingDate))
	fmt.Fprintf(&b, "  payment:     %s\n", ref(c.PaymentMethods, d.PaymentMethodID))
	fmt.Fprintf(&b, "  declaration: %s, date %s, file %s\n", orDash(d.DeclarationNumber), dateText(d.DeclarationDate), attachmentText(d.DeclarationFile))

	for _, k := range d.KeepingServices {
		fmt.Fprintf(&b, "  keeping:     %s, %d days\n", name(c.KeepingServices, k.ServiceID), k.Days)
	}
	for _, w := range d.WorkingServices {
		fmt.Fprintf(&b, "  working:     %s x %d\n", name(c.WorkingServices, w.ServiceID), w.Quantity)
	}
	for _, m := range d.Modes {
		fmt.Fprintf(&b, "  mode:        %s\n", name(c.Modes, m.ModeID))
	}
	for i, t := range d.Transports {
		fmt.Fprintf(&b, "  transport %d: %s %s\n", i+1, name(c.TransportTypes, t.TransportTypeID), t.TransportNumber)
	}
	for i, p := range d.Products {
		fmt.Fprintf(&b, "  product %d:   %s in %s x %d\n", i+1, name(c.Products, p.ProductID), name(c.Storages, p.StorageID), p.Quantity)
	}
	for i, p := range d.Photos {
		tag := ""
		if p.IsNewlyAdded {
			tag = " (new)"
		}
		fmt.Fprintf(&b, "  photo %d:     %s%s\n", i+1, attachmentText(p.Content), tag)
	}

	if issues := flow.StepIssues(d, a.flow.Current()); len(issues) > 0 {
		b.WriteString("Issues on this step:\n")
		for _, is := range issues {
			fmt.Fprintf(&b, "  %s\n", is)
		}
	}
	return b.String()
}

func name(list models.CatalogList, id int64) string {
	for _, it := range list {
		if it.ID == id && it.Name != "" {
			return fmt.Sprintf("%s (#%d)", it.Name, id)
		}
	}
	return fmt.Sprintf("#%d", id)
}

func ref(list models.CatalogList, id *int64) string {
	if id == nil {
		return "-"
	}
	return name(list, *id)
}

func weightText(w decimal.NullDecimal) string {
	if !w.Valid {
		return "-"
	}
	return w.Decimal.String()
}

func dateText(d *models.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.Display()
}

func attachmentText(att models.Attachment) string {
	switch att.Kind {
	case models.AttachmentBinary:
		return fmt.Sprintf("%s (%d bytes)", orDash(att.FileName), len(att.Content))
	case models.AttachmentReference:
		return att.URL
	default:
		return "none"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}


package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
	"github.com/dmitrijs2005/cargodesk/internal/client/flow"
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/dmitrijs2005/cargodesk/internal/client/services"
	"github.com/dmitrijs2005/cargodesk/internal/filex"
	"github.com/shopspring/decimal"
)

// New opens an empty create draft and prefetches the catalogs its tabs
// pick from. A failed prefetch leaves the draft usable without names.
func (a *App) New(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	a.open(draft.New(a.now))
	if err := a.loadCatalogs(ctx); err != nil {
		a.printf("Catalogs unavailable: %v\n", err)
	}
	a.printf("New application, step %s\n", a.flow.Current())
	return nil
}

// Edit loads an application into an edit draft. Without an id it opens
// the application saved last in this session.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	var id int64
	var err error
	if len(args) > 0 {
		if id, err = parseID(args[0]); err != nil {
			return err
		}
	} else {
		if id, err = a.session.CurrentApplicationID(ctx); err != nil {
			return err
		}
		if id == 0 {
			return errors.New("usage: edit <id>")
		}
	}

	d, err := a.apps.Load(ctx, id)
	if err != nil {
		return err
	}
	a.open(d)
	a.printf("Editing application #%d, step %s\n", id, a.flow.Current())
	return nil
}

func (a *App) Discard(_ context.Context) error {
	if err := a.requireDraft(); err != nil {
		return err
	}
	a.draft, a.flow, a.partial = nil, nil, nil
	a.printf("Draft discarded\n")
	return nil
}

func (a *App) Set(ctx context.Context, args []string) error {
	if err := a.requireDraft(); err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: set <field> <value>")
	}

	name, value := args[0], strings.Join(args[1:], " ")
	f, err := parseField(name, value)
	if err != nil {
		return err
	}
	a.apply(draft.Action{Kind: draft.ActionReplaceField, Field: f})
	return nil
}

func parseField(name, value string) (draft.Field, error) {
	switch name {
	case "firm":
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		return draft.FirmID(id), nil
	case "brutto", "netto":
		w, err := parseWeight(value)
		if err != nil {
			return nil, err
		}
		if name == "brutto" {
			return draft.Brutto(w), nil
		}
		return draft.Netto(w), nil
	case "coming":
		d, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		return draft.ComingDate(d), nil
	case "declnum":
		return draft.DeclarationNumber(value), nil
	case "decldate":
		d, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		return draft.DeclarationDate(d), nil
	case "declfile":
		att, err := readAttachment(value)
		if err != nil {
			return nil, err
		}
		return draft.DeclarationFile(att), nil
	case "payment":
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		return draft.PaymentMethod(id), nil
	default:
		return nil, fmt.Errorf("unknown field %q", name)
	}
}

func (a *App) Unset(_ context.Context, args []string) error {
	if err := a.requireDraft(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: unset <field>")
	}

	var f draft.Field
	switch args[0] {
	case "firm":
		f = draft.NoFirm()
	case "brutto":
		f = draft.Brutto(decimal.NullDecimal{})
	case "netto":
		f = draft.Netto(decimal.NullDecimal{})
	case "declnum":
		f = draft.DeclarationNumber("")
	case "decldate":
		f = draft.NoDeclarationDate()
	case "declfile":
		f = draft.DeclarationFile(models.Attachment{})
	case "payment":
		f = draft.NoPaymentMethod()
	default:
		return fmt.Errorf("field %q cannot be unset", args[0])
	}
	a.apply(draft.Action{Kind: draft.ActionReplaceField, Field: f})
	return nil
}

func readAttachment(p string) (models.Attachment, error) {
	content, err := filex.ReadUpload(p, filex.MaxUploadSize)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("error reading file: %w", err)
	}
	return models.BinaryAttachment(filepath.Base(p), content), nil
}

// Select sets or clears a keyed selection. A quantity of zero removes it.
func (a *App) Select(_ context.Context, c draft.KeyedCollection, args []string) error {
	if err := a.requireDraft(); err != nil {
		return err
	}

	if c == draft.Modes {
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: mode <id> [off]")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 && args[1] == "off" {
			a.apply(draft.Action{Kind: draft.ActionRemoveKeyed, Keyed: c, Key: id})
		} else {
			a.apply(draft.Action{Kind: draft.ActionUpsertKeyed, Keyed: c, Key: id, Quantity: 1})
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("usage: %s <id> <quantity>", c)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty, err := parseCount(args[1])
	if err != nil {
		return err
	}
	a.apply(draft.Action{Kind: draft.ActionUpsertKeyed, Keyed: c, Key: id, Quantity: qty})
	return nil
}

// Entry appends to or removes from a positional collection. Indexes are
// 1-based as shown by show.
func (a *App) Entry(_ context.Context, c draft.PositionalCollection, args []string) error {
	if err := a.requireDraft(); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: %s add|rm ...", c)
	}

	switch args[0] {
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s rm <n>", c)
		}
		i, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		a.apply(draft.Action{Kind: draft.ActionRemoveEntryAt, Positional: c, Index: i})
		return nil
	case "add":
		e, err := parseEntry(c, args[1:])
		if err != nil {
			return err
		}
		a.apply(draft.Action{Kind: draft.ActionAppendEntry, Entry: e})
		return nil
	default:
		return fmt.Errorf("unknown %s action %q", c, args[0])
	}
}

func parseEntry(c draft.PositionalCollection, args []string) (draft.Entry, error) {
	switch c {
	case draft.Transports:
		if len(args) < 2 {
			return nil, errors.New("usage: transport add <type-id> <number>")
		}
		typeID, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return draft.TransportEntry{TransportTypeID: typeID, TransportNumber: strings.Join(args[1:], " ")}, nil

	case draft.Products:
		if len(args) != 3 {
			return nil, errors.New("usage: product add <product-id> <storage-id> <qty>")
		}
		productID, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		storageID, err := parseID(args[1])
		if err != nil {
			return nil, err
		}
		qty, err := parseCount(args[2])
		if err != nil {
			return nil, err
		}
		return draft.ProductEntry{ProductID: productID, StorageID: storageID, Quantity: qty}, nil

	case draft.Photos:
		if len(args) != 1 {
			return nil, errors.New("usage: photo add <path>")
		}
		att, err := readAttachment(args[0])
		if err != nil {
			return nil, err
		}
		return draft.PhotoEntry{Content: att, IsNewlyAdded: true}, nil
	}
	return nil, fmt.Errorf("unknown collection %s", c)
}

// Step moves between tabs. next on the last tab submits.
func (a *App) Step(ctx context.Context, cmd string, args []string) error {
	if err := a.requireDraft(); err != nil {
		return err
	}

	switch cmd {
	case "next":
		if a.flow.PrimaryAction() == flow.ActionSubmit {
			return a.Submit(ctx)
		}
		a.flow.GoNext()
	case "back":
		if !a.flow.GoBack() {
			return errors.New("already on the first step")
		}
	case "goto":
		if len(args) != 1 {
			return errors.New("usage: goto <step|n>")
		}
		if !a.flow.GoToStep(flow.Step(args[0])) {
			i, err := parseIndex(args[0])
			if err != nil || !a.flow.GoTo(i) {
				return fmt.Errorf("unknown step %q", args[0])
			}
		}
	}

	a.printf("Step %d/%d: %s\n", a.flow.Index()+1, len(a.flow.Steps()), a.flow.Current())
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	if err := a.requireDraft(); err != nil {
		return err
	}
	a.report(ctx, a.apps.Submit(ctx, *a.draft))
	return nil
}

// Retry repeats the mode attachment of the last partial success.
func (a *App) Retry(ctx context.Context) error {
	if a.partial == nil {
		return errors.New("nothing to retry")
	}
	p := *a.partial
	a.report(ctx, a.apps.RetryModeAttachment(ctx, p.ApplicationID, p.ModeID))
	return nil
}

func (a *App) report(_ context.Context, out services.Outcome) {
	switch out.Kind {
	case services.OutcomeSuccess:
		a.partial = nil
		a.printf("Application #%d saved\n", out.ApplicationID)
		a.saved(out.ApplicationID)
		if a.flow != nil && a.flow.AfterSubmit() {
			a.printf("Step %d/%d: %s\n", a.flow.Index()+1, len(a.flow.Steps()), a.flow.Current())
		}

	case services.OutcomePartialSuccess:
		a.partial = &out
		a.saved(out.ApplicationID)
		a.printf("Application #%d saved, but mode %d was not attached: %s\n", out.ApplicationID, out.ModeID, out.Message)
		a.printf("Use retry to attach it again\n")

	default:
		if out.Unauthorized {
			a.printf("Your session has expired, please log in again\n")
			return
		}
		a.printf("Submission failed:\n%s\n", out.Message)
	}
}

// saved replaces the submitted draft with its successor bound to id, so
// later tabs update the stored application and nothing is uploaded twice.
func (a *App) saved(id int64) {
	if a.draft == nil {
		return
	}
	next := draft.Saved(*a.draft, id)
	a.draft = &next
}

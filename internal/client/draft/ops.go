package draft

import (
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/shopspring/decimal"
)

// KeyedCollection names a collection holding one entry per id.
type KeyedCollection int

const (
	Keeping KeyedCollection = iota + 1
	Working
	Modes
)

func (c KeyedCollection) String() string {
	switch c {
	case Keeping:
		return "keeping"
	case Working:
		return "working"
	case Modes:
		return "modes"
	default:
		return "unknown"
	}
}

// PositionalCollection names an ordered list addressed by index.
type PositionalCollection int

const (
	Transports PositionalCollection = iota + 1
	Products
	Photos
)

func (c PositionalCollection) String() string {
	switch c {
	case Transports:
		return "transports"
	case Products:
		return "products"
	case Photos:
		return "photos"
	default:
		return "unknown"
	}
}

// Field is a whole-value update of one scalar field of the root record.
type Field interface {
	apply(d *Draft)
}

type fieldFunc func(d *Draft)

func (f fieldFunc) apply(d *Draft) { f(d) }

func FirmID(id int64) Field {
	return fieldFunc(func(d *Draft) { d.FirmID = &id })
}

func NoFirm() Field {
	return fieldFunc(func(d *Draft) { d.FirmID = nil })
}

func Brutto(v decimal.NullDecimal) Field {
	return fieldFunc(func(d *Draft) { d.BruttoWeight = v })
}

func Netto(v decimal.NullDecimal) Field {
	return fieldFunc(func(d *Draft) { d.NettoWeight = v })
}

func ComingDate(v models.Date) Field {
	return fieldFunc(func(d *Draft) { d.ComingDate = v })
}

func DeclarationNumber(v string) Field {
	return fieldFunc(func(d *Draft) { d.DeclarationNumber = v })
}

func DeclarationDate(v models.Date) Field {
	return fieldFunc(func(d *Draft) { d.DeclarationDate = &v })
}

func NoDeclarationDate() Field {
	return fieldFunc(func(d *Draft) { d.DeclarationDate = nil })
}

func DeclarationFile(a models.Attachment) Field {
	return fieldFunc(func(d *Draft) { d.DeclarationFile = a })
}

func PaymentMethod(id int64) Field {
	return fieldFunc(func(d *Draft) { d.PaymentMethodID = &id })
}

func NoPaymentMethod() Field {
	return fieldFunc(func(d *Draft) { d.PaymentMethodID = nil })
}

// Entry is a value that can be appended to a positional collection:
// TransportEntry, ProductEntry or PhotoEntry.
type Entry interface {
	appendTo(d Draft) Draft
}

func (e TransportEntry) appendTo(d Draft) Draft {
	d.Transports = d.Transports.Append(e)
	return d
}

func (e ProductEntry) appendTo(d Draft) Draft {
	d.Products = d.Products.Append(e)
	return d
}

func (e PhotoEntry) appendTo(d Draft) Draft {
	d.Photos = d.Photos.Append(e)
	return d
}

// ReplaceField returns d with one scalar field replaced.
func (d Draft) ReplaceField(f Field) Draft {
	if f == nil {
		return d
	}
	f.apply(&d)
	return d
}

// UpsertKeyedSelection sets the quantity (days for keeping services) for
// key. A quantity of zero or less removes the entry instead. For Modes any
// positive quantity selects the mode; a create draft keeps only that one.
func (d Draft) UpsertKeyedSelection(c KeyedCollection, key int64, quantity int) Draft {
	if quantity <= 0 {
		return d.RemoveKeyedSelection(c, key)
	}
	switch c {
	case Keeping:
		d.KeepingServices = d.KeepingServices.Upsert(KeepingService{ServiceID: key, Days: quantity})
	case Working:
		d.WorkingServices = d.WorkingServices.Upsert(WorkingService{ServiceID: key, Quantity: quantity})
	case Modes:
		if d.Mode == ModeCreate {
			d.Modes = Keyed[ModeSelection]{{ModeID: key}}
		} else {
			d.Modes = d.Modes.Upsert(ModeSelection{ModeID: key})
		}
	}
	return d
}

// RemoveKeyedSelection drops key from the collection; absent keys are a no-op.
func (d Draft) RemoveKeyedSelection(c KeyedCollection, key int64) Draft {
	switch c {
	case Keeping:
		d.KeepingServices = d.KeepingServices.Remove(key)
	case Working:
		d.WorkingServices = d.WorkingServices.Remove(key)
	case Modes:
		d.Modes = d.Modes.Remove(key)
	}
	return d
}

// AppendEntry adds e to the end of its collection. No uniqueness check.
func (d Draft) AppendEntry(e Entry) Draft {
	if e == nil {
		return d
	}
	return e.appendTo(d)
}

// RemoveEntryAt drops the entry at index; out-of-range is a no-op.
func (d Draft) RemoveEntryAt(c PositionalCollection, index int) Draft {
	switch c {
	case Transports:
		d.Transports = d.Transports.RemoveAt(index)
	case Products:
		d.Products = d.Products.RemoveAt(index)
	case Photos:
		d.Photos = d.Photos.RemoveAt(index)
	}
	return d
}

// ActionKind selects which operation an Action performs.
type ActionKind int

const (
	ActionReplaceField ActionKind = iota + 1
	ActionUpsertKeyed
	ActionRemoveKeyed
	ActionAppendEntry
	ActionRemoveEntryAt
)

// Action is one draft operation as plain data, for UI layers that pass
// edits around as values instead of calling methods.
type Action struct {
	Kind       ActionKind
	Field      Field
	Keyed      KeyedCollection
	Positional PositionalCollection
	Key        int64
	Quantity   int
	Index      int
	Entry      Entry
}

// Reduce applies a to d. Unknown kinds return d unchanged.
func Reduce(d Draft, a Action) Draft {
	switch a.Kind {
	case ActionReplaceField:
		return d.ReplaceField(a.Field)
	case ActionUpsertKeyed:
		return d.UpsertKeyedSelection(a.Keyed, a.Key, a.Quantity)
	case ActionRemoveKeyed:
		return d.RemoveKeyedSelection(a.Keyed, a.Key)
	case ActionAppendEntry:
		return d.AppendEntry(a.Entry)
	case ActionRemoveEntryAt:
		return d.RemoveEntryAt(a.Positional, a.Index)
	default:
		return d
	}
}

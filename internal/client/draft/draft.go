// Package draft holds the in-memory application draft: a root record plus
// six sub-collections, edited only through operations that return a new
// Draft value.
//
// Keyed collections (keeping services, working services, modes) hold one
// entry per id and drop an entry when its quantity is driven to zero.
// Positional collections (transports, products, photos) are plain ordered
// lists where an entry is addressed by its index.
//
// The same type serves the create and the edit flow; Mode tells them apart
// where their rules differ (a create draft holds at most one mode).
package draft

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

type KeepingService struct {
	ServiceID int64
	Days      int
}

func (k KeepingService) key() int64 { return k.ServiceID }

type WorkingService struct {
	ServiceID int64
	Quantity  int
}

func (w WorkingService) key() int64 { return w.ServiceID }

type ModeSelection struct {
	ModeID int64
}

func (m ModeSelection) key() int64 { return m.ModeID }

type TransportEntry struct {
	TransportTypeID int64
	TransportNumber string
}

type ProductEntry struct {
	ProductID int64
	StorageID int64
	Quantity  int
}

type PhotoEntry struct {
	Content      models.Attachment
	IsNewlyAdded bool
}

// Draft is one application under construction or edit. Treat it as
// read-only; use the operations in ops.go to derive changed copies.
type Draft struct {
	Mode          Mode
	ApplicationID int64

	FirmID            *int64
	BruttoWeight      decimal.NullDecimal
	NettoWeight       decimal.NullDecimal
	ComingDate        models.Date
	DeclarationNumber string
	DeclarationDate   *models.Date
	DeclarationFile   models.Attachment
	PaymentMethodID   *int64

	KeepingServices Keyed[KeepingService]
	WorkingServices Keyed[WorkingService]
	Modes           Keyed[ModeSelection]
	Transports      Positional[TransportEntry]
	Products        Positional[ProductEntry]
	Photos          Positional[PhotoEntry]
}

// New returns an empty create-flow draft whose coming date is today.
func New(now func() time.Time) Draft {
	return Draft{
		Mode:       ModeCreate,
		ComingDate: models.DateOf(now()),
	}
}

// FromRecord hydrates an edit-flow draft from a fetched application.
// Existing files become references; nothing is marked newly added.
func FromRecord(rec models.ApplicationRecord) Draft {
	d := Draft{
		Mode:              ModeEdit,
		ApplicationID:     rec.ID,
		FirmID:            copyID(rec.FirmID),
		BruttoWeight:      rec.Brutto,
		NettoWeight:       rec.Netto,
		ComingDate:        rec.ComingDate,
		DeclarationNumber: rec.DeclarationNumber,
		DeclarationFile:   models.ReferenceAttachment(rec.DeclarationFile),
		PaymentMethodID:   copyID(rec.PaymentMethodID),
	}
	if !rec.DeclarationDate.IsZero() {
		date := rec.DeclarationDate
		d.DeclarationDate = &date
	}

	for _, r := range rec.KeepingServices {
		if r.Day > 0 {
			d.KeepingServices = d.KeepingServices.Upsert(KeepingService{ServiceID: r.ServiceID, Days: r.Day})
		}
	}
	for _, r := range rec.WorkingServices {
		if r.Quantity > 0 {
			d.WorkingServices = d.WorkingServices.Upsert(WorkingService{ServiceID: r.ServiceID, Quantity: r.Quantity})
		}
	}
	for _, r := range rec.Modes {
		d.Modes = d.Modes.Upsert(ModeSelection{ModeID: r.ModeID})
	}
	for _, r := range rec.Transports {
		d.Transports = d.Transports.Append(TransportEntry{TransportTypeID: r.TransportType, TransportNumber: r.TransportNumber})
	}
	for _, r := range rec.Products {
		d.Products = d.Products.Append(ProductEntry{ProductID: r.ProductID, StorageID: r.StorageID, Quantity: r.Quantity})
	}
	for _, r := range rec.Photos {
		d.Photos = d.Photos.Append(PhotoEntry{Content: models.ReferenceAttachment(r.Image)})
	}
	return d
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func equalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

func equalDate(a, b *models.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal reports value equality. Nil and empty collections are equal.
func Equal(a, b Draft) bool {
	return a.Mode == b.Mode &&
		a.ApplicationID == b.ApplicationID &&
		equalID(a.FirmID, b.FirmID) &&
		equalDecimal(a.BruttoWeight, b.BruttoWeight) &&
		equalDecimal(a.NettoWeight, b.NettoWeight) &&
		a.ComingDate == b.ComingDate &&
		a.DeclarationNumber == b.DeclarationNumber &&
		equalDate(a.DeclarationDate, b.DeclarationDate) &&
		a.DeclarationFile.Equal(b.DeclarationFile) &&
		equalID(a.PaymentMethodID, b.PaymentMethodID) &&
		slices.Equal(a.KeepingServices, b.KeepingServices) &&
		slices.Equal(a.WorkingServices, b.WorkingServices) &&
		slices.Equal(a.Modes, b.Modes) &&
		slices.Equal(a.Transports, b.Transports) &&
		slices.Equal(a.Products, b.Products) &&
		slices.EqualFunc(a.Photos, b.Photos, func(x, y PhotoEntry) bool {
			return x.IsNewlyAdded == y.IsNewlyAdded && x.Content.Equal(y.Content)
		})
}

// Saved returns the edit draft that follows a successful submission of d
// as application id. Uploaded files become references to what the server
// now holds, so they are not sent again. A create draft's mode was
// attached by its own call and is left out.
func Saved(d Draft, id int64) Draft {
	next := d
	next.Mode = ModeEdit
	next.ApplicationID = id
	next.FirmID = copyID(d.FirmID)
	next.PaymentMethodID = copyID(d.PaymentMethodID)
	if d.DeclarationDate != nil {
		date := *d.DeclarationDate
		next.DeclarationDate = &date
	}
	next.DeclarationFile = uploaded(d.DeclarationFile)

	next.KeepingServices = slices.Clone(d.KeepingServices)
	next.WorkingServices = slices.Clone(d.WorkingServices)
	next.Transports = slices.Clone(d.Transports)
	next.Products = slices.Clone(d.Products)
	if d.Mode == ModeCreate {
		next.Modes = nil
	} else {
		next.Modes = slices.Clone(d.Modes)
	}

	next.Photos = nil
	for _, p := range d.Photos {
		next.Photos = next.Photos.Append(PhotoEntry{Content: uploaded(p.Content)})
	}
	return next
}

func uploaded(a models.Attachment) models.Attachment {
	if !a.IsBinary() {
		return a
	}
	name := a.FileName
	if name == "" {
		name = "uploaded"
	}
	return models.ReferenceAttachment(name)
}

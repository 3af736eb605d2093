package draft

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/shopspring/decimal"
)

// PayloadField is one named scalar of the submission.
type PayloadField struct {
	Name  string
	Value any
}

// Text renders the value the way a multipart form carries it.
func (f PayloadField) Text() string {
	switch v := f.Value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// PayloadFile is a binary attachment sent under a form field.
type PayloadFile struct {
	Field    string
	FileName string
	Content  []byte
}

// Payload is a draft flattened into the backend's wire shape. Collection
// fields hold JSON-encoded arrays as strings in both JSON and multipart
// encodings.
type Payload struct {
	Fields []PayloadField
	Files  []PayloadFile
}

// Multipart reports whether the payload carries binary attachments and
// therefore has to be sent as multipart/form-data.
func (p Payload) Multipart() bool {
	return len(p.Files) > 0
}

func (p Payload) Get(name string) (any, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// JSON returns the fields as a JSON object body.
func (p Payload) JSON() map[string]any {
	m := make(map[string]any, len(p.Fields))
	for _, f := range p.Fields {
		m[f.Name] = f.Value
	}
	return m
}

func addArray[T any](add func(string, any), name string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	add(name, string(b))
	return nil
}

// BuildPayload flattens d. Dates are rendered DD.MM.YYYY. Existing file
// references are not re-sent; only binary attachments become files.
// Modes are only part of an edit payload; a create attaches its mode with
// a separate call once the application exists.
func BuildPayload(d Draft) (Payload, error) {
	var p Payload
	add := func(name string, v any) {
		p.Fields = append(p.Fields, PayloadField{Name: name, Value: v})
	}

	if d.FirmID != nil {
		add(FieldFirmID, *d.FirmID)
	}
	if d.BruttoWeight.Valid {
		add(FieldBrutto, d.BruttoWeight.Decimal)
	}
	if d.NettoWeight.Valid {
		add(FieldNetto, d.NettoWeight.Decimal)
	}
	if !d.ComingDate.IsZero() {
		add(FieldComingDate, d.ComingDate.Display())
	}
	add(FieldDeclarationNumber, d.DeclarationNumber)
	if d.DeclarationDate != nil {
		add(FieldDeclarationDate, d.DeclarationDate.Display())
	}
	if d.PaymentMethodID != nil {
		add(FieldPaymentMethodID, *d.PaymentMethodID)
	}

	keeping := make([]models.KeepingServiceRow, len(d.KeepingServices))
	for i, k := range d.KeepingServices {
		keeping[i] = models.KeepingServiceRow{ServiceID: k.ServiceID, Day: k.Days}
	}
	working := make([]models.WorkingServiceRow, len(d.WorkingServices))
	for i, w := range d.WorkingServices {
		working[i] = models.WorkingServiceRow{ServiceID: w.ServiceID, Quantity: w.Quantity}
	}
	transports := make([]models.TransportRow, len(d.Transports))
	for i, t := range d.Transports {
		transports[i] = models.TransportRow{TransportType: t.TransportTypeID, TransportNumber: t.TransportNumber}
	}
	products := make([]models.ProductRow, len(d.Products))
	for i, pr := range d.Products {
		products[i] = models.ProductRow{ProductID: pr.ProductID, StorageID: pr.StorageID, Quantity: pr.Quantity}
	}

	if err := addArray(add, FieldKeepingServices, keeping); err != nil {
		return Payload{}, err
	}
	if err := addArray(add, FieldWorkingServices, working); err != nil {
		return Payload{}, err
	}
	if err := addArray(add, FieldTransports, transports); err != nil {
		return Payload{}, err
	}
	if err := addArray(add, FieldProducts, products); err != nil {
		return Payload{}, err
	}
	if d.Mode == ModeEdit {
		modes := make([]models.ModeRow, len(d.Modes))
		for i, m := range d.Modes {
			modes[i] = models.ModeRow{ModeID: m.ModeID}
		}
		if err := addArray(add, FieldModes, modes); err != nil {
			return Payload{}, err
		}
	}

	if d.DeclarationFile.IsBinary() {
		p.Files = append(p.Files, PayloadFile{
			Field:    FieldDeclarationFile,
			FileName: d.DeclarationFile.FileName,
			Content:  d.DeclarationFile.Content,
		})
	}
	for _, ph := range d.Photos {
		if ph.IsNewlyAdded && ph.Content.IsBinary() {
			p.Files = append(p.Files, PayloadFile{
				Field:    FieldPhotos,
				FileName: ph.Content.FileName,
				Content:  ph.Content.Content,
			})
		}
	}

	return p, nil
}

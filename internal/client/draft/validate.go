package draft

import (
	"fmt"
	"strings"
)

// Wire field names; the declaration keys keep the server's spelling.
const (
	FieldFirmID            = "firm_id"
	FieldBrutto            = "brutto"
	FieldNetto             = "netto"
	FieldComingDate        = "coming_date"
	FieldDeclarationNumber = "decloration_number"
	FieldDeclarationDate   = "decloration_date"
	FieldDeclarationFile   = "decloration_file"
	FieldPaymentMethodID   = "payment_method_id"
	FieldKeepingServices   = "keeping_services"
	FieldWorkingServices   = "working_services"
	FieldTransports        = "upload_transport"
	FieldModes             = "upload_modes"
	FieldProducts          = "upload_products"
	FieldPhotos            = "upload_photos"
)

// Issue is one client-side validation problem.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// ValidationError carries every issue found by Validate.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// Validate checks the fields the server requires before a draft may be
// submitted. Referential validity of ids is left to the server.
func Validate(d Draft) []Issue {
	var issues []Issue
	add := func(field, msg string) {
		issues = append(issues, Issue{Field: field, Message: msg})
	}

	if d.FirmID == nil {
		add(FieldFirmID, "firm is required")
	}

	if d.Mode == ModeCreate {
		if !d.BruttoWeight.Valid {
			add(FieldBrutto, "brutto weight is required")
		}
		if !d.NettoWeight.Valid {
			add(FieldNetto, "netto weight is required")
		}
		if d.ComingDate.IsZero() {
			add(FieldComingDate, "coming date is required")
		}
		if strings.TrimSpace(d.DeclarationNumber) == "" {
			add(FieldDeclarationNumber, "declaration number is required")
		}
		if len(d.Modes) > 1 {
			add(FieldModes, "only one mode may be selected")
		}
	}

	if d.Mode == ModeEdit && d.ApplicationID <= 0 {
		add("id", "application id is required for an update")
	}

	if d.BruttoWeight.Valid && d.BruttoWeight.Decimal.IsNegative() {
		add(FieldBrutto, "brutto weight must not be negative")
	}
	if d.NettoWeight.Valid && d.NettoWeight.Decimal.IsNegative() {
		add(FieldNetto, "netto weight must not be negative")
	}

	for i, p := range d.Products {
		if p.Quantity <= 0 {
			add(FieldProducts, fmt.Sprintf("product #%d quantity must be positive", i+1))
		}
	}

	return issues
}

// Check returns a *ValidationError when Validate reports issues.
func Check(d Draft) error {
	if issues := Validate(d); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

package models

import "github.com/shopspring/decimal"

// Wire rows used inside the JSON-encoded array fields of an application.

type KeepingServiceRow struct {
	ServiceID int64 `json:"service_id"`
	Day       int   `json:"day"`
}

type WorkingServiceRow struct {
	ServiceID int64 `json:"service_id"`
	Quantity  int   `json:"quantity"`
}

type TransportRow struct {
	TransportType   int64  `json:"transport_type"`
	TransportNumber string `json:"transport_number"`
}

type ProductRow struct {
	ProductID int64 `json:"product_id"`
	StorageID int64 `json:"storage_id"`
	Quantity  int   `json:"quantity"`
}

type ModeRow struct {
	ModeID int64 `json:"mode_id"`
}

type PhotoRow struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// ApplicationRecord is an application as returned by GET /application/{id}/.
// Dates arrive in the display layout.
type ApplicationRecord struct {
	ID                int64               `json:"id"`
	FirmID            *int64              `json:"firm_id"`
	Brutto            decimal.NullDecimal `json:"brutto"`
	Netto             decimal.NullDecimal `json:"netto"`
	ComingDate        Date                `json:"coming_date"`
	DeclarationNumber string              `json:"decloration_number"`
	DeclarationDate   Date                `json:"decloration_date"`
	DeclarationFile   string              `json:"decloration_file"`
	PaymentMethodID   *int64              `json:"payment_method_id"`
	KeepingServices   []KeepingServiceRow `json:"keeping_services"`
	WorkingServices   []WorkingServiceRow `json:"working_services"`
	Transports        []TransportRow      `json:"transports"`
	Products          []ProductRow        `json:"products"`
	Modes             []ModeRow           `json:"modes"`
	Photos            []PhotoRow          `json:"photos"`
}

// ApplicationModeRequest is the body of POST /modes/application_modes/.
type ApplicationModeRequest struct {
	ModeID        int64 `json:"mode_id"`
	ApplicationID int64 `json:"application_id"`
}

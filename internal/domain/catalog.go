package domain

import (
	"fmt"
	"strings"
	"time"
)

// Retailer is a store that lists devices
type Retailer struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region" yaml:"region"`
}

// PriceObservation is one retailer's current price for a device.
// Prices are whole Rial.
type PriceObservation struct {
	RetailerID  string    `json:"retailer" yaml:"retailer"`
	Price       int64     `json:"price" yaml:"price"`
	URL         string    `json:"url" yaml:"url"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// Specs holds opaque specification strings shown on device pages
type Specs struct {
	Display string `json:"display" yaml:"display"`
	Chip    string `json:"chip" yaml:"chip"`
	Battery string `json:"battery" yaml:"battery"`
	Camera  string `json:"camera" yaml:"camera"`
}

// Device represents a smartphone model tracked across retailers
type Device struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Brand       string             `json:"brand" yaml:"brand"`
	Storage     string             `json:"storage" yaml:"storage"`
	ReleaseYear int                `json:"release_year" yaml:"release_year"`
	Specs       Specs              `json:"specs" yaml:"specs"`
	Prices      []PriceObservation `json:"prices" yaml:"prices"`
}

// Analyzable reports whether the device carries at least one price observation
func (d Device) Analyzable() bool {
	return len(d.Prices) > 0
}

// ListedAt reports whether any observation belongs to one of the given retailers
func (d Device) ListedAt(retailers map[string]struct{}) bool {
	for _, p := range d.Prices {
		if _, ok := retailers[p.RetailerID]; ok {
			return true
		}
	}
	return false
}

// NameContains performs a case-insensitive substring match on the device name
func (d Device) NameContains(query string) bool {
	return strings.Contains(strings.ToLower(d.Name), strings.ToLower(query))
}

// ValidateCatalog checks referential integrity of a loaded catalog:
// unique device ids, unique retailer ids and known retailers on every observation.
func ValidateCatalog(devices []Device, retailers []Retailer) error {
	known := make(map[string]struct{}, len(retailers))
	for _, r := range retailers {
		if r.ID == "" {
			return fmt.Errorf("%w: retailer with empty id", ErrInvalidCatalog)
		}
		if _, dup := known[r.ID]; dup {
			return fmt.Errorf("%w: duplicate retailer %q", ErrInvalidCatalog, r.ID)
		}
		known[r.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(devices))
	for _, d := range devices {
		if d.ID == "" {
			return fmt.Errorf("%w: device with empty id", ErrInvalidCatalog)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: duplicate device %q", ErrInvalidCatalog, d.ID)
		}
		seen[d.ID] = struct{}{}

		for _, p := range d.Prices {
			if _, ok := known[p.RetailerID]; !ok {
				return fmt.Errorf("%w: device %q references unknown retailer %q", ErrInvalidCatalog, d.ID, p.RetailerID)
			}
			if p.Price < 0 {
				return fmt.Errorf("%w: device %q has negative price at %q", ErrInvalidCatalog, d.ID, p.RetailerID)
			}
		}
	}

	return nil
}

package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownService is returned when a service id is not in the catalog
var ErrUnknownService = errors.New("unknown service")

// Well-known service ids referenced by business rules
const (
	ServiceDiagnosticCallout = "diagnostic-callout"
	ServicePriorityTriage    = "vor-priority-triage"
)

// ServiceDefinition describes a bookable diagnostic service.
// Zone prices are in whole GBP.
type ServiceDefinition struct {
	ID             string
	Label          string
	DurationMins   int
	BufferMins     int
	MinNoticeHours int
	PriceZoneA     int64
	PriceZoneB     int64
	PriceZoneC     int64
}

// Price returns the service price in GBP for the given zone
func (s ServiceDefinition) Price(zone Zone) (int64, error) {
	switch zone {
	case ZoneA:
		return s.PriceZoneA, nil
	case ZoneB:
		return s.PriceZoneB, nil
	case ZoneC:
		return s.PriceZoneC, nil
	default:
		return 0, fmt.Errorf("no price for zone %q", zone)
	}
}

// Catalog is the fixed registry of bookable services
type Catalog struct {
	services []ServiceDefinition
	byID     map[string]ServiceDefinition
}

// NewCatalog builds a catalog from the given definitions
func NewCatalog(defs []ServiceDefinition) *Catalog {
	byID := make(map[string]ServiceDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Catalog{services: defs, byID: byID}
}

// Get returns the service definition for the given id
func (c *Catalog) Get(id string) (ServiceDefinition, error) {
	def, ok := c.byID[id]
	if !ok {
		return ServiceDefinition{}, fmt.Errorf("%w: %s", ErrUnknownService, id)
	}
	return def, nil
}

// Bundle resolves a list of service ids into definitions.
// Fails on the first unknown id.
func (c *Catalog) Bundle(ids []string) ([]ServiceDefinition, error) {
	defs := make([]ServiceDefinition, 0, len(ids))
	for _, id := range ids {
		def, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// List returns all services in catalog order
func (c *Catalog) List() []ServiceDefinition {
	out := make([]ServiceDefinition, len(c.services))
	copy(out, c.services)
	return out
}

// DefaultCatalog returns the production service catalog
func DefaultCatalog() *Catalog {
	return NewCatalog([]ServiceDefinition{
		{
			ID:             ServiceDiagnosticCallout,
			Label:          "Diagnostic Callout (Standard)",
			DurationMins:   60,
			BufferMins:     20,
			MinNoticeHours: 24,
			PriceZoneA:     120, PriceZoneB: 135, PriceZoneC: 150,
		},
		{
			ID:             ServicePriorityTriage,
			Label:          "VOR / Priority Triage (Commercial)",
			DurationMins:   75,
			BufferMins:     30,
			MinNoticeHours: 0,
			PriceZoneA:     160, PriceZoneB: 175, PriceZoneC: 190,
		},
		{
			ID:             "vor-van-diagnostics",
			Label:          "VOR Van Diagnostics (Commercial)",
			DurationMins:   75,
			BufferMins:     30,
			MinNoticeHours: 0,
			PriceZoneA:     160, PriceZoneB: 175, PriceZoneC: 190,
		},
		{
			ID:             "emissions-fault-decision",
			Label:          "Emissions Fault Decision Visit",
			DurationMins:   90,
			BufferMins:     35,
			MinNoticeHours: 24,
			PriceZoneA:     170, PriceZoneB: 185, PriceZoneC: 200,
		},
		{
			ID:             "adblue-countdown",
			Label:          "AdBlue Countdown / No-Start Risk",
			DurationMins:   90,
			BufferMins:     35,
			MinNoticeHours: 24,
			PriceZoneA:     170, PriceZoneB: 185, PriceZoneC: 200,
		},
		{
			ID:             "dpf-regeneration-decision",
			Label:          "DPF Regeneration Decision Visit",
			DurationMins:   90,
			BufferMins:     35,
			MinNoticeHours: 24,
			PriceZoneA:     170, PriceZoneB: 185, PriceZoneC: 200,
		},
		{
			ID:             "nox-scr-diagnostics",
			Label:          "NOx / SCR System Diagnostics",
			DurationMins:   90,
			BufferMins:     35,
			MinNoticeHours: 24,
			PriceZoneA:     170, PriceZoneB: 185, PriceZoneC: 200,
		},
		{
			ID:             "sprinter-limp-mode",
			Label:          "Sprinter Limp Mode Diagnostics",
			DurationMins:   60,
			BufferMins:     20,
			MinNoticeHours: 24,
			PriceZoneA:     120, PriceZoneB: 135, PriceZoneC: 150,
		},
		{
			ID:             "intermittent-electrical-faults",
			Label:          "Intermittent Electrical Faults",
			DurationMins:   60,
			BufferMins:     20,
			MinNoticeHours: 24,
			PriceZoneA:     120, PriceZoneB: 135, PriceZoneC: 150,
		},
		{
			ID:             "mercedes-xentry-diagnostics",
			Label:          "Mercedes XENTRY Diagnostics",
			DurationMins:   60,
			BufferMins:     20,
			MinNoticeHours: 24,
			PriceZoneA:     120, PriceZoneB: 135, PriceZoneC: 150,
		},
		{
			ID:             "pre-purchase-health-check",
			Label:          "Pre-Purchase Health Check",
			DurationMins:   75,
			BufferMins:     30,
			MinNoticeHours: 24,
			PriceZoneA:     160, PriceZoneB: 175, PriceZoneC: 190,
		},
		{
			ID:             "fleet-health-check",
			Label:          "Fleet Health Check (Per Van)",
			DurationMins:   60,
			BufferMins:     20,
			MinNoticeHours: 24,
			PriceZoneA:     120, PriceZoneB: 135, PriceZoneC: 150,
		},
	})
}

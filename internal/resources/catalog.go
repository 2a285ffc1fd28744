package resources

import (
	"fmt"
	"strings"
)

// Test request from the lab catalogue. Code, category and duration are not
// stored by the API and are derived for display.

type TestWire struct {
	ID            ID      `json:"id,omitempty"`
	TestType      *string `json:"test_type,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Status        *string `json:"status,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	PatientName   *string `json:"patient_name,omitempty"`
	PatientID     *ID     `json:"patient_id,omitempty"`
	DateRequested *string `json:"date_requested,omitempty"`
	CreatedAt     *string `json:"created_at,omitempty"`
}

type Test struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Status      string `json:"status"`
	// WireStatus keeps the API's spelling so an unchanged status is written back as read
	WireStatus    string `json:"wireStatus,omitempty"`
	Priority      string `json:"priority"`
	PatientName   string `json:"patientName"`
	PatientID     ID     `json:"patientId"`
	DateRequested string `json:"dateRequested"`
	CreatedAt     string `json:"createdAt"`
}

const (
	unknownTest   = "Unknown Test"
	noDescription = "No description available"
)

var Tests = Schema[TestWire, Test]{
	Name: "tests",
	Path: "/test-requests/test-requests/",
	ToView: func(w TestWire) Test {
		var patientID ID
		if w.PatientID != nil {
			patientID = *w.PatientID
		}
		return Test{
			ID:            w.ID,
			Name:          strOr(w.TestType, unknownTest),
			Code:          fmt.Sprintf("TEST-%s", w.ID),
			Category:      "Laboratory",
			Description:   strOr(w.Notes, noDescription),
			Duration:      "30 minutes",
			Status:        strings.ToLower(strOr(w.Status, "pending")),
			WireStatus:    str(w.Status),
			Priority:      strOr(w.Priority, "normal"),
			PatientName:   strOr(w.PatientName, NotSpecified),
			PatientID:     patientID,
			DateRequested: str(w.DateRequested),
			CreatedAt:     str(w.CreatedAt),
		}
	},
	ToWire: func(v Test) TestWire {
		w := TestWire{
			ID:            v.ID,
			Status:        optStr(v.Status),
			Priority:      optStr(v.Priority),
			PatientName:   optStr(v.PatientName),
			DateRequested: optStr(v.DateRequested),
			CreatedAt:     optStr(v.CreatedAt),
		}
		if v.Name != unknownTest {
			w.TestType = optStr(v.Name)
		}
		if v.Description != noDescription {
			w.Notes = optStr(v.Description)
		}
		if v.PatientID != "" {
			w.PatientID = ptr(v.PatientID)
		}
		if v.WireStatus != "" && strings.EqualFold(v.WireStatus, v.Status) {
			w.Status = ptr(v.WireStatus)
		}
		return w
	},
}

// Test pricing

type PricingWire struct {
	ID               ID       `json:"id,omitempty"`
	Name             string   `json:"name"`
	Category         *string  `json:"category,omitempty"`
	BasePrice        *Decimal `json:"base_price,omitempty"`
	CurrentPrice     *Decimal `json:"current_price,omitempty"`
	MarkupPercentage *Decimal `json:"markup_percentage,omitempty"`
	Cost             *Decimal `json:"cost,omitempty"`
	Status           *string  `json:"status,omitempty"`
	LastUpdated      *string  `json:"last_updated,omitempty"`
}

type Pricing struct {
	ID               ID      `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	BasePrice        float64 `json:"basePrice"`
	CurrentPrice     float64 `json:"currentPrice"`
	MarkupPercentage float64 `json:"markupPercentage"`
	Cost             float64 `json:"cost"`
	Status           string  `json:"status"` // active, inactive
	LastUpdated      string  `json:"lastUpdated"`
}

var TestPricing = Schema[PricingWire, Pricing]{
	Name: "pricing",
	Path: "/pricing/tests/",
	ToView: func(w PricingWire) Pricing {
		return Pricing{
			ID:               w.ID,
			Name:             w.Name,
			Category:         strOr(w.Category, NotSpecified),
			BasePrice:        num(w.BasePrice),
			CurrentPrice:     num(w.CurrentPrice),
			MarkupPercentage: num(w.MarkupPercentage),
			Cost:             num(w.Cost),
			Status:           strOr(w.Status, "active"),
			LastUpdated:      str(w.LastUpdated),
		}
	},
	ToWire: func(v Pricing) PricingWire {
		return PricingWire{
			ID:               v.ID,
			Name:             v.Name,
			Category:         optStr(v.Category),
			BasePrice:        dec(v.BasePrice),
			CurrentPrice:     dec(v.CurrentPrice),
			MarkupPercentage: dec(v.MarkupPercentage),
			Cost:             dec(v.Cost),
			Status:           optStr(v.Status),
			LastUpdated:      optStr(v.LastUpdated),
		}
	},
}

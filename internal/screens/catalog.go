package screens

import (
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

func tests(d Deps) crud.Controller {
	return mount(d, resources.Tests, crud.Config[resources.Test]{
		Name:     "tests",
		Title:    "Manage Tests",
		Singular: "Test",
		IDOf:     func(t resources.Test) string { return t.ID.String() },
		SearchFields: []func(resources.Test) string{
			func(t resources.Test) string { return t.Name },
			func(t resources.Test) string { return t.Code },
			func(t resources.Test) string { return t.Description },
			func(t resources.Test) string { return t.PatientName },
		},
		Facets: []crud.Facet[resources.Test]{
			{Key: "status", Label: "Status", Options: statusOptions("pending", "in_progress", "completed", "cancelled"), Value: func(t resources.Test) string { return t.Status }},
			{Key: "priority", Label: "Priority", Options: statusOptions("routine", "urgent", "stat"), Value: func(t resources.Test) string { return t.Priority }},
		},
		Columns: []crud.Column[resources.Test]{
			{Header: "Code", Value: func(t resources.Test) string { return t.Code }},
			{Header: "Name", Value: func(t resources.Test) string { return t.Name }},
			{Header: "Category", Value: func(t resources.Test) string { return t.Category }},
			{Header: "Patient", Value: func(t resources.Test) string { return t.PatientName }},
			{Header: "Priority", Value: func(t resources.Test) string { return t.Priority }},
			{Header: "Status", Value: func(t resources.Test) string { return t.Status }},
			{Header: "Requested", Value: func(t resources.Test) string { return identity.FormatDate(t.DateRequested) }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Test Name", Type: "text", Required: true},
			{Key: "description", Label: "Description", Type: "textarea"},
			{Key: "priority", Label: "Priority", Type: "select", Options: []string{"routine", "urgent", "stat"}},
			{Key: "status", Label: "Status", Type: "select", Options: []string{"pending", "in_progress", "completed", "cancelled"}},
		},
		Validators: []crud.Validator[resources.Test]{
			crud.Required("name", "Test Name", func(t resources.Test) string { return t.Name }),
		},
		Stats: []crud.Stat[resources.Test]{
			{Label: "Total Tests", Compute: func(ts []resources.Test) string { return count(len(ts)) }},
			{Label: "Pending", Compute: func(ts []resources.Test) string {
				return count(crud.CountWhere(ts, func(t resources.Test) bool { return t.Status == "pending" }))
			}},
			{Label: "Completed", Compute: func(ts []resources.Test) string {
				return count(crud.CountWhere(ts, func(t resources.Test) bool { return t.Status == "completed" }))
			}},
			{Label: "Urgent", Compute: func(ts []resources.Test) string {
				return count(crud.CountWhere(ts, func(t resources.Test) bool { return t.Priority == "urgent" || t.Priority == "stat" }))
			}},
		},
	})
}

func pricing(d Deps) crud.Controller {
	return mount(d, resources.TestPricing, crud.Config[resources.Pricing]{
		Name:     "pricing",
		Title:    "Test Pricing",
		Singular: "Test price",
		IDOf:     func(p resources.Pricing) string { return p.ID.String() },
		SearchFields: []func(resources.Pricing) string{
			func(p resources.Pricing) string { return p.Name },
			func(p resources.Pricing) string { return p.Category },
		},
		Facets: []crud.Facet[resources.Pricing]{
			{Key: "status", Label: "Status", Options: statusOptions("active", "inactive"), Value: func(p resources.Pricing) string { return p.Status }},
		},
		Columns: []crud.Column[resources.Pricing]{
			{Header: "Test", Value: func(p resources.Pricing) string { return p.Name }},
			{Header: "Category", Value: func(p resources.Pricing) string { return p.Category }},
			{Header: "Base Price", Value: func(p resources.Pricing) string { return money(p.BasePrice) }},
			{Header: "Current Price", Value: func(p resources.Pricing) string { return money(p.CurrentPrice) }},
			{Header: "Markup", Value: func(p resources.Pricing) string { return percent(p.MarkupPercentage) }},
			{Header: "Cost", Value: func(p resources.Pricing) string { return money(p.Cost) }},
			{Header: "Status", Value: func(p resources.Pricing) string { return p.Status }},
			{Header: "Last Updated", Value: func(p resources.Pricing) string { return identity.FormatDate(p.LastUpdated) }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Test Name", Type: "text", Required: true},
			{Key: "category", Label: "Category", Type: "text"},
			{Key: "basePrice", Label: "Base Price", Type: "number", Required: true},
			{Key: "currentPrice", Label: "Current Price", Type: "number"},
			{Key: "markupPercentage", Label: "Markup Percentage", Type: "number"},
			{Key: "cost", Label: "Cost", Type: "number"},
			{Key: "status", Label: "Status", Type: "select", Options: []string{"active", "inactive"}},
		},
		Validators: []crud.Validator[resources.Pricing]{
			crud.Required("name", "Test Name", func(p resources.Pricing) string { return p.Name }),
			crud.NonNegative("basePrice", "Base Price", func(p resources.Pricing) float64 { return p.BasePrice }),
			crud.NonNegative("currentPrice", "Current Price", func(p resources.Pricing) float64 { return p.CurrentPrice }),
			crud.NonNegative("markupPercentage", "Markup Percentage", func(p resources.Pricing) float64 { return p.MarkupPercentage }),
			crud.NonNegative("cost", "Cost", func(p resources.Pricing) float64 { return p.Cost }),
		},
		Stats: []crud.Stat[resources.Pricing]{
			{Label: "Total Tests", Compute: func(ps []resources.Pricing) string { return count(len(ps)) }},
			{Label: "Avg. Base Price", Compute: func(ps []resources.Pricing) string {
				return money(crud.Average(ps, func(p resources.Pricing) float64 { return p.BasePrice }))
			}},
			{Label: "Avg. Markup", Compute: func(ps []resources.Pricing) string {
				return percent(crud.Average(ps, func(p resources.Pricing) float64 { return p.MarkupPercentage }))
			}},
			{Label: "Active", Compute: func(ps []resources.Pricing) string {
				return count(crud.CountWhere(ps, func(p resources.Pricing) bool { return p.Status == "active" }))
			}},
		},
		Toggle: func(p resources.Pricing) resources.Pricing {
			p.Status = flip(p.Status, "active", "inactive")
			return p
		},
	})
}

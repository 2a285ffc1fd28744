package screens

import (
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

func tickets(d Deps) crud.Controller {
	return mount(d, resources.Tickets, crud.Config[resources.Ticket]{
		Name:     "tickets",
		Title:    "Support Tickets",
		Singular: "Ticket",
		IDOf:     func(t resources.Ticket) string { return t.ID.String() },
		SearchFields: []func(resources.Ticket) string{
			func(t resources.Ticket) string { return t.Title },
			func(t resources.Ticket) string { return t.Description },
			func(t resources.Ticket) string { return t.CreatedBy },
		},
		Facets: []crud.Facet[resources.Ticket]{
			{Key: "status", Label: "Status", Options: statusOptions("open", "pending", "resolved", "closed"), Value: func(t resources.Ticket) string { return t.Status }},
			{Key: "priority", Label: "Priority", Options: statusOptions("low", "medium", "high", "urgent"), Value: func(t resources.Ticket) string { return t.Priority }},
		},
		Columns: []crud.Column[resources.Ticket]{
			{Header: "Title", Value: func(t resources.Ticket) string { return t.Title }},
			{Header: "Created By", Value: func(t resources.Ticket) string { return t.CreatedBy }},
			{Header: "Assigned To", Value: func(t resources.Ticket) string { return t.AssignedTo }},
			{Header: "Priority", Value: func(t resources.Ticket) string { return t.Priority }},
			{Header: "Messages", Value: func(t resources.Ticket) string { return count(t.Messages) }},
			{Header: "Status", Value: func(t resources.Ticket) string { return t.Status }},
			{Header: "Updated", Value: func(t resources.Ticket) string { return identity.FormatDateTime(t.UpdatedAt) }},
		},
		Fields: []crud.Field{
			{Key: "title", Label: "Title", Type: "text", Required: true},
			{Key: "description", Label: "Description", Type: "textarea", Required: true},
			{Key: "priority", Label: "Priority", Type: "select", Options: []string{"low", "medium", "high", "urgent"}},
		},
		Validators: []crud.Validator[resources.Ticket]{
			crud.Required("title", "Title", func(t resources.Ticket) string { return t.Title }),
			crud.Required("description", "Description", func(t resources.Ticket) string { return t.Description }),
		},
		Stats: []crud.Stat[resources.Ticket]{
			{Label: "Total Tickets", Compute: func(ts []resources.Ticket) string { return count(len(ts)) }},
			{Label: "Open", Compute: func(ts []resources.Ticket) string {
				return count(crud.CountWhere(ts, func(t resources.Ticket) bool { return t.Status == "open" }))
			}},
			{Label: "Pending", Compute: func(ts []resources.Ticket) string {
				return count(crud.CountWhere(ts, func(t resources.Ticket) bool { return t.Status == "pending" }))
			}},
			{Label: "Resolved", Compute: func(ts []resources.Ticket) string {
				return count(crud.CountWhere(ts, func(t resources.Ticket) bool { return t.Status == "resolved" || t.Status == "closed" }))
			}},
		},
	})
}

func faqs(d Deps) crud.Controller {
	return mount(d, resources.FAQs, crud.Config[resources.FAQ]{
		Name:     "faqs",
		Title:    "FAQs",
		Singular: "FAQ",
		IDOf:     func(f resources.FAQ) string { return f.ID.String() },
		SearchFields: []func(resources.FAQ) string{
			func(f resources.FAQ) string { return f.Question },
			func(f resources.FAQ) string { return f.Answer },
		},
		Facets: []crud.Facet[resources.FAQ]{
			{Key: "category", Label: "Category", Options: statusOptions("General", "Billing", "Tests", "Technical"), Value: func(f resources.FAQ) string { return f.Category }},
		},
		Columns: []crud.Column[resources.FAQ]{
			{Header: "Order", Value: func(f resources.FAQ) string { return count(f.Order) }},
			{Header: "Question", Value: func(f resources.FAQ) string { return f.Question }},
			{Header: "Category", Value: func(f resources.FAQ) string { return f.Category }},
			{Header: "Published", Value: func(f resources.FAQ) string {
				if f.IsActive {
					return "Yes"
				}
				return "No"
			}},
			{Header: "Updated", Value: func(f resources.FAQ) string { return identity.FormatDate(f.UpdatedAt) }},
		},
		Fields: []crud.Field{
			{Key: "question", Label: "Question", Type: "text", Required: true},
			{Key: "answer", Label: "Answer", Type: "textarea", Required: true},
			{Key: "category", Label: "Category", Type: "select", Options: []string{"General", "Billing", "Tests", "Technical"}},
			{Key: "order", Label: "Display Order", Type: "int"},
			{Key: "isActive", Label: "Published", Type: "checkbox"},
		},
		Validators: []crud.Validator[resources.FAQ]{
			crud.Required("question", "Question", func(f resources.FAQ) string { return f.Question }),
			crud.Required("answer", "Answer", func(f resources.FAQ) string { return f.Answer }),
			crud.NonNegative("order", "Display Order", func(f resources.FAQ) float64 { return float64(f.Order) }),
		},
		Stats: []crud.Stat[resources.FAQ]{
			{Label: "Total FAQs", Compute: func(fs []resources.FAQ) string { return count(len(fs)) }},
			{Label: "Published", Compute: func(fs []resources.FAQ) string {
				return count(crud.CountWhere(fs, func(f resources.FAQ) bool { return f.IsActive }))
			}},
			{Label: "Categories", Compute: func(fs []resources.FAQ) string {
				seen := map[string]struct{}{}
				for _, f := range fs {
					seen[f.Category] = struct{}{}
				}
				return count(len(seen))
			}},
		},
		Toggle: func(f resources.FAQ) resources.FAQ {
			f.IsActive = !f.IsActive
			return f
		},
	})
}

func tenants(d Deps) crud.Controller {
	return mount(d, resources.Tenants, crud.Config[resources.Tenant]{
		Name:         "tenants",
		Title:        "Manage Tenants",
		Singular:     "Tenant",
		IDOf:         func(t resources.Tenant) string { return t.ID.String() },
		ServerSearch: true,
		SearchFields: []func(resources.Tenant) string{
			func(t resources.Tenant) string { return t.Name },
			func(t resources.Tenant) string { return t.Domain },
			func(t resources.Tenant) string { return t.Email },
		},
		Facets: []crud.Facet[resources.Tenant]{
			{Key: "status", Label: "Status", Options: statusOptions("Active", "Suspended", "Pending"), Value: func(t resources.Tenant) string { return t.Status }},
		},
		Columns: []crud.Column[resources.Tenant]{
			{Header: "Company", Value: func(t resources.Tenant) string { return t.Name }},
			{Header: "Domain", Value: func(t resources.Tenant) string { return t.Domain }},
			{Header: "Plan", Value: func(t resources.Tenant) string { return t.Plan }},
			{Header: "Users", Value: func(t resources.Tenant) string { return count(t.CurrentUsers) + " / " + count(t.MaxUsers) }},
			{Header: "Status", Value: func(t resources.Tenant) string { return t.Status }},
			{Header: "Created", Value: func(t resources.Tenant) string { return identity.FormatDate(t.Created) }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Company Name", Type: "text", Required: true},
			{Key: "domain", Label: "Domain", Type: "text", Required: true},
			{Key: "email", Label: "Email", Type: "email", Required: true},
			{Key: "maxUsers", Label: "Max Users", Type: "int"},
		},
		Validators: []crud.Validator[resources.Tenant]{
			crud.Required("name", "Company Name", func(t resources.Tenant) string { return t.Name }),
			crud.Required("domain", "Domain", func(t resources.Tenant) string { return t.Domain }),
			crud.Required("email", "Email", func(t resources.Tenant) string { return t.Email }),
			crud.Email("email", "Email", func(t resources.Tenant) string { return t.Email }),
			crud.NonNegative("maxUsers", "Max Users", func(t resources.Tenant) float64 { return float64(t.MaxUsers) }),
		},
		Stats: []crud.Stat[resources.Tenant]{
			{Label: "Total Tenants", Compute: func(ts []resources.Tenant) string { return count(len(ts)) }},
			{Label: "Active", Compute: func(ts []resources.Tenant) string {
				return count(crud.CountWhere(ts, func(t resources.Tenant) bool { return t.Status == "Active" }))
			}},
			{Label: "Suspended", Compute: func(ts []resources.Tenant) string {
				return count(crud.CountWhere(ts, func(t resources.Tenant) bool { return t.Status == "Suspended" }))
			}},
			{Label: "Total Users", Compute: func(ts []resources.Tenant) string {
				return count(int(crud.Sum(ts, func(t resources.Tenant) float64 { return float64(t.CurrentUsers) })))
			}},
		},
	})
}

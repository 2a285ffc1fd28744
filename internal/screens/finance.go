package screens

import (
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

func contracts(d Deps) crud.Controller {
	return mount(d, resources.Contracts, crud.Config[resources.Contract]{
		Name:     "contracts",
		Title:    "Contract Management",
		Singular: "Contract",
		IDOf:     func(c resources.Contract) string { return c.ID.String() },
		SearchFields: []func(resources.Contract) string{
			func(c resources.Contract) string { return c.Title },
			func(c resources.Contract) string { return c.Vendor },
			func(c resources.Contract) string { return c.VendorEmail },
		},
		Facets: []crud.Facet[resources.Contract]{
			{Key: "status", Label: "Status", Options: statusOptions("active", "pending", "expired", "terminated"), Value: func(c resources.Contract) string { return c.Status }},
			{Key: "type", Label: "Type", Options: statusOptions("Service", "Supply", "Maintenance", "Lease"), Value: func(c resources.Contract) string { return c.Type }, Param: "contract_type"},
		},
		Columns: []crud.Column[resources.Contract]{
			{Header: "Title", Value: func(c resources.Contract) string { return c.Title }},
			{Header: "Vendor", Value: func(c resources.Contract) string { return c.Vendor }},
			{Header: "Type", Value: func(c resources.Contract) string { return c.Type }},
			{Header: "Value", Value: func(c resources.Contract) string { return identity.FormatCurrency(c.Value, c.Currency) }},
			{Header: "Start", Value: func(c resources.Contract) string { return identity.FormatDate(c.StartDate) }},
			{Header: "End", Value: func(c resources.Contract) string { return identity.FormatDate(c.EndDate) }},
			{Header: "Status", Value: func(c resources.Contract) string { return c.Status }},
		},
		Fields: []crud.Field{
			{Key: "title", Label: "Title", Type: "text", Required: true},
			{Key: "type", Label: "Contract Type", Type: "select", Options: []string{"Service", "Supply", "Maintenance", "Lease"}},
			{Key: "vendor", Label: "Vendor", Type: "text", Required: true},
			{Key: "vendorContact", Label: "Vendor Contact", Type: "text"},
			{Key: "vendorEmail", Label: "Vendor Email", Type: "email"},
			{Key: "vendorPhone", Label: "Vendor Phone", Type: "text"},
			{Key: "startDate", Label: "Start Date", Type: "date"},
			{Key: "endDate", Label: "End Date", Type: "date"},
			{Key: "value", Label: "Value", Type: "number"},
			{Key: "currency", Label: "Currency", Type: "text"},
			{Key: "terms", Label: "Terms", Type: "textarea"},
			{Key: "description", Label: "Description", Type: "textarea"},
		},
		Validators: []crud.Validator[resources.Contract]{
			crud.Required("title", "Title", func(c resources.Contract) string { return c.Title }),
			crud.Required("vendor", "Vendor", func(c resources.Contract) string { return c.Vendor }),
			crud.Email("vendorEmail", "Vendor Email", func(c resources.Contract) string { return specified(c.VendorEmail) }),
			crud.NonNegative("value", "Value", func(c resources.Contract) float64 { return c.Value }),
		},
		Stats: []crud.Stat[resources.Contract]{
			{Label: "Total Contracts", Compute: func(cs []resources.Contract) string { return count(len(cs)) }},
			{Label: "Active", Compute: func(cs []resources.Contract) string {
				return count(crud.CountWhere(cs, func(c resources.Contract) bool { return c.Status == "active" }))
			}},
			{Label: "Pending", Compute: func(cs []resources.Contract) string {
				return count(crud.CountWhere(cs, func(c resources.Contract) bool { return c.Status == "pending" }))
			}},
			{Label: "Total Value", Compute: func(cs []resources.Contract) string {
				return money(crud.Sum(cs, func(c resources.Contract) float64 { return c.Value }))
			}},
		},
	})
}

func accounting(d Deps) crud.Controller {
	isIncome := func(e resources.AccountingEntry) bool { return e.Type == "income" }
	isExpense := func(e resources.AccountingEntry) bool { return e.Type == "expense" }
	amountWhere := func(es []resources.AccountingEntry, keep func(resources.AccountingEntry) bool) float64 {
		return crud.Sum(es, func(e resources.AccountingEntry) float64 {
			if keep(e) {
				return e.Amount
			}
			return 0
		})
	}

	return mount(d, resources.AccountingEntries, crud.Config[resources.AccountingEntry]{
		Name:     "accounting",
		Title:    "Accounting",
		Singular: "Entry",
		IDOf:     func(e resources.AccountingEntry) string { return e.ID.String() },
		SearchFields: []func(resources.AccountingEntry) string{
			func(e resources.AccountingEntry) string { return e.Description },
			func(e resources.AccountingEntry) string { return e.Reference },
			func(e resources.AccountingEntry) string { return e.Category },
		},
		Facets: []crud.Facet[resources.AccountingEntry]{
			{Key: "type", Label: "Type", Options: statusOptions("income", "expense"), Value: func(e resources.AccountingEntry) string { return e.Type }, Param: "entry_type"},
			{Key: "status", Label: "Status", Options: statusOptions("pending", "completed", "cancelled"), Value: func(e resources.AccountingEntry) string { return e.Status }},
		},
		Columns: []crud.Column[resources.AccountingEntry]{
			{Header: "Date", Value: func(e resources.AccountingEntry) string { return identity.FormatDate(e.Date) }},
			{Header: "Description", Value: func(e resources.AccountingEntry) string { return e.Description }},
			{Header: "Type", Value: func(e resources.AccountingEntry) string { return e.Type }},
			{Header: "Category", Value: func(e resources.AccountingEntry) string { return e.Category }},
			{Header: "Amount", Value: func(e resources.AccountingEntry) string { return money(e.Amount) }},
			{Header: "Reference", Value: func(e resources.AccountingEntry) string { return e.Reference }},
			{Header: "Status", Value: func(e resources.AccountingEntry) string { return e.Status }},
		},
		Fields: []crud.Field{
			{Key: "date", Label: "Date", Type: "date"},
			{Key: "description", Label: "Description", Type: "text", Required: true},
			{Key: "type", Label: "Type", Type: "select", Options: []string{"income", "expense"}, Required: true},
			{Key: "category", Label: "Category", Type: "text"},
			{Key: "amount", Label: "Amount", Type: "number", Required: true},
			{Key: "paymentMethod", Label: "Payment Method", Type: "select", Options: []string{"cash", "card", "bank_transfer", "insurance"}},
			{Key: "reference", Label: "Reference", Type: "text"},
			{Key: "account", Label: "Account", Type: "text"},
			{Key: "status", Label: "Status", Type: "select", Options: []string{"pending", "completed", "cancelled"}},
		},
		Validators: []crud.Validator[resources.AccountingEntry]{
			crud.Required("description", "Description", func(e resources.AccountingEntry) string { return e.Description }),
			crud.OneOf("type", "Type", func(e resources.AccountingEntry) string { return e.Type }, "income", "expense"),
			crud.NonNegative("amount", "Amount", func(e resources.AccountingEntry) float64 { return e.Amount }),
		},
		Stats: []crud.Stat[resources.AccountingEntry]{
			{Label: "Total Income", Compute: func(es []resources.AccountingEntry) string { return money(amountWhere(es, isIncome)) }},
			{Label: "Total Expenses", Compute: func(es []resources.AccountingEntry) string { return money(amountWhere(es, isExpense)) }},
			{Label: "Net Profit", Compute: func(es []resources.AccountingEntry) string {
				return money(amountWhere(es, isIncome) - amountWhere(es, isExpense))
			}},
			{Label: "Pending", Compute: func(es []resources.AccountingEntry) string {
				return count(crud.CountWhere(es, func(e resources.AccountingEntry) bool { return e.Status == "pending" }))
			}},
		},
	})
}

func receipts(d Deps) crud.Controller {
	return mount(d, resources.Receipts, crud.Config[resources.Receipt]{
		Name:     "receipts",
		Title:    "Receipts Printing",
		Singular: "Receipt",
		IDOf:     func(r resources.Receipt) string { return r.ID.String() },
		SearchFields: []func(resources.Receipt) string{
			func(r resources.Receipt) string { return r.PatientName },
			func(r resources.Receipt) string { return r.ID.String() },
			func(r resources.Receipt) string { return r.Doctor },
		},
		Facets: []crud.Facet[resources.Receipt]{
			{Key: "status", Label: "Status", Options: statusOptions("pending", "generated", "printed"), Value: func(r resources.Receipt) string { return r.Status }},
		},
		Columns: []crud.Column[resources.Receipt]{
			{Header: "Receipt", Value: func(r resources.Receipt) string { return r.ID.String() }},
			{Header: "Patient", Value: func(r resources.Receipt) string { return r.PatientName }},
			{Header: "Doctor", Value: func(r resources.Receipt) string { return r.Doctor }},
			{Header: "Amount", Value: func(r resources.Receipt) string { return money(r.Amount) }},
			{Header: "Generated", Value: func(r resources.Receipt) string { return identity.FormatDate(r.GeneratedDate) }},
			{Header: "Printed", Value: func(r resources.Receipt) string { return count(r.PrintCount) }},
			{Header: "Status", Value: func(r resources.Receipt) string { return r.Status }},
		},
		Fields: []crud.Field{
			{Key: "patientName", Label: "Patient Name", Type: "text", Required: true},
			{Key: "doctor", Label: "Doctor", Type: "text"},
			{Key: "amount", Label: "Amount", Type: "number", Required: true},
			{Key: "paymentMethod", Label: "Payment Method", Type: "select", Options: []string{"cash", "card", "bank_transfer", "insurance"}},
		},
		Validators: []crud.Validator[resources.Receipt]{
			crud.Required("patientName", "Patient Name", func(r resources.Receipt) string { return r.PatientName }),
			crud.NonNegative("amount", "Amount", func(r resources.Receipt) float64 { return r.Amount }),
		},
		Stats: []crud.Stat[resources.Receipt]{
			{Label: "Total Receipts", Compute: func(rs []resources.Receipt) string { return count(len(rs)) }},
			{Label: "Printed", Compute: func(rs []resources.Receipt) string {
				return count(crud.CountWhere(rs, func(r resources.Receipt) bool { return r.Status == "printed" }))
			}},
			{Label: "Pending", Compute: func(rs []resources.Receipt) string {
				return count(crud.CountWhere(rs, func(r resources.Receipt) bool { return r.Status == "pending" }))
			}},
			{Label: "Total Amount", Compute: func(rs []resources.Receipt) string {
				return money(crud.Sum(rs, func(r resources.Receipt) float64 { return r.Amount }))
			}},
		},
	})
}

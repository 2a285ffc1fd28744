package screens

import (
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

func inventory(d Deps) crud.Controller {
	return mount(d, resources.InventoryItems, crud.Config[resources.InventoryItem]{
		Name:     "inventory",
		Title:    "Inventory Management",
		Singular: "Item",
		IDOf:     func(i resources.InventoryItem) string { return i.ID.String() },
		SearchFields: []func(resources.InventoryItem) string{
			func(i resources.InventoryItem) string { return i.Name },
			func(i resources.InventoryItem) string { return i.SKU },
			func(i resources.InventoryItem) string { return i.Supplier },
		},
		Facets: []crud.Facet[resources.InventoryItem]{
			{Key: "status", Label: "Status", Options: statusOptions("in-stock", "low-stock", "out-of-stock", "pending"), Value: func(i resources.InventoryItem) string { return i.Status }},
			{Key: "category", Label: "Category", Options: statusOptions("Reagents", "Consumables", "Equipment", "Uncategorized"), Value: func(i resources.InventoryItem) string { return i.Category }},
		},
		Columns: []crud.Column[resources.InventoryItem]{
			{Header: "SKU", Value: func(i resources.InventoryItem) string { return i.SKU }},
			{Header: "Name", Value: func(i resources.InventoryItem) string { return i.Name }},
			{Header: "Category", Value: func(i resources.InventoryItem) string { return i.Category }},
			{Header: "Stock", Value: func(i resources.InventoryItem) string { return count(i.CurrentStock) }},
			{Header: "Min", Value: func(i resources.InventoryItem) string { return count(i.MinStock) }},
			{Header: "Supplier", Value: func(i resources.InventoryItem) string { return i.Supplier }},
			{Header: "Last Restocked", Value: func(i resources.InventoryItem) string { return identity.FormatDate(i.LastRestocked) }},
			{Header: "Status", Value: func(i resources.InventoryItem) string { return i.Status }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Item Name", Type: "text", Required: true},
			{Key: "category", Label: "Category", Type: "text"},
			{Key: "currentStock", Label: "Current Stock", Type: "int", Required: true},
			{Key: "minStock", Label: "Minimum Stock", Type: "int"},
			{Key: "supplier", Label: "Supplier", Type: "text"},
		},
		Validators: []crud.Validator[resources.InventoryItem]{
			crud.Required("name", "Item Name", func(i resources.InventoryItem) string { return i.Name }),
			crud.NonNegative("currentStock", "Current Stock", func(i resources.InventoryItem) float64 { return float64(i.CurrentStock) }),
			crud.NonNegative("minStock", "Minimum Stock", func(i resources.InventoryItem) float64 { return float64(i.MinStock) }),
		},
		Stats: []crud.Stat[resources.InventoryItem]{
			{Label: "Total Items", Compute: func(is []resources.InventoryItem) string { return count(len(is)) }},
			{Label: "Low Stock", Compute: func(is []resources.InventoryItem) string {
				return count(crud.CountWhere(is, func(i resources.InventoryItem) bool {
					return i.CurrentStock > 0 && i.CurrentStock <= i.MinStock
				}))
			}},
			{Label: "Out of Stock", Compute: func(is []resources.InventoryItem) string {
				return count(crud.CountWhere(is, func(i resources.InventoryItem) bool { return i.CurrentStock == 0 }))
			}},
			{Label: "Pending Approval", Compute: func(is []resources.InventoryItem) string {
				return count(crud.CountWhere(is, func(i resources.InventoryItem) bool { return i.Status == "pending" }))
			}},
		},
	})
}

func equipment(d Deps) crud.Controller {
	return mount(d, resources.EquipmentSchema, crud.Config[resources.Equipment]{
		Name:     "equipment",
		Title:    "Equipment",
		Singular: "Equipment",
		IDOf:     func(e resources.Equipment) string { return e.ID.String() },
		SearchFields: []func(resources.Equipment) string{
			func(e resources.Equipment) string { return e.Name },
			func(e resources.Equipment) string { return e.SerialNumber },
			func(e resources.Equipment) string { return e.Manufacturer },
			func(e resources.Equipment) string { return e.Location },
		},
		Facets: []crud.Facet[resources.Equipment]{
			{Key: "status", Label: "Status", Options: statusOptions("operational", "maintenance", "out_of_service"), Value: func(e resources.Equipment) string { return e.Status }},
			{Key: "condition", Label: "Condition", Options: statusOptions("excellent", "good", "fair", "poor"), Value: func(e resources.Equipment) string { return e.Condition }},
		},
		Columns: []crud.Column[resources.Equipment]{
			{Header: "Name", Value: func(e resources.Equipment) string { return e.Name }},
			{Header: "Type", Value: func(e resources.Equipment) string { return e.Type }},
			{Header: "Serial", Value: func(e resources.Equipment) string { return e.SerialNumber }},
			{Header: "Location", Value: func(e resources.Equipment) string { return e.Location }},
			{Header: "Next Maintenance", Value: func(e resources.Equipment) string { return identity.FormatDate(e.NextMaintenance) }},
			{Header: "Condition", Value: func(e resources.Equipment) string { return e.Condition }},
			{Header: "Status", Value: func(e resources.Equipment) string { return e.Status }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Name", Type: "text", Required: true},
			{Key: "type", Label: "Type", Type: "text"},
			{Key: "category", Label: "Category", Type: "text"},
			{Key: "serialNumber", Label: "Serial Number", Type: "text"},
			{Key: "manufacturer", Label: "Manufacturer", Type: "text"},
			{Key: "model", Label: "Model", Type: "text"},
			{Key: "location", Label: "Location", Type: "text"},
			{Key: "purchaseDate", Label: "Purchase Date", Type: "date"},
			{Key: "warrantyExpiry", Label: "Warranty Expiry", Type: "date"},
			{Key: "nextMaintenance", Label: "Next Maintenance", Type: "date"},
			{Key: "responsible", Label: "Responsible", Type: "text"},
			{Key: "cost", Label: "Cost", Type: "number"},
			{Key: "condition", Label: "Condition", Type: "select", Options: []string{"excellent", "good", "fair", "poor"}},
			{Key: "status", Label: "Status", Type: "select", Options: []string{"operational", "maintenance", "out_of_service"}},
		},
		Validators: []crud.Validator[resources.Equipment]{
			crud.Required("name", "Name", func(e resources.Equipment) string { return e.Name }),
			crud.NonNegative("cost", "Cost", func(e resources.Equipment) float64 { return e.Cost }),
		},
		Stats: []crud.Stat[resources.Equipment]{
			{Label: "Total Equipment", Compute: func(es []resources.Equipment) string { return count(len(es)) }},
			{Label: "Operational", Compute: func(es []resources.Equipment) string {
				return count(crud.CountWhere(es, func(e resources.Equipment) bool { return e.Status == "operational" }))
			}},
			{Label: "Under Maintenance", Compute: func(es []resources.Equipment) string {
				return count(crud.CountWhere(es, func(e resources.Equipment) bool { return e.Status == "maintenance" }))
			}},
			{Label: "Total Value", Compute: func(es []resources.Equipment) string {
				return money(crud.Sum(es, func(e resources.Equipment) float64 { return e.Cost }))
			}},
		},
	})
}

func branches(d Deps) crud.Controller {
	return mount(d, resources.Branches, crud.Config[resources.Branch]{
		Name:     "branches",
		Title:    "Branch Management",
		Singular: "Branch",
		IDOf:     func(b resources.Branch) string { return b.ID.String() },
		SearchFields: []func(resources.Branch) string{
			func(b resources.Branch) string { return b.Name },
			func(b resources.Branch) string { return b.City },
			func(b resources.Branch) string { return b.Manager },
		},
		Facets: []crud.Facet[resources.Branch]{
			{Key: "status", Label: "Status", Options: statusOptions("active", "inactive", "maintenance"), Value: func(b resources.Branch) string { return b.Status }},
		},
		Columns: []crud.Column[resources.Branch]{
			{Header: "Name", Value: func(b resources.Branch) string { return b.Name }},
			{Header: "City", Value: func(b resources.Branch) string { return b.City }},
			{Header: "Manager", Value: func(b resources.Branch) string { return b.Manager }},
			{Header: "Phone", Value: func(b resources.Branch) string { return b.Phone }},
			{Header: "Staff", Value: func(b resources.Branch) string { return count(b.StaffCount) }},
			{Header: "Status", Value: func(b resources.Branch) string { return b.Status }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Branch Name", Type: "text", Required: true},
			{Key: "address", Label: "Address", Type: "text"},
			{Key: "city", Label: "City", Type: "text", Required: true},
			{Key: "state", Label: "State", Type: "text"},
			{Key: "zipCode", Label: "Zip Code", Type: "text"},
			{Key: "phone", Label: "Phone", Type: "text"},
			{Key: "email", Label: "Email", Type: "email"},
			{Key: "manager", Label: "Manager", Type: "text"},
			{Key: "staffCount", Label: "Staff Count", Type: "int"},
			{Key: "establishedDate", Label: "Established", Type: "date"},
		},
		Validators: []crud.Validator[resources.Branch]{
			crud.Required("name", "Branch Name", func(b resources.Branch) string { return b.Name }),
			crud.Required("city", "City", func(b resources.Branch) string { return b.City }),
			crud.Email("email", "Email", func(b resources.Branch) string { return specified(b.Email) }),
			crud.NonNegative("staffCount", "Staff Count", func(b resources.Branch) float64 { return float64(b.StaffCount) }),
		},
		Stats: []crud.Stat[resources.Branch]{
			{Label: "Total Branches", Compute: func(bs []resources.Branch) string { return count(len(bs)) }},
			{Label: "Active", Compute: func(bs []resources.Branch) string {
				return count(crud.CountWhere(bs, func(b resources.Branch) bool { return b.Status == "active" }))
			}},
			{Label: "Total Staff", Compute: func(bs []resources.Branch) string {
				return count(int(crud.Sum(bs, func(b resources.Branch) float64 { return float64(b.StaffCount) })))
			}},
		},
		Toggle: func(b resources.Branch) resources.Branch {
			b.Status = flip(b.Status, "active", "inactive")
			return b
		},
	})
}

func homeVisits(d Deps) crud.Controller {
	return mount(d, resources.HomeVisits, crud.Config[resources.HomeVisit]{
		Name:     "home-visits",
		Title:    "Home Visit Requests",
		Singular: "Home visit",
		IDOf:     func(h resources.HomeVisit) string { return h.ID.String() },
		SearchFields: []func(resources.HomeVisit) string{
			func(h resources.HomeVisit) string { return h.PatientName },
			func(h resources.HomeVisit) string { return h.Address },
			func(h resources.HomeVisit) string { return h.Doctor },
		},
		Facets: []crud.Facet[resources.HomeVisit]{
			{Key: "status", Label: "Status", Options: statusOptions("pending", "approved", "rejected", "completed"), Value: func(h resources.HomeVisit) string { return h.Status }},
			{Key: "priority", Label: "Priority", Options: statusOptions("low", "medium", "high", "urgent"), Value: func(h resources.HomeVisit) string { return h.Priority }},
		},
		Columns: []crud.Column[resources.HomeVisit]{
			{Header: "Patient", Value: func(h resources.HomeVisit) string { return h.PatientName }},
			{Header: "Service", Value: func(h resources.HomeVisit) string { return h.ServiceType }},
			{Header: "Address", Value: func(h resources.HomeVisit) string { return h.Address }},
			{Header: "Requested", Value: func(h resources.HomeVisit) string { return identity.FormatDate(h.RequestedDate) }},
			{Header: "Time", Value: func(h resources.HomeVisit) string { return h.RequestedTime }},
			{Header: "Priority", Value: func(h resources.HomeVisit) string { return h.Priority }},
			{Header: "Status", Value: func(h resources.HomeVisit) string { return h.Status }},
		},
		Fields: []crud.Field{
			{Key: "patientName", Label: "Patient Name", Type: "text", Required: true},
			{Key: "address", Label: "Address", Type: "text", Required: true},
			{Key: "phone", Label: "Phone", Type: "text"},
			{Key: "serviceType", Label: "Service Type", Type: "text"},
			{Key: "doctor", Label: "Doctor", Type: "text"},
			{Key: "priority", Label: "Priority", Type: "select", Options: []string{"low", "medium", "high", "urgent"}},
			{Key: "requestedDate", Label: "Requested Date", Type: "date"},
			{Key: "requestedTime", Label: "Requested Time", Type: "text"},
			{Key: "notes", Label: "Notes", Type: "textarea"},
		},
		Validators: []crud.Validator[resources.HomeVisit]{
			crud.Required("patientName", "Patient Name", func(h resources.HomeVisit) string { return h.PatientName }),
			crud.Required("address", "Address", func(h resources.HomeVisit) string { return specified(h.Address) }),
		},
		Stats: []crud.Stat[resources.HomeVisit]{
			{Label: "Total Requests", Compute: func(hs []resources.HomeVisit) string { return count(len(hs)) }},
			{Label: "Pending", Compute: func(hs []resources.HomeVisit) string {
				return count(crud.CountWhere(hs, func(h resources.HomeVisit) bool { return h.Status == "pending" }))
			}},
			{Label: "Approved", Compute: func(hs []resources.HomeVisit) string {
				return count(crud.CountWhere(hs, func(h resources.HomeVisit) bool { return h.Status == "approved" }))
			}},
			{Label: "Urgent", Compute: func(hs []resources.HomeVisit) string {
				return count(crud.CountWhere(hs, func(h resources.HomeVisit) bool { return h.Priority == "urgent" }))
			}},
		},
	})
}

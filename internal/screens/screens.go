package screens

import (
	"fmt"
	"sort"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

// Deps is what a screen needs to be mounted for one session
type Deps struct {
	Client         resources.Doer
	Identity       identity.Context
	Options        crud.Options
	PasswordLength int
}

// Definition names a screen and knows how to build it
type Definition struct {
	Name  string
	Title string
	Build func(d Deps) crud.Controller
}

var registry = []Definition{
	{Name: "patients", Title: "Patient Management", Build: patients},
	{Name: "doctors", Title: "Doctors Management", Build: doctors},
	{Name: "tests", Title: "Manage Tests", Build: tests},
	{Name: "pricing", Title: "Test Pricing", Build: pricing},
	{Name: "contracts", Title: "Contract Management", Build: contracts},
	{Name: "accounting", Title: "Accounting", Build: accounting},
	{Name: "receipts", Title: "Receipts Printing", Build: receipts},
	{Name: "inventory", Title: "Inventory Management", Build: inventory},
	{Name: "users", Title: "User Management", Build: users},
	{Name: "tickets", Title: "Support Tickets", Build: tickets},
	{Name: "equipment", Title: "Equipment", Build: equipment},
	{Name: "faqs", Title: "FAQs", Build: faqs},
	{Name: "branches", Title: "Branch Management", Build: branches},
	{Name: "home-visits", Title: "Home Visit Requests", Build: homeVisits},
	{Name: "tenants", Title: "Manage Tenants", Build: tenants},
}

// All returns every screen in menu order
func All() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

// Names returns the screen names sorted alphabetically
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, d := range registry {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a screen by name
func Lookup(name string) (Definition, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// mount binds a schema to the session's client and tenant and wraps it in a screen
func mount[W, V any](d Deps, schema resources.Schema[W, V], cfg crud.Config[V]) crud.Controller {
	res := resources.New(d.Client, schema, d.Identity.TenantID)
	if cfg.Actions == nil {
		cfg.Actions = schema.Actions
	}
	if cfg.Reports == nil {
		cfg.Reports = schema.CollectionActions
	}
	return crud.New(cfg, crud.Backend[V](res), d.Options)
}

func money(amount float64) string {
	return identity.FormatCurrency(amount, "USD")
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func count(n int) string {
	return fmt.Sprintf("%d", n)
}

// flip toggles between two lifecycle states; anything else becomes on
func flip(current, on, off string) string {
	if current == on {
		return off
	}
	return on
}

func statusOptions(values ...string) []string {
	return append([]string{crud.All}, values...)
}

// specified hides the placeholder used for missing values so validators skip it
func specified(s string) string {
	if s == resources.NotSpecified {
		return ""
	}
	return s
}

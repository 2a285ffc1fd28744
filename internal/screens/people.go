package screens

import (
	"fmt"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/resources"
)

func patients(d Deps) crud.Controller {
	return mount(d, resources.Patients, crud.Config[resources.Patient]{
		Name:     "patients",
		Title:    "Patient Management",
		Singular: "Patient",
		IDOf:     func(p resources.Patient) string { return p.ID.String() },
		SearchFields: []func(resources.Patient) string{
			func(p resources.Patient) string { return p.Name },
			func(p resources.Patient) string { return p.Email },
			func(p resources.Patient) string { return p.ID.String() },
		},
		Facets: []crud.Facet[resources.Patient]{
			{Key: "status", Label: "Status", Options: statusOptions("active", "inactive"), Value: func(p resources.Patient) string { return p.Status }},
			{Key: "gender", Label: "Gender", Options: statusOptions("male", "female", "other"), Value: func(p resources.Patient) string { return p.Gender }},
		},
		Columns: []crud.Column[resources.Patient]{
			{Header: "Name", Value: func(p resources.Patient) string { return p.Name }},
			{Header: "Email", Value: func(p resources.Patient) string { return p.Email }},
			{Header: "Phone", Value: func(p resources.Patient) string { return p.Phone }},
			{Header: "Blood Type", Value: func(p resources.Patient) string { return p.BloodType }},
			{Header: "Status", Value: func(p resources.Patient) string { return p.Status }},
			{Header: "Last Visit", Value: func(p resources.Patient) string { return identity.FormatDate(p.LastVisit) }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Full Name", Type: "text", Required: true},
			{Key: "email", Label: "Email", Type: "email", Required: true},
			{Key: "phone", Label: "Phone", Type: "text"},
			{Key: "dateOfBirth", Label: "Date of Birth", Type: "date"},
			{Key: "gender", Label: "Gender", Type: "select", Options: []string{"male", "female", "other"}},
			{Key: "address", Label: "Address", Type: "textarea"},
			{Key: "emergencyContact", Label: "Emergency Contact", Type: "text"},
			{Key: "emergencyPhone", Label: "Emergency Phone", Type: "text"},
			{Key: "bloodType", Label: "Blood Type", Type: "select", Options: []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}},
			{Key: "allergies", Label: "Allergies", Type: "text"},
			{Key: "medicalHistory", Label: "Medical History", Type: "textarea"},
		},
		Validators: []crud.Validator[resources.Patient]{
			crud.Required("name", "Full Name", func(p resources.Patient) string { return p.Name }),
			crud.Required("email", "Email", func(p resources.Patient) string { return p.Email }),
			crud.Email("email", "Email", func(p resources.Patient) string { return specified(p.Email) }),
		},
		Stats: []crud.Stat[resources.Patient]{
			{Label: "Total Patients", Compute: func(ps []resources.Patient) string { return count(len(ps)) }},
			{Label: "Active", Compute: func(ps []resources.Patient) string {
				return count(crud.CountWhere(ps, func(p resources.Patient) bool { return p.Status == "active" }))
			}},
			{Label: "Inactive", Compute: func(ps []resources.Patient) string {
				return count(crud.CountWhere(ps, func(p resources.Patient) bool { return p.Status == "inactive" }))
			}},
		},
		Toggle: func(p resources.Patient) resources.Patient {
			p.Status = flip(p.Status, "active", "inactive")
			return p
		},
	})
}

func doctors(d Deps) crud.Controller {
	return mount(d, resources.Doctors, crud.Config[resources.Doctor]{
		Name:     "doctors",
		Title:    "Doctors Management",
		Singular: "Doctor",
		IDOf:     func(doc resources.Doctor) string { return doc.ID.String() },
		SearchFields: []func(resources.Doctor) string{
			func(doc resources.Doctor) string { return doc.Name },
			func(doc resources.Doctor) string { return doc.Email },
			func(doc resources.Doctor) string { return doc.Specialization },
			func(doc resources.Doctor) string { return doc.LicenseNumber },
		},
		Facets: []crud.Facet[resources.Doctor]{
			{Key: "status", Label: "Status", Options: statusOptions("active", "inactive", "on_leave"), Value: func(doc resources.Doctor) string { return doc.Status }},
		},
		Columns: []crud.Column[resources.Doctor]{
			{Header: "Name", Value: func(doc resources.Doctor) string { return doc.Name }},
			{Header: "Specialization", Value: func(doc resources.Doctor) string { return doc.Specialization }},
			{Header: "Department", Value: func(doc resources.Doctor) string { return doc.Department }},
			{Header: "License", Value: func(doc resources.Doctor) string { return doc.LicenseNumber }},
			{Header: "Experience", Value: func(doc resources.Doctor) string { return fmt.Sprintf("%d years", doc.ExperienceYears) }},
			{Header: "Status", Value: func(doc resources.Doctor) string { return doc.Status }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Full Name", Type: "text", Required: true},
			{Key: "email", Label: "Email", Type: "email", Required: true},
			{Key: "phone", Label: "Phone", Type: "text"},
			{Key: "specialization", Label: "Specialization", Type: "text", Required: true},
			{Key: "licenseNumber", Label: "License Number", Type: "text"},
			{Key: "experienceYears", Label: "Years of Experience", Type: "int"},
			{Key: "department", Label: "Department", Type: "text"},
			{Key: "status", Label: "Status", Type: "select", Options: []string{"active", "inactive", "on_leave"}},
		},
		Validators: []crud.Validator[resources.Doctor]{
			crud.Required("name", "Full Name", func(doc resources.Doctor) string { return doc.Name }),
			crud.Required("email", "Email", func(doc resources.Doctor) string { return doc.Email }),
			crud.Email("email", "Email", func(doc resources.Doctor) string { return doc.Email }),
			crud.Required("specialization", "Specialization", func(doc resources.Doctor) string { return doc.Specialization }),
			crud.NonNegative("experienceYears", "Years of Experience", func(doc resources.Doctor) float64 { return float64(doc.ExperienceYears) }),
		},
		Stats: []crud.Stat[resources.Doctor]{
			{Label: "Total Doctors", Compute: func(ds []resources.Doctor) string { return count(len(ds)) }},
			{Label: "Active", Compute: func(ds []resources.Doctor) string {
				return count(crud.CountWhere(ds, func(doc resources.Doctor) bool { return doc.Status == "active" }))
			}},
			{Label: "On Leave", Compute: func(ds []resources.Doctor) string {
				return count(crud.CountWhere(ds, func(doc resources.Doctor) bool { return doc.Status == "on_leave" }))
			}},
			{Label: "Avg. Experience", Compute: func(ds []resources.Doctor) string {
				return fmt.Sprintf("%.1f years", crud.Average(ds, func(doc resources.Doctor) float64 { return float64(doc.ExperienceYears) }))
			}},
		},
		Toggle: func(doc resources.Doctor) resources.Doctor {
			doc.Status = flip(doc.Status, "active", "inactive")
			return doc
		},
	})
}

func users(d Deps) crud.Controller {
	length := d.PasswordLength
	return mount(d, resources.TenantUsers, crud.Config[resources.TenantUser]{
		Name:     "users",
		Title:    "User Management",
		Singular: "User",
		IDOf:     func(u resources.TenantUser) string { return u.ID.String() },
		SearchFields: []func(resources.TenantUser) string{
			func(u resources.TenantUser) string { return u.Name },
			func(u resources.TenantUser) string { return u.Email },
			func(u resources.TenantUser) string { return u.ID.String() },
		},
		Facets: []crud.Facet[resources.TenantUser]{
			{Key: "role", Label: "Role", Options: statusOptions("tenant_admin", "doctor", "technician", "support"), Value: func(u resources.TenantUser) string { return u.Role }},
			{Key: "status", Label: "Status", Options: statusOptions("active", "inactive"), Value: func(u resources.TenantUser) string { return u.Status }},
		},
		Columns: []crud.Column[resources.TenantUser]{
			{Header: "Name", Value: func(u resources.TenantUser) string { return u.Name }},
			{Header: "Email", Value: func(u resources.TenantUser) string { return u.Email }},
			{Header: "Role", Value: func(u resources.TenantUser) string { return u.Role }},
			{Header: "Department", Value: func(u resources.TenantUser) string { return u.Department }},
			{Header: "Status", Value: func(u resources.TenantUser) string { return u.Status }},
			{Header: "Last Login", Value: func(u resources.TenantUser) string { return identity.FormatDateTime(u.LastLogin) }},
		},
		Fields: []crud.Field{
			{Key: "name", Label: "Full Name", Type: "text", Required: true},
			{Key: "email", Label: "Email", Type: "email", Required: true},
			{Key: "role", Label: "Role", Type: "select", Options: []string{"tenant_admin", "doctor", "technician", "support"}, Required: true},
			{Key: "department", Label: "Department", Type: "text"},
			{Key: "phone", Label: "Phone", Type: "text"},
			{Key: "isActive", Label: "Active", Type: "checkbox"},
			{Key: "password", Label: "Password (blank to generate)", Type: "password"},
		},
		Validators: []crud.Validator[resources.TenantUser]{
			crud.Required("name", "Full Name", func(u resources.TenantUser) string { return u.Name }),
			crud.Required("email", "Email", func(u resources.TenantUser) string { return u.Email }),
			crud.Email("email", "Email", func(u resources.TenantUser) string { return u.Email }),
			crud.Required("role", "Role", func(u resources.TenantUser) string { return u.Role }),
		},
		Stats: []crud.Stat[resources.TenantUser]{
			{Label: "Total Users", Compute: func(us []resources.TenantUser) string { return count(len(us)) }},
			{Label: "Active", Compute: func(us []resources.TenantUser) string {
				return count(crud.CountWhere(us, func(u resources.TenantUser) bool { return u.IsActive }))
			}},
			{Label: "Doctors", Compute: func(us []resources.TenantUser) string {
				return count(crud.CountWhere(us, func(u resources.TenantUser) bool { return u.Role == "doctor" }))
			}},
			{Label: "Technicians", Compute: func(us []resources.TenantUser) string {
				return count(crud.CountWhere(us, func(u resources.TenantUser) bool { return u.Role == "technician" }))
			}},
		},
		Toggle: func(u resources.TenantUser) resources.TenantUser {
			u.IsActive = !u.IsActive
			u.Password = ""
			return u
		},
		Prepare: func(u resources.TenantUser) (resources.TenantUser, error) {
			if u.Password != "" {
				return u, nil
			}
			pw, err := identity.GeneratePassword(length)
			if err != nil {
				return u, fmt.Errorf("failed to generate password: %w", err)
			}
			u.Password = pw
			return u, nil
		},
	})
}

package resources

import (
	"fmt"
	"strings"
)

// Inventory item. SKU, max stock and the restock date are derived for display;
// the API stores quantity and the restock threshold only.

type InventoryItemWire struct {
	ID           ID      `json:"id,omitempty"`
	Name         string  `json:"name"`
	CategoryName *string `json:"category_name,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Threshold    *int    `json:"threshold,omitempty"`
	SupplierName *string `json:"supplier_name,omitempty"`
	Status       *string `json:"status,omitempty"`
	CreatedAt    *string `json:"created_at,omitempty"`
}

type InventoryItem struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	SKU           string `json:"sku"`
	CurrentStock  int    `json:"currentStock"`
	MinStock      int    `json:"minStock"`
	MaxStock      int    `json:"maxStock"`
	Supplier      string `json:"supplier"`
	LastRestocked string `json:"lastRestocked"`
	Status        string `json:"status"` // in-stock, low-stock, out-of-stock, pending
	CreatedAt     string `json:"createdAt,omitempty"`
}

const (
	uncategorized   = "Uncategorized"
	unknownSupplier = "Unknown Supplier"
)

var InventoryItems = Schema[InventoryItemWire, InventoryItem]{
	Name:    "inventory",
	Path:    "/inventory/items/",
	Actions: []string{"adjust_quantity", "approve", "reject"},
	ToView: func(w InventoryItemWire) InventoryItem {
		restocked := "Unknown"
		if w.CreatedAt != nil && *w.CreatedAt != "" {
			restocked, _, _ = strings.Cut(*w.CreatedAt, "T")
		}
		return InventoryItem{
			ID:            w.ID,
			Name:          w.Name,
			Category:      strOr(w.CategoryName, uncategorized),
			SKU:           fmt.Sprintf("SKU-%s", w.ID),
			CurrentStock:  intOf(w.Quantity),
			MinStock:      intOf(w.Threshold),
			MaxStock:      intOf(w.Threshold) * 3,
			Supplier:      strOr(w.SupplierName, unknownSupplier),
			LastRestocked: restocked,
			Status:        strOr(w.Status, "unknown"),
			CreatedAt:     str(w.CreatedAt),
		}
	},
	ToWire: func(v InventoryItem) InventoryItemWire {
		w := InventoryItemWire{
			ID:        v.ID,
			Name:      v.Name,
			Quantity:  ptr(v.CurrentStock),
			Threshold: ptr(v.MinStock),
			CreatedAt: optStr(v.CreatedAt),
		}
		if v.Category != uncategorized {
			w.CategoryName = optStr(v.Category)
		}
		if v.Supplier != unknownSupplier {
			w.SupplierName = optStr(v.Supplier)
		}
		if v.Status != "unknown" {
			w.Status = optStr(v.Status)
		}
		return w
	},
}

// Equipment

type EquipmentWire struct {
	ID              ID       `json:"id,omitempty"`
	Name            string   `json:"name"`
	Type            *string  `json:"type,omitempty"`
	Category        *string  `json:"category,omitempty"`
	SerialNumber    *string  `json:"serial_number,omitempty"`
	Manufacturer    *string  `json:"manufacturer,omitempty"`
	Model           *string  `json:"model,omitempty"`
	Location        *string  `json:"location,omitempty"`
	PurchaseDate    *string  `json:"purchase_date,omitempty"`
	WarrantyExpiry  *string  `json:"warranty_expiry,omitempty"`
	LastMaintenance *string  `json:"last_maintenance,omitempty"`
	NextMaintenance *string  `json:"next_maintenance,omitempty"`
	Responsible     *string  `json:"responsible,omitempty"`
	Cost            *Decimal `json:"cost,omitempty"`
	Condition       *string  `json:"condition,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Tenant          *ID      `json:"tenant,omitempty"`
}

type Equipment struct {
	ID              ID      `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	SerialNumber    string  `json:"serialNumber"`
	Manufacturer    string  `json:"manufacturer"`
	Model           string  `json:"model"`
	Location        string  `json:"location"`
	PurchaseDate    string  `json:"purchaseDate"`
	WarrantyExpiry  string  `json:"warrantyExpiry"`
	LastMaintenance string  `json:"lastMaintenance"`
	NextMaintenance string  `json:"nextMaintenance"`
	Responsible     string  `json:"responsible"`
	Cost            float64 `json:"cost"`
	Condition       string  `json:"condition"` // excellent, good, fair, poor
	Status          string  `json:"status"`    // operational, maintenance, out_of_service
	Tenant          ID      `json:"tenant,omitempty"`
}

var EquipmentSchema = Schema[EquipmentWire, Equipment]{
	Name:      "equipment",
	Path:      "/equipment/equipment/",
	EntityKey: "equipment",
	Actions:   []string{"update_status", "calibrate", "maintain"},
	StampTenant: func(w *EquipmentWire, tenantID string) {
		id := ID(tenantID)
		w.Tenant = &id
	},
	ToView: func(w EquipmentWire) Equipment {
		return Equipment{
			ID:              w.ID,
			Name:            w.Name,
			Type:            strOr(w.Type, NotSpecified),
			Category:        strOr(w.Category, NotSpecified),
			SerialNumber:    strOr(w.SerialNumber, NotSpecified),
			Manufacturer:    strOr(w.Manufacturer, NotSpecified),
			Model:           strOr(w.Model, NotSpecified),
			Location:        strOr(w.Location, NotSpecified),
			PurchaseDate:    str(w.PurchaseDate),
			WarrantyExpiry:  str(w.WarrantyExpiry),
			LastMaintenance: str(w.LastMaintenance),
			NextMaintenance: str(w.NextMaintenance),
			Responsible:     strOr(w.Responsible, NotSpecified),
			Cost:            num(w.Cost),
			Condition:       strOr(w.Condition, "good"),
			Status:          strOr(w.Status, "operational"),
			Tenant:          idOf(w.Tenant),
		}
	},
	ToWire: func(v Equipment) EquipmentWire {
		return EquipmentWire{
			ID:              v.ID,
			Name:            v.Name,
			Type:            optStr(v.Type),
			Category:        optStr(v.Category),
			SerialNumber:    optStr(v.SerialNumber),
			Manufacturer:    optStr(v.Manufacturer),
			Model:           optStr(v.Model),
			Location:        optStr(v.Location),
			PurchaseDate:    optStr(v.PurchaseDate),
			WarrantyExpiry:  optStr(v.WarrantyExpiry),
			LastMaintenance: optStr(v.LastMaintenance),
			NextMaintenance: optStr(v.NextMaintenance),
			Responsible:     optStr(v.Responsible),
			Condition:       optStr(v.Condition),
			Status:          optStr(v.Status),
			Cost:            dec(v.Cost),
			Tenant:          optID(v.Tenant),
		}
	},
}

// Branch

type BranchWire struct {
	ID              ID      `json:"id,omitempty"`
	Name            string  `json:"name"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	ZipCode         *string `json:"zip_code,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	Manager         *string `json:"manager,omitempty"`
	StaffCount      *int    `json:"staff_count,omitempty"`
	Status          *string `json:"status,omitempty"`
	EstablishedDate *string `json:"established_date,omitempty"`
	LastUpdated     *string `json:"last_updated,omitempty"`
}

type Branch struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zipCode"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Manager         string `json:"manager"`
	StaffCount      int    `json:"staffCount"`
	Status          string `json:"status"` // active, inactive, maintenance
	EstablishedDate string `json:"establishedDate"`
	LastUpdated     string `json:"lastUpdated"`
}

var Branches = Schema[BranchWire, Branch]{
	Name:    "branches",
	Path:    "/branches/branches/",
	Actions: []string{"activate", "deactivate"},
	ToView: func(w BranchWire) Branch {
		return Branch{
			ID:              w.ID,
			Name:            w.Name,
			Address:         strOr(w.Address, NotSpecified),
			City:            str(w.City),
			State:           str(w.State),
			ZipCode:         str(w.ZipCode),
			Phone:           strOr(w.Phone, NotSpecified),
			Email:           str(w.Email),
			Manager:         strOr(w.Manager, NotSpecified),
			StaffCount:      intOf(w.StaffCount),
			Status:          strOr(w.Status, "active"),
			EstablishedDate: str(w.EstablishedDate),
			LastUpdated:     str(w.LastUpdated),
		}
	},
	ToWire: func(v Branch) BranchWire {
		return BranchWire{
			ID:              v.ID,
			Name:            v.Name,
			Address:         optStr(v.Address),
			City:            optStr(v.City),
			State:           optStr(v.State),
			ZipCode:         optStr(v.ZipCode),
			Phone:           optStr(v.Phone),
			Email:           optStr(v.Email),
			Manager:         optStr(v.Manager),
			StaffCount:      ptr(v.StaffCount),
			Status:          optStr(v.Status),
			EstablishedDate: optStr(v.EstablishedDate),
			LastUpdated:     optStr(v.LastUpdated),
		}
	},
}

// Home visit request

type HomeVisitWire struct {
	ID                ID      `json:"id,omitempty"`
	PatientName       string  `json:"patient_name"`
	PatientID         *ID     `json:"patient_id,omitempty"`
	Address           *string `json:"address,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	ServiceType       *string `json:"service_type,omitempty"`
	Doctor            *string `json:"doctor,omitempty"`
	Priority          *string `json:"priority,omitempty"`
	Status            *string `json:"status,omitempty"`
	RequestedDate     *string `json:"requested_date,omitempty"`
	RequestedTime     *string `json:"requested_time,omitempty"`
	EstimatedDuration *string `json:"estimated_duration,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

type HomeVisit struct {
	ID                ID     `json:"id"`
	PatientName       string `json:"patientName"`
	PatientID         ID     `json:"patientId"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	ServiceType       string `json:"serviceType"`
	Doctor            string `json:"doctor"`
	Priority          string `json:"priority"` // low, medium, high, urgent
	Status            string `json:"status"`   // pending, approved, rejected, completed
	RequestedDate     string `json:"requestedDate"`
	RequestedTime     string `json:"requestedTime"`
	EstimatedDuration string `json:"estimatedDuration"`
	Notes             string `json:"notes"`
}

var HomeVisits = Schema[HomeVisitWire, HomeVisit]{
	Name:    "home-visits",
	Path:    "/home-visits/requests/",
	Actions: []string{"approve", "reject"},
	ToView: func(w HomeVisitWire) HomeVisit {
		var patientID ID
		if w.PatientID != nil {
			patientID = *w.PatientID
		}
		return HomeVisit{
			ID:                w.ID,
			PatientName:       w.PatientName,
			PatientID:         patientID,
			Address:           strOr(w.Address, NotSpecified),
			Phone:             strOr(w.Phone, NotSpecified),
			ServiceType:       strOr(w.ServiceType, "Sample Collection"),
			Doctor:            strOr(w.Doctor, NotSpecified),
			Priority:          strOr(w.Priority, "medium"),
			Status:            strOr(w.Status, "pending"),
			RequestedDate:     str(w.RequestedDate),
			RequestedTime:     str(w.RequestedTime),
			EstimatedDuration: str(w.EstimatedDuration),
			Notes:             str(w.Notes),
		}
	},
	ToWire: func(v HomeVisit) HomeVisitWire {
		w := HomeVisitWire{
			ID:                v.ID,
			PatientName:       v.PatientName,
			Address:           optStr(v.Address),
			Phone:             optStr(v.Phone),
			ServiceType:       optStr(v.ServiceType),
			Doctor:            optStr(v.Doctor),
			Priority:          optStr(v.Priority),
			Status:            optStr(v.Status),
			RequestedDate:     optStr(v.RequestedDate),
			RequestedTime:     optStr(v.RequestedTime),
			EstimatedDuration: optStr(v.EstimatedDuration),
			Notes:             optStr(v.Notes),
		}
		if v.PatientID != "" {
			w.PatientID = ptr(v.PatientID)
		}
		return w
	},
}

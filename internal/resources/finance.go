package resources

import (
	"encoding/json"
	"fmt"
)

// Contract

type ContractWire struct {
	ID            ID       `json:"id,omitempty"`
	Title         string   `json:"title"`
	ContractType  *string  `json:"contract_type,omitempty"`
	Vendor        *string  `json:"vendor,omitempty"`
	VendorContact *string  `json:"vendor_contact,omitempty"`
	VendorEmail   *string  `json:"vendor_email,omitempty"`
	VendorPhone   *string  `json:"vendor_phone,omitempty"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Value         *Decimal `json:"value,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	RenewalDate   *string  `json:"renewal_date,omitempty"`
	Terms         *string  `json:"terms,omitempty"`
	Description   *string  `json:"description,omitempty"`
	LastModified  *string  `json:"last_modified,omitempty"`
	ModifiedBy    *string  `json:"modified_by,omitempty"`
}

type Contract struct {
	ID            ID      `json:"id"`
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	Vendor        string  `json:"vendor"`
	VendorContact string  `json:"vendorContact"`
	VendorEmail   string  `json:"vendorEmail"`
	VendorPhone   string  `json:"vendorPhone"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Status        string  `json:"status"` // active, pending, expired, terminated
	Value         float64 `json:"value"`
	Currency      string  `json:"currency"`
	RenewalDate   string  `json:"renewalDate"`
	Terms         string  `json:"terms"`
	Description   string  `json:"description"`
	LastModified  string  `json:"lastModified"`
	ModifiedBy    string  `json:"modifiedBy"`
}

var Contracts = Schema[ContractWire, Contract]{
	Name:    "contracts",
	Path:    "/contracts/contracts/",
	Actions: []string{"activate", "terminate", "renew"},
	ToView: func(w ContractWire) Contract {
		return Contract{
			ID:            w.ID,
			Title:         w.Title,
			Type:          strOr(w.ContractType, "Service"),
			Vendor:        strOr(w.Vendor, NotSpecified),
			VendorContact: strOr(w.VendorContact, NotSpecified),
			VendorEmail:   str(w.VendorEmail),
			VendorPhone:   str(w.VendorPhone),
			StartDate:     str(w.StartDate),
			EndDate:       str(w.EndDate),
			Status:        strOr(w.Status, "pending"),
			Value:         num(w.Value),
			Currency:      strOr(w.Currency, "USD"),
			RenewalDate:   str(w.RenewalDate),
			Terms:         str(w.Terms),
			Description:   str(w.Description),
			LastModified:  str(w.LastModified),
			ModifiedBy:    str(w.ModifiedBy),
		}
	},
	ToWire: func(v Contract) ContractWire {
		return ContractWire{
			ID:            v.ID,
			Title:         v.Title,
			ContractType:  optStr(v.Type),
			Vendor:        optStr(v.Vendor),
			VendorContact: optStr(v.VendorContact),
			VendorEmail:   optStr(v.VendorEmail),
			VendorPhone:   optStr(v.VendorPhone),
			StartDate:     optStr(v.StartDate),
			EndDate:       optStr(v.EndDate),
			Status:        optStr(v.Status),
			Value:         dec(v.Value),
			Currency:      optStr(v.Currency),
			RenewalDate:   optStr(v.RenewalDate),
			Terms:         optStr(v.Terms),
			Description:   optStr(v.Description),
			LastModified:  optStr(v.LastModified),
			ModifiedBy:    optStr(v.ModifiedBy),
		}
	},
}

// Accounting entry

type AccountingEntryWire struct {
	ID            ID       `json:"id,omitempty"`
	Date          *string  `json:"date,omitempty"`
	Description   string   `json:"description"`
	EntryType     *string  `json:"entry_type,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Amount        *Decimal `json:"amount,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	Reference     *string  `json:"reference,omitempty"`
	Account       *string  `json:"account,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

type AccountingEntry struct {
	ID            ID      `json:"id"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Type          string  `json:"type"` // income, expense
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Reference     string  `json:"reference"`
	Account       string  `json:"account"`
	Status        string  `json:"status"`
}

var AccountingEntries = Schema[AccountingEntryWire, AccountingEntry]{
	Name:              "accounting",
	Path:              "/accounting/entries/",
	CollectionActions: []string{"summary"},
	ToView: func(w AccountingEntryWire) AccountingEntry {
		return AccountingEntry{
			ID:            w.ID,
			Date:          str(w.Date),
			Description:   w.Description,
			Type:          strOr(w.EntryType, "income"),
			Category:      strOr(w.Category, "Uncategorized"),
			Amount:        num(w.Amount),
			PaymentMethod: strOr(w.PaymentMethod, NotSpecified),
			Reference:     str(w.Reference),
			Account:       str(w.Account),
			Status:        strOr(w.Status, "pending"),
		}
	},
	ToWire: func(v AccountingEntry) AccountingEntryWire {
		category := optStr(v.Category)
		if v.Category == "Uncategorized" {
			category = nil
		}
		return AccountingEntryWire{
			ID:            v.ID,
			Date:          optStr(v.Date),
			Description:   v.Description,
			EntryType:     optStr(v.Type),
			Category:      category,
			Amount:        dec(v.Amount),
			PaymentMethod: optStr(v.PaymentMethod),
			Reference:     optStr(v.Reference),
			Account:       optStr(v.Account),
			Status:        optStr(v.Status),
		}
	},
}

// AccountingSummary is the answer of /accounting/entries/summary/
type AccountingSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	PendingCount  int     `json:"pendingCount"`
}

// DecodeAccountingSummary maps the summary payload with zero defaults
func DecodeAccountingSummary(raw json.RawMessage) (AccountingSummary, error) {
	var w struct {
		TotalIncome   *Decimal `json:"total_income"`
		TotalExpenses *Decimal `json:"total_expenses"`
		NetProfit     *Decimal `json:"net_profit"`
		PendingCount  *int     `json:"pending_count"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &w); err != nil {
			return AccountingSummary{}, fmt.Errorf("failed to decode accounting summary: %w", err)
		}
	}

	s := AccountingSummary{
		TotalIncome:   num(w.TotalIncome),
		TotalExpenses: num(w.TotalExpenses),
		PendingCount:  intOf(w.PendingCount),
	}
	if w.NetProfit != nil {
		s.NetProfit = num(w.NetProfit)
	} else {
		s.NetProfit = s.TotalIncome - s.TotalExpenses
	}
	return s, nil
}

// Receipt

type ReceiptWire struct {
	ID            ID       `json:"id,omitempty"`
	PatientName   string   `json:"patient_name"`
	PatientID     *ID      `json:"patient_id,omitempty"`
	Amount        *Decimal `json:"amount,omitempty"`
	Status        *string  `json:"status,omitempty"`
	GeneratedDate *string  `json:"generated_date,omitempty"`
	GeneratedTime *string  `json:"generated_time,omitempty"`
	Services      []string `json:"services,omitempty"`
	Doctor        *string  `json:"doctor,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	PrintCount    *int     `json:"print_count,omitempty"`
}

type Receipt struct {
	ID            ID       `json:"id"`
	PatientName   string   `json:"patientName"`
	PatientID     ID       `json:"patientId"`
	Amount        float64  `json:"amount"`
	Status        string   `json:"status"` // pending, generated, printed
	GeneratedDate string   `json:"generatedDate"`
	GeneratedTime string   `json:"generatedTime"`
	Services      []string `json:"services"`
	Doctor        string   `json:"doctor"`
	PaymentMethod string   `json:"paymentMethod"`
	PrintCount    int      `json:"printCount"`
}

var Receipts = Schema[ReceiptWire, Receipt]{
	Name:    "receipts",
	Path:    "/receipts/receipts/",
	Actions: []string{"print_receipt", "generate_receipt"},
	ToView: func(w ReceiptWire) Receipt {
		var patientID ID
		if w.PatientID != nil {
			patientID = *w.PatientID
		}
		services := w.Services
		if services == nil {
			services = []string{}
		}
		return Receipt{
			ID:            w.ID,
			PatientName:   w.PatientName,
			PatientID:     patientID,
			Amount:        num(w.Amount),
			Status:        strOr(w.Status, "pending"),
			GeneratedDate: str(w.GeneratedDate),
			GeneratedTime: str(w.GeneratedTime),
			Services:      services,
			Doctor:        strOr(w.Doctor, NotSpecified),
			PaymentMethod: strOr(w.PaymentMethod, NotSpecified),
			PrintCount:    intOf(w.PrintCount),
		}
	},
	ToWire: func(v Receipt) ReceiptWire {
		w := ReceiptWire{
			ID:            v.ID,
			PatientName:   v.PatientName,
			Amount:        dec(v.Amount),
			Status:        optStr(v.Status),
			GeneratedDate: optStr(v.GeneratedDate),
			GeneratedTime: optStr(v.GeneratedTime),
			Services:      v.Services,
			Doctor:        optStr(v.Doctor),
			PaymentMethod: optStr(v.PaymentMethod),
			PrintCount:    ptr(v.PrintCount),
		}
		if v.PatientID != "" {
			w.PatientID = ptr(v.PatientID)
		}
		return w
	},
}

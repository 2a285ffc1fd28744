package resources

// Support ticket

type TicketWire struct {
	ID             ID      `json:"id,omitempty"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	Status         *string `json:"status,omitempty"`
	Priority       *string `json:"priority,omitempty"`
	AssignedToName *string `json:"assigned_to_name,omitempty"`
	CreatedByName  *string `json:"created_by_name,omitempty"`
	MessagesCount  *int    `json:"messages_count,omitempty"`
	CreatedAt      *string `json:"created_at,omitempty"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
}

type Ticket struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`   // open, pending, resolved, closed
	Priority    string `json:"priority"` // low, medium, high, urgent
	AssignedTo  string `json:"assignedTo"`
	CreatedBy   string `json:"createdBy"`
	Messages    int    `json:"messages"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

const unassigned = "Unassigned"

var Tickets = Schema[TicketWire, Ticket]{
	Name:    "tickets",
	Path:    "/support/tickets/",
	Actions: []string{"assign", "resolve", "close"},
	ToView: func(w TicketWire) Ticket {
		return Ticket{
			ID:          w.ID,
			Title:       w.Title,
			Description: str(w.Description),
			Status:      strOr(w.Status, "open"),
			Priority:    strOr(w.Priority, "medium"),
			AssignedTo:  strOr(w.AssignedToName, unassigned),
			CreatedBy:   strOr(w.CreatedByName, NotSpecified),
			Messages:    intOf(w.MessagesCount),
			CreatedAt:   str(w.CreatedAt),
			UpdatedAt:   str(w.UpdatedAt),
		}
	},
	ToWire: func(v Ticket) TicketWire {
		w := TicketWire{
			ID:            v.ID,
			Title:         v.Title,
			Description:   optStr(v.Description),
			Status:        optStr(v.Status),
			Priority:      optStr(v.Priority),
			CreatedByName: optStr(v.CreatedBy),
			MessagesCount: ptr(v.Messages),
			CreatedAt:     optStr(v.CreatedAt),
			UpdatedAt:     optStr(v.UpdatedAt),
		}
		if v.AssignedTo != unassigned {
			w.AssignedToName = optStr(v.AssignedTo)
		}
		return w
	},
}

// FAQ

type FAQWire struct {
	ID        ID      `json:"id,omitempty"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Category  *string `json:"category,omitempty"`
	Order     *int    `json:"order,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type FAQ struct {
	ID        ID     `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"isActive"`
	UpdatedAt string `json:"updatedAt"`
}

var FAQs = Schema[FAQWire, FAQ]{
	Name: "faqs",
	Path: "/faq/faqs/",
	ToView: func(w FAQWire) FAQ {
		return FAQ{
			ID:        w.ID,
			Question:  w.Question,
			Answer:    w.Answer,
			Category:  strOr(w.Category, "General"),
			Order:     intOf(w.Order),
			IsActive:  boolOf(w.IsActive),
			UpdatedAt: str(w.UpdatedAt),
		}
	},
	ToWire: func(v FAQ) FAQWire {
		return FAQWire{
			ID:        v.ID,
			Question:  v.Question,
			Answer:    v.Answer,
			Category:  optStr(v.Category),
			Order:     ptr(v.Order),
			IsActive:  ptr(v.IsActive),
			UpdatedAt: optStr(v.UpdatedAt),
		}
	},
}

// Tenant, as managed by the super admin

type TenantWire struct {
	ID            ID      `json:"id,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	Domain        *string `json:"domain,omitempty"`
	Email         *string `json:"email,omitempty"`
	Status        *string `json:"status,omitempty"`
	MaxUsers      *int    `json:"max_users,omitempty"`
	CurrentUsers  *int    `json:"current_users,omitempty"`
	PlanName      *string `json:"plan_name,omitempty"`
	BillingPeriod *string `json:"billing_period,omitempty"`
	CreatedAt     *string `json:"created_at,omitempty"`
	LastActive    *string `json:"last_active,omitempty"`
}

type Tenant struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	Email         string `json:"email"`
	Status        string `json:"status"` // Active, Suspended, Pending
	MaxUsers      int    `json:"maxUsers"`
	CurrentUsers  int    `json:"currentUsers"`
	Plan          string `json:"plan"`
	BillingPeriod string `json:"billingPeriod,omitempty"`
	Created       string `json:"created"`
	LastActive    string `json:"lastActive"`
}

var Tenants = Schema[TenantWire, Tenant]{
	Name:    "tenants",
	Path:    "/superadmin/tenants/",
	Actions: []string{"suspend", "activate"},
	ToView: func(w TenantWire) Tenant {
		plan := strOr(w.PlanName, "")
		if plan == "" {
			plan = strOr(w.BillingPeriod, "Basic")
		}
		maxUsers := 10
		if w.MaxUsers != nil && *w.MaxUsers > 0 {
			maxUsers = *w.MaxUsers
		}
		return Tenant{
			ID:            w.ID,
			Name:          str(w.CompanyName),
			Domain:        str(w.Domain),
			Email:         str(w.Email),
			Status:        strOr(w.Status, "Active"),
			MaxUsers:      maxUsers,
			CurrentUsers:  intOf(w.CurrentUsers),
			Plan:          plan,
			BillingPeriod: str(w.BillingPeriod),
			Created:       str(w.CreatedAt),
			LastActive:    str(w.LastActive),
		}
	},
	ToWire: func(v Tenant) TenantWire {
		return TenantWire{
			ID:            v.ID,
			CompanyName:   optStr(v.Name),
			Domain:        optStr(v.Domain),
			Email:         optStr(v.Email),
			Status:        optStr(v.Status),
			MaxUsers:      ptr(v.MaxUsers),
			CurrentUsers:  ptr(v.CurrentUsers),
			PlanName:      optStr(v.Plan),
			BillingPeriod: optStr(v.BillingPeriod),
			CreatedAt:     optStr(v.Created),
			LastActive:    optStr(v.LastActive),
		}
	},
}

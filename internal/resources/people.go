package resources

// Patient

type PatientWire struct {
	ID               ID      `json:"id,omitempty"`
	Name             string  `json:"name"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
	MedicalHistory   *string `json:"medical_history,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
	BloodType        *string `json:"blood_type,omitempty"`
	Status           *string `json:"status,omitempty"`
	RegistrationDate *string `json:"registration_date,omitempty"`
	LastVisit        *string `json:"last_visit,omitempty"`
}

type Patient struct {
	ID               ID     `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	MedicalHistory   string `json:"medicalHistory"`
	Allergies        string `json:"allergies"`
	BloodType        string `json:"bloodType"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registrationDate"`
	LastVisit        string `json:"lastVisit"`
}

var Patients = Schema[PatientWire, Patient]{
	Name: "patients",
	Path: "/patients/patients/",
	ToView: func(w PatientWire) Patient {
		return Patient{
			ID:               w.ID,
			Name:             w.Name,
			Email:            str(w.Email),
			Phone:            strOr(w.Phone, NotSpecified),
			DateOfBirth:      str(w.DateOfBirth),
			Gender:           strOr(w.Gender, "other"),
			Address:          strOr(w.Address, NotSpecified),
			EmergencyContact: strOr(w.EmergencyContact, NotSpecified),
			EmergencyPhone:   strOr(w.EmergencyPhone, NotSpecified),
			MedicalHistory:   str(w.MedicalHistory),
			Allergies:        strOr(w.Allergies, "None"),
			BloodType:        strOr(w.BloodType, NotSpecified),
			Status:           strOr(w.Status, "active"),
			RegistrationDate: str(w.RegistrationDate),
			LastVisit:        str(w.LastVisit),
		}
	},
	ToWire: func(v Patient) PatientWire {
		allergies := optStr(v.Allergies)
		if v.Allergies == "None" {
			allergies = nil
		}
		return PatientWire{
			ID:               v.ID,
			Name:             v.Name,
			Email:            optStr(v.Email),
			Phone:            optStr(v.Phone),
			DateOfBirth:      optStr(v.DateOfBirth),
			Gender:           optStr(v.Gender),
			Address:          optStr(v.Address),
			EmergencyContact: optStr(v.EmergencyContact),
			EmergencyPhone:   optStr(v.EmergencyPhone),
			MedicalHistory:   optStr(v.MedicalHistory),
			Allergies:        allergies,
			BloodType:        optStr(v.BloodType),
			Status:           optStr(v.Status),
			RegistrationDate: optStr(v.RegistrationDate),
			LastVisit:        optStr(v.LastVisit),
		}
	},
}

// Doctor

type DoctorWire struct {
	ID              ID      `json:"id,omitempty"`
	Name            string  `json:"name"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Specialization  *string `json:"specialization,omitempty"`
	LicenseNumber   *string `json:"license_number,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty"`
	Department      *string `json:"department,omitempty"`
	Status          *string `json:"status,omitempty"`
	JoinDate        *string `json:"join_date,omitempty"`
	LastActivity    *string `json:"last_activity,omitempty"`
}

type Doctor struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Specialization  string `json:"specialization"`
	LicenseNumber   string `json:"licenseNumber"`
	ExperienceYears int    `json:"experienceYears"`
	Department      string `json:"department"`
	Status          string `json:"status"` // active, inactive, on_leave
	JoinDate        string `json:"joinDate"`
	LastActivity    string `json:"lastActivity"`
}

var Doctors = Schema[DoctorWire, Doctor]{
	Name: "doctors",
	Path: "/doctors/doctors/",
	ToView: func(w DoctorWire) Doctor {
		return Doctor{
			ID:              w.ID,
			Name:            w.Name,
			Email:           str(w.Email),
			Phone:           strOr(w.Phone, NotSpecified),
			Specialization:  strOr(w.Specialization, NotSpecified),
			LicenseNumber:   strOr(w.LicenseNumber, NotSpecified),
			ExperienceYears: intOf(w.ExperienceYears),
			Department:      strOr(w.Department, NotSpecified),
			Status:          strOr(w.Status, "active"),
			JoinDate:        str(w.JoinDate),
			LastActivity:    str(w.LastActivity),
		}
	},
	ToWire: func(v Doctor) DoctorWire {
		return DoctorWire{
			ID:              v.ID,
			Name:            v.Name,
			Email:           optStr(v.Email),
			Phone:           optStr(v.Phone),
			Specialization:  optStr(v.Specialization),
			LicenseNumber:   optStr(v.LicenseNumber),
			ExperienceYears: ptr(v.ExperienceYears),
			Department:      optStr(v.Department),
			Status:          optStr(v.Status),
			JoinDate:        optStr(v.JoinDate),
			LastActivity:    optStr(v.LastActivity),
		}
	},
}

// Tenant user. Mutations answer {"tenant_user": {...}} and every call is scoped
// with ?tenant=<id>.

type TenantUserWire struct {
	ID         ID      `json:"id,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	LastLogin  *string `json:"last_login,omitempty"`
	Password   *string `json:"password,omitempty"`
	Tenant     *ID     `json:"tenant,omitempty"`
}

type TenantUser struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"isActive"`
	Status     string `json:"status"`
	LastLogin  string `json:"lastLogin"`
	// Password is only sent on create, never read back
	Password string `json:"password,omitempty"`
	Tenant   ID     `json:"tenant,omitempty"`
}

var TenantUsers = Schema[TenantUserWire, TenantUser]{
	Name:        "users",
	Path:        "/tenant/users/",
	EntityKey:   "tenant_user",
	TenantParam: "tenant",
	StampTenant: func(w *TenantUserWire, tenantID string) {
		id := ID(tenantID)
		w.Tenant = &id
	},
	ToView: func(w TenantUserWire) TenantUser {
		active := boolOf(w.IsActive)
		status := "inactive"
		if active {
			status = "active"
		}
		return TenantUser{
			ID:         w.ID,
			Name:       w.Name,
			Email:      w.Email,
			Role:       strOr(w.Role, "technician"),
			Department: strOr(w.Department, NotSpecified),
			Phone:      strOr(w.Phone, NotSpecified),
			IsActive:   active,
			Status:     status,
			LastLogin:  strOr(w.LastLogin, "Never"),
			Tenant:     idOf(w.Tenant),
		}
	},
	ToWire: func(v TenantUser) TenantUserWire {
		lastLogin := optStr(v.LastLogin)
		if v.LastLogin == "Never" {
			lastLogin = nil
		}
		return TenantUserWire{
			ID:         v.ID,
			Name:       v.Name,
			Email:      v.Email,
			Role:       optStr(v.Role),
			Department: optStr(v.Department),
			Phone:      optStr(v.Phone),
			IsActive:   ptr(v.IsActive),
			LastLogin:  lastLogin,
			Password:   optStr(v.Password),
			Tenant:     optID(v.Tenant),
		}
	},
}

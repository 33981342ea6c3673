package models

import "time"

// CompanyProfile is the account's singleton company record.
type CompanyProfile struct {
	Name               string    `json:"name" db:"name" yaml:"name"`
	RegistrationNumber string    `json:"registrationNumber" db:"registration_number" yaml:"registrationNumber"`
	Certifications     []string  `json:"certifications" db:"certifications" yaml:"certifications"`
	Experience         string    `json:"experience" db:"experience" yaml:"experience"`
	ContactEmail       string    `json:"contactEmail" db:"contact_email" yaml:"contactEmail"`
	ContactPhone       string    `json:"contactPhone" db:"contact_phone" yaml:"contactPhone"`
	Address            string    `json:"address" db:"address" yaml:"address"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at" yaml:"-"`
}

// UpdateCompanyRequest carries a partial profile update.
// Nil fields are left untouched; present fields replace the stored value.
type UpdateCompanyRequest struct {
	Name               *string   `json:"name,omitempty"`
	RegistrationNumber *string   `json:"registrationNumber,omitempty"`
	Certifications     *[]string `json:"certifications,omitempty"`
	Experience         *string   `json:"experience,omitempty"`
	ContactEmail       *string   `json:"contactEmail,omitempty"`
	ContactPhone       *string   `json:"contactPhone,omitempty"`
	Address            *string   `json:"address,omitempty"`
}

// IsEmpty reports whether the request carries no fields at all
func (r *UpdateCompanyRequest) IsEmpty() bool {
	return r.Name == nil && r.RegistrationNumber == nil && r.Certifications == nil &&
		r.Experience == nil && r.ContactEmail == nil && r.ContactPhone == nil && r.Address == nil
}

// Apply merges the present fields into p
func (r *UpdateCompanyRequest) Apply(p *CompanyProfile) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.RegistrationNumber != nil {
		p.RegistrationNumber = *r.RegistrationNumber
	}
	if r.Certifications != nil {
		p.Certifications = append([]string{}, (*r.Certifications)...)
	}
	if r.Experience != nil {
		p.Experience = *r.Experience
	}
	if r.ContactEmail != nil {
		p.ContactEmail = *r.ContactEmail
	}
	if r.ContactPhone != nil {
		p.ContactPhone = *r.ContactPhone
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
}

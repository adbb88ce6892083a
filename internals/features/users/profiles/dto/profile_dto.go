package dto

import (
	"strings"

	"letme_backend/internals/features/users/model"
)

type UpsertProfileRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email string  `json:"email" validate:"required,email,max=200"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

func (r UpsertProfileRequest) normalized() (name, email string, phone *string) {
	name = strings.TrimSpace(r.Name)
	email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Phone != nil {
		if p := strings.TrimSpace(*r.Phone); p != "" {
			phone = &p
		}
	}
	return
}

func (r UpsertProfileRequest) ApplyCompany(m *model.CompanyProfile) {
	m.CompanyName, m.CompanyEmail, m.CompanyPhone = r.normalized()
}

func (r UpsertProfileRequest) ApplyStaff(m *model.Staff) {
	m.StaffName, m.StaffEmail, m.StaffPhone = r.normalized()
}

type MeResponse struct {
	Company *model.CompanyProfile `json:"company,omitempty"`
	Staff   *model.Staff          `json:"staff,omitempty"`
}

package dto

import (
	"strings"

	"github.com/google/uuid"

	"letme_backend/internals/features/payment/subscriptions/model"
)

/* ===================== Requests ===================== */

type InviteInput struct {
	Name         string `json:"staff_name" validate:"required,max=200"`
	Email        string `json:"staff_email" validate:"required,email,max=200"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	JobRole      string `json:"job_role" validate:"omitempty,max=200"`
	EmployeeType string `json:"employee_type" validate:"omitempty,max=200"`
}

type RequestInviteRequest struct {
	PackageID uuid.UUID     `json:"package_id" validate:"required"`
	Staff     []InviteInput `json:"staff" validate:"required,min=1,dive"`
}

// ToModels normalisasi email (lowercase) dan buang duplikat dalam satu request.
func (r RequestInviteRequest) ToModels(companyID uuid.UUID) []model.InviteMyStaff {
	out := make([]model.InviteMyStaff, 0, len(r.Staff))
	seen := make(map[string]struct{}, len(r.Staff))
	for _, s := range r.Staff {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, model.InviteMyStaff{
			InviteID:           uuid.New(),
			InviteCompanyID:    companyID,
			InviteStaffName:    strings.TrimSpace(s.Name),
			InviteStaffEmail:   email,
			InvitePhone:        strings.TrimSpace(s.Phone),
			InviteJobRole:      strings.TrimSpace(s.JobRole),
			InviteEmployeeType: strings.TrimSpace(s.EmployeeType),
		})
	}
	return out
}

type JoinRequest struct {
	Code string `json:"code" validate:"required,len=8,alphanum"`
}

// WebhookPayload notifikasi HTTP dari Midtrans; field lain diabaikan.
type WebhookPayload struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	SavedTokenID      string `json:"saved_token_id"`
}

/* ===================== Responses ===================== */

const (
	OutcomeCheckout   = "checkout"
	OutcomeMailQueued = "mail_queued"
	OutcomeModified   = "modified"
)

type InviteResult struct {
	Outcome        string              `json:"outcome"`
	Subscription   *model.Subscription `json:"subscription,omitempty"`
	PaymentToken   string              `json:"payment_token,omitempty"`
	RedirectURL    string              `json:"redirect_url,omitempty"`
	AmountCharged  int64               `json:"amount_charged"`
	InvitedCount   int                 `json:"invited_count"`
	RemainingQuota int64               `json:"remaining_quota"`
}

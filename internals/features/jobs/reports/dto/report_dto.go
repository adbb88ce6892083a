package dto

type AddTipsRequest struct {
	// cents
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

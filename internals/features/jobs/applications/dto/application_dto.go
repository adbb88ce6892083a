package dto

import (
	"time"

	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/applications/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
)

/* ===================== Requests ===================== */

type ApplyRequest struct {
	VacancyID uuid.UUID `json:"vacancy_id" validate:"required"`
}

// AttendanceRequest check-in / check-out dari staff. Time kosong = sekarang.
type AttendanceRequest struct {
	Location string     `json:"location" validate:"required,max=255"`
	Time     *time.Time `json:"time"`
}

func (r AttendanceRequest) At() time.Time {
	if r.Time == nil {
		return time.Time{}
	}
	return *r.Time
}

// ReviewRequest keputusan company atas check-in / check-out.
type ReviewRequest struct {
	Approved  *bool      `json:"approved" validate:"required"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r ReviewRequest) At() time.Time {
	if r.Timestamp == nil {
		return time.Time{}
	}
	return *r.Timestamp
}

/* ===================== Responses ===================== */

type ApplicationResponse struct {
	ID                  uuid.UUID  `json:"job_application_id"`
	VacancyID           uuid.UUID  `json:"vacancy_id"`
	StaffID             uuid.UUID  `json:"staff_id"`
	Status              string     `json:"job_status"`
	IsApprove           bool       `json:"is_approve"`
	CheckinApprove      bool       `json:"checkin_approve"`
	CheckoutApprove     bool       `json:"checkout_approve"`
	InTime              *time.Time `json:"in_time,omitempty"`
	OutTime             *time.Time `json:"out_time,omitempty"`
	CheckinLocation     *string    `json:"checkin_location,omitempty"`
	CheckoutLocation    *string    `json:"checkout_location,omitempty"`
	TotalWorkingHours   *float64   `json:"total_working_hours,omitempty"`
	TotalWorkingSeconds *int64     `json:"total_working_seconds,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func FromModel(a *model.JobApplication) ApplicationResponse {
	out := ApplicationResponse{
		ID:                  a.JobApplicationID,
		VacancyID:           a.JobApplicationVacancyID,
		StaffID:             a.JobApplicationStaffID,
		Status:              a.JobApplicationStatus,
		IsApprove:           a.JobApplicationIsApprove,
		CheckinApprove:      a.JobApplicationCheckinApprove,
		CheckoutApprove:     a.JobApplicationCheckoutApprove,
		InTime:              a.JobApplicationInTime,
		OutTime:             a.JobApplicationOutTime,
		CheckinLocation:     a.JobApplicationCheckinLocation,
		CheckoutLocation:    a.JobApplicationCheckoutLocation,
		TotalWorkingSeconds: a.JobApplicationTotalWorkingSeconds,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	if s := a.JobApplicationTotalWorkingSeconds; s != nil {
		h := float64(*s) / 3600
		out.TotalWorkingHours = &h
	}
	return out
}

// FeedItemResponse vacancy + status lamaran milik staff yang melihat.
type FeedItemResponse struct {
	Vacancy       vacancyModel.Vacancy `json:"vacancy"`
	ApplicationID *uuid.UUID           `json:"job_application_id,omitempty"`
	MyStatus      string               `json:"job_status,omitempty"`
}

func NewFeedItem(v vacancyModel.Vacancy, app *model.JobApplication) FeedItemResponse {
	out := FeedItemResponse{Vacancy: v}
	if app != nil {
		id := app.JobApplicationID
		out.ApplicationID = &id
		out.MyStatus = app.JobApplicationStatus
	}
	return out
}

func FromModels(rows []model.JobApplication) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

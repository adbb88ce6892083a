package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dbtime"
)

const DateLayout = "2006-01-02"

/* ===================== Requests ===================== */

type CreateJobRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	IsPublished bool    `json:"is_published"`
}

type CreateVacancyRequest struct {
	JobID         uuid.UUID `json:"job_id" validate:"required"`
	JobRoleID     uuid.UUID `json:"job_role_id" validate:"required"`
	NumberOfStaff int       `json:"number_of_staff" validate:"required,gt=0"`
	OpenDate      string    `json:"open_date" validate:"required,datetime=2006-01-02"`
	CloseDate     string    `json:"close_date" validate:"required,datetime=2006-01-02"`
	StartTime     string    `json:"start_time" validate:"required"`
	EndTime       string    `json:"end_time" validate:"required"`
	Location      string    `json:"location" validate:"max=255"`
	Skills        []string  `json:"skills" validate:"omitempty,dive,max=80"`
	Status        string    `json:"status" validate:"omitempty,oneof=active draft"`
}

// UpdateVacancyRequest PATCH; field nil = tidak diubah.
type UpdateVacancyRequest struct {
	JobRoleID     *uuid.UUID `json:"job_role_id"`
	NumberOfStaff *int       `json:"number_of_staff" validate:"omitempty,gt=0"`
	OpenDate      *string    `json:"open_date" validate:"omitempty,datetime=2006-01-02"`
	CloseDate     *string    `json:"close_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime     *string    `json:"start_time"`
	EndTime       *string    `json:"end_time"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	Skills        *[]string  `json:"skills" validate:"omitempty,dive,max=80"`
}

type UpdateVacancyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active progress draft cancelled finished"`
}

// ToModel tanpa salary & company; diisi service.
func (r CreateVacancyRequest) ToModel() (*model.Vacancy, error) {
	open, err := time.ParseInLocation(DateLayout, r.OpenDate, dbtime.Location())
	if err != nil {
		return nil, apperror.Validation("open_date tidak valid")
	}
	closeDate, err := time.ParseInLocation(DateLayout, r.CloseDate, dbtime.Location())
	if err != nil {
		return nil, apperror.Validation("close_date tidak valid")
	}
	start, err := dbtime.Parse(r.StartTime)
	if err != nil {
		return nil, apperror.Validation("start_time harus HH:MM[:SS]")
	}
	end, err := dbtime.Parse(r.EndTime)
	if err != nil {
		return nil, apperror.Validation("end_time harus HH:MM[:SS]")
	}
	status := r.Status
	if status == "" {
		status = model.VacancyStatusDraft
	}
	return &model.Vacancy{
		VacancyJobID:         r.JobID,
		VacancyJobRoleID:     r.JobRoleID,
		VacancyNumberOfStaff: r.NumberOfStaff,
		VacancyOpenDate:      open,
		VacancyCloseDate:     closeDate,
		VacancyStartTime:     start,
		VacancyEndTime:       end,
		VacancyLocation:      strings.TrimSpace(r.Location),
		VacancySkills:        cleanSkills(r.Skills),
		VacancyStatus:        status,
	}, nil
}

// ApplyTo menerapkan patch ke v.
func (r UpdateVacancyRequest) ApplyTo(v *model.Vacancy) error {
	if r.JobRoleID != nil {
		v.VacancyJobRoleID = *r.JobRoleID
	}
	if r.NumberOfStaff != nil {
		v.VacancyNumberOfStaff = *r.NumberOfStaff
	}
	if r.OpenDate != nil {
		t, err := time.ParseInLocation(DateLayout, *r.OpenDate, dbtime.Location())
		if err != nil {
			return apperror.Validation("open_date tidak valid")
		}
		v.VacancyOpenDate = t
	}
	if r.CloseDate != nil {
		t, err := time.ParseInLocation(DateLayout, *r.CloseDate, dbtime.Location())
		if err != nil {
			return apperror.Validation("close_date tidak valid")
		}
		v.VacancyCloseDate = t
	}
	if r.StartTime != nil {
		t, err := dbtime.Parse(*r.StartTime)
		if err != nil {
			return apperror.Validation("start_time harus HH:MM[:SS]")
		}
		v.VacancyStartTime = t
	}
	if r.EndTime != nil {
		t, err := dbtime.Parse(*r.EndTime)
		if err != nil {
			return apperror.Validation("end_time harus HH:MM[:SS]")
		}
		v.VacancyEndTime = t
	}
	if r.Location != nil {
		v.VacancyLocation = strings.TrimSpace(*r.Location)
	}
	if r.Skills != nil {
		v.VacancySkills = cleanSkills(*r.Skills)
	}
	return nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

/* ===================== Responses ===================== */

type VacancyResponse struct {
	VacancyID     uuid.UUID `json:"vacancy_id"`
	JobID         uuid.UUID `json:"job_id"`
	CompanyID     uuid.UUID `json:"company_id"`
	JobRoleID     uuid.UUID `json:"job_role_id"`
	NumberOfStaff int       `json:"number_of_staff"`
	Participants  *int64    `json:"participants,omitempty"`
	OpenDate      string    `json:"open_date"`
	CloseDate     string    `json:"close_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Location      string    `json:"location"`
	Skills        []string  `json:"skills"`
	Salary        int64     `json:"salary"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel; participants < 0 berarti tidak dihitung (list).
func FromModel(v *model.Vacancy, participants int64) VacancyResponse {
	var np *int64
	if participants >= 0 {
		np = &participants
	}
	skills := []string(v.VacancySkills)
	if skills == nil {
		skills = []string{}
	}
	return VacancyResponse{
		VacancyID:     v.VacancyID,
		JobID:         v.VacancyJobID,
		CompanyID:     v.VacancyCompanyID,
		JobRoleID:     v.VacancyJobRoleID,
		NumberOfStaff: v.VacancyNumberOfStaff,
		Participants:  np,
		OpenDate:      v.VacancyOpenDate.Format(DateLayout),
		CloseDate:     v.VacancyCloseDate.Format(DateLayout),
		StartTime:     v.VacancyStartTime.String(),
		EndTime:       v.VacancyEndTime.String(),
		Location:      v.VacancyLocation,
		Skills:        skills,
		Salary:        v.VacancySalary,
		Status:        v.VacancyStatus,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

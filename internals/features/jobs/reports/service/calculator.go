package service

import (
	"time"

	"letme_backend/internals/features/jobs/reports/model"
)

// Batas jam reguler; jam di atasnya dihitung lembur 1.4x.
const OvertimeThresholdHours = 9

// Pay hasil hitung satu shift, nominal dalam cents.
type Pay struct {
	WorkingHour int
	ExtraHour   int
	RegularPay  int64
	OvertimePay int64
	TotalPay    int64
}

// GenerateReport menghitung jam kerja (dibulatkan ke bawah per jam penuh) dan upah.
// Tips tidak masuk total; pajak tidak dihitung.
func GenerateReport(in, out time.Time, rate int64) Pay {
	wh := int(out.Sub(in) / time.Hour)
	if wh < 0 {
		wh = 0
	}
	extra := 0
	if wh > OvertimeThresholdHours {
		extra = wh - OvertimeThresholdHours
	}
	regularHours := wh
	if regularHours > OvertimeThresholdHours {
		regularHours = OvertimeThresholdHours
	}
	regular := rate * int64(regularHours)
	// rate * 1.4 tanpa float: (x*14 + 5) / 10
	overtime := (int64(extra)*rate*14 + 5) / 10

	return Pay{
		WorkingHour: wh,
		ExtraHour:   extra,
		RegularPay:  regular,
		OvertimePay: overtime,
		TotalPay:    regular + overtime,
	}
}

// Apply salin hasil hitung ke report.
func (p Pay) Apply(r *model.JobReport) {
	r.JobReportWorkingHour = p.WorkingHour
	r.JobReportExtraHour = p.ExtraHour
	r.JobReportRegularPay = p.RegularPay
	r.JobReportOvertimePay = p.OvertimePay
	r.JobReportTotalPay = p.TotalPay
}

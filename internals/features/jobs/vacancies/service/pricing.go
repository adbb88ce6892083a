package service

import "letme_backend/internals/helpers/dbtime"

// ComputeSalary: rate (cents per jam) * jam * headcount.
// jam = (end.hour - start.hour) + (end.minute - start.minute)/60, tanpa koreksi
// shift lewat tengah malam: hasil negatif dibiarkan apa adanya.
// Pembulatan ke cent terdekat, half away from zero.
func ComputeSalary(rate int64, start, end dbtime.Tod, headcount int) int64 {
	minutes := int64(end.Hour()-start.Hour())*60 + int64(end.Minute()-start.Minute())
	return roundDiv(rate*minutes*int64(headcount), 60)
}

func roundDiv(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}

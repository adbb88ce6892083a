// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"sync"
	"time"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location zona operasional (Asia/Jakarta), fallback UTC kalau tzdata tidak ada.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("Asia/Jakarta")
		if err != nil {
			l = time.UTC
		}
		loc = l
	})
	return loc
}

// DateOnly memotong jam, tetap di zona t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPastDate true kalau tanggal kalender now (di zona operasional) sudah lewat dari date.
// Hari yang sama masih dianggap belum lewat.
func IsPastDate(date, now time.Time) bool {
	l := Location()
	d := DateOnly(date.In(l))
	n := DateOnly(now.In(l))
	return n.After(d)
}

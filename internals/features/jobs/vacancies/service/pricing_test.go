package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"letme_backend/internals/helpers/dbtime"
)

func TestComputeSalary(t *testing.T) {
	tests := []struct {
		name      string
		rate      int64
		start     string
		end       string
		headcount int
		want      int64
	}{
		{"8h x 3 staff", 2500, "09:00", "17:00", 3, 60000},
		{"half hour", 2000, "09:00", "09:30", 1, 1000},
		{"negative minute delta", 6000, "09:45", "17:15", 1, 45000},
		{"overnight kept negative", 1000, "22:00", "06:00", 1, -16000},
		{"rounds to nearest cent", 1001, "09:00", "09:20", 1, 334},
		{"zero length", 5000, "08:00", "08:00", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSalary(tt.rate, dbtime.MustParse(tt.start), dbtime.MustParse(tt.end), tt.headcount)
			assert.Equal(t, tt.want, got)
		})
	}
}

package constants

import "fmt"

// Template pesan error role
const (
	ErrOnlyCompanyCanAccess = "❌ Hanya akun perusahaan yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess   = "❌ Hanya akun staff yang boleh mengakses fitur %s."
)

func RoleErrorCompany(feature string) string {
	return fmt.Sprintf(ErrOnlyCompanyCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subscriptionModel "letme_backend/internals/features/payment/subscriptions/model"
)

func TestJobRolesDecode(t *testing.T) {
	roles, err := JobRoles()
	require.NoError(t, err)
	require.NotEmpty(t, roles)

	seen := map[string]bool{}
	for _, r := range roles {
		assert.NotEmpty(t, r.JobRoleName)
		assert.Positive(t, r.JobRoleStaffPrice)
		assert.False(t, seen[r.JobRoleName], "duplicate role %s", r.JobRoleName)
		seen[r.JobRoleName] = true
	}
}

func TestPackagesDecode(t *testing.T) {
	pkgs, err := Packages()
	require.NoError(t, err)
	require.NotEmpty(t, pkgs)

	for _, p := range pkgs {
		assert.True(t, p.PackageIsActive)
		assert.Positive(t, p.PackageNumberOfStaff)
		assert.Contains(t, []string{subscriptionModel.IntervalMonth, subscriptionModel.IntervalYear}, p.PackageInterval)
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("  Staff ")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, r)

	_, err = ParseRole("superuser")
	require.Error(t, err)
}

func TestItemStatusValid(t *testing.T) {
	assert.True(t, StatusAvailable.Valid())
	assert.True(t, StatusLent.Valid())
	assert.True(t, StatusMaintenance.Valid())
	assert.False(t, ItemStatus("Retired").Valid())
	assert.False(t, ItemStatus("available").Valid())
}

func TestLoanOpen(t *testing.T) {
	l := &Loan{}
	assert.True(t, l.Open())
}

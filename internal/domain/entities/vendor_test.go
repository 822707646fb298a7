package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidState(t *testing.T) {
	assert.Len(t, States, 32)
	assert.True(t, IsValidState("Karnataka"))
	assert.True(t, IsValidState("Jammu and Kashmir"))
	assert.False(t, IsValidState("Atlantis"))
	assert.False(t, IsValidState("karnataka"), "state match is exact")
}

func TestIsValidCategory(t *testing.T) {
	assert.Len(t, BusinessCategories, 13)
	assert.True(t, IsValidCategory("Cafe"))
	assert.False(t, IsValidCategory("Casino"))
}

func TestRoleAndIdentity(t *testing.T) {
	assert.True(t, RoleVendor.Valid())
	assert.False(t, Role("admin").Valid())

	id := Identity{UserID: "u1", Role: RoleCustomer}
	assert.True(t, id.IsCustomer())
	assert.False(t, id.IsVendor())
}

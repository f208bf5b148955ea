package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printdesk-backend/internal/domain"
)

func TestAllowed(t *testing.T) {
	// Only requesters submit requests.
	assert.True(t, Allowed(domain.RoleRequester, OpCreateRequest))
	assert.False(t, Allowed(domain.RoleOrgAdmin, OpCreateRequest))
	assert.False(t, Allowed(domain.RolePrintOperator, OpCreateRequest))

	// Requesters never drive transitions.
	assert.False(t, Allowed(domain.RoleRequester, OpTransitionRequest))
	assert.True(t, Allowed(domain.RoleOrgAdmin, OpTransitionRequest))
	assert.True(t, Allowed(domain.RolePrintOperator, OpTransitionRequest))

	// Operators never delete.
	assert.False(t, Allowed(domain.RolePrintOperator, OpDeleteRequest))
	assert.True(t, Allowed(domain.RoleRequester, OpDeleteRequest))
	assert.True(t, Allowed(domain.RoleOrgAdmin, OpDeleteRequest))

	// Account management is admin-only.
	assert.True(t, Allowed(domain.RoleOrgAdmin, OpManageAccounts))
	assert.False(t, Allowed(domain.RoleRequester, OpManageAccounts))
	assert.False(t, Allowed(domain.RolePrintOperator, OpManageAccounts))

	// Everyone reads and downloads within their scope.
	for _, role := range []domain.UserRole{domain.RoleRequester, domain.RoleOrgAdmin, domain.RolePrintOperator} {
		assert.True(t, Allowed(role, OpListRequests))
		assert.True(t, Allowed(role, OpReadRequest))
		assert.True(t, Allowed(role, OpDownloadFile))
		assert.True(t, Allowed(role, OpViewNotifications))
	}

	assert.False(t, Allowed(domain.UserRole("SUPERUSER"), OpListRequests))
	assert.False(t, Allowed(domain.RoleOrgAdmin, Operation("unknown.op")))
}

func TestScopedToOwn(t *testing.T) {
	assert.True(t, ScopedToOwn(domain.RoleRequester))
	assert.False(t, ScopedToOwn(domain.RoleOrgAdmin))
	assert.False(t, ScopedToOwn(domain.RolePrintOperator))
}

func TestTableIsACopy(t *testing.T) {
	table := Table()
	assert.Len(t, table, len(permissions))

	// Mutating the returned table must not poison the live one.
	table[OpCreateRequest] = append(table[OpCreateRequest], domain.RoleOrgAdmin)
	assert.False(t, Allowed(domain.RoleOrgAdmin, OpCreateRequest))
}

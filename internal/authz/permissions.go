// Package authz holds the declarative permission table shared by the
// service layer and the UI. Role checks happen here and nowhere else;
// screens query GET /api/v1/permissions instead of hardcoding roles.
package authz

import "printdesk-backend/internal/domain"

type Operation string

const (
	OpCreateRequest     Operation = "request.create"
	OpListRequests      Operation = "request.list"
	OpReadRequest       Operation = "request.read"
	OpTransitionRequest Operation = "request.transition"
	OpDeleteRequest     Operation = "request.delete"
	OpDownloadFile      Operation = "request.file.download"
	OpManageAccounts    Operation = "accounts.manage"
	OpManageOrg         Operation = "org.manage"
	OpViewNotifications Operation = "notifications.view"
)

// permissions maps each operation to the roles allowed to attempt it.
// Transition edges are additionally gated per (from, to) pair by the
// lifecycle table in domain; delete is additionally gated by the
// ownership/status rule in the request service.
var permissions = map[Operation][]domain.UserRole{
	OpCreateRequest:     {domain.RoleRequester},
	OpListRequests:      {domain.RoleRequester, domain.RoleOrgAdmin, domain.RolePrintOperator},
	OpReadRequest:       {domain.RoleRequester, domain.RoleOrgAdmin, domain.RolePrintOperator},
	OpTransitionRequest: {domain.RoleOrgAdmin, domain.RolePrintOperator},
	OpDeleteRequest:     {domain.RoleRequester, domain.RoleOrgAdmin},
	OpDownloadFile:      {domain.RoleRequester, domain.RoleOrgAdmin, domain.RolePrintOperator},
	OpManageAccounts:    {domain.RoleOrgAdmin},
	OpManageOrg:         {domain.RoleOrgAdmin},
	OpViewNotifications: {domain.RoleRequester, domain.RoleOrgAdmin, domain.RolePrintOperator},
}

// Allowed reports whether role may attempt op.
func Allowed(role domain.UserRole, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// ScopedToOwn reports whether list results must be narrowed to the
// caller's own requests. Only requesters are narrowed; admins and
// operators see the whole tenant.
func ScopedToOwn(role domain.UserRole) bool {
	return role == domain.RoleRequester
}

// Table returns a copy of the permission table keyed by operation,
// suitable for serving to the presentation layer.
func Table() map[Operation][]domain.UserRole {
	out := make(map[Operation][]domain.UserRole, len(permissions))
	for op, roles := range permissions {
		out[op] = append([]domain.UserRole(nil), roles...)
	}
	return out
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		role     UserRole
		allowed  bool
	}{
		{StatusPending, StatusApproved, RoleOrgAdmin, true},
		{StatusPending, StatusRejected, RoleOrgAdmin, true},
		{StatusApproved, StatusInProgress, RolePrintOperator, true},
		{StatusInProgress, StatusCompleted, RolePrintOperator, true},

		{StatusPending, StatusInProgress, "", false},
		{StatusPending, StatusCompleted, "", false},
		{StatusApproved, StatusRejected, "", false},
		{StatusApproved, StatusCompleted, "", false},
		{StatusRejected, StatusApproved, "", false},
		{StatusRejected, StatusPending, "", false},
		{StatusCompleted, StatusApproved, "", false},
		{StatusInProgress, StatusPending, "", false},
		{StatusApproved, StatusApproved, "", false},
	}

	for _, tc := range cases {
		role, ok := TransitionRole(tc.from, tc.to)
		assert.Equal(t, tc.allowed, ok, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
		if tc.allowed {
			assert.Equal(t, tc.role, role, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestDeletableByRequester(t *testing.T) {
	assert.True(t, StatusPending.DeletableByRequester())
	assert.True(t, StatusRejected.DeletableByRequester())
	assert.True(t, StatusCompleted.DeletableByRequester())
	assert.False(t, StatusApproved.DeletableByRequester())
	assert.False(t, StatusInProgress.DeletableByRequester())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.False(t, ValidStatus(RequestStatus("SHREDDED")))
	assert.False(t, ValidStatus(RequestStatus("")))
}

func TestQuotaFor(t *testing.T) {
	starter := QuotaFor(TierStarter)
	assert.Equal(t, int32(1), starter.Limit(RoleOrgAdmin))
	assert.Equal(t, int32(1), starter.Limit(RolePrintOperator))
	assert.Equal(t, int32(10), starter.Limit(RoleRequester))

	team := QuotaFor(TierTeam)
	assert.Equal(t, int32(2), team.Limit(RoleOrgAdmin))
	assert.Equal(t, int32(3), team.Limit(RolePrintOperator))
	assert.Equal(t, int32(50), team.Limit(RoleRequester))

	business := QuotaFor(TierBusiness)
	assert.Negative(t, business.Limit(RoleOrgAdmin))
	assert.Negative(t, business.Limit(RoleRequester))

	// Unknown tiers behave like STARTER rather than unbounded.
	unknown := QuotaFor(SubscriptionTier("PLATINUM"))
	assert.Equal(t, int32(1), unknown.Limit(RoleOrgAdmin))
}

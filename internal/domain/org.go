package domain

type SubscriptionTier string

const (
	TierStarter  SubscriptionTier = "STARTER"
	TierTeam     SubscriptionTier = "TEAM"
	TierBusiness SubscriptionTier = "BUSINESS"
)

// RoleQuota bounds how many accounts of each role an organization may hold.
// A limit of -1 means unbounded.
type RoleQuota struct {
	Admins     int32
	Operators  int32
	Requesters int32
}

var tierQuotas = map[SubscriptionTier]RoleQuota{
	TierStarter:  {Admins: 1, Operators: 1, Requesters: 10},
	TierTeam:     {Admins: 2, Operators: 3, Requesters: 50},
	TierBusiness: {Admins: -1, Operators: -1, Requesters: -1},
}

// QuotaFor returns the account quota for a subscription tier.
// Unknown tiers get the most restrictive quota.
func QuotaFor(tier SubscriptionTier) RoleQuota {
	if q, ok := tierQuotas[tier]; ok {
		return q
	}
	return tierQuotas[TierStarter]
}

// Limit returns the account cap for a role under this quota.
func (q RoleQuota) Limit(role UserRole) int32 {
	switch role {
	case RoleOrgAdmin:
		return q.Admins
	case RolePrintOperator:
		return q.Operators
	default:
		return q.Requesters
	}
}

type Organization struct {
	ID         int32            `json:"id"`
	Name       string           `json:"name"`
	AdminEmail string           `json:"admin_email"`
	Tier       SubscriptionTier `json:"tier"`
	// Timezone is the IANA zone used to resolve naive due-date submissions.
	Timezone  string `json:"timezone"`
	Active    bool   `json:"active"`
	CreatedOn string `json:"created_on"`
}

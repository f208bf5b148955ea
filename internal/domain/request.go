package domain

import "time"

type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusApproved   RequestStatus = "APPROVED"
	StatusRejected   RequestStatus = "REJECTED"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusCompleted  RequestStatus = "COMPLETED"
)

// ValidStatus reports whether s is one of the five lifecycle states.
// Anything else in the store is data corruption, not a representable state.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no forward transition is defined from s.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

type PrintFormat string

const (
	FormatSingleSided PrintFormat = "SINGLE_SIDED"
	FormatDoubleSided PrintFormat = "DOUBLE_SIDED"
)

type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "PICKUP"
	DeliveryRoom   DeliveryMethod = "ROOM_DELIVERY"
)

// FileRef points at a stored artifact. The storage key is opaque to the
// lifecycle core; preview rendering lives entirely client-side.
type FileRef struct {
	StorageKey   string `json:"storage_key"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	OriginalName string `json:"original_name"`
}

type PrintRequest struct {
	ID             int32          `json:"id"`
	OrgID          int32          `json:"org_id"`
	RequesterID    int32          `json:"requester_id"`
	Title          string         `json:"title"`
	File           FileRef        `json:"file"`
	Copies         int32          `json:"copies"`
	Format         PrintFormat    `json:"format"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	DeliveryRoom   string         `json:"delivery_room,omitempty"`
	// DueOn is always stored in UTC; naive client datetimes are resolved
	// in the owning organization's timezone at ingestion.
	DueOn     time.Time     `json:"due_on"`
	Status    RequestStatus `json:"status"`
	CreatedOn time.Time     `json:"created_on"`
	UpdatedOn time.Time     `json:"updated_on"`
}

// transition edges: (from, to) -> role allowed to perform it.
var transitions = map[RequestStatus]map[RequestStatus]UserRole{
	StatusPending: {
		StatusApproved: RoleOrgAdmin,
		StatusRejected: RoleOrgAdmin,
	},
	StatusApproved: {
		StatusInProgress: RolePrintOperator,
	},
	StatusInProgress: {
		StatusCompleted: RolePrintOperator,
	},
}

// CanTransition reports whether target is a legal successor of from under
// any role. Used to distinguish "invalid transition" from "forbidden".
func CanTransition(from, to RequestStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// TransitionRole returns the role allowed to move a request from one
// status to another. ok is false when the edge does not exist.
func TransitionRole(from, to RequestStatus) (UserRole, bool) {
	role, ok := transitions[from][to]
	return role, ok
}

// DeletableByRequester lists the states in which the owning requester may
// delete a request. Admins may delete anything except PENDING.
func (s RequestStatus) DeletableByRequester() bool {
	return s == StatusPending || s == StatusRejected || s == StatusCompleted
}

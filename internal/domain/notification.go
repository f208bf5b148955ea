package domain

// Notification is the persisted inbox entry shown in the bell menu.
// Live delivery to connected clients goes through the fan-out hub; this
// record is what a user sees when they were not connected at emission.
type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	OrgID      int32             `json:"org_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  string            `json:"created_on"`
}

// Event kinds attached to lifecycle notifications.
const (
	EventKindApproved     = "approved"
	EventKindRejected     = "rejected"
	EventKindInProgress   = "in-progress"
	EventKindCompleted    = "completed"
	EventKindNewJob       = "new-job"
	EventKindDueSoon      = "due-soon"
	EventKindStalePending = "stale-pending"
)

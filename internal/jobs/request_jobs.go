package jobs

import (
	"context"
	"fmt"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
)

// SendDueDateReminders notifies requesters and print operators about
// requests whose due date falls inside the next 24 hours and that are
// not finished yet.
func (jr *JobRunner) SendDueDateReminders() {
	jr.runWithRecovery("SendDueDateReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		requests, err := jr.store.ListDueBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list due requests", "error", err)
			return
		}

		// Operators get an inbox entry each; look them up once per org.
		operatorsByOrg := make(map[int32][]domain.User)

		count := 0
		for _, pr := range requests {
			if pr.Status.Terminal() {
				continue
			}

			msg := fmt.Sprintf("Print request %q is due on %s", pr.Title, pr.DueOn.Format(time.RFC1123))
			jr.hub.Publish(notify.ToUser(pr.OrgID, pr.RequesterID), notify.Event{
				Kind:      domain.EventKindDueSoon,
				RequestID: pr.ID,
				Title:     "Due Date Reminder",
				Message:   msg,
			})
			jr.hub.Publish(notify.ToRole(pr.OrgID, domain.RolePrintOperator), notify.Event{
				Kind:      domain.EventKindDueSoon,
				RequestID: pr.ID,
				Title:     "Job Due Soon",
				Message:   msg,
			})

			if err := jr.store.NotificationRepository.Create(ctx, &domain.Notification{
				UserID:  pr.RequesterID,
				OrgID:   pr.OrgID,
				Title:   "Due Date Reminder",
				Message: msg,
				Attributes: map[string]string{
					"kind":       domain.EventKindDueSoon,
					"request_id": fmt.Sprintf("%d", pr.ID),
				},
			}); err != nil {
				logger.Error("Failed to persist due reminder", "request_id", pr.ID, "error", err)
			}

			operators, ok := operatorsByOrg[pr.OrgID]
			if !ok {
				operators, err = jr.store.UserRepository.ListByOrgAndRole(ctx, pr.OrgID, domain.RolePrintOperator)
				if err != nil {
					logger.Error("Failed to list operators for reminder", "org_id", pr.OrgID, "error", err)
					operators = nil
				}
				operatorsByOrg[pr.OrgID] = operators
			}
			for _, op := range operators {
				if err := jr.store.NotificationRepository.Create(ctx, &domain.Notification{
					UserID:  op.ID,
					OrgID:   pr.OrgID,
					Title:   "Job Due Soon",
					Message: msg,
					Attributes: map[string]string{
						"kind":       domain.EventKindDueSoon,
						"request_id": fmt.Sprintf("%d", pr.ID),
					},
				}); err != nil {
					logger.Error("Failed to persist operator reminder", "request_id", pr.ID, "user_id", op.ID, "error", err)
				}
			}

			requester, err := jr.store.UserRepository.GetByID(ctx, pr.RequesterID)
			if err != nil {
				logger.Error("Failed to load requester for reminder", "request_id", pr.ID, "error", err)
				continue
			}
			if err := jr.email.SendDueSoonReminder(ctx, requester.Email, pr.Title, pr.DueOn); err != nil {
				logger.Warn("Failed to send due reminder email", "request_id", pr.ID, "error", err)
			}
			count++
		}

		logger.Info("Sent due date reminders", "count", count)
	})
}

// NotifyStalePending tells org admins about requests that have sat in
// PENDING for more than 48 hours without a decision.
func (jr *JobRunner) NotifyStalePending() {
	jr.runWithRecovery("NotifyStalePending", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-48 * time.Hour)

		requests, err := jr.store.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending requests", "error", err)
			return
		}

		// Group per tenant so each admin gets one summary, not one ping
		// per request.
		byOrg := make(map[int32][]domain.PrintRequest)
		for _, pr := range requests {
			byOrg[pr.OrgID] = append(byOrg[pr.OrgID], pr)
		}

		for orgID, stale := range byOrg {
			msg := fmt.Sprintf("%d print request(s) have been awaiting approval for over 48 hours", len(stale))
			jr.hub.Publish(notify.ToRole(orgID, domain.RoleOrgAdmin), notify.Event{
				Kind:    domain.EventKindStalePending,
				Title:   "Pending Requests Need Attention",
				Message: msg,
			})

			admins, err := jr.store.UserRepository.ListByOrgAndRole(ctx, orgID, domain.RoleOrgAdmin)
			if err != nil {
				logger.Error("Failed to list admins for stale summary", "org_id", orgID, "error", err)
				continue
			}
			for _, admin := range admins {
				if err := jr.store.NotificationRepository.Create(ctx, &domain.Notification{
					UserID:     admin.ID,
					OrgID:      orgID,
					Title:      "Pending Requests Need Attention",
					Message:    msg,
					Attributes: map[string]string{"kind": domain.EventKindStalePending},
				}); err != nil {
					logger.Error("Failed to persist stale summary", "org_id", orgID, "error", err)
				}
			}
		}

		logger.Info("Notified stale pending requests", "orgs", len(byOrg), "requests", len(requests))
	})
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"printdesk-backend/internal/authz"
	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
	"printdesk-backend/internal/repository"
	"printdesk-backend/internal/storage"
)

type requestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	noteRepo    repository.NotificationRepository
	store       storage.StorageInterface
	hub         notify.Broadcaster
	validate    *validator.Validate
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	noteRepo repository.NotificationRepository,
	store storage.StorageInterface,
	hub notify.Broadcaster,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		noteRepo:    noteRepo,
		store:       store,
		hub:         hub,
		validate:    validator.New(),
	}
}

func (s *requestService) Create(ctx context.Context, actor *domain.User, input CreateRequestInput) (*domain.PrintRequest, error) {
	if !authz.Allowed(actor.Role, authz.OpCreateRequest) {
		return nil, domain.ErrForbidden
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if input.Format != domain.FormatSingleSided && input.Format != domain.FormatDoubleSided {
		return nil, domain.Validation("format", "must be SINGLE_SIDED or DOUBLE_SIDED")
	}
	switch input.DeliveryMethod {
	case domain.DeliveryPickup:
	case domain.DeliveryRoom:
		if input.DeliveryRoom == "" {
			return nil, domain.Validation("delivery_room", "required for room delivery")
		}
	default:
		return nil, domain.Validation("delivery_method", "must be PICKUP or ROOM_DELIVERY")
	}

	org, err := s.orgRepo.GetByID(ctx, actor.OrgID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	dueOn, err := resolveDueDate(input.DueDate, org.Timezone)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d/%s%s", actor.OrgID, uuid.New().String(), filepath.Ext(input.FileName))
	size, err := s.store.Save(ctx, key, input.ContentType, input.FileContents)
	if err != nil {
		// Partial writes are cleaned up here; the metadata record was
		// never created so there is nothing else to undo.
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			logger.Error("Failed to clean up partial artifact", "key", key, "error", cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	pr := &domain.PrintRequest{
		OrgID:       actor.OrgID,
		RequesterID: actor.ID,
		Title:       input.Title,
		File: domain.FileRef{
			StorageKey:   key,
			ContentType:  input.ContentType,
			SizeBytes:    size,
			OriginalName: input.FileName,
		},
		Copies:         input.Copies,
		Format:         input.Format,
		DeliveryMethod: input.DeliveryMethod,
		DeliveryRoom:   input.DeliveryRoom,
		DueOn:          dueOn,
		Status:         domain.StatusPending,
	}

	if err := s.requestRepo.Create(ctx, pr); err != nil {
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			logger.Error("Failed to clean up artifact after create failure", "key", key, "error", cleanupErr)
		}
		return nil, err
	}

	// Let admins know a request awaits approval. Best effort.
	s.notifyRole(ctx, pr, domain.RoleOrgAdmin, "submitted", "New Print Request",
		fmt.Sprintf("%s submitted %q for approval", actor.Name, pr.Title))

	return pr, nil
}

func (s *requestService) List(ctx context.Context, actor *domain.User, filter repository.RequestFilter) ([]domain.PrintRequest, int32, error) {
	if !authz.Allowed(actor.Role, authz.OpListRequests) {
		return nil, 0, domain.ErrForbidden
	}
	// Requesters only ever see their own requests.
	if authz.ScopedToOwn(actor.Role) {
		filter.RequesterID = actor.ID
	}
	return s.requestRepo.ListByOrg(ctx, actor.OrgID, filter)
}

func (s *requestService) Get(ctx context.Context, actor *domain.User, id int32) (*domain.PrintRequest, error) {
	if !authz.Allowed(actor.Role, authz.OpReadRequest) {
		return nil, domain.ErrForbidden
	}
	return s.getScoped(ctx, actor, id)
}

func (s *requestService) Transition(ctx context.Context, actor *domain.User, id int32, target domain.RequestStatus) (*domain.PrintRequest, error) {
	if !domain.ValidStatus(target) {
		return nil, domain.Validation("status", "unknown status value")
	}
	if !authz.Allowed(actor.Role, authz.OpTransitionRequest) {
		return nil, domain.ErrForbidden
	}

	pr, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	role, ok := domain.TransitionRole(pr.Status, target)
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	if actor.Role != role {
		return nil, domain.ErrForbidden
	}

	// Persist before emitting: a notification failure never rolls the
	// status change back.
	if err := s.requestRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	pr.Status = target
	pr.UpdatedOn = time.Now().UTC()

	s.emitTransitionEvents(ctx, pr, target)

	return pr, nil
}

func (s *requestService) Delete(ctx context.Context, actor *domain.User, id int32) error {
	if !authz.Allowed(actor.Role, authz.OpDeleteRequest) {
		return domain.ErrForbidden
	}

	pr, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return err
	}

	switch actor.Role {
	case domain.RoleRequester:
		if pr.RequesterID != actor.ID || !pr.Status.DeletableByRequester() {
			return domain.ErrForbidden
		}
	case domain.RoleOrgAdmin:
		// Admins act on non-pending items; a pending request still
		// belongs to its requester.
		if pr.Status == domain.StatusPending {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	// Artifact removal is best effort; the metadata record goes away
	// even when the store misbehaves.
	if err := s.store.Delete(ctx, pr.File.StorageKey); err != nil {
		logger.Error("Failed to delete stored artifact", "request_id", pr.ID, "key", pr.File.StorageKey, "error", err)
	}

	return s.requestRepo.Delete(ctx, id)
}

func (s *requestService) OpenFile(ctx context.Context, actor *domain.User, id int32) (io.ReadCloser, *domain.FileRef, error) {
	if !authz.Allowed(actor.Role, authz.OpDownloadFile) {
		return nil, nil, domain.ErrForbidden
	}
	pr, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, pr.File.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return rc, &pr.File, nil
}

func (s *requestService) FileURL(ctx context.Context, actor *domain.User, id int32, expiresIn time.Duration) (string, error) {
	if !authz.Allowed(actor.Role, authz.OpDownloadFile) {
		return "", domain.ErrForbidden
	}
	pr, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.DownloadURL(ctx, pr.File.StorageKey, expiresIn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return url, nil
}

// getScoped loads a request and applies the tenant rule: a request owned
// by another organization is reported exactly like a missing one.
// Requesters additionally only see their own requests.
func (s *requestService) getScoped(ctx context.Context, actor *domain.User, id int32) (*domain.PrintRequest, error) {
	pr, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if pr.OrgID != actor.OrgID {
		return nil, domain.ErrNotFound
	}
	if authz.ScopedToOwn(actor.Role) && pr.RequesterID != actor.ID {
		return nil, domain.ErrNotFound
	}
	return pr, nil
}

var transitionEvents = map[domain.RequestStatus]struct {
	kind  string
	title string
}{
	domain.StatusApproved:   {domain.EventKindApproved, "Request Approved"},
	domain.StatusRejected:   {domain.EventKindRejected, "Request Rejected"},
	domain.StatusInProgress: {domain.EventKindInProgress, "Printing Started"},
	domain.StatusCompleted:  {domain.EventKindCompleted, "Printing Completed"},
}

// emitTransitionEvents delivers exactly one event to the requester for
// the new status, and on approval additionally announces the job to
// every print operator in the tenant. All of it is best effort.
func (s *requestService) emitTransitionEvents(ctx context.Context, pr *domain.PrintRequest, target domain.RequestStatus) {
	ev, ok := transitionEvents[target]
	if !ok {
		return
	}

	msg := fmt.Sprintf("Your print request %q is now %s", pr.Title, target)
	s.hub.Publish(notify.ToUser(pr.OrgID, pr.RequesterID), notify.Event{
		Kind:      ev.kind,
		RequestID: pr.ID,
		Title:     ev.title,
		Message:   msg,
	})
	note := &domain.Notification{
		UserID:  pr.RequesterID,
		OrgID:   pr.OrgID,
		Title:   ev.title,
		Message: msg,
		Attributes: map[string]string{
			"kind":       ev.kind,
			"request_id": fmt.Sprintf("%d", pr.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to persist notification", "request_id", pr.ID, "error", err)
	}

	if target == domain.StatusApproved {
		s.notifyRole(ctx, pr, domain.RolePrintOperator, domain.EventKindNewJob, "New Print Job",
			fmt.Sprintf("Print request %q is ready for printing", pr.Title))
	}
}

// notifyRole fans one event out to every member of the role in the
// request's organization, plus an inbox entry per member.
func (s *requestService) notifyRole(ctx context.Context, pr *domain.PrintRequest, role domain.UserRole, kind, title, msg string) {
	s.hub.Publish(notify.ToRole(pr.OrgID, role), notify.Event{
		Kind:      kind,
		RequestID: pr.ID,
		Title:     title,
		Message:   msg,
	})

	members, err := s.userRepo.ListByOrgAndRole(ctx, pr.OrgID, role)
	if err != nil {
		logger.Error("Failed to list role members for notification", "org_id", pr.OrgID, "role", role, "error", err)
		return
	}
	for _, m := range members {
		note := &domain.Notification{
			UserID:  m.ID,
			OrgID:   pr.OrgID,
			Title:   title,
			Message: msg,
			Attributes: map[string]string{
				"kind":       kind,
				"request_id": fmt.Sprintf("%d", pr.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("Failed to persist notification", "user_id", m.ID, "error", err)
		}
	}
}

// resolveDueDate normalizes a client-submitted due datetime to UTC.
// Offset-qualified RFC3339 values are honored as submitted; a naive
// datetime is interpreted in the organization's timezone. This is the
// single ingestion rule for due dates.
func resolveDueDate(raw, tzName string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	loc := time.UTC
	if tzName != "" {
		if l, err := time.LoadLocation(tzName); err == nil {
			loc = l
		} else {
			logger.Warn("Unknown organization timezone, falling back to UTC", "timezone", tzName)
		}
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Validation("due_date", "unparsable datetime")
}

// mapRepoErr converts storage-layer lookup misses into the public
// not-found error.
func mapRepoErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// validationError converts validator output into the first field-level
// message; internal validator phrasing stays out of responses.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return domain.Validation(f.Field(), fmt.Sprintf("failed %s validation", f.Tag()))
	}
	return domain.Validation("", "invalid input")
}

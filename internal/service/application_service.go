package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"guildapply/internal/catalog"
	"guildapply/internal/featureflags"
	"guildapply/internal/models"
	"guildapply/internal/notifications"
	"guildapply/internal/observability"
	"guildapply/internal/repository"
	"guildapply/internal/validation"
)

const defaultNotifyTimeout = 10 * time.Second

// ApplicationService owns the application lifecycle: submit, review, delete
// and the read paths.
type ApplicationService struct {
	apps          repository.ApplicationRepository
	blacklist     repository.BlacklistRepository
	catalog       *catalog.Catalog
	flags         *featureflags.Manager
	notifier      notifications.Notifier
	notifyTimeout time.Duration
	now           func() time.Time

	inflight sync.WaitGroup
}

// ApplicationServiceConfig carries the collaborators for ApplicationService.
type ApplicationServiceConfig struct {
	Applications  repository.ApplicationRepository
	Blacklist     repository.BlacklistRepository
	Catalog       *catalog.Catalog
	Flags         *featureflags.Manager
	Notifier      notifications.Notifier
	NotifyTimeout time.Duration
	Now           func() time.Time
}

func NewApplicationService(cfg ApplicationServiceConfig) *ApplicationService {
	s := &ApplicationService{
		apps:          cfg.Applications,
		blacklist:     cfg.Blacklist,
		catalog:       cfg.Catalog,
		flags:         cfg.Flags,
		notifier:      cfg.Notifier,
		notifyTimeout: cfg.NotifyTimeout,
		now:           cfg.Now,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.notifier == nil {
		s.notifier = notifications.Nop{}
	}
	if s.notifyTimeout <= 0 {
		s.notifyTimeout = defaultNotifyTimeout
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// SubmitInput is the body of a new application.
type SubmitInput struct {
	ApplicationType string
	Answers         map[string]string
}

// Submit creates a pending application for actor.
//
// A blacklisted actor gets Forbidden/BLACKLISTED whose message is the fixed
// prefix "You are currently blacklisted from submitting applications. Reason: "
// followed by the stored reason verbatim ("No reason provided." when blank).
// The message therefore contains the reason rather than equalling it.
func (s *ApplicationService) Submit(ctx context.Context, actor models.Actor, in SubmitInput) (_ *models.Application, err error) {
	ctx, span := observability.StartOperation(ctx, "ApplicationService", "Submit")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()
	observability.TagActor(span, actor.ExternalID, actor.Tier().String())

	if err := Authorize(actor, models.TierAuthenticated); err != nil {
		return nil, err
	}
	in.ApplicationType = strings.TrimSpace(in.ApplicationType)
	if in.ApplicationType == "" || in.Answers == nil {
		return nil, models.NewValidationError("Missing application type or answers.")
	}
	strict := s.flags.Enabled(featureflags.StrictAnswers, actor.ExternalID)
	if err := s.catalog.Validate(in.ApplicationType, in.Answers, strict); err != nil {
		return nil, err
	}
	if err := validation.ValidateAnswerSizes(in.Answers); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	entry, err := s.blacklist.Get(ctx, actor.ExternalID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		reason := "No reason provided."
		if entry.Reason != nil && *entry.Reason != "" {
			reason = *entry.Reason
		}
		return nil, models.NewForbiddenError(models.ReasonBlacklisted,
			"You are currently blacklisted from submitting applications. Reason: "+reason)
	}

	pending, err := s.apps.HasPending(ctx, actor.ExternalID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.NewConflictError(models.ReasonDuplicatePending,
			"You already have a pending application. Please wait for it to be reviewed before submitting another.")
	}

	app := &models.Application{
		ApplicantExternalID: actor.ExternalID,
		ApplicantName:       actor.DisplayName,
		ApplicantAvatarURL:  actor.AvatarURL,
		ApplicationType:     in.ApplicationType,
		Answers:             in.Answers,
		Status:              models.ApplicationStatusPending,
		SubmittedAt:         s.now(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	observability.TagApplication(span, app.ID, app.ApplicationType)
	observability.ApplicationsSubmitted.WithLabelValues(app.ApplicationType).Inc()
	return app, nil
}

// ListMine returns every application the actor submitted, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, actor models.Actor) ([]models.Application, error) {
	if err := Authorize(actor, models.TierAuthenticated); err != nil {
		return nil, err
	}
	return s.apps.ListByApplicant(ctx, actor.ExternalID)
}

// ListPending returns pending applications oldest first. limit <= 0 returns all.
func (s *ApplicationService) ListPending(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Application, error) {
	if err := Authorize(actor, models.TierModerator); err != nil {
		return nil, err
	}
	return s.apps.ListPending(ctx, limit, offset)
}

// Get fetches one application in any status.
func (s *ApplicationService) Get(ctx context.Context, actor models.Actor, rawID string) (*models.Application, error) {
	if err := Authorize(actor, models.TierModerator); err != nil {
		return nil, err
	}
	id, err := models.ParseApplicationID(rawID)
	if err != nil {
		return nil, err
	}
	return s.apps.GetByID(ctx, id)
}

// ReviewInput is an admin's decision on a pending application.
type ReviewInput struct {
	Status string
	Reason *string
}

// Review moves a pending application to accepted or rejected and notifies
// in the background. Notification failures are logged only.
func (s *ApplicationService) Review(ctx context.Context, actor models.Actor, rawID string, in ReviewInput) (_ *models.Application, err error) {
	ctx, span := observability.StartOperation(ctx, "ApplicationService", "Review")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()
	observability.TagActor(span, actor.ExternalID, actor.Tier().String())

	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	id, err := models.ParseApplicationID(rawID)
	if err != nil {
		return nil, err
	}
	status, ok := models.ParseDecision(in.Status)
	if !ok {
		return nil, models.NewValidationError(`Invalid status provided. Must be "accepted" or "rejected".`)
	}
	reason := models.NormalizeReason(in.Reason)
	if err := validation.ValidateReason(reason); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	app, err := s.apps.Review(ctx, id, repository.ReviewDecision{
		Status:       status,
		ReviewerID:   actor.ExternalID,
		ReviewerName: actor.DisplayName,
		ReviewedAt:   s.now(),
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	observability.TagApplication(span, app.ID, app.ApplicationType)
	observability.ApplicationsReviewed.WithLabelValues(string(status)).Inc()

	s.notifyAsync(ctx, reviewEvent(app))
	return app, nil
}

// Delete removes an application in any state.
func (s *ApplicationService) Delete(ctx context.Context, actor models.Actor, rawID string) (_ *models.Application, err error) {
	ctx, span := observability.StartOperation(ctx, "ApplicationService", "Delete")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()
	observability.TagActor(span, actor.ExternalID, actor.Tier().String())

	if err := Authorize(actor, models.TierAdmin); err != nil {
		return nil, err
	}
	id, err := models.ParseApplicationID(rawID)
	if err != nil {
		return nil, err
	}
	return s.apps.Delete(ctx, id)
}

// Templates exposes the configured application types.
func (s *ApplicationService) Templates() map[string]catalog.Template {
	return s.catalog.All()
}

// Wait blocks until background notifications have finished.
func (s *ApplicationService) Wait() {
	s.inflight.Wait()
}

func reviewEvent(app *models.Application) notifications.Event {
	kind := notifications.EventRejected
	if app.Status == models.ApplicationStatusAccepted {
		kind = notifications.EventAccepted
	}
	event := notifications.Event{
		Kind:            kind,
		ApplicationID:   app.ID,
		ApplicationType: app.ApplicationType,
		ApplicantID:     app.ApplicantExternalID,
		ApplicantName:   app.ApplicantName,
		ReviewedAt:      app.ReviewedAt,
		Reason:          app.ReviewReason,
	}
	if app.ReviewerExternalID != nil {
		event.ReviewerID = *app.ReviewerExternalID
	}
	if app.ReviewerName != nil {
		event.ReviewerName = *app.ReviewerName
	}
	return event
}

func (s *ApplicationService) notifyAsync(ctx context.Context, event notifications.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				observability.GlobalLogger.ErrorContext(ctx, "panic in review notifier", slog.Any("panic", r))
			}
		}()

		op := observability.StartAsync(ctx, "review_notification",
			slog.String("application_id", event.ApplicationID),
			slog.String("kind", string(event.Kind)),
		)
		op.Done(s.notifier.Notify(ctx, event))
	}()
}

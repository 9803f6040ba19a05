package audits

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/internal/masters"
	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/pagination"
)

type sessionRepository interface {
	EnsureSheet(ctx context.Context) error
	FindByID(ctx context.Context, id string) (*models.AuditSession, error)
	FindAll(ctx context.Context) ([]models.AuditSession, error)
	FindActiveByLocation(ctx context.Context, locationID string) (*models.AuditSession, error)
	FindByStatus(ctx context.Context, statuses ...enums.AuditSessionStatus) ([]models.AuditSession, error)
	CreateInTx(ctx context.Context, tx *gorm.DB, session models.AuditSession) error
	Update(ctx context.Context, id string, apply func(*models.AuditSession)) (*models.AuditSession, error)
	UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.AuditSession)) (*models.AuditSession, error)
	NextIDInTx(ctx context.Context, tx *gorm.DB, day time.Time) (string, error)
}

type detailRepository interface {
	EnsureSheet(ctx context.Context) error
	FindByID(ctx context.Context, id string) (*models.AuditDetail, error)
	FindBySessionID(ctx context.Context, sessionID string) ([]models.AuditDetail, error)
	FindBySessionAndItem(ctx context.Context, sessionID, itemID string) (*models.AuditDetail, error)
	CreateManyInTx(ctx context.Context, tx *gorm.DB, details []models.AuditDetail) error
	Update(ctx context.Context, id string, apply func(*models.AuditDetail)) (*models.AuditDetail, error)
}

type itemRepository interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
	FindByIDs(ctx context.Context, itemIDs []string) ([]models.Item, error)
	FindByLocationAndStatus(ctx context.Context, locationID string, statuses ...enums.ItemStatus) ([]models.Item, error)
	Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error)
	UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.Item)) (*models.Item, error)
}

type locationRepository interface {
	FindByID(ctx context.Context, id string) (*models.StorageLocation, error)
	UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates stocktake sessions over one storage location:
// snapshotting target items, tracking per-item confirmation outcomes,
// and writing compensating status changes back to the items.
type Service interface {
	EnsureSheets(ctx context.Context) error
	StartSession(ctx context.Context, locationID, actor string) (*models.AuditSession, error)
	ConfirmItem(ctx context.Context, sessionID, itemID string, method enums.ConfirmationMethod, actor string) (*models.AuditDetail, error)
	ReportDiscrepancy(ctx context.Context, input DiscrepancyInput, actor string) (*models.AuditDetail, error)
	PauseSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error)
	ResumeSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error)
	CompleteSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error)
	Progress(ctx context.Context, sessionID string) (*ProgressReport, error)
	ActiveSessions(ctx context.Context) ([]models.AuditSession, error)
	History(ctx context.Context, params pagination.Params) (*pagination.Result[models.AuditSession], error)
}

type service struct {
	sessions  sessionRepository
	details   detailRepository
	items     itemRepository
	locations locationRepository
	tx        transactor
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the stocktake orchestrator.
func NewService(sessions sessionRepository, details detailRepository, items itemRepository, locations locationRepository, tx transactor, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if details == nil {
		return nil, fmt.Errorf("detail repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:  sessions,
		details:   details,
		items:     items,
		locations: locations,
		tx:        tx,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) EnsureSheets(ctx context.Context) error {
	if err := s.sessions.EnsureSheet(ctx); err != nil {
		return err
	}
	return s.details.EnsureSheet(ctx)
}

// StartSession snapshots every available item at the location into a new
// active session. Session row, detail rows and item status flips commit
// in one transaction so a failure leaves no half-started session behind.
func (s *service) StartSession(ctx context.Context, locationID, actor string) (*models.AuditSession, error) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "storage location not found").
			WithReason("LOCATION_NOT_FOUND").
			WithDetails(map[string]any{"storageLocationId": locationID})
	}
	// Only an active session blocks a new start; a paused one does not.
	active, err := s.sessions.FindActiveByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperrors.New(apperrors.CodeStateConflict, "a stocktake session is already active for this location").
			WithReason("SESSION_ALREADY_ACTIVE").
			WithDetails(map[string]any{"storageLocationId": locationID, "sessionId": active.ID})
	}

	now := s.now()
	var session models.AuditSession
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// The target set is fixed at start; items moved in later are
		// not picked up mid-session.
		targets, err := s.items.FindByLocationAndStatus(ctx, locationID, enums.ItemStatusAvailable)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return apperrors.New(apperrors.CodeStateConflict, "no items eligible for stocktake at this location").
				WithReason("NO_TARGET_PRODUCTS").
				WithDetails(map[string]any{"storageLocationId": locationID})
		}

		sessionID, err := s.sessions.NextIDInTx(ctx, tx, now)
		if err != nil {
			return err
		}
		session = models.AuditSession{
			ID:                sessionID,
			StorageLocationID: locationID,
			StartedAt:         &now,
			StartedBy:         actor,
			Status:            enums.AuditSessionStatusActive,
			TargetCount:       len(targets),
		}
		if err := s.sessions.CreateInTx(ctx, tx, session); err != nil {
			return err
		}

		details := make([]models.AuditDetail, 0, len(targets))
		for i, item := range targets {
			details = append(details, models.AuditDetail{
				ID:                 ids.DetailID(sessionID, i+1),
				SessionID:          sessionID,
				ItemID:             item.ID,
				ConfirmationStatus: enums.ConfirmationStatusUnconfirmed,
			})
		}
		if err := s.details.CreateManyInTx(ctx, tx, details); err != nil {
			return err
		}

		for _, item := range targets {
			if _, err := s.items.UpdateInTx(ctx, tx, item.ID, func(i *models.Item) {
				i.Status = enums.ItemStatusAuditing
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSessionID(ctx, session.ID), "stocktake session started")
	return &session, nil
}

// ConfirmItem marks one item as sighted. The session's confirmed count
// is recomputed from the detail rows, never incremented.
func (s *service) ConfirmItem(ctx context.Context, sessionID, itemID string, method enums.ConfirmationMethod, actor string) (*models.AuditDetail, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.AuditSessionStatusActive {
		return nil, apperrors.New(apperrors.CodeStateConflict, "session is not active").
			WithReason("SESSION_NOT_ACTIVE").
			WithDetails(map[string]any{"sessionId": sessionID, "status": session.Status})
	}
	detail, err := s.details.FindBySessionAndItem(ctx, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "item is not part of this session").
			WithReason("PRODUCT_NOT_IN_SESSION").
			WithDetails(map[string]any{"sessionId": sessionID, "itemId": itemID})
	}
	if detail.ConfirmationStatus != enums.ConfirmationStatusUnconfirmed {
		return nil, apperrors.New(apperrors.CodeStateConflict, "item was already processed in this session").
			WithReason("ALREADY_CONFIRMED").
			WithDetails(map[string]any{"detailId": detail.ID, "status": detail.ConfirmationStatus})
	}

	now := s.now()
	updated, err := s.details.Update(ctx, detail.ID, func(d *models.AuditDetail) {
		d.ConfirmationStatus = enums.ConfirmationStatusConfirmed
		d.ConfirmationMethod = method
		d.ConfirmedBy = actor
		d.ConfirmedAt = &now
	})
	if err != nil {
		return nil, err
	}
	if err := s.recomputeCounts(ctx, sessionID); err != nil {
		return nil, err
	}
	return updated, nil
}

// DiscrepancyInput records an audit outcome other than a clean
// confirmation. SessionID comes from the route, not the request body.
type DiscrepancyInput struct {
	SessionID   string                `json:"-"`
	DetailID    string                `json:"detailId" validate:"required"`
	Kind        enums.DiscrepancyKind `json:"discrepancyKind" validate:"required"`
	Reason      string                `json:"discrepancyReason" validate:"required"`
	ActionTaken string                `json:"actionTaken"`
}

// ReportDiscrepancy flags one detail line. A missing item is marked lost
// immediately, without waiting for session completion.
func (s *service) ReportDiscrepancy(ctx context.Context, input DiscrepancyInput, actor string) (*models.AuditDetail, error) {
	if !input.Kind.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid discrepancy kind").
			WithDetails(map[string]any{"discrepancyKind": input.Kind})
	}
	detail, err := s.details.FindByID(ctx, input.DetailID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "stocktake detail not found").
			WithReason("DETAIL_NOT_FOUND").
			WithDetails(map[string]any{"detailId": input.DetailID})
	}
	if detail.SessionID != input.SessionID {
		return nil, apperrors.New(apperrors.CodeNotFound, "detail does not belong to this session").
			WithReason("PRODUCT_NOT_IN_SESSION").
			WithDetails(map[string]any{"sessionId": input.SessionID, "detailId": detail.ID})
	}
	session, err := s.requireSession(ctx, detail.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == enums.AuditSessionStatusCompleted {
		return nil, sessionAlreadyCompleted(session.ID)
	}
	if detail.ConfirmationStatus != enums.ConfirmationStatusUnconfirmed {
		return nil, apperrors.New(apperrors.CodeStateConflict, "item was already processed in this session").
			WithReason("ALREADY_CONFIRMED").
			WithDetails(map[string]any{"detailId": detail.ID, "status": detail.ConfirmationStatus})
	}

	now := s.now()
	updated, err := s.details.Update(ctx, detail.ID, func(d *models.AuditDetail) {
		d.ConfirmationStatus = enums.ConfirmationStatusDiscrepant
		d.DiscrepancyKind = input.Kind
		d.DiscrepancyReason = input.Reason
		d.ActionTaken = input.ActionTaken
		d.ConfirmedBy = actor
		d.ConfirmedAt = &now
	})
	if err != nil {
		return nil, err
	}
	if err := s.recomputeCounts(ctx, detail.SessionID); err != nil {
		return nil, err
	}

	if input.Kind == enums.DiscrepancyKindMissing {
		if _, err := s.items.Update(ctx, detail.ItemID, func(i *models.Item) {
			i.Status = enums.ItemStatusLost
		}); err != nil {
			return nil, err
		}
		s.logg.Warn(s.logg.WithItemID(ctx, detail.ItemID), "item reported missing, marked lost")
	}
	return updated, nil
}

func (s *service) PauseSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.AuditSessionStatusActive {
		return nil, apperrors.New(apperrors.CodeStateConflict, "only an active session can be paused").
			WithReason("SESSION_NOT_ACTIVE").
			WithDetails(map[string]any{"sessionId": sessionID, "status": session.Status})
	}
	return s.sessions.Update(ctx, sessionID, func(sess *models.AuditSession) {
		sess.Status = enums.AuditSessionStatusPaused
	})
}

func (s *service) ResumeSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.AuditSessionStatusPaused {
		return nil, apperrors.New(apperrors.CodeStateConflict, "only a paused session can be resumed").
			WithReason("SESSION_NOT_PAUSED").
			WithDetails(map[string]any{"sessionId": sessionID, "status": session.Status})
	}
	return s.sessions.Update(ctx, sessionID, func(sess *models.AuditSession) {
		sess.Status = enums.AuditSessionStatusActive
	})
}

// CompleteSession closes the session once every line has an outcome.
// Confirmed items revert to available and get their last-audit date
// stamped, as does the location; the writes commit in one transaction.
// Discrepant items keep whatever status the discrepancy flow gave them;
// the reconcile sweep settles the non-missing ones afterwards.
func (s *service) CompleteSession(ctx context.Context, sessionID, actor string) (*models.AuditSession, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == enums.AuditSessionStatusCompleted {
		return nil, sessionAlreadyCompleted(sessionID)
	}
	details, err := s.details.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	unconfirmed := 0
	for _, detail := range details {
		if detail.ConfirmationStatus == enums.ConfirmationStatusUnconfirmed {
			unconfirmed++
		}
	}
	if unconfirmed > 0 {
		return nil, apperrors.New(apperrors.CodeStateConflict, "session still has unconfirmed items").
			WithReason("HAS_UNCONFIRMED_PRODUCTS").
			WithDetails(map[string]any{"sessionId": sessionID, "unconfirmedCount": unconfirmed})
	}

	now := s.now()
	confirmed, discrepant := countOutcomes(details)
	var completed *models.AuditSession
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		completed, err = s.sessions.UpdateInTx(ctx, tx, sessionID, func(sess *models.AuditSession) {
			sess.Status = enums.AuditSessionStatusCompleted
			sess.CompletedAt = &now
			sess.CompletedBy = actor
			sess.ConfirmedCount = confirmed
			sess.DiscrepancyCount = discrepant
		})
		if err != nil {
			return err
		}
		for _, detail := range details {
			if detail.ConfirmationStatus != enums.ConfirmationStatusConfirmed {
				continue
			}
			if _, err := s.items.UpdateInTx(ctx, tx, detail.ItemID, func(i *models.Item) {
				i.Status = enums.ItemStatusAvailable
				i.LastAuditDate = &now
			}); err != nil {
				return err
			}
		}
		_, err = s.locations.UpdateInTx(ctx, tx, session.StorageLocationID, func(l *models.StorageLocation) {
			masters.TouchLastAudit(l, now)
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "stocktake session completed")
	return completed, nil
}

// DetailWithItem is a detail line enriched with item display fields.
type DetailWithItem struct {
	models.AuditDetail
	ItemName    string `json:"itemName,omitempty"`
	WoodType    string `json:"woodType,omitempty"`
	RawPhotoURL string `json:"rawPhotoUrl,omitempty"`
}

// ProgressReport is the read model for a running or finished session.
type ProgressReport struct {
	SessionID           string                   `json:"sessionId"`
	StorageLocationName string                   `json:"storageLocationName,omitempty"`
	Status              enums.AuditSessionStatus `json:"status"`
	TargetCount         int                      `json:"targetCount"`
	ConfirmedCount      int                      `json:"confirmedCount"`
	DiscrepancyCount    int                      `json:"discrepancyCount"`
	ProgressPercent     int                      `json:"progressPercent"`
	UnconfirmedItems    []DetailWithItem         `json:"unconfirmedItems"`
	ConfirmedItems      []DetailWithItem         `json:"confirmedItems"`
	DiscrepancyItems    []DetailWithItem         `json:"discrepancyItems"`
}

func (s *service) Progress(ctx context.Context, sessionID string) (*ProgressReport, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	details, err := s.details.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]string, 0, len(details))
	for _, detail := range details {
		itemIDs = append(itemIDs, detail.ItemID)
	}
	relatedItems, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]models.Item, len(relatedItems))
	for _, item := range relatedItems {
		itemsByID[item.ID] = item
	}

	confirmed, discrepant := countOutcomes(details)
	report := &ProgressReport{
		SessionID:        sessionID,
		Status:           session.Status,
		TargetCount:      session.TargetCount,
		ConfirmedCount:   confirmed,
		DiscrepancyCount: discrepant,
		ProgressPercent:  progressPercent(confirmed, discrepant, session.TargetCount),
		UnconfirmedItems: []DetailWithItem{},
		ConfirmedItems:   []DetailWithItem{},
		DiscrepancyItems: []DetailWithItem{},
	}
	location, err := s.locations.FindByID(ctx, session.StorageLocationID)
	if err != nil {
		return nil, err
	}
	if location != nil {
		report.StorageLocationName = location.Name
	}

	for _, detail := range details {
		enriched := DetailWithItem{AuditDetail: detail}
		if item, ok := itemsByID[detail.ItemID]; ok {
			enriched.ItemName = item.Name
			enriched.WoodType = item.WoodType
			enriched.RawPhotoURL = item.RawPhotoURLs
		}
		switch detail.ConfirmationStatus {
		case enums.ConfirmationStatusConfirmed:
			report.ConfirmedItems = append(report.ConfirmedItems, enriched)
		case enums.ConfirmationStatusDiscrepant:
			report.DiscrepancyItems = append(report.DiscrepancyItems, enriched)
		default:
			report.UnconfirmedItems = append(report.UnconfirmedItems, enriched)
		}
	}
	return report, nil
}

// ActiveSessions returns sessions that are still open, active first.
func (s *service) ActiveSessions(ctx context.Context) ([]models.AuditSession, error) {
	return s.sessions.FindByStatus(ctx, enums.AuditSessionStatusActive, enums.AuditSessionStatusPaused)
}

func (s *service) History(ctx context.Context, params pagination.Params) (*pagination.Result[models.AuditSession], error) {
	all, err := s.sessions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := pagination.Paginate(all, params)
	return &result, nil
}

func (s *service) requireSession(ctx context.Context, sessionID string) (*models.AuditSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "stocktake session not found").
			WithReason("SESSION_NOT_FOUND").
			WithDetails(map[string]any{"sessionId": sessionID})
	}
	return session, nil
}

// recomputeCounts rewrites the session aggregates from the detail rows.
func (s *service) recomputeCounts(ctx context.Context, sessionID string) error {
	details, err := s.details.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	confirmed, discrepant := countOutcomes(details)
	_, err = s.sessions.Update(ctx, sessionID, func(sess *models.AuditSession) {
		sess.ConfirmedCount = confirmed
		sess.DiscrepancyCount = discrepant
	})
	return err
}

func countOutcomes(details []models.AuditDetail) (confirmed, discrepant int) {
	for _, detail := range details {
		switch detail.ConfirmationStatus {
		case enums.ConfirmationStatusConfirmed:
			confirmed++
		case enums.ConfirmationStatusDiscrepant:
			discrepant++
		}
	}
	return confirmed, discrepant
}

func progressPercent(confirmed, discrepant, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(confirmed+discrepant) / float64(target) * 100))
}

func sessionAlreadyCompleted(sessionID string) error {
	return apperrors.New(apperrors.CodeStateConflict, "session is already completed").
		WithReason("SESSION_ALREADY_COMPLETED").
		WithDetails(map[string]any{"sessionId": sessionID})
}

package models

import (
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// Sheet names for the stocktake tabs.
const (
	SheetAuditSessions = "audit_sessions"
	SheetAuditDetails  = "audit_details"
)

// AuditSession is one stocktake run over a single storage location.
// TargetCount is fixed at start; ConfirmedCount and DiscrepancyCount are
// recomputed from the detail rows after every change.
type AuditSession struct {
	ID                string                   `json:"sessionId"`
	StorageLocationID string                   `json:"storageLocationId"`
	StartedAt         *time.Time               `json:"startedAt,omitempty"`
	StartedBy         string                   `json:"startedBy"`
	CompletedAt       *time.Time               `json:"completedAt,omitempty"`
	CompletedBy       string                   `json:"completedBy,omitempty"`
	Status            enums.AuditSessionStatus `json:"status"`
	TargetCount       int                      `json:"targetCount"`
	ConfirmedCount    int                      `json:"confirmedCount"`
	DiscrepancyCount  int                      `json:"discrepancyCount"`
	Remarks           string                   `json:"remarks,omitempty"`
}

const (
	sessionColID = iota
	sessionColStorageLocationID
	sessionColStartedAt
	sessionColStartedBy
	sessionColCompletedAt
	sessionColCompletedBy
	sessionColStatus
	sessionColTargetCount
	sessionColConfirmedCount
	sessionColDiscrepancyCount
	sessionColRemarks

	sessionColCount
)

type AuditSessionCodec struct{}

func (AuditSessionCodec) Sheet() string {
	return SheetAuditSessions
}

func (AuditSessionCodec) Header() []string {
	return []string{
		"session_id", "storage_location_id", "started_at", "started_by",
		"completed_at", "completed_by", "status", "target_count",
		"confirmed_count", "discrepancy_count", "remarks",
	}
}

func (AuditSessionCodec) ID(s AuditSession) string {
	return s.ID
}

func (AuditSessionCodec) Encode(s AuditSession) []string {
	cells := make([]string, sessionColCount)
	cells[sessionColID] = s.ID
	cells[sessionColStorageLocationID] = s.StorageLocationID
	cells[sessionColStartedAt] = sheet.FormatTime(s.StartedAt)
	cells[sessionColStartedBy] = s.StartedBy
	cells[sessionColCompletedAt] = sheet.FormatTime(s.CompletedAt)
	cells[sessionColCompletedBy] = s.CompletedBy
	cells[sessionColStatus] = s.Status.String()
	cells[sessionColTargetCount] = sheet.FormatInt(s.TargetCount)
	cells[sessionColConfirmedCount] = sheet.FormatInt(s.ConfirmedCount)
	cells[sessionColDiscrepancyCount] = sheet.FormatInt(s.DiscrepancyCount)
	cells[sessionColRemarks] = s.Remarks
	return cells
}

func (AuditSessionCodec) Decode(cells []string) (AuditSession, error) {
	return AuditSession{
		ID:                sheet.Cell(cells, sessionColID),
		StorageLocationID: sheet.Cell(cells, sessionColStorageLocationID),
		StartedAt:         sheet.CellTime(cells, sessionColStartedAt),
		StartedBy:         sheet.Cell(cells, sessionColStartedBy),
		CompletedAt:       sheet.CellTime(cells, sessionColCompletedAt),
		CompletedBy:       sheet.Cell(cells, sessionColCompletedBy),
		Status:            enums.AuditSessionStatus(sheet.Cell(cells, sessionColStatus)),
		TargetCount:       sheet.CellInt(cells, sessionColTargetCount),
		ConfirmedCount:    sheet.CellInt(cells, sessionColConfirmedCount),
		DiscrepancyCount:  sheet.CellInt(cells, sessionColDiscrepancyCount),
		Remarks:           sheet.Cell(cells, sessionColRemarks),
	}, nil
}

// AuditDetail is one item's line within a stocktake session.
type AuditDetail struct {
	ID                 string                   `json:"detailId"`
	SessionID          string                   `json:"sessionId"`
	ItemID             string                   `json:"itemId"`
	ConfirmationStatus enums.ConfirmationStatus `json:"confirmationStatus"`
	ConfirmationMethod enums.ConfirmationMethod `json:"confirmationMethod,omitempty"`
	ConfirmedBy        string                   `json:"confirmedBy,omitempty"`
	ConfirmedAt        *time.Time               `json:"confirmedAt,omitempty"`
	DiscrepancyKind    enums.DiscrepancyKind    `json:"discrepancyKind,omitempty"`
	DiscrepancyReason  string                   `json:"discrepancyReason,omitempty"`
	ActionTaken        string                   `json:"actionTaken,omitempty"`
}

const (
	detailColID = iota
	detailColSessionID
	detailColItemID
	detailColConfirmationStatus
	detailColConfirmationMethod
	detailColConfirmedBy
	detailColConfirmedAt
	detailColDiscrepancyKind
	detailColDiscrepancyReason
	detailColActionTaken

	detailColCount
)

type AuditDetailCodec struct{}

func (AuditDetailCodec) Sheet() string {
	return SheetAuditDetails
}

func (AuditDetailCodec) Header() []string {
	return []string{
		"detail_id", "session_id", "item_id", "confirmation_status",
		"confirmation_method", "confirmed_by", "confirmed_at",
		"discrepancy_kind", "discrepancy_reason", "action_taken",
	}
}

func (AuditDetailCodec) ID(d AuditDetail) string {
	return d.ID
}

func (AuditDetailCodec) Encode(d AuditDetail) []string {
	cells := make([]string, detailColCount)
	cells[detailColID] = d.ID
	cells[detailColSessionID] = d.SessionID
	cells[detailColItemID] = d.ItemID
	cells[detailColConfirmationStatus] = d.ConfirmationStatus.String()
	cells[detailColConfirmationMethod] = d.ConfirmationMethod.String()
	cells[detailColConfirmedBy] = d.ConfirmedBy
	cells[detailColConfirmedAt] = sheet.FormatTime(d.ConfirmedAt)
	cells[detailColDiscrepancyKind] = d.DiscrepancyKind.String()
	cells[detailColDiscrepancyReason] = d.DiscrepancyReason
	cells[detailColActionTaken] = d.ActionTaken
	return cells
}

func (AuditDetailCodec) Decode(cells []string) (AuditDetail, error) {
	return AuditDetail{
		ID:                 sheet.Cell(cells, detailColID),
		SessionID:          sheet.Cell(cells, detailColSessionID),
		ItemID:             sheet.Cell(cells, detailColItemID),
		ConfirmationStatus: enums.ConfirmationStatus(sheet.Cell(cells, detailColConfirmationStatus)),
		ConfirmationMethod: enums.ConfirmationMethod(sheet.Cell(cells, detailColConfirmationMethod)),
		ConfirmedBy:        sheet.Cell(cells, detailColConfirmedBy),
		ConfirmedAt:        sheet.CellTime(cells, detailColConfirmedAt),
		DiscrepancyKind:    enums.DiscrepancyKind(sheet.Cell(cells, detailColDiscrepancyKind)),
		DiscrepancyReason:  sheet.Cell(cells, detailColDiscrepancyReason),
		ActionTaken:        sheet.Cell(cells, detailColActionTaken),
	}, nil
}

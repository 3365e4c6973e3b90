package models

import "time"

// MatchReportStatus tracks a match-report request through payment and
// delivery.
type MatchReportStatus string

const (
	MatchReportPendingPayment MatchReportStatus = "PENDING_PAYMENT"
	MatchReportPaid           MatchReportStatus = "PAID"
	MatchReportInProgress     MatchReportStatus = "IN_PROGRESS"
	MatchReportDelivered      MatchReportStatus = "DELIVERED"
)

// ValidMatchReportStatus reports whether the value is a known status.
func ValidMatchReportStatus(s MatchReportStatus) bool {
	switch s {
	case MatchReportPendingPayment, MatchReportPaid, MatchReportInProgress, MatchReportDelivered:
		return true
	}
	return false
}

// MatchReportRequest is a paid application-consulting intake.
type MatchReportRequest struct {
	ID                string            `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	TargetDegree      DegreeType        `db:"target_degree" json:"target_degree"`
	SubjectInterests  string            `db:"subject_interests" json:"subject_interests"`
	BudgetPerSemester int               `db:"budget_per_semester" json:"budget_per_semester"`
	Notes             string            `db:"notes" json:"notes,omitempty"`
	DocumentPath      string            `db:"document_path" json:"-"`
	DocumentName      string            `db:"document_name" json:"document_name,omitempty"`
	SummaryPath       string            `db:"summary_path" json:"-"`
	Status            MatchReportStatus `db:"status" json:"status"`
	CheckoutSessionID string            `db:"checkout_session_id" json:"-"`
	CheckoutURL       string            `db:"checkout_url" json:"checkout_url,omitempty"`
	PaidAt            *time.Time        `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// MatchReportInput is the intake form payload. The transcript document
// arrives alongside as a multipart file.
type MatchReportInput struct {
	TargetDegree      string `json:"target_degree" validate:"required,oneof=Preparatory Bachelor Master"`
	SubjectInterests  string `json:"subject_interests" validate:"required,min=3"`
	BudgetPerSemester int    `json:"budget_per_semester" validate:"gte=0"`
	Notes             string `json:"notes"`
}

// MatchReportFilter captures admin listing criteria.
type MatchReportFilter struct {
	Status   MatchReportStatus
	UserID   string
	Page     int
	PageSize int
}

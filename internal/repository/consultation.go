package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medlink/portal-server-go/internal/model"
)

// Every query takes account_id as a mandatory predicate. A record belonging
// to another organization is indistinguishable from a missing one.
type ConsultationRequestRepository interface {
	Create(ctx context.Context, params model.CreateConsultationRequestParams) (*model.ConsultationRequest, error)
	FindByIDForAccount(ctx context.Context, id, accountID string) (*model.ConsultationRequest, error)
	ListByAccount(ctx context.Context, accountID string, status *model.ConsultationStatus) ([]model.ConsultationRequest, error)
	UpdateStatusFromPending(ctx context.Context, id, accountID string, status model.ConsultationStatus) (*model.ConsultationRequest, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ConsultationRequestRepository
}

type consultationRequestRepo struct {
	db sqlxDB
}

func NewConsultationRequestRepository(db *sqlx.DB) ConsultationRequestRepository {
	return &consultationRequestRepo{db: db}
}

func (r *consultationRequestRepo) WithTx(tx *sqlx.Tx) ConsultationRequestRepository {
	return &consultationRequestRepo{db: tx}
}

func (r *consultationRequestRepo) Create(ctx context.Context, params model.CreateConsultationRequestParams) (*model.ConsultationRequest, error) {
	var req model.ConsultationRequest
	err := r.db.GetContext(ctx, &req, `
		INSERT INTO consultation_requests (account_id, patient_name, patient_email, consultant, scheduled_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.AccountID, params.PatientName, params.PatientEmail, params.Consultant, params.ScheduledAt, params.Notes)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *consultationRequestRepo) FindByIDForAccount(ctx context.Context, id, accountID string) (*model.ConsultationRequest, error) {
	var req model.ConsultationRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT * FROM consultation_requests
		WHERE id = $1 AND account_id = $2
	`, id, accountID)
	return HandleNotFound(&req, err)
}

func (r *consultationRequestRepo) ListByAccount(ctx context.Context, accountID string, status *model.ConsultationStatus) ([]model.ConsultationRequest, error) {
	var reqs []model.ConsultationRequest
	if status != nil {
		err := r.db.SelectContext(ctx, &reqs, `
			SELECT * FROM consultation_requests
			WHERE account_id = $1 AND status = $2
			ORDER BY created_at DESC
		`, accountID, *status)
		return reqs, err
	}
	err := r.db.SelectContext(ctx, &reqs, `
		SELECT * FROM consultation_requests
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	return reqs, err
}

// UpdateStatusFromPending only moves a request out of 'pending'. A request
// that is missing, owned by another account, or already decided yields nil.
func (r *consultationRequestRepo) UpdateStatusFromPending(ctx context.Context, id, accountID string, status model.ConsultationStatus) (*model.ConsultationRequest, error) {
	var req model.ConsultationRequest
	err := r.db.GetContext(ctx, &req, `
		UPDATE consultation_requests SET
			status = $3,
			updated_at = $4
		WHERE id = $1 AND account_id = $2 AND status = 'pending'
		RETURNING *
	`, id, accountID, status, time.Now())
	return HandleNotFound(&req, err)
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medlink/portal-server-go/internal/model"
)

type AppointmentRepository interface {
	Create(ctx context.Context, params model.CreateAppointmentParams) (*model.Appointment, error)
	FindByConsultationRequest(ctx context.Context, consultationRequestID string) (*model.Appointment, error)
	FindByIDForAccount(ctx context.Context, id, accountID string) (*model.Appointment, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.Appointment, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AppointmentRepository
}

type appointmentRepo struct {
	db sqlxDB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

func (r *appointmentRepo) WithTx(tx *sqlx.Tx) AppointmentRepository {
	return &appointmentRepo{db: tx}
}

func (r *appointmentRepo) Create(ctx context.Context, params model.CreateAppointmentParams) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, `
		INSERT INTO appointments (account_id, consultation_request_id, patient_name, patient_email, consultant, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.AccountID, params.ConsultationRequestID, params.PatientName, params.PatientEmail, params.Consultant, params.ScheduledAt)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepo) FindByConsultationRequest(ctx context.Context, consultationRequestID string) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, `
		SELECT * FROM appointments WHERE consultation_request_id = $1
	`, consultationRequestID)
	return HandleNotFound(&appt, err)
}

func (r *appointmentRepo) FindByIDForAccount(ctx context.Context, id, accountID string) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, `
		SELECT * FROM appointments
		WHERE id = $1 AND account_id = $2
	`, id, accountID)
	return HandleNotFound(&appt, err)
}

func (r *appointmentRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.SelectContext(ctx, &appts, `
		SELECT * FROM appointments
		WHERE account_id = $1
		ORDER BY scheduled_at ASC
	`, accountID)
	return appts, err
}

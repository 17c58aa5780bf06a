package service

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/database"
	apperrors "github.com/medlink/portal-server-go/internal/errors"
	"github.com/medlink/portal-server-go/internal/model"
	"github.com/medlink/portal-server-go/internal/repository"
)

// ConsultationService is tenant-scoped: the account id always comes from the
// authenticated session, never from the request payload, and every lookup
// carries it as a predicate. A record outside the caller's scope is reported
// as not found.
type ConsultationService struct {
	db          database.TxRunner
	requestRepo repository.ConsultationRequestRepository
	apptRepo    repository.AppointmentRepository
}

func NewConsultationService(
	db database.TxRunner,
	requestRepo repository.ConsultationRequestRepository,
	apptRepo repository.AppointmentRepository,
) *ConsultationService {
	return &ConsultationService{
		db:          db,
		requestRepo: requestRepo,
		apptRepo:    apptRepo,
	}
}

type CreateConsultationParams struct {
	PatientName  string    `json:"patientName"`
	PatientEmail string    `json:"patientEmail"`
	Consultant   string    `json:"consultant"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Notes        string    `json:"notes"`
}

func (s *ConsultationService) Create(ctx context.Context, accountID string, params CreateConsultationParams) (*model.ConsultationRequest, error) {
	if strings.TrimSpace(params.PatientName) == "" {
		return nil, apperrors.MissingRequired("Patient name")
	}
	if strings.TrimSpace(params.Consultant) == "" {
		return nil, apperrors.MissingRequired("Consultant")
	}
	if params.ScheduledAt.IsZero() {
		return nil, apperrors.MissingRequired("Scheduled time")
	}

	req, err := s.requestRepo.Create(ctx, model.CreateConsultationRequestParams{
		AccountID:    accountID,
		PatientName:  strings.TrimSpace(params.PatientName),
		PatientEmail: strings.TrimSpace(params.PatientEmail),
		Consultant:   strings.TrimSpace(params.Consultant),
		ScheduledAt:  params.ScheduledAt,
		Notes:        params.Notes,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return req, nil
}

func (s *ConsultationService) List(ctx context.Context, accountID string, status *model.ConsultationStatus) ([]model.ConsultationRequest, error) {
	reqs, err := s.requestRepo.ListByAccount(ctx, accountID, status)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return reqs, nil
}

func (s *ConsultationService) Get(ctx context.Context, accountID, id string) (*model.ConsultationRequest, error) {
	req, err := s.requestRepo.FindByIDForAccount(ctx, id, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if req == nil {
		return nil, apperrors.NotFound("Consultation request")
	}
	return req, nil
}

// Approve moves a pending request to accepted and creates its appointment,
// copying date/time/patient/consultant. Approving an already-accepted
// request returns the existing appointment instead of creating a second
// one; the conditional transition plus the unique index on
// consultation_request_id make the double-submission race safe.
func (s *ConsultationService) Approve(ctx context.Context, accountID, requestID string) (*model.ConsultationRequest, *model.Appointment, error) {
	var (
		request     *model.ConsultationRequest
		appointment *model.Appointment
	)

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		requests := s.requestRepo.WithTx(tx)
		appointments := s.apptRepo.WithTx(tx)

		existing, err := requests.FindByIDForAccount(ctx, requestID, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		if existing == nil {
			return apperrors.NotFound("Consultation request")
		}

		if existing.Status == model.ConsultationStatusAccepted {
			appt, err := appointments.FindByConsultationRequest(ctx, requestID)
			if err != nil {
				return apperrors.Database(err)
			}
			request = existing
			appointment = appt
			return nil
		}
		if existing.Status == model.ConsultationStatusRejected {
			return apperrors.Conflict("Consultation request already rejected")
		}

		updated, err := requests.UpdateStatusFromPending(ctx, requestID, accountID, model.ConsultationStatusAccepted)
		if err != nil {
			return apperrors.Database(err)
		}
		if updated == nil {
			// Lost a race with a concurrent decision.
			return apperrors.Conflict("Consultation request already decided")
		}

		appt, err := appointments.Create(ctx, model.CreateAppointmentParams{
			AccountID:             updated.AccountID,
			ConsultationRequestID: updated.ID,
			PatientName:           updated.PatientName,
			PatientEmail:          updated.PatientEmail,
			Consultant:            updated.Consultant,
			ScheduledAt:           updated.ScheduledAt,
		})
		if err != nil {
			return apperrors.Database(err)
		}

		request = updated
		appointment = appt
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if appointment != nil {
		log.Info().
			Str("accountId", accountID).
			Str("consultationRequestId", requestID).
			Str("appointmentId", appointment.ID).
			Msg("consultation request approved")
	}

	return request, appointment, nil
}

// Reject mirrors Approve's conditional transition without side effects.
func (s *ConsultationService) Reject(ctx context.Context, accountID, requestID string) (*model.ConsultationRequest, error) {
	existing, err := s.requestRepo.FindByIDForAccount(ctx, requestID, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("Consultation request")
	}
	if existing.Status == model.ConsultationStatusRejected {
		return existing, nil
	}
	if existing.Status == model.ConsultationStatusAccepted {
		return nil, apperrors.Conflict("Consultation request already accepted")
	}

	updated, err := s.requestRepo.UpdateStatusFromPending(ctx, requestID, accountID, model.ConsultationStatusRejected)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if updated == nil {
		return nil, apperrors.Conflict("Consultation request already decided")
	}
	return updated, nil
}

func (s *ConsultationService) ListAppointments(ctx context.Context, accountID string) ([]model.Appointment, error) {
	appts, err := s.apptRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return appts, nil
}

package model

import (
	"time"
)

type ConsultationRequest struct {
	ID           string             `db:"id" json:"id"`
	AccountID    string             `db:"account_id" json:"accountId"`
	PatientName  string             `db:"patient_name" json:"patientName"`
	PatientEmail string             `db:"patient_email" json:"patientEmail,omitempty"`
	Consultant   string             `db:"consultant" json:"consultant"`
	ScheduledAt  time.Time          `db:"scheduled_at" json:"scheduledAt"`
	Notes        string             `db:"notes" json:"notes,omitempty"`
	Status       ConsultationStatus `db:"status" json:"status"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}

type CreateConsultationRequestParams struct {
	AccountID    string
	PatientName  string
	PatientEmail string
	Consultant   string
	ScheduledAt  time.Time
	Notes        string
}

// Appointment is created exactly once per accepted consultation request,
// copying the request's date/time/patient/consultant.
type Appointment struct {
	ID                    string    `db:"id" json:"id"`
	AccountID             string    `db:"account_id" json:"accountId"`
	ConsultationRequestID string    `db:"consultation_request_id" json:"consultationRequestId"`
	PatientName           string    `db:"patient_name" json:"patientName"`
	PatientEmail          string    `db:"patient_email" json:"patientEmail,omitempty"`
	Consultant            string    `db:"consultant" json:"consultant"`
	ScheduledAt           time.Time `db:"scheduled_at" json:"scheduledAt"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
}

type CreateAppointmentParams struct {
	AccountID             string
	ConsultationRequestID string
	PatientName           string
	PatientEmail          string
	Consultant            string
	ScheduledAt           time.Time
}

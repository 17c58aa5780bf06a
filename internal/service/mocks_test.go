package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/medlink/portal-server-go/internal/database"
	"github.com/medlink/portal-server-go/internal/model"
	"github.com/medlink/portal-server-go/internal/repository"
)

// passthroughTxRunner invokes the function directly. The mock repositories
// ignore the transaction handle, so nil is fine.
type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(_ context.Context, fn database.TxFunc) error {
	return fn(nil)
}

var _ database.TxRunner = passthroughTxRunner{}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepo) FindByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.Account, error) {
	args := m.Called(ctx, email, role)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, params)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockAccountRepo) WithTx(_ *sqlx.Tx) repository.AccountRepository {
	return m
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, tokenHash)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) WithTx(_ *sqlx.Tx) repository.SessionRepository {
	return m
}

type mockResetTokenRepo struct {
	mock.Mock
}

func (m *mockResetTokenRepo) Create(ctx context.Context, params model.CreateResetTokenParams) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, params)
	token, _ := args.Get(0).(*model.PasswordResetToken)
	return token, args.Error(1)
}

func (m *mockResetTokenRepo) Consume(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*model.PasswordResetToken)
	return token, args.Error(1)
}

func (m *mockResetTokenRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockResetTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockResetTokenRepo) WithTx(_ *sqlx.Tx) repository.ResetTokenRepository {
	return m
}

type mockConsultationRepo struct {
	mock.Mock
}

func (m *mockConsultationRepo) Create(ctx context.Context, params model.CreateConsultationRequestParams) (*model.ConsultationRequest, error) {
	args := m.Called(ctx, params)
	req, _ := args.Get(0).(*model.ConsultationRequest)
	return req, args.Error(1)
}

func (m *mockConsultationRepo) FindByIDForAccount(ctx context.Context, id, accountID string) (*model.ConsultationRequest, error) {
	args := m.Called(ctx, id, accountID)
	req, _ := args.Get(0).(*model.ConsultationRequest)
	return req, args.Error(1)
}

func (m *mockConsultationRepo) ListByAccount(ctx context.Context, accountID string, status *model.ConsultationStatus) ([]model.ConsultationRequest, error) {
	args := m.Called(ctx, accountID, status)
	reqs, _ := args.Get(0).([]model.ConsultationRequest)
	return reqs, args.Error(1)
}

func (m *mockConsultationRepo) UpdateStatusFromPending(ctx context.Context, id, accountID string, status model.ConsultationStatus) (*model.ConsultationRequest, error) {
	args := m.Called(ctx, id, accountID, status)
	req, _ := args.Get(0).(*model.ConsultationRequest)
	return req, args.Error(1)
}

func (m *mockConsultationRepo) WithTx(_ *sqlx.Tx) repository.ConsultationRequestRepository {
	return m
}

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, params model.CreateAppointmentParams) (*model.Appointment, error) {
	args := m.Called(ctx, params)
	appt, _ := args.Get(0).(*model.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentRepo) FindByConsultationRequest(ctx context.Context, consultationRequestID string) (*model.Appointment, error) {
	args := m.Called(ctx, consultationRequestID)
	appt, _ := args.Get(0).(*model.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentRepo) FindByIDForAccount(ctx context.Context, id, accountID string) (*model.Appointment, error) {
	args := m.Called(ctx, id, accountID)
	appt, _ := args.Get(0).(*model.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Appointment, error) {
	args := m.Called(ctx, accountID)
	appts, _ := args.Get(0).([]model.Appointment)
	return appts, args.Error(1)
}

func (m *mockAppointmentRepo) WithTx(_ *sqlx.Tx) repository.AppointmentRepository {
	return m
}

type recordingMailer struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return m.err
}

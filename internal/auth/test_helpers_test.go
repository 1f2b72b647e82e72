package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

var errNotImplemented = errors.New("not implemented")

type fakeQueries struct {
	mu               sync.Mutex
	guardiansByEmail map[string]dbgen.Guardian
	guardiansByID    map[string]dbgen.Guardian
	sessionsByToken  map[string]dbgen.Session
	sessionsByID     map[string]dbgen.Session
	resetsByToken    map[string]dbgen.PasswordReset
	resetsByID       map[string]dbgen.PasswordReset
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		guardiansByEmail: make(map[string]dbgen.Guardian),
		guardiansByID:    make(map[string]dbgen.Guardian),
		sessionsByToken:  make(map[string]dbgen.Session),
		sessionsByID:     make(map[string]dbgen.Session),
		resetsByToken:    make(map[string]dbgen.PasswordReset),
		resetsByID:       make(map[string]dbgen.PasswordReset),
	}
}

func (f *fakeQueries) CreateGuardian(ctx context.Context, arg dbgen.CreateGuardianParams) (dbgen.Guardian, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(arg.Email)
	if _, exists := f.guardiansByEmail[key]; exists {
		return dbgen.Guardian{}, &pgconn.PgError{Code: "23505"}
	}
	id := uuid.New()
	pgID, _ := pgUUIDFromString(id.String())
	now := time.Now()
	guardian := dbgen.Guardian{
		ID:           pgID,
		Name:         arg.Name,
		Email:        arg.Email,
		Phone:        arg.Phone,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    pgTimestamp(now),
		UpdatedAt:    pgTimestamp(now),
	}
	f.guardiansByEmail[key] = guardian
	f.guardiansByID[id.String()] = guardian
	return guardian, nil
}

func (f *fakeQueries) GetGuardianByEmail(ctx context.Context, email string) (dbgen.Guardian, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	guardian, ok := f.guardiansByEmail[strings.ToLower(email)]
	if !ok {
		return dbgen.Guardian{}, fmt.Errorf("guardian not found")
	}
	return guardian, nil
}

func (f *fakeQueries) GetGuardianByID(ctx context.Context, id pgtype.UUID) (dbgen.Guardian, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	guardian, ok := f.guardiansByID[uuidString(id)]
	if !ok {
		return dbgen.Guardian{}, fmt.Errorf("guardian not found")
	}
	return guardian, nil
}

func (f *fakeQueries) UpdateGuardianPassword(ctx context.Context, arg dbgen.UpdateGuardianPasswordParams) (dbgen.Guardian, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuidString(arg.ID)
	guardian, ok := f.guardiansByID[key]
	if !ok {
		return dbgen.Guardian{}, fmt.Errorf("guardian not found")
	}
	guardian.PasswordHash = arg.PasswordHash
	guardian.UpdatedAt = pgTimestamp(time.Now())
	f.guardiansByID[key] = guardian
	f.guardiansByEmail[strings.ToLower(guardian.Email)] = guardian
	return guardian, nil
}

func (f *fakeQueries) CreateSession(ctx context.Context, arg dbgen.CreateSessionParams) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	pgID, _ := pgUUIDFromString(id.String())
	session := dbgen.Session{
		ID:         pgID,
		GuardianID: arg.GuardianID,
		TokenHash:  arg.TokenHash,
		UserAgent:  arg.UserAgent,
		Ip:         arg.Ip,
		ExpiresAt:  arg.ExpiresAt,
		CreatedAt:  pgTimestamp(time.Now()),
	}
	f.sessionsByToken[arg.TokenHash] = session
	f.sessionsByID[id.String()] = session
	return session, nil
}

func (f *fakeQueries) GetSessionByToken(ctx context.Context, tokenHash string) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessionsByToken[tokenHash]
	if !ok {
		return dbgen.Session{}, fmt.Errorf("session not found")
	}
	return session, nil
}

func (f *fakeQueries) UpdateSessionToken(ctx context.Context, arg dbgen.UpdateSessionTokenParams) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuidString(arg.ID)
	session, ok := f.sessionsByID[key]
	if !ok {
		return dbgen.Session{}, fmt.Errorf("session not found")
	}
	delete(f.sessionsByToken, session.TokenHash)
	session.TokenHash = arg.TokenHash
	session.ExpiresAt = arg.ExpiresAt
	f.sessionsByID[key] = session
	f.sessionsByToken[arg.TokenHash] = session
	return session, nil
}

func (f *fakeQueries) DeleteSessionByToken(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessionsByToken[tokenHash]
	if !ok {
		return nil
	}
	delete(f.sessionsByToken, tokenHash)
	delete(f.sessionsByID, uuidString(session.ID))
	return nil
}

func (f *fakeQueries) DeleteSessionsByGuardian(ctx context.Context, guardianID pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuidString(guardianID)
	for token, session := range f.sessionsByToken {
		if uuidString(session.GuardianID) == key {
			delete(f.sessionsByToken, token)
			delete(f.sessionsByID, uuidString(session.ID))
		}
	}
	return nil
}

func (f *fakeQueries) CreatePasswordReset(ctx context.Context, arg dbgen.CreatePasswordResetParams) (dbgen.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	pgID, _ := pgUUIDFromString(id.String())
	reset := dbgen.PasswordReset{
		ID:         pgID,
		GuardianID: arg.GuardianID,
		Token:      arg.Token,
		ExpiresAt:  arg.ExpiresAt,
		CreatedAt:  pgTimestamp(time.Now()),
	}
	f.resetsByToken[arg.Token] = reset
	f.resetsByID[id.String()] = reset
	return reset, nil
}

func (f *fakeQueries) GetPasswordResetByToken(ctx context.Context, token string) (dbgen.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset, ok := f.resetsByToken[token]
	if !ok {
		return dbgen.PasswordReset{}, fmt.Errorf("reset not found")
	}
	return reset, nil
}

func (f *fakeQueries) UsePasswordReset(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset, ok := f.resetsByToken[token]
	if !ok {
		return fmt.Errorf("reset not found")
	}
	reset.UsedAt = pgTimestamp(time.Now())
	f.resetsByToken[token] = reset
	f.resetsByID[uuidString(reset.ID)] = reset
	return nil
}

func (f *fakeQueries) DeletePasswordResetsByGuardian(ctx context.Context, guardianID pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuidString(guardianID)
	for token, reset := range f.resetsByToken {
		if uuidString(reset.GuardianID) == key {
			delete(f.resetsByToken, token)
			delete(f.resetsByID, uuidString(reset.ID))
		}
	}
	return nil
}

func (f *fakeQueries) CountOverdueInvoicesByGuardian(context.Context, dbgen.CountOverdueInvoicesByGuardianParams) (int64, error) {
	return 0, errNotImplemented
}

func (f *fakeQueries) CreateCart(context.Context, dbgen.CreateCartParams) (dbgen.Cart, error) {
	return dbgen.Cart{}, errNotImplemented
}

func (f *fakeQueries) CreateCartItem(context.Context, dbgen.CreateCartItemParams) (dbgen.CartItem, error) {
	return dbgen.CartItem{}, errNotImplemented
}

func (f *fakeQueries) CreateInvoice(context.Context, dbgen.CreateInvoiceParams) (dbgen.Invoice, error) {
	return dbgen.Invoice{}, errNotImplemented
}

func (f *fakeQueries) CreatePayment(context.Context, dbgen.CreatePaymentParams) (dbgen.Payment, error) {
	return dbgen.Payment{}, errNotImplemented
}

func (f *fakeQueries) CreatePaymentItem(context.Context, dbgen.CreatePaymentItemParams) error {
	return errNotImplemented
}

func (f *fakeQueries) CreateReceipt(context.Context, dbgen.CreateReceiptParams) (dbgen.Receipt, error) {
	return dbgen.Receipt{}, errNotImplemented
}

func (f *fakeQueries) CreateStudent(context.Context, dbgen.CreateStudentParams) (dbgen.Student, error) {
	return dbgen.Student{}, errNotImplemented
}

func (f *fakeQueries) CreateWebhookDelivery(context.Context, dbgen.CreateWebhookDeliveryParams) (dbgen.WebhookDelivery, error) {
	return dbgen.WebhookDelivery{}, errNotImplemented
}

func (f *fakeQueries) CreateWebhookEndpoint(context.Context, dbgen.CreateWebhookEndpointParams) (dbgen.WebhookEndpoint, error) {
	return dbgen.WebhookEndpoint{}, errNotImplemented
}

func (f *fakeQueries) DeleteCartItem(context.Context, dbgen.DeleteCartItemParams) (int64, error) {
	return 0, errNotImplemented
}

func (f *fakeQueries) DeleteCartItems(context.Context, pgtype.UUID) error {
	return errNotImplemented
}

func (f *fakeQueries) GetActiveCartByGuardian(context.Context, pgtype.UUID) (dbgen.Cart, error) {
	return dbgen.Cart{}, errNotImplemented
}

func (f *fakeQueries) GetCartByID(context.Context, pgtype.UUID) (dbgen.Cart, error) {
	return dbgen.Cart{}, errNotImplemented
}

func (f *fakeQueries) GetDomainEvent(context.Context, pgtype.UUID) (dbgen.DomainEvent, error) {
	return dbgen.DomainEvent{}, errNotImplemented
}

func (f *fakeQueries) GetInvoiceByID(context.Context, pgtype.UUID) (dbgen.Invoice, error) {
	return dbgen.Invoice{}, errNotImplemented
}

func (f *fakeQueries) GetPaymentByID(context.Context, pgtype.UUID) (dbgen.Payment, error) {
	return dbgen.Payment{}, errNotImplemented
}

func (f *fakeQueries) GetPaymentByProviderRef(context.Context, pgtype.Text) (dbgen.Payment, error) {
	return dbgen.Payment{}, errNotImplemented
}

func (f *fakeQueries) GetPaymentMethodByCode(context.Context, string) (dbgen.PaymentMethod, error) {
	return dbgen.PaymentMethod{}, errNotImplemented
}

func (f *fakeQueries) GetReceiptByID(context.Context, pgtype.UUID) (dbgen.Receipt, error) {
	return dbgen.Receipt{}, errNotImplemented
}

func (f *fakeQueries) GetReceiptByPayment(context.Context, pgtype.UUID) (dbgen.Receipt, error) {
	return dbgen.Receipt{}, errNotImplemented
}

func (f *fakeQueries) GetStudentByID(context.Context, pgtype.UUID) (dbgen.Student, error) {
	return dbgen.Student{}, errNotImplemented
}

func (f *fakeQueries) GetWebhookDelivery(context.Context, pgtype.UUID) (dbgen.WebhookDelivery, error) {
	return dbgen.WebhookDelivery{}, errNotImplemented
}

func (f *fakeQueries) GetWebhookEndpoint(context.Context, pgtype.UUID) (dbgen.WebhookEndpoint, error) {
	return dbgen.WebhookEndpoint{}, errNotImplemented
}

func (f *fakeQueries) InsertAuditLog(context.Context, dbgen.InsertAuditLogParams) (dbgen.AuditLog, error) {
	return dbgen.AuditLog{}, nil
}

func (f *fakeQueries) InsertCreditEntry(context.Context, dbgen.InsertCreditEntryParams) (dbgen.CreditEntry, error) {
	return dbgen.CreditEntry{}, errNotImplemented
}

func (f *fakeQueries) InsertDomainEvent(context.Context, dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error) {
	return dbgen.DomainEvent{}, errNotImplemented
}

func (f *fakeQueries) ListAuditLogsByGuardian(context.Context, dbgen.ListAuditLogsByGuardianParams) ([]dbgen.AuditLog, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListCartItems(context.Context, pgtype.UUID) ([]dbgen.CartItem, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListCreditEntriesByGuardian(context.Context, dbgen.ListCreditEntriesByGuardianParams) ([]dbgen.CreditEntry, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListEnabledWebhookEndpointsByTopic(context.Context, string) ([]dbgen.WebhookEndpoint, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListInvoicesByGuardian(context.Context, dbgen.ListInvoicesByGuardianParams) ([]dbgen.ListInvoicesByGuardianRow, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListInvoicesByStudent(context.Context, pgtype.UUID) ([]dbgen.Invoice, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListPaymentItems(context.Context, pgtype.UUID) ([]dbgen.PaymentItem, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListPaymentMethods(context.Context) ([]dbgen.PaymentMethod, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListPaymentsByGuardian(context.Context, dbgen.ListPaymentsByGuardianParams) ([]dbgen.Payment, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListReceiptsByGuardian(context.Context, dbgen.ListReceiptsByGuardianParams) ([]dbgen.Receipt, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListStudentsByGuardian(context.Context, pgtype.UUID) ([]dbgen.Student, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) SumCreditByGuardian(context.Context, pgtype.UUID) (int64, error) {
	return 0, errNotImplemented
}

func (f *fakeQueries) SumOutstandingByGuardian(context.Context, pgtype.UUID) (int64, error) {
	return 0, errNotImplemented
}

func (f *fakeQueries) TouchCart(context.Context, dbgen.TouchCartParams) error {
	return errNotImplemented
}

func (f *fakeQueries) UpdateInvoiceStatus(context.Context, dbgen.UpdateInvoiceStatusParams) (dbgen.Invoice, error) {
	return dbgen.Invoice{}, errNotImplemented
}

func (f *fakeQueries) UpdatePaymentProviderRef(context.Context, dbgen.UpdatePaymentProviderRefParams) (dbgen.Payment, error) {
	return dbgen.Payment{}, errNotImplemented
}

func (f *fakeQueries) UpdatePaymentStatus(context.Context, dbgen.UpdatePaymentStatusParams) (dbgen.Payment, error) {
	return dbgen.Payment{}, errNotImplemented
}

func (f *fakeQueries) UpdateWebhookDelivery(context.Context, dbgen.UpdateWebhookDeliveryParams) error {
	return errNotImplemented
}

func (f *fakeQueries) UpsertPaymentMethod(context.Context, dbgen.UpsertPaymentMethodParams) error {
	return errNotImplemented
}

func (f *fakeQueries) CountWebhookDeliveries(context.Context, dbgen.CountWebhookDeliveriesParams) (int64, error) {
	return 0, errNotImplemented
}

func (f *fakeQueries) DeleteWebhookEndpoint(context.Context, pgtype.UUID) error {
	return errNotImplemented
}

func (f *fakeQueries) ListWebhookDeliveries(context.Context, dbgen.ListWebhookDeliveriesParams) ([]dbgen.WebhookDelivery, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) ListWebhookEndpoints(context.Context, dbgen.ListWebhookEndpointsParams) ([]dbgen.WebhookEndpoint, error) {
	return nil, errNotImplemented
}

func (f *fakeQueries) UpdateWebhookEndpoint(context.Context, dbgen.UpdateWebhookEndpointParams) (dbgen.WebhookEndpoint, error) {
	return dbgen.WebhookEndpoint{}, errNotImplemented
}

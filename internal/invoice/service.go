package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schooney/backend-portal/internal/cart"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

var ErrNotFound = errors.New("invoice: not found")

// View is an invoice as presented to guardians, with the overdue flag
// derived from the server clock rather than stored.
type View struct {
	ID          string               `json:"id"`
	StudentID   string               `json:"studentId"`
	StudentName string               `json:"studentName,omitempty"`
	StudentCode string               `json:"studentCode,omitempty"`
	Kind        dbgen.InvoiceKind    `json:"kind"`
	Category    string               `json:"category,omitempty"`
	Cadence     dbgen.InvoiceCadence `json:"cadence"`
	Term        string               `json:"term,omitempty"`
	Description string               `json:"description"`
	AmountDue   int64                `json:"amountDue"`
	DueDate     string               `json:"dueDate"`
	Status      dbgen.InvoiceStatus  `json:"status"`
	Overdue     bool                 `json:"overdue"`
}

// Service reads invoices for guardians and students.
type Service struct {
	Q   *dbgen.Queries
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Overdue reports whether an invoice with the given due date and status
// counts as overdue at the reference time. Paid and canceled invoices are
// never overdue; the due date itself is still on time.
func Overdue(dueDate time.Time, status dbgen.InvoiceStatus, at time.Time) bool {
	if status == dbgen.InvoiceStatusPaid || status == dbgen.InvoiceStatusCanceled {
		return false
	}
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return today.After(due)
}

// ListByGuardian returns all invoices across the guardian's students.
func (s *Service) ListByGuardian(ctx context.Context, guardianID string, limit, offset int32) ([]View, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("invoice: %w", err)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.Q.ListInvoicesByGuardian(ctx, dbgen.ListInvoicesByGuardianParams{
		GuardianID:  gID,
		LimitValue:  limit,
		OffsetValue: offset,
	})
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		v := toView(dbgen.Invoice{
			ID:          row.ID,
			StudentID:   row.StudentID,
			Kind:        row.Kind,
			Category:    row.Category,
			Cadence:     row.Cadence,
			Term:        row.Term,
			Description: row.Description,
			AmountDue:   row.AmountDue,
			DueDate:     row.DueDate,
			Status:      row.Status,
		}, now)
		v.StudentName = row.StudentFirstName + " " + row.StudentLastName
		v.StudentCode = row.StudentCode
		views = append(views, v)
	}
	return views, nil
}

// ListByStudent returns the invoices of a single student. The student must
// belong to the requesting guardian.
func (s *Service) ListByStudent(ctx context.Context, guardianID, studentID string) ([]View, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("invoice: %w", err)
	}
	sID, err := cart.ToUUID(studentID)
	if err != nil {
		return nil, fmt.Errorf("invoice: %w", err)
	}
	student, err := s.Q.GetStudentByID(ctx, sID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !cart.UUIDEqual(student.GuardianID, gID) {
		return nil, ErrNotFound
	}
	rows, err := s.Q.ListInvoicesByStudent(ctx, sID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row, now))
	}
	return views, nil
}

// Get returns one invoice, scoped to the guardian's students.
func (s *Service) Get(ctx context.Context, guardianID, invoiceID string) (View, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return View{}, fmt.Errorf("invoice: %w", err)
	}
	iID, err := cart.ToUUID(invoiceID)
	if err != nil {
		return View{}, fmt.Errorf("invoice: %w", err)
	}
	inv, err := s.Q.GetInvoiceByID(ctx, iID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	student, err := s.Q.GetStudentByID(ctx, inv.StudentID)
	if err != nil {
		return View{}, err
	}
	if !cart.UUIDEqual(student.GuardianID, gID) {
		return View{}, ErrNotFound
	}
	v := toView(inv, s.now())
	v.StudentName = student.FirstName + " " + student.LastName
	v.StudentCode = student.StudentCode
	return v, nil
}

func toView(inv dbgen.Invoice, now time.Time) View {
	v := View{
		ID:          cart.UUIDString(inv.ID),
		StudentID:   cart.UUIDString(inv.StudentID),
		Kind:        inv.Kind,
		Cadence:     inv.Cadence,
		Description: inv.Description,
		AmountDue:   inv.AmountDue,
		Status:      inv.Status,
	}
	if inv.Category.Valid {
		v.Category = string(inv.Category.InvoiceCategory)
	}
	if inv.Term.Valid {
		v.Term = inv.Term.String
	}
	if inv.DueDate.Valid {
		v.DueDate = inv.DueDate.Time.Format("2006-01-02")
		v.Overdue = Overdue(inv.DueDate.Time, inv.Status, now)
	}
	return v
}

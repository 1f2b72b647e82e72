package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateItem is returned when the invoice is already in the cart for the same student.
var ErrDuplicateItem = errors.New("invoice already in cart")

// Service encapsulates cart domain operations.
type Service struct {
	Q   *dbgen.Queries
	TTL time.Duration
	Now func() time.Time
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureCart loads or creates the active cart for a guardian.
func (s *Service) EnsureCart(ctx context.Context, guardianID string) (dbgen.Cart, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	gID, err := toUUID(guardianID)
	if err != nil {
		return dbgen.Cart{}, fmt.Errorf("parse guardian id: %w", err)
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	cart, err := s.Q.GetActiveCartByGuardian(ctx, gID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.Q.CreateCart(ctx, dbgen.CreateCartParams{GuardianID: gID, ExpiresAt: expires})
		}
		return dbgen.Cart{}, err
	}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cart.ID, ExpiresAt: expires})
	return cart, nil
}

// AddInvoice snapshots an unpaid invoice into the cart. The invoice must
// belong to one of the cart guardian's students and may appear in the cart
// at most once per student.
func (s *Service) AddInvoice(ctx context.Context, cartID string, invoiceID string) (dbgen.CartItem, error) {
	if s == nil || s.Q == nil {
		return dbgen.CartItem{}, errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(invoiceID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse invoice id: %w", err)
	}
	cart, err := s.Q.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, ErrNotFound
		}
		return dbgen.CartItem{}, err
	}
	invoice, err := s.Q.GetInvoiceByID(ctx, iID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, fmt.Errorf("invoice not found: %w", ErrInvalidInput)
		}
		return dbgen.CartItem{}, err
	}
	switch invoice.Status {
	case dbgen.InvoiceStatusPaid:
		return dbgen.CartItem{}, fmt.Errorf("invoice already paid: %w", ErrInvalidInput)
	case dbgen.InvoiceStatusCanceled:
		return dbgen.CartItem{}, fmt.Errorf("invoice canceled: %w", ErrInvalidInput)
	}
	student, err := s.Q.GetStudentByID(ctx, invoice.StudentID)
	if err != nil {
		return dbgen.CartItem{}, err
	}
	if !uuidEqual(student.GuardianID, cart.GuardianID) {
		return dbgen.CartItem{}, fmt.Errorf("invoice does not belong to guardian: %w", ErrInvalidInput)
	}
	item, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
		CartID:    cID,
		InvoiceID: invoice.ID,
		StudentID: invoice.StudentID,
		Title:     invoice.Description,
		Kind:      invoice.Kind,
		Category:  invoice.Category,
		Amount:    invoice.AmountDue,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return dbgen.CartItem{}, ErrDuplicateItem
		}
		return dbgen.CartItem{}, err
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return item, nil
}

// RemoveItem deletes a cart line by its (invoice, student) composite key.
// It reports whether a line was actually removed; removing an absent line
// is not an error.
func (s *Service) RemoveItem(ctx context.Context, cartID, invoiceID, studentID string) (bool, error) {
	if s == nil || s.Q == nil {
		return false, errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return false, fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(invoiceID)
	if err != nil {
		return false, fmt.Errorf("parse invoice id: %w", err)
	}
	sID, err := toUUID(studentID)
	if err != nil {
		return false, fmt.Errorf("parse student id: %w", err)
	}
	removed, err := s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{
		CartID:    cID,
		InvoiceID: iID,
		StudentID: sID,
	})
	if err != nil {
		return false, err
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return removed > 0, nil
}

// Clear removes every line from the cart. Used after a successful checkout.
func (s *Service) Clear(ctx context.Context, cartID pgtype.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	return s.Q.DeleteCartItems(ctx, cartID)
}

func toUUID(value string) (pgtype.UUID, error) {
	var id pgtype.UUID
	parsed, err := uuid.Parse(value)
	if err != nil {
		return id, err
	}
	if err := id.Scan(parsed[:]); err != nil {
		return pgtype.UUID{}, err
	}
	return id, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func uuidEqual(a, b pgtype.UUID) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Bytes == b.Bytes
}

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	return toUUID(value)
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	return uuidString(id)
}

// UUIDEqual reports whether two UUID values are both valid and identical.
func UUIDEqual(a, b pgtype.UUID) bool {
	return uuidEqual(a, b)
}

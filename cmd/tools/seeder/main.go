package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Seeds a demo guardian with two students, a term of invoices, the payment
// method fee schedule and an opening credit note. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedPaymentMethods(db)
	guardianID := seedGuardian(db)
	studentIDs := seedStudents(db, guardianID)
	seedInvoices(db, studentIDs)
	seedOpeningCredit(db, guardianID)

	log.Println("Seeding completed successfully!")
}

func seedPaymentMethods(db *sql.DB) {
	methods := []struct {
		code    string
		label   string
		feeKind string
		feeRate int64
	}{
		{"credit_card", "Credit / debit card", "percentage", 290},
		{"bank_transfer", "Bank transfer", "flat", 2500},
		{"promptpay", "PromptPay QR", "flat", 0},
		{"credit_note", "Credit note", "flat", 0},
		{"cash", "Cash at finance office", "flat", 0},
	}
	for _, m := range methods {
		_, err := db.Exec(`
			INSERT INTO payment_methods (code, label, fee_kind, fee_rate, enabled)
			VALUES ($1, $2, $3, $4, true)
			ON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label, fee_kind = EXCLUDED.fee_kind, fee_rate = EXCLUDED.fee_rate
		`, m.code, m.label, m.feeKind, m.feeRate)
		if err != nil {
			log.Fatalf("Failed to seed payment method %s: %v", m.code, err)
		}
	}
	log.Println("Seeded payment methods")
}

func seedGuardian(db *sql.DB) string {
	password := os.Getenv("SEED_GUARDIAN_PASSWORD")
	if password == "" {
		password = "Password1!"
	}
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO guardians (name, email, phone, password_hash)
		VALUES ('Alex Parker', 'demo@schooney.test', '+66800000001', $1)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, hash).Scan(&id)
	if err != nil {
		log.Fatalf("Failed to seed guardian: %v", err)
	}
	log.Printf("Seeded guardian %s (demo@schooney.test)", id)
	return id
}

func seedStudents(db *sql.DB, guardianID string) []string {
	students := []struct {
		first string
		last  string
		code  string
		year  string
	}{
		{"Mali", "Parker", "STU-1001", "Year 4"},
		{"Tawan", "Parker", "STU-1002", "Year 7"},
	}
	ids := make([]string, 0, len(students))
	for _, s := range students {
		var id string
		err := db.QueryRow(`
			INSERT INTO students (guardian_id, first_name, last_name, student_code, year_group, campus)
			VALUES ($1, $2, $3, $4, $5, 'Main Campus')
			ON CONFLICT (student_code) DO UPDATE SET guardian_id = EXCLUDED.guardian_id
			RETURNING id
		`, guardianID, s.first, s.last, s.code, s.year).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed student %s: %v", s.code, err)
		}
		ids = append(ids, id)
	}
	log.Printf("Seeded %d students", len(ids))
	return ids
}

func seedInvoices(db *sql.DB, studentIDs []string) {
	now := time.Now()
	type row struct {
		kind     string
		category sql.NullString
		cadence  string
		term     string
		desc     string
		amount   int64
		due      time.Time
	}
	catalogue := []row{
		{"tuition", sql.NullString{}, "termly", "Term 1 2026", "Term 1 tuition fee", 120000, now.AddDate(0, 0, 21)},
		{"course", sql.NullString{String: "summer", Valid: true}, "yearly", "Summer 2026", "Summer robotics course", 45000, now.AddDate(0, 1, 0)},
		{"activity", sql.NullString{String: "trip", Valid: true}, "yearly", "Term 1 2026", "Field trip to Khao Yai", 18000, now.AddDate(0, 0, -7)},
		{"exam", sql.NullString{}, "yearly", "2026", "Cambridge checkpoint exam fee", 9500, now.AddDate(0, 2, 0)},
	}
	count := 0
	for _, studentID := range studentIDs {
		for _, inv := range catalogue {
			var exists bool
			err := db.QueryRow(`
				SELECT EXISTS (
					SELECT 1 FROM invoices WHERE student_id = $1 AND description = $2 AND term = $3
				)
			`, studentID, inv.desc, inv.term).Scan(&exists)
			if err != nil {
				log.Fatalf("Failed to check invoice: %v", err)
			}
			if exists {
				continue
			}
			_, err = db.Exec(`
				INSERT INTO invoices (student_id, kind, category, cadence, term, description, amount_due, due_date, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
			`, studentID, inv.kind, inv.category, inv.cadence, inv.term, inv.desc, inv.amount, inv.due)
			if err != nil {
				log.Fatalf("Failed to seed invoice %q: %v", inv.desc, err)
			}
			count++
		}
	}
	log.Printf("Seeded %d invoices", count)
}

func seedOpeningCredit(db *sql.DB, guardianID string) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM credit_entries WHERE guardian_id = $1 AND note = 'Welcome credit'
		)
	`, guardianID).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check credit entries: %v", err)
	}
	if exists {
		return
	}
	_, err = db.Exec(`
		INSERT INTO credit_entries (guardian_id, amount, note)
		VALUES ($1, 30000, 'Welcome credit')
	`, guardianID)
	if err != nil {
		log.Fatalf("Failed to seed opening credit: %v", err)
	}
	log.Println("Seeded opening credit of 30000")
}

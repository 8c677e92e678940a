package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/storage"
)

// CreateSession persists a new session with its receipt and people.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	receipt := session.Receipt
	if receipt == nil {
		receipt = &models.ReceiptData{}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, raw_text, merchant, gstin, bill_date, subtotal, total, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.UserID, session.RawText,
		receipt.Meta.Merchant, receipt.Meta.GSTIN, receipt.Meta.Date,
		nullable(receipt.Subtotal), nullable(receipt.Total), session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertReceiptRows(ctx, tx, session.ID, receipt); err != nil {
		return err
	}

	for i := range session.People {
		person := &session.People[i]
		if person.ID == "" {
			person.ID = uuid.New().String()
		}
		if err := insertPerson(ctx, tx, session.ID, person, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session with its receipt and people.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{
		Receipt: &models.ReceiptData{
			Items:   []models.LineItem{},
			Charges: []models.ChargeLine{},
		},
		People: []models.Person{},
	}
	var subtotal, total sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, raw_text, merchant, gstin, bill_date, subtotal, total, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.RawText,
		&session.Receipt.Meta.Merchant, &session.Receipt.Meta.GSTIN, &session.Receipt.Meta.Date,
		&subtotal, &total, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if subtotal.Valid {
		session.Receipt.Subtotal = &subtotal.Float64
	}
	if total.Valid {
		session.Receipt.Total = &total.Float64
	}

	if err := s.loadItems(ctx, session); err != nil {
		return nil, err
	}
	if err := s.loadCharges(ctx, session); err != nil {
		return nil, err
	}
	if err := s.loadPeople(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveReceipt replaces the stored receipt for a session.
func (s *SQLiteStore) SaveReceipt(ctx context.Context, sessionID string, receipt *models.ReceiptData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET merchant = ?, gstin = ?, bill_date = ?, subtotal = ?, total = ? WHERE id = ?",
		receipt.Meta.Merchant, receipt.Meta.GSTIN, receipt.Meta.Date,
		nullable(receipt.Subtotal), nullable(receipt.Total), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	for _, table := range []string{"item_owners", "items", "charges"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertReceiptRows(ctx, tx, sessionID, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddPerson adds a participant to a session.
func (s *SQLiteStore) AddPerson(ctx context.Context, sessionID string, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.New().String()
	}

	var position int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM people WHERE session_id = ?", sessionID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to count people: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO people (id, session_id, name, vpa, position) VALUES (?, ?, ?, ?, ?)",
		person.ID, sessionID, person.Name, person.VPA, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// RemovePerson removes a participant and their ownership assignments.
func (s *SQLiteStore) RemovePerson(ctx context.Context, sessionID, personID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_owners WHERE session_id = ? AND person_id = ?", sessionID, personID,
	); err != nil {
		return fmt.Errorf("failed to clear ownership: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM people WHERE session_id = ? AND id = ?", sessionID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetItemOwners replaces the owner set and inclusion flag of one item.
func (s *SQLiteStore) SetItemOwners(ctx context.Context, sessionID, itemID string, owners []string, include bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE items SET include = ? WHERE session_id = ? AND id = ?",
		boolToInt(include), sessionID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_owners WHERE session_id = ? AND item_id = ?", sessionID, itemID,
	); err != nil {
		return fmt.Errorf("failed to clear owners: %w", err)
	}
	for _, owner := range owners {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_owners (session_id, item_id, person_id) VALUES (?, ?, ?)",
			sessionID, itemID, owner,
		); err != nil {
			return fmt.Errorf("failed to insert owner: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadItems(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, quantity, unit_price, total_price, include FROM items WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		var include int
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &include); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item.Include = include != 0
		item.Owners = []string{}
		session.Receipt.Items = append(session.Receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	ownerRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, person_id FROM item_owners WHERE session_id = ? ORDER BY rowid",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get item owners: %w", err)
	}
	defer ownerRows.Close()

	for ownerRows.Next() {
		var itemID, personID string
		if err := ownerRows.Scan(&itemID, &personID); err != nil {
			return fmt.Errorf("failed to scan owner: %w", err)
		}
		if item := session.Receipt.Item(itemID); item != nil {
			item.Owners = append(item.Owners, personID)
		}
	}
	return ownerRows.Err()
}

func (s *SQLiteStore) loadCharges(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, label, amount FROM charges WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get charges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var charge models.ChargeLine
		if err := rows.Scan(&charge.ID, &charge.Type, &charge.Label, &charge.Amount); err != nil {
			return fmt.Errorf("failed to scan charge: %w", err)
		}
		session.Receipt.Charges = append(session.Receipt.Charges, charge)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadPeople(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, vpa FROM people WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var person models.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.VPA); err != nil {
			return fmt.Errorf("failed to scan person: %w", err)
		}
		session.People = append(session.People, person)
	}
	return rows.Err()
}

func insertReceiptRows(ctx context.Context, tx *sql.Tx, sessionID string, receipt *models.ReceiptData) error {
	for i, item := range receipt.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items (session_id, id, position, name, quantity, unit_price, total_price, include) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			sessionID, item.ID, i, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice, boolToInt(item.Include),
		); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		for _, owner := range item.Owners {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_owners (session_id, item_id, person_id) VALUES (?, ?, ?)",
				sessionID, item.ID, owner,
			); err != nil {
				return fmt.Errorf("failed to insert item owner: %w", err)
			}
		}
	}
	for i, charge := range receipt.Charges {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO charges (session_id, id, position, type, label, amount) VALUES (?, ?, ?, ?, ?, ?)",
			sessionID, charge.ID, i, string(charge.Type), charge.Label, charge.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert charge: %w", err)
		}
	}
	return nil
}

func insertPerson(ctx context.Context, tx *sql.Tx, sessionID string, person *models.Person, position int) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO people (id, session_id, name, vpa, position) VALUES (?, ?, ?, ?, ?)",
		person.ID, sessionID, person.Name, person.VPA, position,
	); err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

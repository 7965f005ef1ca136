package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/vendor-enricher/internal/types"
)

const contactColumns = `id, profile_id, type_id, value, active, is_default, created_by, created_at, updated_by, updated_at`

func scanContact(row pgx.Row) (*types.Contact, error) {
	var c types.Contact
	err := row.Scan(&c.ID, &c.VendorID, &c.TypeID, &c.Value, &c.Active, &c.IsDefault,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedBy, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetContactTypeID resolves the identifier of a contact type by name, ignoring case.
func (db *DB) GetContactTypeID(ctx context.Context, ct types.ContactType) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM contact_types WHERE upper(name) = upper($1) LIMIT 1`,
		string(ct),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("contact type %s: %w", ct, ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get contact type %s: %w", ct, err)
	}
	return id, nil
}

// FindMatchingContact returns the contact of (vendor, type) whose value equals
// value or that was created by workerID, comparing case-insensitively. When both
// kinds exist the value match wins. Returns nil if neither exists.
func (db *DB) FindMatchingContact(ctx context.Context, vendorID, typeID uuid.UUID, value, workerID string) (*types.Contact, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+contactColumns+`
		 FROM vendor_contacts
		 WHERE profile_id = $1
		   AND type_id = $2
		   AND (lower(value) = lower($3) OR lower(created_by) = lower($4))
		 ORDER BY (lower(value) = lower($3)) DESC, updated_at DESC
		 LIMIT 1`,
		vendorID, typeID, value, workerID,
	)
	c, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find matching contact: %w", err)
	}
	return c, nil
}

// InsertContact creates a contact row. The creator is also recorded as the updater.
func (db *DB) InsertContact(ctx context.Context, in types.ContactInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO vendor_contacts (profile_id, type_id, value, active, is_default, created_by, created_at, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), $6, now())
		 RETURNING id`,
		in.VendorID, in.TypeID, in.Value, in.Active, in.IsDefault, in.CreatedBy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert contact: %w", err)
	}
	return id, nil
}

// UpdateContact rewrites the value of a contact created by workerID. The
// statement is scoped by vendor, type and creator so a row owned by anyone else
// is never touched. Returns the number of rows changed.
func (db *DB) UpdateContact(ctx context.Context, contactID, vendorID, typeID uuid.UUID, value, workerID string) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE vendor_contacts
		 SET value = $5, updated_by = $4, updated_at = now()
		 WHERE id = $1
		   AND profile_id = $2
		   AND type_id = $3
		   AND lower(created_by) = lower($4)`,
		contactID, vendorID, typeID, workerID, value,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update contact %s: %w", contactID, err)
	}
	return result.RowsAffected(), nil
}

// ListContacts returns every contact of a vendor with its type name.
func (db *DB) ListContacts(ctx context.Context, vendorID uuid.UUID) ([]types.Contact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.profile_id, c.type_id, upper(t.name), c.value, c.active, c.is_default,
		        c.created_by, c.created_at, c.updated_by, c.updated_at
		 FROM vendor_contacts c
		 JOIN contact_types t ON t.id = c.type_id
		 WHERE c.profile_id = $1
		 ORDER BY t.name, c.created_at`,
		vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []types.Contact
	for rows.Next() {
		var c types.Contact
		var typeName string
		if err := rows.Scan(&c.ID, &c.VendorID, &c.TypeID, &typeName, &c.Value, &c.Active, &c.IsDefault,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedBy, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Type = types.ContactType(typeName)
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

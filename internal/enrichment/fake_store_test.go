package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/vendor-enricher/internal/types"
)

// memStore is an in-memory VendorStore that records every write.
type memStore struct {
	mu sync.Mutex

	next      *types.Vendor
	selectErr error

	typeIDs  map[types.ContactType]uuid.UUID
	contacts []types.Contact

	marks       []uuid.UUID
	markCtxErrs []error
	markErr     error

	names   []string
	nameErr error

	inserts   int
	insertErr error
	updates   int
	updateErr error
	typeErr   error

	clock time.Time
}

func newMemStore() *memStore {
	s := &memStore{typeIDs: map[types.ContactType]uuid.UUID{}}
	for _, ct := range types.AllContactTypes() {
		s.typeIDs[ct] = uuid.New()
	}
	return s
}

// tick advances the store clock so every write gets a distinct updated_at.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) typeOf(id uuid.UUID) types.ContactType {
	for ct, tid := range s.typeIDs {
		if tid == id {
			return ct
		}
	}
	return ""
}

// seed adds an existing contact row.
func (s *memStore) seed(vendorID uuid.UUID, ct types.ContactType, value, createdBy string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := types.Contact{
		ID:        uuid.New(),
		VendorID:  vendorID,
		TypeID:    s.typeIDs[ct],
		Type:      ct,
		Value:     value,
		Active:    true,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	s.contacts = append(s.contacts, c)
	return c.ID
}

func (s *memStore) contactsOf(vendorID uuid.UUID, ct types.ContactType) []types.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Contact
	for _, c := range s.contacts {
		if c.VendorID == vendorID && c.Type == ct {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts + s.updates + len(s.names)
}

func (s *memStore) SelectNextEligibleVendor(_ context.Context, _ string, _ time.Duration) (*types.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	v := s.next
	s.next = nil
	return v, nil
}

func (s *memStore) MarkProcessed(ctx context.Context, vendorID uuid.UUID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = append(s.marks, vendorID)
	s.markCtxErrs = append(s.markCtxErrs, ctx.Err())
	return s.markErr
}

func (s *memStore) UpdateVendorName(ctx context.Context, _ uuid.UUID, name, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameErr != nil {
		return s.nameErr
	}
	s.names = append(s.names, name)
	return nil
}

func (s *memStore) GetContactTypeID(_ context.Context, ct types.ContactType) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.typeErr != nil {
		return uuid.Nil, s.typeErr
	}
	for known, id := range s.typeIDs {
		if SameText(string(known), string(ct)) {
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("contact type %s: %w", ct, errNotFound)
}

// FindMatchingContact orders candidates like the SQL store: a value match
// first, then the most recently updated row.
func (s *memStore) FindMatchingContact(_ context.Context, vendorID, typeID uuid.UUID, value, workerID string) (*types.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *types.Contact
	bestValue := false
	for i := range s.contacts {
		c := s.contacts[i]
		if c.VendorID != vendorID || c.TypeID != typeID {
			continue
		}
		valueMatch := SameText(c.Value, value)
		if !valueMatch && !SameText(c.CreatedBy, workerID) {
			continue
		}
		if best == nil ||
			(valueMatch && !bestValue) ||
			(valueMatch == bestValue && c.UpdatedAt.After(best.UpdatedAt)) {
			best = &c
			bestValue = valueMatch
		}
	}
	return best, nil
}

func (s *memStore) InsertContact(_ context.Context, in types.ContactInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return uuid.Nil, s.insertErr
	}
	c := types.Contact{
		ID:        uuid.New(),
		VendorID:  in.VendorID,
		TypeID:    in.TypeID,
		Type:      s.typeOf(in.TypeID),
		Value:     in.Value,
		Active:    in.Active,
		IsDefault: in.IsDefault,
		CreatedBy: in.CreatedBy,
		UpdatedBy: in.CreatedBy,
	}
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	s.contacts = append(s.contacts, c)
	s.inserts++
	return c.ID, nil
}

func (s *memStore) UpdateContact(_ context.Context, contactID, vendorID, typeID uuid.UUID, value, workerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	for i := range s.contacts {
		c := &s.contacts[i]
		if c.ID == contactID && c.VendorID == vendorID && c.TypeID == typeID && SameText(c.CreatedBy, workerID) {
			c.Value = value
			c.UpdatedBy = workerID
			c.UpdatedAt = s.tick()
			s.updates++
			return 1, nil
		}
	}
	return 0, nil
}

var errNotFound = errors.New("not found")

// fakeLookup returns a canned answer and counts calls.
type fakeLookup struct {
	result *types.LookupResult
	err    error
	calls  int
	// cancel, when set, is invoked during Fetch to simulate shutdown mid-run.
	cancel context.CancelFunc
}

func (f *fakeLookup) Fetch(_ context.Context, taxID string) (*types.LookupResult, error) {
	f.calls++
	if f.cancel != nil {
		f.cancel()
	}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.TaxID = taxID
	return &r, nil
}

package enrichment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/types"
)

// Reconciler decides whether a fetched contact value is inserted, overwrites
// a row this worker created earlier, or is ignored.
type Reconciler struct {
	store    VendorStore
	workerID string
}

// NewReconciler creates a contact reconciler writing as workerID.
func NewReconciler(store VendorStore, workerID string) *Reconciler {
	return &Reconciler{store: store, workerID: workerID}
}

// Reconcile applies one fetched value for (vendor, type).
//
// A row created by anyone other than the worker is never written. A row the
// worker created is rewritten only when its value differs from value.
func (r *Reconciler) Reconcile(ctx context.Context, vendorID uuid.UUID, ct types.ContactType, value string) (types.ContactOutcome, error) {
	value = clean(value)
	if value == "" {
		return types.OutcomeSkipped, nil
	}
	log := logging.FromContext(ctx).With().Str("contact_type", ct.String()).Logger()

	typeID, err := r.store.GetContactTypeID(ctx, ct)
	if err != nil {
		return "", fmt.Errorf("failed to resolve contact type %s: %w", ct, err)
	}

	existing, err := r.store.FindMatchingContact(ctx, vendorID, typeID, value, r.workerID)
	if err != nil {
		return "", fmt.Errorf("failed to look up %s contact: %w", ct, err)
	}

	if existing == nil {
		_, err := r.store.InsertContact(ctx, types.ContactInput{
			VendorID:  vendorID,
			TypeID:    typeID,
			Value:     value,
			Active:    true,
			IsDefault: false,
			CreatedBy: r.workerID,
		})
		if err != nil {
			return "", fmt.Errorf("failed to insert %s contact: %w", ct, err)
		}
		log.Debug().Msg("Contact inserted")
		return types.OutcomeInserted, nil
	}

	if SameText(existing.Value, value) {
		return types.OutcomeUnchanged, nil
	}
	if !SameText(existing.CreatedBy, r.workerID) {
		log.Debug().Str("created_by", existing.CreatedBy).Msg("Contact owned by another user, keeping it")
		return types.OutcomeUnchanged, nil
	}

	n, err := r.store.UpdateContact(ctx, existing.ID, vendorID, typeID, value, r.workerID)
	if err != nil {
		return "", fmt.Errorf("failed to update %s contact: %w", ct, err)
	}
	if n == 0 {
		log.Debug().Str("contact_id", existing.ID.String()).Msg("Contact changed hands before update")
		return types.OutcomeUnchanged, nil
	}
	log.Debug().Msg("Contact updated")
	return types.OutcomeUpdated, nil
}

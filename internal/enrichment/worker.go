package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/types"
)

// DefaultMarkTimeout bounds the completion write when the run context is already done.
const DefaultMarkTimeout = 10 * time.Second

// Options configures a Worker.
type Options struct {
	// WorkerID is the identity recorded on every write and used for ownership checks.
	WorkerID    string
	ClaimTTL    time.Duration
	Quota       QuotaPolicy
	MarkTimeout time.Duration
}

// Worker runs one enrichment unit of work at a time.
type Worker struct {
	store      VendorStore
	lookup     Lookup
	reconciler *Reconciler
	profiles   *ProfileUpdater
	opts       Options
}

// NewWorker wires the core around a store and a lookup client.
func NewWorker(store VendorStore, lookup Lookup, opts Options) (*Worker, error) {
	if store == nil {
		return nil, errors.New("vendor store is required")
	}
	if lookup == nil {
		return nil, errors.New("lookup client is required")
	}
	opts.WorkerID = clean(opts.WorkerID)
	if opts.WorkerID == "" {
		return nil, errors.New("worker id is required")
	}
	if opts.MarkTimeout <= 0 {
		opts.MarkTimeout = DefaultMarkTimeout
	}
	return &Worker{
		store:      store,
		lookup:     lookup,
		reconciler: NewReconciler(store, opts.WorkerID),
		profiles:   NewProfileUpdater(store, opts.WorkerID),
		opts:       opts,
	}, nil
}

// WorkerID returns the identity the worker writes as.
func (w *Worker) WorkerID() string {
	return w.opts.WorkerID
}

// RunOnce selects at most one vendor, looks it up and reconciles the answer.
//
// Once a vendor has been selected it is marked processed exactly once before
// RunOnce returns, whatever happens in between, including cancellation of ctx.
// Transport failures and unsuccessful registry answers end the run without an
// error. Store failures while reconciling are returned, joined with any
// failure to mark the vendor.
func (w *Worker) RunOnce(ctx context.Context) (report types.RunReport, err error) {
	log := logging.FromContext(ctx)

	vendor, err := w.store.SelectNextEligibleVendor(ctx, w.opts.WorkerID, w.opts.ClaimTTL)
	if err != nil {
		return report, fmt.Errorf("failed to select vendor: %w", err)
	}
	if vendor == nil {
		log.Info().Msg("No vendor selected")
		report.Idle = true
		return report, nil
	}

	report.VendorID = vendor.ID
	report.TaxID = vendor.TaxID
	vlog := log.With().Str("vendor_id", vendor.ID.String()).Str("tax_id", vendor.TaxID).Logger()
	ctx = logging.WithLogger(ctx, &vlog)
	vlog.Info().Msg("Selected vendor")

	attempted := false
	mark := func() error {
		attempted = true
		if err := w.markProcessed(ctx, vendor.ID); err != nil {
			vlog.Error().Err(err).Msg("Failed to mark vendor as processed")
			return err
		}
		report.Marked = true
		vlog.Debug().Msg("Vendor marked as processed")
		return nil
	}
	defer func() {
		if attempted {
			return
		}
		if markErr := mark(); markErr != nil {
			err = errors.Join(err, markErr)
		}
	}()

	result, err := w.lookup.Fetch(ctx, vendor.TaxID)
	if err == nil && result == nil {
		err = errors.New("lookup returned no result")
	}
	if err != nil {
		vlog.Warn().Err(err).Msg("External service communication unsuccessful")
		return report, nil
	}
	report.LookupStatus = result.Status
	report.Message = result.Message
	vlog.Debug().Str("status", string(result.Status)).Msg("Service response")

	switch result.Status {
	case types.LookupSuccess:
		if result.Record == nil {
			vlog.Warn().Msg("Registry answered without a record for the tax id")
			break
		}
		if err := w.apply(ctx, vendor, result.Record, &report); err != nil {
			vlog.Error().Err(err).Msg("Reconciliation failed")
			return report, fmt.Errorf("failed to reconcile vendor %s: %w", vendor.ID, err)
		}
		vlog.Debug().Msg("Finished processing service response")
	case types.LookupNoMatch:
		vlog.Warn().Str("message", result.Message).Msg("Unsuccessful request response")
		// The registry has nothing for this tax id; mark now so it is not retried.
		if markErr := mark(); markErr != nil {
			return report, markErr
		}
		report.MarkedEarly = true
	default:
		vlog.Warn().Str("message", result.Message).Msg("Unsuccessful request response")
	}

	report.Quota = w.opts.Quota.Check(ctx, result.Quota)
	return report, nil
}

func (w *Worker) apply(ctx context.Context, vendor *types.Vendor, rec *types.Record, report *types.RunReport) error {
	changed, err := w.profiles.ReconcileName(ctx, vendor, rec.Title)
	if err != nil {
		return err
	}
	report.NameChanged = changed

	for _, ch := range Route(rec) {
		if ch.Value == "" {
			report.Channels = append(report.Channels, types.ChannelReport{Type: ch.Type, Outcome: types.OutcomeSkipped})
			continue
		}
		outcome, err := w.reconciler.Reconcile(ctx, vendor.ID, ch.Type, ch.Value)
		if err != nil {
			return err
		}
		report.Channels = append(report.Channels, types.ChannelReport{Type: ch.Type, Value: ch.Value, Outcome: outcome})
	}
	return nil
}

// markProcessed survives cancellation of ctx so that shutdown still records completion.
func (w *Worker) markProcessed(ctx context.Context, vendorID uuid.UUID) error {
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.opts.MarkTimeout)
	defer cancel()
	if err := w.store.MarkProcessed(mctx, vendorID, w.opts.WorkerID); err != nil {
		return fmt.Errorf("failed to mark vendor %s processed: %w", vendorID, err)
	}
	return nil
}

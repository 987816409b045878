// Package schema decides whether the destination table is created,
// recreated, or appended to, and is the only component that issues DDL.
package schema

import (
	"context"

	"tabload/pkg/errors"
)

// Catalog is the narrow destination-store surface the reconciler needs
type Catalog interface {
	TableExists(ctx context.Context, database, schema, table string) (bool, error)
	ShowTableLike(ctx context.Context, database, schema, table string) (bool, error)
	ExecuteDDL(ctx context.Context, statement string) error
}

// Result reports how the destination reached Ready
type Result struct {
	State   State
	Created bool
	Dropped bool
}

// Reconciler finalizes the destination table before the load phase
type Reconciler struct {
	catalog Catalog
	state   State
}

// NewReconciler creates a reconciler over a destination catalog
func NewReconciler(catalog Catalog) *Reconciler {
	return &Reconciler{catalog: catalog, state: StateUnknown}
}

// State returns the reconciler's current state
func (r *Reconciler) State() State {
	return r.state
}

// probeOutcome is the tagged result of one existence-probe attempt; the
// caller branches on the tag instead of treating a thrown error as the
// fallback signal
type probeOutcome struct {
	succeeded bool
	exists    bool
	reason    error
}

// probeExistence runs the primary catalog probe and, only when that
// attempt reports failure, the SHOW TABLES fallback
func (r *Reconciler) probeExistence(ctx context.Context, target TargetTableSchema) probeOutcome {
	dest := target.Destination

	exists, err := r.catalog.TableExists(ctx, dest.Database, dest.Schema, dest.Table)
	primary := probeOutcome{succeeded: err == nil, exists: exists, reason: err}
	if primary.succeeded {
		return primary
	}

	exists, err = r.catalog.ShowTableLike(ctx, dest.Database, dest.Schema, dest.Table)
	return probeOutcome{succeeded: err == nil, exists: exists, reason: err}
}

// Reconcile drives Unknown through Absent or Present to Ready. When the
// table exists and force is false the candidate schema is discarded and
// the existing structure governs the load; a column mismatch surfaces
// later as a load-time error, not here. Force issues a destructive drop
// first. Any DDL rejection is fatal with no retry.
func (r *Reconciler) Reconcile(ctx context.Context, target TargetTableSchema, force bool) (Result, error) {
	outcome := r.probeExistence(ctx, target)
	if !outcome.succeeded {
		r.state = StateFailed
		return Result{State: r.state}, errors.Wrap(outcome.reason, errors.ErrCodeCatalogProbe,
			"Could not determine whether the destination table exists").
			WithComponent("schema").
			WithContext("table", target.Destination.QualifiedName())
	}

	result := Result{}

	if outcome.exists {
		r.state = StatePresent
		if !force {
			r.state = StateReady
			result.State = r.state
			return result, nil
		}

		if err := r.catalog.ExecuteDDL(ctx, DropDDL(target.Destination)); err != nil {
			r.state = StateFailed
			result.State = r.state
			return result, err
		}
		result.Dropped = true
	} else {
		r.state = StateAbsent
	}

	if err := r.catalog.ExecuteDDL(ctx, CreateDDL(target)); err != nil {
		r.state = StateFailed
		result.State = r.state
		return result, err
	}
	result.Created = true

	r.state = StateReady
	result.State = r.state
	return result, nil
}

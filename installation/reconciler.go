package installation

import (
	"context"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Drift describes an active grant referencing scopes the provider no
// longer declares. Scopes are captured by value at grant time, so a
// later scope removal leaves grants like these behind.
type Drift struct {
	InstallationID uuid.UUID
	Kind           db.InstallationKind
	ConsumerID     uuid.UUID
	ProviderID     uuid.UUID
	UnknownScopes  []string
}

// ScopeLister lists the scopes an owner currently declares
type ScopeLister interface {
	ListScopes(ctx context.Context, owner registry.OwnerKind, ownerID uuid.UUID) ([]registry.Scope, error)
}

// Reconciler reports stale grants. It never mutates the ledger, acting
// on drift is an operator decision.
type Reconciler struct {
	log    *zap.Logger
	store  LedgerStore
	scopes ScopeLister
}

func NewReconciler(log *zap.Logger, store LedgerStore, scopes ScopeLister) *Reconciler {
	return &Reconciler{
		log:    log,
		store:  store,
		scopes: scopes,
	}
}

// Check compares every active grant against the providers current
// scope vocabulary and reports the ones holding unknown names
func (r *Reconciler) Check(
	ctx context.Context,
	kind db.InstallationKind,
	providerID uuid.UUID,
) ([]Drift, error) {
	declared, err := r.scopes.ListScopes(ctx, ownerKind(kind), providerID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(declared))
	for _, scope := range declared {
		known[scope.Name] = struct{}{}
	}

	rows, err := r.store.InstallationsByProvider(ctx, kind, providerID)
	if err != nil {
		return nil, err
	}
	drifts := make([]Drift, 0)
	for _, row := range rows {
		if row.Status != StatusActive {
			continue
		}
		unknown := make([]string, 0)
		for _, scope := range row.GrantedScopes {
			if _, ok := known[scope]; !ok {
				unknown = append(unknown, scope)
			}
		}
		if len(unknown) > 0 {
			r.log.Warn("grant references scopes the provider no longer declares",
				zap.String("installation_id", row.ID.String()),
				zap.Strings("unknown_scopes", unknown))
			drifts = append(drifts, Drift{
				InstallationID: row.ID,
				Kind:           kind,
				ConsumerID:     row.ConsumerID,
				ProviderID:     row.ProviderID,
				UnknownScopes:  unknown,
			})
		}
	}
	return drifts, nil
}

package installation

import (
	"context"
	"testing"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeScopeLister struct {
	scopes map[registry.OwnerKind]map[uuid.UUID][]registry.Scope
}

func (f *fakeScopeLister) ListScopes(
	_ context.Context,
	owner registry.OwnerKind,
	ownerID uuid.UUID,
) ([]registry.Scope, error) {
	return f.scopes[owner][ownerID], nil
}

func TestReconcilerReportsDrift(t *testing.T) {
	assert := assert.New(t)
	consumer := uuid.New()
	provider := uuid.New()
	ledger := newFakeLedger()
	targets := &fakeTargets{
		entries: map[uuid.UUID]*tables.RegistryEntryTable{provider: installable(provider, false)},
	}
	service := newService(t, ledger, &fakeValidator{}, targets, true)

	ins, err := service.Install(
		context.Background(), db.AppBlockInstallations, consumer, provider,
		[]string{"events.read", "events.archive"}, AuthTypeService,
	)
	assert.Nil(err)

	// the provider since dropped events.archive from its vocabulary
	lister := &fakeScopeLister{scopes: map[registry.OwnerKind]map[uuid.UUID][]registry.Scope{
		registry.ProviderOwner: {
			provider: {{Name: "events.read"}},
		},
	}}
	reconciler := NewReconciler(zaptest.NewLogger(t), ledger, lister)

	drifts, err := reconciler.Check(context.Background(), db.AppBlockInstallations, provider)
	assert.Nil(err)
	if assert.Len(drifts, 1) {
		assert.Equal(ins.ID(), drifts[0].InstallationID)
		assert.Equal(consumer, drifts[0].ConsumerID)
		assert.Equal([]string{"events.archive"}, drifts[0].UnknownScopes)
	}
}

func TestReconcilerCleanLedger(t *testing.T) {
	assert := assert.New(t)
	consumer := uuid.New()
	provider := uuid.New()
	ledger := newFakeLedger()
	targets := &fakeTargets{
		entries: map[uuid.UUID]*tables.RegistryEntryTable{provider: installable(provider, false)},
	}
	service := newService(t, ledger, &fakeValidator{}, targets, true)

	_, err := service.Install(
		context.Background(), db.AppBlockInstallations, consumer, provider,
		[]string{"events.read"}, AuthTypeService,
	)
	assert.Nil(err)

	lister := &fakeScopeLister{scopes: map[registry.OwnerKind]map[uuid.UUID][]registry.Scope{
		registry.ProviderOwner: {
			provider: {{Name: "events.read"}, {Name: "events.write"}},
		},
	}}
	reconciler := NewReconciler(zaptest.NewLogger(t), ledger, lister)

	drifts, err := reconciler.Check(context.Background(), db.AppBlockInstallations, provider)
	assert.Nil(err)
	assert.Empty(drifts)
}

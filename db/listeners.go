package db

import (
	"context"
	"strings"

	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"go.uber.org/zap"
)

// Auditor is a way to write audit log events into a persistent store
type Auditor interface {
	addToAuditLog(event string, payload tables.MapStructure) error
}

// BootstrapListeners registers all the event listeners from this package
func BootstrapListeners(store Auditor, log *zap.Logger) []events.EventListener {
	return []events.EventListener{
		&installationGrantedListener{
			log:   log,
			store: store,
		},
		&installationUpdatedListener{
			log:   log,
			store: store,
		},
		&installationApprovedListener{
			log:   log,
			store: store,
		},
		&installationRevokedListener{
			log:   log,
			store: store,
		},
		&installationDeletedListener{
			log:   log,
			store: store,
		},
		&tokenIssuedListener{
			log:   log,
			store: store,
		},
		&tokenRevokedListener{
			log:   log,
			store: store,
		},
		&serviceAccountCreatedListener{
			log:   log,
			store: store,
		},
		&serviceAccountRotatedListener{
			log:   log,
			store: store,
		},
		&providerScopeAddedListener{
			log:   log,
			store: store,
		},
		&providerScopeRemovedListener{
			log:   log,
			store: store,
		},
		&expiredTokensPurgedListener{
			log:   log,
			store: store,
		},
	}
}

type installationGrantedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*installationGrantedListener) ForEvent() events.EventName {
	return event.InstallationGrantedEvent
}

func (l *installationGrantedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InstallationGranted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"installation_id": e.InstallationID.String(),
		"kind":            string(e.Kind),
		"consumer_id":     e.ConsumerID.String(),
		"provider_id":     e.ProviderID.String(),
		"scopes":          strings.Join(e.Scopes, " "),
		"auth_type":       e.AuthType,
		"pending":         e.Pending,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type installationUpdatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*installationUpdatedListener) ForEvent() events.EventName {
	return event.InstallationUpdatedEvent
}

func (l *installationUpdatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InstallationUpdated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"installation_id": e.InstallationID.String(),
		"kind":            string(e.Kind),
		"consumer_id":     e.ConsumerID.String(),
		"provider_id":     e.ProviderID.String(),
		"scopes":          strings.Join(e.Scopes, " "),
		"auth_type":       e.AuthType,
		"was_revoked":     e.WasRevoked,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type installationApprovedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*installationApprovedListener) ForEvent() events.EventName {
	return event.InstallationApprovedEvent
}

func (l *installationApprovedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InstallationApproved)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"installation_id": e.InstallationID.String(),
		"kind":            string(e.Kind),
		"approved_at":     e.ApprovedAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type installationRevokedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*installationRevokedListener) ForEvent() events.EventName {
	return event.InstallationRevokedEvent
}

func (l *installationRevokedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InstallationRevoked)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"installation_id": e.InstallationID.String(),
		"kind":            string(e.Kind),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type installationDeletedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*installationDeletedListener) ForEvent() events.EventName {
	return event.InstallationDeletedEvent
}

func (l *installationDeletedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InstallationDeleted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"installation_id": e.InstallationID.String(),
		"kind":            string(e.Kind),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type tokenIssuedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tokenIssuedListener) ForEvent() events.EventName {
	return event.TokenIssuedEvent
}

func (l *tokenIssuedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.TokenIssued)
	// deliberately no token value here
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"token_id":     e.TokenID.String(),
		"subject_type": e.SubjectType,
		"subject_id":   e.SubjectID.String(),
		"app_block_id": e.AppBlockID.String(),
		"scopes":       strings.Join(e.Scopes, " "),
		"expires_at":   e.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type tokenRevokedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tokenRevokedListener) ForEvent() events.EventName {
	return event.TokenRevokedEvent
}

func (l *tokenRevokedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.TokenRevoked)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"token_id": e.TokenID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type serviceAccountCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*serviceAccountCreatedListener) ForEvent() events.EventName {
	return event.ServiceAccountCreatedEvent
}

func (l *serviceAccountCreatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ServiceAccountCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"service_account_id": e.ServiceAccountID.String(),
		"app_block_id":       e.AppBlockID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type serviceAccountRotatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*serviceAccountRotatedListener) ForEvent() events.EventName {
	return event.ServiceAccountRotatedEvent
}

func (l *serviceAccountRotatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ServiceAccountRotated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"service_account_id": e.ServiceAccountID.String(),
		"app_block_id":       e.AppBlockID.String(),
		"rotated_at":         e.RotatedAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type providerScopeAddedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*providerScopeAddedListener) ForEvent() events.EventName {
	return event.ProviderScopeAddedEvent
}

func (l *providerScopeAddedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ProviderScopeAdded)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"scope_id": e.ScopeID.String(),
		"owner_id": e.OwnerID.String(),
		"scope":    e.Scope,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type providerScopeRemovedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*providerScopeRemovedListener) ForEvent() events.EventName {
	return event.ProviderScopeRemovedEvent
}

func (l *providerScopeRemovedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ProviderScopeRemoved)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"scope_id": e.ScopeID.String(),
		"owner_id": e.OwnerID.String(),
		"scope":    e.Scope,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type expiredTokensPurgedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*expiredTokensPurgedListener) ForEvent() events.EventName {
	return event.ExpiredTokensPurgedEvent
}

func (l *expiredTokensPurgedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ExpiredTokensPurged)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"affected": e.Affected,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

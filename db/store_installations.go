package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRevokedPair signals that the pair already holds a revoked
// installation and the caller did not allow reactivation
var ErrRevokedPair = errors.New("installation for this pair has been revoked")

// relation describes one of the two installation tables so both
// ledgers share the exact same query paths
type relation struct {
	table       string
	consumerCol string
	providerCol string
}

func (k InstallationKind) relation() relation {
	if k == ConnectorInstallations {
		return relation{
			table:       "connector_installations",
			consumerCol: "app_block_id",
			providerCol: "connector_id",
		}
	}
	return relation{
		table:       "app_block_installations",
		consumerCol: "consumer_app_block_id",
		providerCol: "provider_app_block_id",
	}
}

func (r relation) columns() []string {
	return []string{
		"id",
		r.consumerCol + " AS consumer_id",
		r.providerCol + " AS provider_id",
		"granted_scopes",
		"auth_type",
		"status",
		"approved_at",
		"last_used_at",
		"created_at",
		"updated_at",
	}
}

// isUniqueViolation matches the constraint violation wording of all
// three supported drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

// UpsertInstallation writes the grant for the (consumer, provider) pair.
// An existing row is updated in place and forced back to active, a
// missing row is inserted with newStatus. Racing inserts for the same
// pair are resolved by retrying the losing insert as an update, so the
// pair uniqueness constraint is never surfaced to the caller.
func (d *DataStore) UpsertInstallation(
	ctx context.Context,
	kind InstallationKind,
	consumerID uuid.UUID,
	providerID uuid.UUID,
	scopes []string,
	authType string,
	newStatus string,
	reactivateRevoked bool,
) (*InstallationRow, bool, error) {
	row, updated, err := d.tryUpsertInstallation(
		ctx, kind, consumerID, providerID, scopes, authType, newStatus, reactivateRevoked,
	)
	if err != nil && isUniqueViolation(err) {
		// lost the insert race, the row exists now - update it
		return d.tryUpsertInstallation(
			ctx, kind, consumerID, providerID, scopes, authType, newStatus, reactivateRevoked,
		)
	}
	return row, updated, err
}

func (d *DataStore) tryUpsertInstallation(
	ctx context.Context,
	kind InstallationKind,
	consumerID uuid.UUID,
	providerID uuid.UUID,
	scopes []string,
	authType string,
	newStatus string,
	reactivateRevoked bool,
) (*InstallationRow, bool, error) {
	rel := kind.relation()
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}

	var existing InstallationRow
	q := sq.Select(rel.columns()...).
		From(rel.table).
		Where(sq.And{
			sq.Eq{rel.consumerCol: consumerID},
			sq.Eq{rel.providerCol: providerID},
		})
	err = d.getStatement(ctx, &existing, q, tx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		rollBack(tx, d)
		return nil, false, err
	}

	now := time.Now().UTC()
	if err == nil {
		if existing.Status == "revoked" && !reactivateRevoked {
			rollBack(tx, d)
			return nil, false, ErrRevokedPair
		}
		update := sq.Update(rel.table).
			Set("granted_scopes", tables.StringSlice(scopes)).
			Set("auth_type", authType).
			Set("status", "active").
			Set("approved_at", now).
			Set("updated_at", now).
			Where(sq.Eq{"id": existing.ID})
		if _, err := d.updateStatement(ctx, update, tx); err != nil {
			rollBack(tx, d)
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			rollBack(tx, d)
			return nil, false, err
		}
		row, err := d.InstallationByID(ctx, kind, existing.ID)
		return row, true, err
	}

	id := uuid.New()
	m := map[string]interface{}{
		"id":             id,
		rel.consumerCol:  consumerID,
		rel.providerCol:  providerID,
		"granted_scopes": tables.StringSlice(scopes),
		"auth_type":      authType,
		"status":         newStatus,
		"created_at":     now,
	}
	if newStatus == "active" {
		m["approved_at"] = now
	}
	insert := sq.Insert(rel.table).SetMap(m)
	if _, err := d.insertStatement(ctx, insert, tx); err != nil {
		rollBack(tx, d)
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		rollBack(tx, d)
		return nil, false, err
	}
	d.log.Debug("granted installation", zap.String("kind", string(kind)))
	row, err := d.InstallationByID(ctx, kind, id)
	return row, false, err
}

func (d *DataStore) InstallationByID(
	ctx context.Context,
	kind InstallationKind,
	id uuid.UUID,
) (*InstallationRow, error) {
	rel := kind.relation()
	q := sq.Select(rel.columns()...).From(rel.table).Where(sq.Eq{"id": id})
	var row InstallationRow
	err := d.getStatement(ctx, &row, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) InstallationByPair(
	ctx context.Context,
	kind InstallationKind,
	consumerID uuid.UUID,
	providerID uuid.UUID,
) (*InstallationRow, error) {
	rel := kind.relation()
	q := sq.Select(rel.columns()...).
		From(rel.table).
		Where(sq.And{
			sq.Eq{rel.consumerCol: consumerID},
			sq.Eq{rel.providerCol: providerID},
		})
	var row InstallationRow
	err := d.getStatement(ctx, &row, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) InstallationsByConsumer(
	ctx context.Context,
	kind InstallationKind,
	consumerID uuid.UUID,
) ([]*InstallationRow, error) {
	rel := kind.relation()
	q := sq.Select(rel.columns()...).
		From(rel.table).
		Where(sq.Eq{rel.consumerCol: consumerID}).
		OrderBy("created_at ASC")
	var rows []*InstallationRow
	err := d.selectStatement(ctx, &rows, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*InstallationRow{}, nil
		}
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) InstallationsByProvider(
	ctx context.Context,
	kind InstallationKind,
	providerID uuid.UUID,
) ([]*InstallationRow, error) {
	rel := kind.relation()
	q := sq.Select(rel.columns()...).
		From(rel.table).
		Where(sq.Eq{rel.providerCol: providerID}).
		OrderBy("created_at ASC")
	var rows []*InstallationRow
	err := d.selectStatement(ctx, &rows, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*InstallationRow{}, nil
		}
		return nil, err
	}
	return rows, nil
}

// ActiveInstallationsByConsumer returns the active grants a consumer
// holds, used to assemble the scope set a token may draw from
func (d *DataStore) ActiveInstallationsByConsumer(
	ctx context.Context,
	kind InstallationKind,
	consumerID uuid.UUID,
) ([]*InstallationRow, error) {
	rel := kind.relation()
	q := sq.Select(rel.columns()...).
		From(rel.table).
		Where(sq.And{
			sq.Eq{rel.consumerCol: consumerID},
			sq.Eq{"status": "active"},
		}).
		OrderBy("created_at ASC")
	var rows []*InstallationRow
	err := d.selectStatement(ctx, &rows, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*InstallationRow{}, nil
		}
		return nil, err
	}
	return rows, nil
}

// SetInstallationStatus transitions the row, stamping approved_at for
// transitions into active
func (d *DataStore) SetInstallationStatus(
	ctx context.Context,
	kind InstallationKind,
	id uuid.UUID,
	status string,
) error {
	rel := kind.relation()
	now := time.Now().UTC()
	update := sq.Update(rel.table).
		Set("status", status).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})
	if status == "active" {
		update = update.Set("approved_at", now)
	}
	rs, err := d.updateStatement(ctx, update, nil)
	if err != nil {
		return err
	}
	affected, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchInstallationUsage stamps last_used_at, best effort for callers
func (d *DataStore) TouchInstallationUsage(
	ctx context.Context,
	kind InstallationKind,
	id uuid.UUID,
) error {
	rel := kind.relation()
	update := sq.Update(rel.table).
		Set("last_used_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, update, nil)
	return err
}

func (d *DataStore) DeleteInstallation(
	ctx context.Context,
	kind InstallationKind,
	id uuid.UUID,
) error {
	rel := kind.relation()
	del := sq.Delete(rel.table).Where(sq.Eq{"id": id})
	rs, err := d.deleteStatement(ctx, del, nil)
	if err != nil {
		return err
	}
	affected, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

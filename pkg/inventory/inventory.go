// Package inventory reads the sessions of a running GUI into domain snapshots.
package inventory

import (
	"context"
	"fmt"

	"github.com/aretw0/sapgui/pkg/connection"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Collect connects, resolves the current session and every session of the
// first connection, and describes each of them. The manager is always closed
// before Collect returns.
func Collect(ctx context.Context, mgr *connection.Manager) (snap *domain.Snapshot, err error) {
	defer func() {
		if cerr := mgr.Close(); cerr != nil && err == nil {
			snap, err = nil, fmt.Errorf("failed to release handles: %w", cerr)
		}
	}()

	if err := mgr.Connect(ctx); err != nil {
		return nil, err
	}
	if err := mgr.FetchCurrentSession(ctx); err != nil {
		return nil, err
	}
	if err := mgr.FetchAllSessions(ctx); err != nil {
		return nil, err
	}

	snap = domain.NewSnapshot(mgr.ApplicationName())
	snap.CurrentTransaction, err = mgr.TransactionID(ctx, mgr.CurrentSession())
	if err != nil {
		return nil, err
	}

	for i, session := range mgr.Sessions() {
		info, err := Describe(mgr, session)
		if err != nil {
			return nil, fmt.Errorf("failed to describe session %d: %w", i, err)
		}
		info.Index = i
		snap.Sessions = append(snap.Sessions, info)
	}
	return snap, nil
}

// CurrentTransaction connects and returns the transaction code of the
// current session. The manager is always closed before it returns.
func CurrentTransaction(ctx context.Context, mgr *connection.Manager) (tx string, err error) {
	defer func() {
		if cerr := mgr.Close(); cerr != nil && err == nil {
			tx, err = "", fmt.Errorf("failed to release handles: %w", cerr)
		}
	}()

	if err := mgr.Connect(ctx); err != nil {
		return "", err
	}
	if err := mgr.FetchCurrentSession(ctx); err != nil {
		return "", err
	}
	return mgr.TransactionID(ctx, mgr.CurrentSession())
}

// Describe reads the Info object of session. Missing or unreadable fields
// are an error; the Info handle is released before returning.
func Describe(mgr *connection.Manager, session ports.Object) (domain.SessionInfo, error) {
	var out domain.SessionInfo

	v, err := mgr.GetAttribute(session, domain.AttrInfo)
	if err != nil {
		return out, fmt.Errorf("failed to read %s: %w", domain.AttrInfo, err)
	}
	info, ok := v.(ports.Object)
	if !ok || info == nil {
		return out, fmt.Errorf("%s returned %T, not an object", domain.AttrInfo, v)
	}
	defer func() {
		_ = mgr.Release(info)
	}()

	raw := make(map[string]any, len(domain.InfoFields))
	for _, field := range domain.InfoFields {
		val, err := mgr.GetAttribute(info, field)
		if err != nil {
			return out, fmt.Errorf("failed to read %s.%s: %w", domain.AttrInfo, field, err)
		}
		if obj, isObj := val.(ports.Object); isObj {
			_ = mgr.Release(obj)
			return out, fmt.Errorf("%s.%s is an object, expected a scalar", domain.AttrInfo, field)
		}
		raw[field] = val
	}

	if err := decode(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func decode(raw map[string]any, out *domain.SessionInfo) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode session info: %w", err)
	}
	return nil
}

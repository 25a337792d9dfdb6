package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
)

// Mask replaces a masked field value.
const Mask = "***"

// DefaultMaskPatterns hides who was logged on.
var DefaultMaskPatterns = []string{"^user$"}

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks the session fields whose JSON name matches one of
// the patterns (user, client, system_name, ...). The caller's snapshot is
// left untouched.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	cloned := *snapshot
	cloned.Sessions = make([]domain.SessionInfo, len(snapshot.Sessions))
	for i, info := range snapshot.Sessions {
		m.mask(&info)
		cloned.Sessions[i] = info
	}
	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) mask(info *domain.SessionInfo) {
	for name, field := range textFields(info) {
		if *field == "" {
			continue
		}
		for _, p := range m.patterns {
			if p.MatchString(name) {
				*field = Mask
				break
			}
		}
	}
}

// textFields maps the JSON names of the string fields of info to the fields.
func textFields(info *domain.SessionInfo) map[string]*string {
	return map[string]*string{
		"system_name":        &info.SystemName,
		"client":             &info.Client,
		"user":               &info.User,
		"language":           &info.Language,
		"transaction":        &info.Transaction,
		"program":            &info.Program,
		"application_server": &info.ApplicationServer,
	}
}

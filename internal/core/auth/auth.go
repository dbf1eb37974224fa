// Package auth provides HMAC editor-key authentication for gRPC services.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/beatforge/fieldgate/internal/types"
)

// MetadataKey is the gRPC metadata header carrying the editor key.
const MetadataKey = "x-editor-key"

// lastUsedThrottle bounds last_used_at writes to one per key per interval.
const lastUsedThrottle = time.Minute

type contextKey string

const editorKey = contextKey("editor")

// Queries defines the database operations authentication needs.
// Implemented by *db.Queries.
type Queries interface {
	Get(ctx context.Context, name string, dest any, args ...any) error
	Exec(ctx context.Context, name string, args ...any) (sql.Result, error)
}

// Editor identifies the holder of an authenticated key.
type Editor struct {
	KeyID string
	Name  string
}

// Authenticator validates editor keys using HMAC-SHA256.
// Secrets are held in memory keyed by secret_id; key hashes live in the
// editor_keys table.
type Authenticator struct {
	secrets map[string][]byte
	queries Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthenticator creates an authenticator with HMAC secrets and query interface.
func NewAuthenticator(secrets map[string][]byte, queries Queries, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		secrets: secrets,
		queries: queries,
		logger:  logger,
		now:     time.Now,
	}
}

type keyRow struct {
	KeyID      string       `db:"key_id"`
	Editor     string       `db:"editor"`
	KeyHash    string       `db:"key_hash"`
	SecretID   string       `db:"secret_id"`
	CreatedAt  time.Time    `db:"created_at"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
}

// Authenticate validates an editor key and returns its holder.
func (a *Authenticator) Authenticate(ctx context.Context, key string) (Editor, error) {
	secretID, _, err := ParseEditorKey(key)
	if err != nil {
		return Editor{}, err
	}

	secret, ok := a.secrets[secretID]
	if !ok {
		return Editor{}, ErrUnknownKey
	}

	var row keyRow
	err = a.queries.Get(ctx, "get-editor-key-by-hash", &row, KeyHash(secret, key))
	if errors.Is(err, sql.ErrNoRows) {
		return Editor{}, ErrInvalidKey
	}
	if err != nil {
		return Editor{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if row.RevokedAt.Valid {
		return Editor{}, ErrKeyRevoked
	}

	now := a.now().UTC()
	if !row.LastUsedAt.Valid || now.Sub(row.LastUsedAt.Time) > lastUsedThrottle {
		if _, err := a.queries.Exec(ctx, "touch-editor-key", now, row.KeyID); err != nil {
			a.logger.Warn("failed to update editor key last_used_at", "key_id", row.KeyID, "error", err)
		}
	}

	return Editor{KeyID: row.KeyID, Name: row.Editor}, nil
}

// Issue creates a key for editor signed with the newest configured secret
// and records its hash. The plaintext key is returned once and never stored.
func (a *Authenticator) Issue(ctx context.Context, editor string) (key string, keyID string, err error) {
	if editor == "" {
		return "", "", fmt.Errorf("editor name required")
	}
	if len(a.secrets) == 0 {
		return "", "", ErrNoSecrets
	}

	// Secret IDs are UUIDv7, so the lexically greatest is the newest.
	ids := make([]string, 0, len(a.secrets))
	for id := range a.secrets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	secretID := ids[len(ids)-1]

	key, err = GenerateEditorKey(secretID)
	if err != nil {
		return "", "", err
	}
	keyID = string(types.NewKeyID())
	if _, err := a.queries.Exec(ctx, "insert-editor-key",
		keyID, editor, KeyHash(a.secrets[secretID], key), secretID, a.now().UTC()); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return key, keyID, nil
}

// UnaryInterceptor returns gRPC interceptor that authenticates requests.
// Health checks pass through unauthenticated.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == "/grpc.health.v1.Health/Check" {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		keys := md.Get(MetadataKey)
		if len(keys) == 0 {
			return nil, status.Error(codes.Unauthenticated, ErrMissingKey.Error())
		}

		editor, err := a.Authenticate(ctx, keys[0])
		switch {
		case err == nil:
		case errors.Is(err, ErrKeyRevoked):
			return nil, status.Error(codes.PermissionDenied, err.Error())
		case errors.Is(err, ErrDatabase):
			return nil, status.Error(codes.Unavailable, err.Error())
		default:
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return handler(WithEditor(ctx, editor), req)
	}
}

// WithEditor returns a context carrying editor.
func WithEditor(ctx context.Context, editor Editor) context.Context {
	return context.WithValue(ctx, editorKey, editor)
}

// EditorFromContext returns the authenticated editor name, or "" if the
// request was not authenticated.
func EditorFromContext(ctx context.Context) string {
	if e, ok := ctx.Value(editorKey).(Editor); ok {
		return e.Name
	}
	return ""
}

package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.CaptureStore   = (*CaptureRepo)(nil)
	_ driven.DiagnosticSink = (*CaptureRepo)(nil)
)

var errNoKey = errors.New("no encryption key configured")

// capturedAtLayout is fixed-width so that text ordering matches time ordering.
const capturedAtLayout = "2006-01-02T15:04:05.000000000Z"

// CaptureRepo is the SQLite implementation of the CaptureStore port and a
// DiagnosticSink. Cleartext secrets are encrypted with AES-256-GCM before write;
// without a key they are replaced by the redaction marker.
type CaptureRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when secret storage is disabled.
}

// NewCaptureRepo creates a new CaptureRepo. key must be 32 bytes for AES-256-GCM,
// or nil to never store cleartext secrets.
func NewCaptureRepo(db *DB, key []byte) *CaptureRepo {
	return &CaptureRepo{db: db, key: key}
}

// Emit implements driven.DiagnosticSink by appending the record.
func (r *CaptureRepo) Emit(ctx context.Context, rec model.CaptureRecord) error {
	return r.Append(ctx, rec)
}

// Append stores a capture record.
func (r *CaptureRepo) Append(ctx context.Context, rec model.CaptureRecord) error {
	secret := model.RedactedSecret
	redacted := true
	if !rec.SecretRedacted && len(r.key) > 0 {
		encrypted, err := r.encrypt(rec.Secret)
		if err != nil {
			return fmt.Errorf("encrypt secret for capture %s: %w", rec.ID, err)
		}
		secret, redacted = encrypted, false
	}

	const query = `INSERT INTO capture_log (id, form, identifier, secret, secret_redacted, captured_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		rec.ID.String(),
		string(rec.Form),
		rec.Identifier,
		secret,
		redacted,
		rec.CapturedAt.UTC().Format(capturedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("append capture %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first. Encrypted secrets are
// decrypted; a secret that cannot be (no key, or a different key) is masked
// and the record is flagged SecretUnreadable.
func (r *CaptureRepo) ListRecent(ctx context.Context, limit int) ([]model.CaptureRecord, error) {
	const query = `SELECT id, form, identifier, secret, secret_redacted, captured_at
		FROM capture_log ORDER BY captured_at DESC, id LIMIT ?`
	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	recs := []model.CaptureRecord{}
	for rows.Next() {
		var (
			rec        model.CaptureRecord
			id, form   string
			secret     string
			capturedAt string
		)
		if err := rows.Scan(&id, &form, &rec.Identifier, &secret, &rec.SecretRedacted, &capturedAt); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}

		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse capture id %q: %w", id, err)
		}
		rec.Form = model.Form(form)

		rec.CapturedAt, err = time.Parse(capturedAtLayout, capturedAt)
		if err != nil {
			return nil, fmt.Errorf("parse captured_at for capture %s: %w", id, err)
		}

		if rec.SecretRedacted {
			rec.Secret = secret
		} else if rec.Secret, err = r.decrypt(secret); err != nil {
			// Missing or rotated key: mask this row and keep listing the rest.
			rec.Secret, rec.SecretUnreadable = model.RedactedSecret, true
		}

		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captures: %w", err)
	}

	return recs, nil
}

// CountByForm returns the number of stored records per form.
func (r *CaptureRepo) CountByForm(ctx context.Context) (model.CaptureStats, error) {
	const query = `SELECT form, COUNT(*) FROM capture_log GROUP BY form`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return model.CaptureStats{}, fmt.Errorf("count captures: %w", err)
	}
	defer rows.Close()

	var stats model.CaptureStats
	for rows.Next() {
		var form string
		var n int64
		if err := rows.Scan(&form, &n); err != nil {
			return model.CaptureStats{}, fmt.Errorf("scan capture count: %w", err)
		}
		switch model.Form(form) {
		case model.FormSignUp:
			stats.SignUp = n
		case model.FormLogIn:
			stats.LogIn = n
		}
	}
	if err := rows.Err(); err != nil {
		return model.CaptureStats{}, fmt.Errorf("iterate capture counts: %w", err)
	}

	return stats, nil
}

// Purge deletes records captured before olderThan.
func (r *CaptureRepo) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	const query = `DELETE FROM capture_log WHERE captured_at < ?`
	res, err := r.db.Writer.ExecContext(ctx, query, olderThan.UTC().Format(capturedAtLayout))
	if err != nil {
		return 0, fmt.Errorf("purge captures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge captures rows affected: %w", err)
	}
	return n, nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CaptureRepo) encrypt(plaintext string) (string, error) {
	gcm, err := newGCM(r.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CaptureRepo) decrypt(encoded string) (string, error) {
	if len(r.key) == 0 {
		return "", errNoKey
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := newGCM(r.key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

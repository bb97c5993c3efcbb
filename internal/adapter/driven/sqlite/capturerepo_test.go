package sqlite

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func newRecord(form model.Form, identifier, secret string, at time.Time) model.CaptureRecord {
	return model.CaptureRecord{
		ID:         uuid.New(),
		Form:       form,
		Identifier: identifier,
		Secret:     secret,
		CapturedAt: at,
	}
}

func TestCaptureRepo_AppendAndListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newRecord(model.FormSignUp, "a@b.com", "x", base)
	second := newRecord(model.FormLogIn, "c@d.com", "y", base.Add(time.Minute))
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	recs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Newest first.
	assert.Equal(t, second.ID, recs[0].ID)
	assert.Equal(t, model.FormLogIn, recs[0].Form)
	assert.Equal(t, "c@d.com", recs[0].Identifier)
	assert.Equal(t, "y", recs[0].Secret)
	assert.False(t, recs[0].SecretRedacted)
	assert.True(t, second.CapturedAt.Equal(recs[0].CapturedAt))

	assert.Equal(t, "Sign Up: a@b.com x", recs[1].String())
}

func TestCaptureRepo_SecretEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()

	rec := newRecord(model.FormSignUp, "a@b.com", "hunter2", time.Now())
	require.NoError(t, repo.Append(ctx, rec))

	var stored string
	err := db.Reader.QueryRowContext(ctx, `SELECT secret FROM capture_log WHERE id = ?`, rec.ID.String()).Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored)
	assert.NotContains(t, stored, "hunter2")
}

func TestCaptureRepo_RedactedRecordKeepsMarker(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()

	rec := newRecord(model.FormLogIn, "c@d.com", model.RedactedSecret, time.Now())
	rec.SecretRedacted = true
	require.NoError(t, repo.Emit(ctx, rec))

	recs, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].SecretRedacted)
	assert.Equal(t, model.RedactedSecret, recs[0].Secret)
}

func TestCaptureRepo_NoKeyStoresMarker(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newRecord(model.FormSignUp, "a@b.com", "x", time.Now())))

	recs, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].SecretRedacted)
	assert.Equal(t, model.RedactedSecret, recs[0].Secret)
}

func TestCaptureRepo_UnreadableSecretsAreMasked(t *testing.T) {
	tests := []struct {
		name    string
		readKey []byte
	}{
		{name: "no key", readKey: nil},
		{name: "different key", readKey: bytes.Repeat([]byte{0x17}, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			encrypted := newRecord(model.FormSignUp, "a@b.com", "x", base)
			require.NoError(t, NewCaptureRepo(db, testKey).Append(ctx, encrypted))
			redacted := newRecord(model.FormLogIn, "c@d.com", "y", base.Add(time.Minute))
			require.NoError(t, NewCaptureRepo(db, nil).Append(ctx, redacted))

			recs, err := NewCaptureRepo(db, tt.readKey).ListRecent(ctx, 5)
			require.NoError(t, err)
			require.Len(t, recs, 2)

			assert.Equal(t, redacted.ID, recs[0].ID)
			assert.True(t, recs[0].SecretRedacted)
			assert.False(t, recs[0].SecretUnreadable)
			assert.Equal(t, model.RedactedSecret, recs[0].Secret)

			assert.Equal(t, encrypted.ID, recs[1].ID)
			assert.Equal(t, "a@b.com", recs[1].Identifier)
			assert.False(t, recs[1].SecretRedacted)
			assert.True(t, recs[1].SecretUnreadable)
			assert.Equal(t, model.RedactedSecret, recs[1].Secret)
		})
	}
}

func TestCaptureRepo_EmptyIdentifierAccepted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newRecord(model.FormSignUp, "", "", time.Now())))

	recs, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "", recs[0].Identifier)
	assert.Equal(t, "", recs[0].Secret)
	assert.False(t, recs[0].SecretUnreadable)
}

func TestCaptureRepo_ListRecentLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()
	base := time.Now()

	for i := range 5 {
		require.NoError(t, repo.Append(ctx, newRecord(model.FormLogIn, "u", "p", base.Add(time.Duration(i)*time.Second))))
	}

	recs, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestCaptureRepo_ListRecentEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)

	recs, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NotNil(t, recs)
}

func TestCaptureRepo_CountByForm(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newRecord(model.FormSignUp, "a", "1", time.Now())))
	require.NoError(t, repo.Append(ctx, newRecord(model.FormSignUp, "b", "2", time.Now())))
	require.NoError(t, repo.Append(ctx, newRecord(model.FormLogIn, "c", "3", time.Now())))

	stats, err := repo.CountByForm(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.SignUp)
	assert.Equal(t, int64(1), stats.LogIn)
}

func TestCaptureRepo_Purge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	old := newRecord(model.FormSignUp, "old", "x", now.Add(-48*time.Hour))
	fresh := newRecord(model.FormSignUp, "fresh", "y", now.Add(-time.Hour))
	require.NoError(t, repo.Append(ctx, old))
	require.NoError(t, repo.Append(ctx, fresh))

	n, err := repo.Purge(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	recs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, fresh.ID, recs[0].ID)
}

func TestCaptureRepo_RejectsUnknownForm(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCaptureRepo(db, testKey)

	err := repo.Append(context.Background(), newRecord(model.Form("reset"), "a", "b", time.Now()))
	assert.Error(t, err)
}

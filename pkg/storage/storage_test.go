package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerGenerateAndParse(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("attendance-summary.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	name, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "attendance-summary.csv", name)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignerRejectsExpired(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	signer.ttl = -time.Minute
	token, _, err := signer.Generate("attendance-summary.csv")
	require.NoError(t, err)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Generate("attendance-summary.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "9999999999"
	_, _, err = signer.Parse(strings.Join(parts, "."))
	require.Error(t, err)

	other := NewSigner("other-secret", time.Hour)
	_, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestExportStoreSaveAndRead(t *testing.T) {
	store, err := NewExportStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("summary.csv", []byte("Student,Percentage\n"))
	require.NoError(t, err)
	require.Equal(t, "summary.csv", name)

	data, err := store.Read("summary.csv")
	require.NoError(t, err)
	require.Equal(t, "Student,Percentage\n", string(data))
}

func TestExportStoreRejectsTraversal(t *testing.T) {
	store, err := NewExportStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape.csv", "/etc/passwd", "a/b.csv", ".", ""} {
		_, err := store.Save(name, []byte("x"))
		require.Error(t, err, "name %q", name)
	}
}

func TestExportStoreCleanupOlderThan(t *testing.T) {
	store, err := NewExportStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("fresh.csv", []byte("x"))
	require.NoError(t, err)

	removed, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	require.Empty(t, removed)

	removed, err = store.CleanupOlderThan(-time.Minute)
	require.NoError(t, err)
	require.Equal(t, []string{"fresh.csv"}, removed)
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvp-whatsapp/internal/models"
)

func testRecord(mobile string) models.RSVP {
	return models.RSVP{
		Timestamp:      1714550400,
		MobileE164:     mobile,
		FullName:       "Asha Rao",
		DateOfBirth:    "1990-05-01",
		AgeYears:       34,
		FullAddress:    "12, MG Road, Pune",
		IsHost:         models.AnswerNo,
		AttendedBefore: models.AnswerYes,
		Referral:       "WhatsApp",
	}
}

func TestEnsureInitializedWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvp.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.EnsureInitialized())
	require.NoError(t, store.EnsureInitialized())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "ts,mobile_e164,full_name,dob,age_years,full_address,education,occupation,is_host,attended_before,referral,p3y_prapti_din,experience,skill,photo_path", lines[0])
}

func TestEnsureInitializedCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "rsvp.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.EnsureInitialized())
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestAppendAndExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvp.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.Append(testRecord("+919876543210")))

	assert.True(t, store.Exists("+919876543210"))
	assert.False(t, store.Exists("+919876543211"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "header plus one record")
	assert.True(t, strings.HasPrefix(lines[1], "1714550400,+919876543210,Asha Rao,1990-05-01,34,"))
}

func TestAppendInitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvp.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.Append(testRecord("+919876543210")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ts,mobile_e164,"))
}

func TestExistsMissingFileIsFalse(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "nope.csv"))
	assert.False(t, store.Exists("+919876543210"))
}

func TestExistsMalformedFileIsFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvp.csv")
	require.NoError(t, os.WriteFile(path, []byte("ts,mobile_e164\n\"unterminated"), 0644))

	store := NewCSVStore(path)
	assert.False(t, store.Exists("+919876543210"))
}

func TestAppendFailureIsStorageWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(dir) // a directory cannot be created as a file

	err := store.Append(testRecord("+919876543210"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageWrite), "expected ErrStorageWrite, got %v", err)
}

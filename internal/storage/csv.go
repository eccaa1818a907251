package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"rsvp-whatsapp/internal/models"
)

// ErrStorageWrite marks an I/O failure while persisting a record or photo.
var ErrStorageWrite = errors.New("storage write failed")

// csvHeader is the fixed column order of the backing file. The order is a
// wire contract shared with whoever consumes the CSV downstream.
var csvHeader = []string{
	"ts", "mobile_e164", "full_name", "dob", "age_years", "full_address",
	"education", "occupation", "is_host", "attended_before", "referral",
	"p3y_prapti_din", "experience", "skill", "photo_path",
}

const mobileColumn = 1

// CSVStore appends RSVP records to a flat CSV file. Uniqueness of
// mobile_e164 is advisory only: concurrent writers race at the row level
// and last-writer-wins.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore creates a store backed by the file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// EnsureInitialized creates the backing file with the header row if it does
// not exist yet. Safe to call repeatedly.
func (s *CSVStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure()
}

func (s *CSVStore) ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", ErrStorageWrite, dir, err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStorageWrite, s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrStorageWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrStorageWrite, err)
	}
	return nil
}

// Exists reports whether a record with the given normalized number is
// already in the store. An unreadable or absent store reads as "not
// registered" rather than an error.
func (s *CSVStore) Exists(phoneE164 string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return false
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > mobileColumn && row[mobileColumn] == phoneE164 {
			return true
		}
	}
	return false
}

// Append writes one record to the store, initializing it first if needed.
func (s *CSVStore) Append(r models.RSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrStorageWrite, s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rowFor(r)); err != nil {
		return fmt.Errorf("%w: append record: %v", ErrStorageWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: append record: %v", ErrStorageWrite, err)
	}
	return nil
}

func rowFor(r models.RSVP) []string {
	return []string{
		strconv.FormatInt(r.Timestamp, 10),
		r.MobileE164,
		r.FullName,
		r.DateOfBirth,
		strconv.Itoa(r.AgeYears),
		r.FullAddress,
		r.Education,
		r.Occupation,
		r.IsHost,
		r.AttendedBefore,
		r.Referral,
		r.PraptiDin,
		r.Experience,
		r.Skill,
		r.PhotoPath,
	}
}

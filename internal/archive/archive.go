// ABOUTME: Charm KV-backed audit archive for negotiation rounds and drafts
// ABOUTME: Best-effort persistence with retried writes; never blocks the core
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/google/uuid"
	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/util"
)

// Key prefixes for archived entity types
const (
	RoundPrefix = "round:"
	DraftPrefix = "draft:"
)

const (
	writeRetries   = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Config holds archive storage configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig reads archive configuration from the environment
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	name := os.Getenv("CHARM_DB")
	if name == "" {
		name = "settleflow"
	}
	return &Config{
		Host:     host,
		DBName:   name,
		AutoSync: true,
	}
}

// RoundRecord is one archived negotiation round
type RoundRecord struct {
	EntryID   string                `json:"entry_id"`
	Timestamp time.Time             `json:"timestamp"`
	SessionID string                `json:"session_id"`
	Response  *models.RoundResponse `json:"response"`
}

// DraftRecord is one archived settlement draft
type DraftRecord struct {
	EntryID   string                 `json:"entry_id"`
	Timestamp time.Time              `json:"timestamp"`
	CaseRef   string                 `json:"case_ref"`
	Draft     models.SettlementDraft `json:"draft"`
}

// kvStore is the subset of the Charm KV client the archive uses
type kvStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Store archives negotiation activity in Charm KV
type Store struct {
	kv         kvStore
	config     *Config
	retryDelay time.Duration
	mu         sync.Mutex
}

// Open opens the archive store, pulling remote data when auto-sync is on
func Open(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive kv: %w", err)
	}

	s := &Store{kv: db, config: cfg, retryDelay: baseRetryDelay}
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return s, nil
}

// Close closes the underlying KV database
func (s *Store) Close() error {
	if s.kv != nil {
		err := s.kv.Close()
		s.kv = nil
		return err
	}
	return nil
}

// RecordRound archives one negotiation round under its session and round key
func (s *Store) RecordRound(sessionID string, resp *models.RoundResponse) (string, error) {
	rec := RoundRecord{
		EntryID:   uuid.New().String(),
		Timestamp: time.Now(),
		SessionID: sessionID,
		Response:  resp,
	}
	key := fmt.Sprintf("%s%s:%d", RoundPrefix, sessionID, resp.Round)
	if err := s.setJSON(key, rec); err != nil {
		return "", err
	}
	return rec.EntryID, nil
}

// RecordDraft archives one compiled settlement draft
func (s *Store) RecordDraft(caseRef string, doc models.SettlementDraft) (string, error) {
	rec := DraftRecord{
		EntryID:   uuid.New().String(),
		Timestamp: time.Now(),
		CaseRef:   caseRef,
		Draft:     doc,
	}
	if err := s.setJSON(DraftPrefix+rec.EntryID, rec); err != nil {
		return "", err
	}
	return rec.EntryID, nil
}

// GetDraft retrieves an archived draft by entry id
func (s *Store) GetDraft(entryID string) (*DraftRecord, error) {
	var rec DraftRecord
	if err := s.getJSON(DraftPrefix+entryID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SessionRounds returns the archive keys for all rounds of a session
func (s *Store) SessionRounds(sessionID string) ([]string, error) {
	return s.listKeys(RoundPrefix + sessionID + ":")
}

// setJSON marshals and writes a value, retrying transient KV failures
func (s *Store) setJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal archive entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= writeRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.Backoff(s.retryDelay, attempt))
		}
		if err := s.kv.Set([]byte(key), data); err != nil {
			lastErr = err
			continue
		}
		if s.config.AutoSync {
			_ = s.kv.Sync()
		}
		return nil
	}
	return fmt.Errorf("failed to archive %s after %d attempts: %w", key, writeRetries+1, lastErr)
}

func (s *Store) getJSON(key string, dest interface{}) error {
	s.mu.Lock()
	data, err := s.kv.Get([]byte(key))
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to read archive key %s: %w", key, err)
	}
	if data == nil {
		return fmt.Errorf("archive key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (s *Store) listKeys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list archive keys: %w", err)
	}

	var out []string
	for _, key := range keys {
		if strings.HasPrefix(string(key), prefix) {
			out = append(out, string(key))
		}
	}
	return out, nil
}

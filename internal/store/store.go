// Package store persists the client-local session records: the authenticated
// identity, the active debate context, and the final transcript. Each is one
// serialized JSON file under the data directory, retrievable across restarts
// and cleared on logout or return-to-lobby.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"podium/internal/auth"
	"podium/internal/debate"
	"podium/internal/protocol"
)

const (
	identityFile   = "identity.json"
	debateFile     = "debate.json"
	transcriptFile = "transcript.json"
)

// DebateRecord is the persisted slice of the debate context: enough to
// re-enter the debate flow after a reload.
type DebateRecord struct {
	DebateID     int    `json:"debate_id"`
	Topic        string `json:"topic"`
	YourSide     string `json:"your_side"`
	OpponentSide string `json:"opponent_side"`
	Phase        string `json:"phase"`
}

// TranscriptRecord is the final debate log kept for the summary view.
type TranscriptRecord struct {
	DebateID int                `json:"debate_id"`
	Topic    string             `json:"topic"`
	Messages []protocol.Message `json:"messages"`
}

type Store struct {
	log *zap.Logger
	dir string
}

func New(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &Store{log: log, dir: dir}, nil
}

func (s *Store) SaveIdentity(id auth.Identity) error {
	return s.write(identityFile, id)
}

// LoadIdentity returns (nil, nil) when no identity is persisted.
func (s *Store) LoadIdentity() (*auth.Identity, error) {
	var id auth.Identity
	ok, err := s.read(identityFile, &id)
	if err != nil || !ok {
		return nil, err
	}
	return &id, nil
}

func (s *Store) SaveDebate(d debate.State) error {
	return s.write(debateFile, DebateRecord{
		DebateID:     d.DebateID,
		Topic:        d.Topic,
		YourSide:     d.YourSide,
		OpponentSide: d.OpponentSide,
		Phase:        string(d.Phase),
	})
}

func (s *Store) LoadDebate() (*DebateRecord, error) {
	var rec DebateRecord
	ok, err := s.read(debateFile, &rec)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveTranscript(debateID int, topic string, messages []protocol.Message) error {
	return s.write(transcriptFile, TranscriptRecord{DebateID: debateID, Topic: topic, Messages: messages})
}

func (s *Store) LoadTranscript() (*TranscriptRecord, error) {
	var rec TranscriptRecord
	ok, err := s.read(transcriptFile, &rec)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}

// ClearDebate removes the debate context and transcript, e.g. on
// return-to-lobby.
func (s *Store) ClearDebate() error {
	return errors.Join(s.remove(debateFile), s.remove(transcriptFile))
}

// Clear wipes everything, e.g. on logout.
func (s *Store) Clear() error {
	return errors.Join(s.remove(identityFile), s.ClearDebate())
}

func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	s.log.Debug("record saved", zap.String("file", name))
	return nil
}

func (s *Store) read(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", name, err)
	}
	return true, nil
}

func (s *Store) remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: remove %s: %w", name, err)
	}
	return nil
}

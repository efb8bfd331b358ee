package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const traceExt = ".json"

// Store persists selection traces as content-addressed files:
//
//	<baseDir>/<trace-hash>.json
//
// All writes are atomic and durable (file sync + atomic rename + dir sync).
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("baseDir is required")
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes tr under its trace hash and returns the hash.
// Saving an identical trace twice is a no-op rewrite of the same bytes.
func (s *Store) Save(tr SelectionTrace) (string, error) {
	if s == nil {
		return "", errors.New("nil Store")
	}
	hash, err := tr.Hash()
	if err != nil {
		return "", fmt.Errorf("hash trace: %w", err)
	}
	if err := WriteFile(filepath.Join(s.baseDir, hash+traceExt), tr); err != nil {
		return "", err
	}
	return hash, nil
}

// Load reads the trace stored under hash and verifies its content still
// matches the hash.
func (s *Store) Load(hash string) (SelectionTrace, error) {
	if s == nil {
		return SelectionTrace{}, errors.New("nil Store")
	}
	if hash == "" || strings.ContainsAny(hash, `/\.`) {
		return SelectionTrace{}, fmt.Errorf("invalid trace hash %q", hash)
	}
	tr, err := ReadFile(filepath.Join(s.baseDir, hash+traceExt))
	if err != nil {
		return SelectionTrace{}, err
	}
	got, err := tr.Hash()
	if err != nil {
		return SelectionTrace{}, err
	}
	if got != hash {
		return SelectionTrace{}, fmt.Errorf("trace %s on disk hashes to %s", hash, got)
	}
	return tr, nil
}

// List returns all stored trace hashes.
//
// Determinism: the returned slice is sorted lexicographically.
func (s *Store) List() ([]string, error) {
	if s == nil {
		return nil, errors.New("nil Store")
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), traceExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), traceExt))
	}
	sort.Strings(out)
	return out, nil
}

// WriteFile writes the canonical encoding of tr to path atomically.
func WriteFile(path string, tr SelectionTrace) error {
	b, err := tr.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := writeFileAtomicDurable(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

// ReadFile reads a trace strictly: unknown fields and trailing content are
// rejected, and the decoded trace must validate.
func ReadFile(path string) (SelectionTrace, error) {
	var tr SelectionTrace
	if err := readJSONStrict(path, &tr); err != nil {
		return SelectionTrace{}, fmt.Errorf("read trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return SelectionTrace{}, fmt.Errorf("invalid trace on disk: %w", err)
	}
	return tr, nil
}

func readJSONStrict(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

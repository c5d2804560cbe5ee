// Package storage is the object store for attachments: files on local disk
// under a base directory, downloadable through time-limited signed URLs.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store saves and removes attachment files and signs download URLs.
type Store struct {
	baseDir string
	secret  []byte
}

func New(baseDir string, secret []byte) *Store {
	return &Store{baseDir: baseDir, secret: secret}
}

// EnsureBase creates the base directory.
func (s *Store) EnsureBase() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// fullPath resolves a stored relative path, rejecting traversal outside the
// base directory.
func (s *Store) fullPath(rel string) (string, error) {
	rel = filepath.Clean("/" + rel)[1:]
	if rel == "" || rel == "." {
		return "", fmt.Errorf("empty storage path")
	}
	return filepath.Join(s.baseDir, rel), nil
}

// Save writes the file at the given relative path, creating parent
// directories as needed. Existing files are overwritten (upsert).
func (s *Store) Save(rel string, src io.Reader) error {
	full, err := s.fullPath(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	dst, err := os.Create(full)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

// Remove deletes the given stored files. The first failure is returned;
// missing files are not an error.
func (s *Store) Remove(rels ...string) error {
	for _, rel := range rels {
		full, err := s.fullPath(rel)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Open opens a stored file for reading.
func (s *Store) Open(rel string) (*os.File, error) {
	full, err := s.fullPath(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// SignURL returns a relative download URL valid for ttl, of the form
// /files/<path>?exp=<unix>&sig=<hex>.
func (s *Store) SignURL(rel string, ttl time.Duration, now time.Time) string {
	rel = strings.TrimPrefix(rel, "/")
	exp := now.Add(ttl).Unix()
	return fmt.Sprintf("/files/%s?exp=%d&sig=%s", rel, exp, s.sign(rel, exp))
}

// Verify checks a download request's signature and expiry.
func (s *Store) Verify(rel string, exp int64, sig string, now time.Time) bool {
	rel = strings.TrimPrefix(rel, "/")
	if now.Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.sign(rel, exp)))
}

func (s *Store) sign(rel string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", rel, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

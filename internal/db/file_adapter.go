package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
	"gopkg.in/yaml.v3"
)

// FileAdapter keeps sessions in a YAML document on the local disk. It is meant for the CLI where
// the session has to outlive the process.
type FileAdapter struct {
	path      string
	encryptor models.Encryptor
	lock      sync.Mutex
}

type sessionsDocument struct {
	Sessions map[string]models.Session `yaml:"sessions"`
}

type FileAdapterOption func(*FileAdapter) error

func WithFilePath(path string) FileAdapterOption {
	return func(f *FileAdapter) error {
		f.path = path
		return nil
	}
}

func WithFileEncryption(secretKey string) FileAdapterOption {
	return func(f *FileAdapter) error {
		encryptor, err := NewGCMEncryptor(secretKey)
		if err != nil {
			return err
		}
		f.encryptor = encryptor
		return nil
	}
}

func NewFileAdapter(options ...FileAdapterOption) (*FileAdapter, error) {
	adapter := FileAdapter{}
	for _, opt := range options {
		err := opt(&adapter)
		if err != nil {
			return &FileAdapter{}, err
		}
	}
	if adapter.path == "" {
		return &FileAdapter{}, fmt.Errorf("session file path is not initialized")
	}
	return &adapter, nil
}

func (f *FileAdapter) read() (sessionsDocument, error) {
	doc := sessionsDocument{Sessions: map[string]models.Session{}}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	err = yaml.Unmarshal(raw, &doc)
	if err != nil {
		return doc, fmt.Errorf("cannot parse session file %s: %w", f.path, err)
	}
	if doc.Sessions == nil {
		doc.Sessions = map[string]models.Session{}
	}
	return doc, nil
}

// write replaces the file through a rename so a concurrent reader sees either the old or the new
// document.
func (f *FileAdapter) write(doc sessionsDocument) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(raw)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Chmod(0600)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileAdapter) GetSession(_ context.Context, key string) (models.Session, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	doc, err := f.read()
	if err != nil {
		return models.Session{}, err
	}
	session, found := doc.Sessions[key]
	if !found {
		return models.Session{}, gwerrors.ErrSessionNotFound
	}
	return openSession(f.encryptor, session)
}

func (f *FileAdapter) SetSession(_ context.Context, key string, session models.Session) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	sealed, err := sealSession(f.encryptor, session)
	if err != nil {
		return err
	}
	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Sessions[key] = sealed
	return f.write(doc)
}

func (f *FileAdapter) RemoveSession(_ context.Context, key string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, found := doc.Sessions[key]; !found {
		return nil
	}
	delete(doc.Sessions, key)
	return f.write(doc)
}

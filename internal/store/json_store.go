package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type jsonFile struct {
	Version   int                 `json:"version"`
	Documents map[string]Document `json:"documents"` // keyed userID/collection/id
}

// JSONStore keeps all documents in a single JSON file, rewritten on
// every mutation. Useful for debugging and as a dependency-free
// fallback backend.
type JSONStore struct {
	path string
	file *jsonFile
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func docKey(userID, collection, id string) string {
	return userID + "/" + collection + "/" + id
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.file = &jsonFile{
		Version:   1,
		Documents: make(map[string]Document),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'kaizen init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.file = &jsonFile{}
	if err := json.Unmarshal(data, s.file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if s.file.Documents == nil {
		s.file.Documents = make(map[string]Document)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Put(_ context.Context, userID, collection, id string, data any) (Document, error) {
	if s.file == nil {
		return Document{}, fmt.Errorf("storage not loaded")
	}

	body, err := marshalBody(collection, id, data)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		UserID:     userID,
		Collection: collection,
		ID:         id,
		Data:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if prev, ok := s.file.Documents[docKey(userID, collection, id)]; ok {
		doc.CreatedAt = prev.CreatedAt
	}

	s.file.Documents[docKey(userID, collection, id)] = doc
	if err := s.save(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *JSONStore) Get(_ context.Context, userID, collection, id string) (Document, error) {
	if s.file == nil {
		return Document{}, fmt.Errorf("storage not loaded")
	}

	doc, ok := s.file.Documents[docKey(userID, collection, id)]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return doc, nil
}

func (s *JSONStore) List(_ context.Context, userID, collection string) ([]Document, error) {
	if s.file == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	prefix := userID + "/" + collection + "/"
	var docs []Document
	for key, doc := range s.file.Documents {
		if strings.HasPrefix(key, prefix) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *JSONStore) Query(ctx context.Context, userID, collection, field, value string) ([]Document, error) {
	docs, err := s.List(ctx, userID, collection)
	if err != nil {
		return nil, err
	}

	matched := docs[:0]
	for _, doc := range docs {
		if fieldEquals(doc, field, value) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (s *JSONStore) Delete(_ context.Context, userID, collection, id string) error {
	if s.file == nil {
		return fmt.Errorf("storage not loaded")
	}

	key := docKey(userID, collection, id)
	if _, ok := s.file.Documents[key]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(s.file.Documents, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

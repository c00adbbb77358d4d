// Package backup exports a user's documents to a JSON snapshot and
// restores them. Snapshots live next to the database, are timestamped,
// and old ones are rotated out.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tyamagishi/kaizen/internal/store"
)

const (
	// MaxBackups is how many snapshots are kept per user.
	MaxBackups = 14
	dirName    = "backups"
	filePrefix = "kaizen-"
	fileSuffix = ".json"
)

// userCollections are the per-user collections included in a snapshot.
// Account credentials live under the system user and are excluded.
var userCollections = []string{
	store.CollectionProfiles,
	store.CollectionSubscriptions,
	store.CollectionEntries,
	store.CollectionGoals,
	store.CollectionSMARTGoals,
	store.CollectionThemes,
}

// Snapshot is the on-disk backup shape.
type Snapshot struct {
	Version   int                         `json:"version"`
	UserID    string                      `json:"user_id"`
	CreatedAt time.Time                   `json:"created_at"`
	Documents map[string][]store.Document `json:"documents"`
}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	store     store.Provider
	backupDir string
}

func NewManager(provider store.Provider) *Manager {
	configDir := filepath.Dir(provider.GetConfigPath())
	return &Manager{
		store:     provider,
		backupDir: filepath.Join(configDir, dirName),
	}
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Create exports every document owned by userID into a new snapshot
// file and returns its path.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	snap := Snapshot{
		Version:   1,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Documents: make(map[string][]store.Document, len(userCollections)),
	}
	for _, collection := range userCollections {
		docs, err := m.store.List(ctx, userID, collection)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", collection, err)
		}
		if len(docs) > 0 {
			snap.Documents[collection] = docs
		}
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := m.newBackupPath()
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	if err := m.rotate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to rotate old backups: %v\n", err)
	}
	return path, nil
}

// Restore writes the snapshot's documents back into the store. The
// snapshot must parse and must belong to userID; nothing is written
// until both checks pass.
func (m *Manager) Restore(ctx context.Context, userID, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return 0, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.UserID != userID {
		return 0, fmt.Errorf("snapshot belongs to another user")
	}

	restored := 0
	for collection, docs := range snap.Documents {
		for _, doc := range docs {
			var body any
			if err := json.Unmarshal(doc.Data, &body); err != nil {
				return restored, fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err)
			}
			if _, err := m.store.Put(ctx, userID, collection, doc.ID, body); err != nil {
				return restored, fmt.Errorf("restore %s/%s: %w", collection, doc.ID, err)
			}
			restored++
		}
	}
	return restored, nil
}

// List returns the available snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fileSuffix {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) newBackupPath() string {
	timestamp := time.Now().Format("20060102-150405")
	name := fmt.Sprintf("%s%s%s", filePrefix, timestamp, fileSuffix)
	path := filepath.Join(m.backupDir, name)

	counter := 1
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		name = fmt.Sprintf("%s%s-%d%s", filePrefix, timestamp, counter, fileSuffix)
		path = filepath.Join(m.backupDir, name)
		counter++
	}
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), MaxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return err
		}
	}
	return nil
}

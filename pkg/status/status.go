// Copyright 2025 hxzhao
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package status tracks output files and performs the writes into the
// output root on behalf of transformation stages.
package status

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the current state of an output file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File doesn't exist in the output root
	StatusModified             // File exists but content differs
	StatusUnchanged            // File exists and content matches
	StatusFailed               // Writing the file failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a tracked output file
type FileInfo struct {
	Path     string     // Relative path within the output root
	Status   FileStatus // Current status
	Size     int64      // File size in bytes
	Checksum uint64     // Content hash for change detection
	Err      error      // Any error associated with this file
}

// 🔧 Manager performs filesystem operations rooted at the output directory
// and tracks the status of every file it touched during a run
type Manager struct {
	fs      afero.Fs
	baseDir string // Output root; all paths are resolved below it

	mu    sync.RWMutex
	files map[string]FileInfo
}

// 🏭 NewManager creates a manager rooted at baseDir
func NewManager(fs afero.Fs, baseDir string) *Manager {
	return &Manager{
		fs:      fs,
		baseDir: filepath.Clean(baseDir),
		files:   make(map[string]FileInfo),
	}
}

// 🔒 getAbsPath returns the absolute path for a given relative path
func (m *Manager) getAbsPath(path string) string {
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// WriteFile writes content below the output root, creating parent
// directories and writing atomically
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	if err := m.fs.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	return m.WriteFileAtomic(ctx, path, content)
}

// WriteFileAtomic writes to a temp file and renames it into place
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)
	tempPath := absPath + ".tmp"

	if err := afero.WriteFile(m.fs, tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := m.fs.Rename(tempPath, absPath); err != nil {
		m.fs.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// ReadFile reads a file below the output root
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := afero.ReadFile(m.fs, m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// FileExists reports whether a file exists below the output root
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	exists, err := afero.Exists(m.fs, m.getAbsPath(path))
	if err != nil {
		return false, errors.Errorf("checking file existence: %w", err)
	}
	return exists, nil
}

// CreateDir creates a directory below the output root
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := m.fs.MkdirAll(m.getAbsPath(path), 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// TrackFile records the status of an output file
func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = info
}

// GetFileInfo returns the tracked status of an output file
func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns all tracked files, sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

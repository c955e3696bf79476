package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps each project's plan artifacts in one directory:
// the plan document, the structured elements and the raster preview.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) ProjectDir(projectID string) string {
	return filepath.Join(s.root, projectID)
}

func (s *FileStorage) PlanPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "plan.svg")
}

func (s *FileStorage) ElementsPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "elements.json")
}

func (s *FileStorage) PreviewPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "preview.png")
}

func (s *FileStorage) EnsureDir(projectID string) error {
	if err := os.MkdirAll(s.ProjectDir(projectID), 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

func (s *FileStorage) Save(projectID, target string, data []byte) error {
	if err := s.EnsureDir(projectID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// SaveSet stages every file to a temp path first and moves them into
// place only after all writes succeed, so a failed write leaves the
// existing artifacts untouched.
func (s *FileStorage) SaveSet(projectID string, files map[string][]byte) error {
	if err := s.EnsureDir(projectID); err != nil {
		return err
	}

	staged := make(map[string]string, len(files))
	for target, data := range files {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			for _, t := range staged {
				os.Remove(t)
			}
			return fmt.Errorf("stage %s: %w", filepath.Base(target), err)
		}
		staged[target] = tmp
	}

	for target, tmp := range staged {
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("commit %s: %w", filepath.Base(target), err)
		}
	}
	return nil
}

func (s *FileStorage) Remove(projectID string) error {
	return os.RemoveAll(s.ProjectDir(projectID))
}

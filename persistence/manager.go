package persistence

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manager handles save/load for simulation checkpoints
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the path for a checkpoint file
func (m *Manager) FilePath(name string) string {
	return filepath.Join(m.basePath, name+".toml")
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.FilePath(name))
	return err == nil
}

// Save writes the checkpoint through a temp file so a crash never leaves a torn file
func (m *Manager) Save(name string, dto CheckpointDTO) error {
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(dto); err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", name, err)
	}

	path := m.FilePath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	log.Printf("persistence: saved checkpoint %s at tick %d", path, dto.Tick)
	return nil
}

// Load reads a checkpoint from disk
func (m *Manager) Load(name string) (CheckpointDTO, error) {
	var dto CheckpointDTO

	path := m.FilePath(name)
	md, err := toml.DecodeFile(path, &dto)
	if err != nil {
		return dto, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return dto, fmt.Errorf("decode checkpoint %s: unknown keys %v", path, undecoded)
	}

	log.Printf("persistence: loaded checkpoint %s at tick %d", path, dto.Tick)
	return dto, nil
}

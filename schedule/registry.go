package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const TRIGGERS_FILE = "triggers.json"

// FileRegistry is a Registry persisted as a JSON file.
type FileRegistry struct {
	file string
	mu   sync.Mutex
}

func NewFileRegistry(workdir string) *FileRegistry {
	return &FileRegistry{
		file: filepath.Join(workdir, TRIGGERS_FILE),
	}
}

func (r *FileRegistry) List() ([]Trigger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *FileRegistry) Create(trigger Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	triggers, err := r.load()
	if err != nil {
		return err
	}

	return r.save(append(triggers, trigger))
}

func (r *FileRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	triggers, err := r.load()
	if err != nil {
		return err
	}

	list := []Trigger{}
	for _, t := range triggers {
		if t.ID != id {
			list = append(list, t)
		}
	}

	if len(list) == len(triggers) {
		return fmt.Errorf("%w (%v)", ErrTriggerNotFound, id)
	}

	return r.save(list)
}

func (r *FileRegistry) load() ([]Trigger, error) {
	bytes, err := os.ReadFile(r.file)
	if errors.Is(err, os.ErrNotExist) {
		return []Trigger{}, nil
	} else if err != nil {
		return nil, err
	}

	triggers := []Trigger{}
	if err := json.Unmarshal(bytes, &triggers); err != nil {
		return nil, fmt.Errorf("invalid triggers file %v (%w)", r.file, err)
	}

	return triggers, nil
}

func (r *FileRegistry) save(triggers []Trigger) error {
	bytes, err := json.MarshalIndent(triggers, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "triggers")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(bytes); err != nil {
		return err
	}

	tmp.Close()

	return os.Rename(tmp.Name(), r.file)
}

package task

import (
	"time"

	"github.com/charmbracelet/log"
)

// Store owns the in-memory collection and mirrors it to the task file after
// every mutation. All calls arrive serialized through the single UI event
// loop, so the Store carries no locking.
//
// Storage failures never reach the user: a load failure starts an empty
// session, a save failure keeps the in-memory state and logs. The mutation is
// applied to memory first, so a failing save cannot corrupt the collection.
type Store struct {
	path   string
	list   List
	logger *log.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Open loads the task file at path. An absent or malformed file yields an
// empty collection with no error.
func Open(path string, logger *log.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}

	l, err := Load(path)
	if err != nil {
		logger.Debug("starting with an empty task list", "path", path, "err", err)
		l = List{}
	}
	s.list = l
	return s
}

// Tasks returns the current collection snapshot.
func (s *Store) Tasks() List {
	return s.list
}

// Path returns the task file path backing this store.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new task at the front of the collection.
func (s *Store) Create(title, description string) (Task, error) {
	next, t, err := s.list.Create(title, description, s.now())
	if err != nil {
		return Task{}, err
	}
	s.list = next
	s.persist()
	s.logger.Info("task created", "id", t.ID, "title", t.Title)
	return t, nil
}

// Update replaces the matching task's title and description.
func (s *Store) Update(id, title, description string) error {
	next, err := s.list.Update(id, title, description, s.now())
	if err != nil {
		return err
	}
	s.list = next
	s.persist()
	s.logger.Info("task updated", "id", id)
	return nil
}

// Toggle flips the matching task's completed flag.
func (s *Store) Toggle(id string) error {
	next, err := s.list.Toggle(id, s.now())
	if err != nil {
		return err
	}
	s.list = next
	s.persist()
	return nil
}

// Remove deletes the matching task. Confirmation is the caller's concern; the
// UI only calls this after the user answered yes.
func (s *Store) Remove(id string) error {
	next, err := s.list.Remove(id)
	if err != nil {
		return err
	}
	s.list = next
	s.persist()
	s.logger.Info("task removed", "id", id)
	return nil
}

func (s *Store) persist() {
	if err := Save(s.path, s.list); err != nil {
		s.logger.Warn("saving tasks failed, continuing in memory", "path", s.path, "err", err)
	}
}

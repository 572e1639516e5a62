package config

// Store reads and writes the files in the sal configuration directory.
// Nothing is cached: every Load reads the file again.
type Store struct {
	paths Paths
}

// NewStore returns a Store rooted at p.
func NewStore(p Paths) *Store {
	return &Store{paths: p}
}

// Paths returns the locations the Store operates on.
func (s *Store) Paths() Paths {
	return s.paths
}

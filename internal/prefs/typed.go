package prefs

// Muted reports the persisted mute flag.
func (s *Store) Muted() bool {
	v, _ := s.Get(KeyMuted)
	return v == "true"
}

func (s *Store) SetMuted(muted bool) {
	v := "false"
	if muted {
		v = "true"
	}
	s.Set(KeyMuted, v)
}

func (s *Store) UserID() string {
	v, _ := s.Get(KeyUserID)
	return v
}

func (s *Store) SetUserID(id string) {
	s.Set(KeyUserID, id)
}

// MarkFirstVisit records the first visit and reports whether this call
// was it.
func (s *Store) MarkFirstVisit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[KeyVisited] == "true" {
		return false
	}
	s.values[KeyVisited] = "true"
	s.exec("set "+KeyVisited, upsertValue, KeyVisited, "true")
	return true
}

func (s *Store) VisitedPages() []string { return s.Members(SetPages) }

func (s *Store) Visit(page string) bool { return s.Add(SetPages, page) }

func (s *Store) UnlockedAchievements() []string { return s.Members(SetUnlocked) }

func (s *Store) SaveUnlocked(id string) bool { return s.Add(SetUnlocked, id) }

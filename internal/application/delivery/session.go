package delivery

import (
	"sync"

	domain "github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// session state delivery per laporan: lokasi, link upload (set sekali),
// dan flag in-flight per channel
type session struct {
	mu         sync.Mutex
	location   string
	userEdited bool
	link       string
	inflight   map[domain.Channel]bool

	autoLocate sync.Once
	autoUpload sync.Once
}

func newSession(location, link string) *session {
	return &session{
		location: location,
		link:     link,
		inflight: make(map[domain.Channel]bool),
	}
}

func (s *session) acquire(ch domain.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[ch] {
		return false
	}
	s.inflight[ch] = true
	return true
}

func (s *session) release(ch domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, ch)
}

func (s *session) currentLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link
}

// setLink set-once, balikin link pemenang
func (s *session) setLink(link string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.link == "" {
		s.link = link
	}
	return s.link
}

func (s *session) currentLocation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// setLocation dari user, selalu menang
func (s *session) setLocation(loc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = loc
	s.userEdited = true
}

// detectedLocation dari geolocation. auto=true tidak menimpa isian user.
func (s *session) detectedLocation(loc string, auto bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if auto && (s.userEdited || s.location != "") {
		return false
	}
	s.location = loc
	return true
}

package playback

import (
	"fmt"
	"log"
	"sync"
)

// Service is the session registry for a player host running one or more
// concurrent videos. It centralizes teardown so no dangling session keeps
// analyzing a video that went away.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService() *Service {
	return &Service{sessions: make(map[string]*Session)}
}

// StartSession creates a session, runs its frame-0 bootstrap to completion,
// and registers it for later frame events. The returned session is either
// verified or failed when this returns.
func (svc *Service) StartSession(source FrameSource, fetcher KeyFetcher, onComplete CompletionFunc) *Session {
	session := NewSession(source, fetcher, onComplete)

	svc.mu.Lock()
	svc.sessions[session.ID] = session
	svc.mu.Unlock()

	status := session.Start()
	log.Printf("[PLAYBACK] session %s bootstrap finished: %s", session.ID, status)
	return session
}

func (svc *Service) GetSession(id string) (*Session, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	session, exists := svc.sessions[id]
	return session, exists
}

// StopSession closes a session and drops it from the registry.
func (svc *Service) StopSession(id string) error {
	svc.mu.Lock()
	session, exists := svc.sessions[id]
	delete(svc.sessions, id)
	svc.mu.Unlock()

	if !exists {
		return fmt.Errorf("session not found")
	}
	session.Close()
	return nil
}

// StopAll tears down every registered session.
func (svc *Service) StopAll() {
	svc.mu.Lock()
	sessions := svc.sessions
	svc.sessions = make(map[string]*Session)
	svc.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

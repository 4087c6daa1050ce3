package runtime

import (
	"sync"

	"github.com/samber/lo"

	"chat-relay/errors"
)

type Set map[string]struct{}

// Registry is the concurrent directory of connected sessions, keyed by
// connection ID and by display name, plus the group membership sets.
//
// All lookups return snapshots taken under the read lock; callers may see
// a member list that a concurrent disconnect has already invalidated,
// which is fine: delivery to a dead session is best-effort.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]*Session // connection ID -> session
	byName       map[string]string   // display name -> connection ID
	nameOrder    []string            // connection IDs in first-JOIN order
	groupMembers map[string]Set      // group name -> member connection IDs
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[string]*Session),
		byName:       make(map[string]string),
		groupMembers: make(map[string]Set),
	}
}

// Add tracks a freshly accepted session under its connection ID, before
// any name is bound.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Register binds a display name to the connection. The name must not be
// held by a different live connection. A connection that already holds a
// name may rebind: the stale binding is removed first, so a second JOIN
// silently renames.
func (r *Registry) Register(connID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return errors.ErrSenderUnknown
	}
	if holder, taken := r.byName[name]; taken && holder != connID {
		return errors.ErrNameTaken
	}

	if prev := s.Name(); prev != "" {
		delete(r.byName, prev)
	} else {
		r.nameOrder = append(r.nameOrder, connID)
	}
	r.byName[name] = connID
	s.setName(name)
	return nil
}

// Unregister removes the session, its name binding, and its group
// memberships. Idempotent: a second call for the same connection is a
// no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return
	}
	delete(r.sessions, connID)
	if name := s.Name(); name != "" {
		if holder, ok := r.byName[name]; ok && holder == connID {
			delete(r.byName, name)
		}
		for i, id := range r.nameOrder {
			if id == connID {
				r.nameOrder = append(r.nameOrder[:i], r.nameOrder[i+1:]...)
				break
			}
		}
	}
	for group, members := range r.groupMembers {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.groupMembers, group)
		}
	}
}

func (r *Registry) FindByConnection(connID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[connID]
}

func (r *Registry) FindByName(name string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if connID, ok := r.byName[name]; ok {
		return r.sessions[connID]
	}
	return nil
}

// ListNames snapshots the bound display names in first-JOIN order.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(r.nameOrder, func(connID string, _ int) (string, bool) {
		s, ok := r.sessions[connID]
		if !ok {
			return "", false
		}
		return s.Name(), true
	})
}

// Join adds the connection to a group's membership set. Joining twice is a
// no-op, set semantics. Group validity is the dispatcher's concern.
func (r *Registry) Join(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groupMembers[group]; !ok {
		r.groupMembers[group] = make(Set)
	}
	r.groupMembers[group][connID] = struct{}{}
}

func (r *Registry) IsMember(connID, group string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.groupMembers[group][connID]
	return ok
}

// MembersOf snapshots the live sessions currently in the group.
func (r *Registry) MembersOf(group string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(lo.Keys(r.groupMembers[group]), func(connID string, _ int) (*Session, bool) {
		s, exists := r.sessions[connID]
		return s, exists
	})
}

// ActiveSessions is the number of tracked connections, named or not.
func (r *Registry) ActiveSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

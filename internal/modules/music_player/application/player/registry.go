package player

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// Factory creates the PlayerContext of a new session.
type Factory func(guildID snowflake.ID, session domain.SessionContext) *PlayerContext

// Registry holds at most one PlayerContext per guild.
type Registry struct {
	mu       sync.RWMutex
	contexts map[snowflake.ID]*PlayerContext
	factory  Factory
}

// NewRegistry creates a new Registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		contexts: make(map[snowflake.ID]*PlayerContext),
		factory:  factory,
	}
}

// Get returns the PlayerContext of the guild, if a session exists.
func (r *Registry) Get(guildID snowflake.ID) (*PlayerContext, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pc, ok := r.contexts[guildID]
	return pc, ok
}

// GetOrCreate returns the PlayerContext of the guild, creating it with session
// when none exists. created reports whether a new context was made.
func (r *Registry) GetOrCreate(
	guildID snowflake.ID,
	session domain.SessionContext,
) (pc *PlayerContext, created bool) {
	if pc, ok := r.Get(guildID); ok {
		return pc, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race between the two locks.
	if pc, ok := r.contexts[guildID]; ok {
		return pc, false
	}

	pc = r.factory(guildID, session)
	r.contexts[guildID] = pc
	return pc, true
}

// Remove tears down pc if it is still the registered context of the guild.
// It reports whether anything was removed.
func (r *Registry) Remove(guildID snowflake.ID, pc *PlayerContext) bool {
	r.mu.Lock()
	current, ok := r.contexts[guildID]
	if !ok || current != pc {
		r.mu.Unlock()
		return false
	}
	delete(r.contexts, guildID)
	r.mu.Unlock()

	pc.Close()
	return true
}

// CloseAll tears down every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	contexts := r.contexts
	r.contexts = make(map[snowflake.ID]*PlayerContext)
	r.mu.Unlock()

	for _, pc := range contexts {
		pc.Close()
	}
}

// Len returns the number of active sessions (for testing/monitoring).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.contexts)
}

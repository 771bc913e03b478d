package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// voiceHandshake holds the two halves Discord sends when the bot joins voice.
type voiceHandshake struct {
	channelID snowflake.ID
	sessionID string
	token     string
	endpoint  string

	hasState  bool
	hasServer bool
}

func (h voiceHandshake) complete() bool {
	return h.hasState && h.hasServer
}

// handshakeWaiter is signalled once a guild's handshake was forwarded.
type handshakeWaiter struct {
	ready chan struct{}
	once  sync.Once
}

func (w *handshakeWaiter) signal() {
	w.once.Do(func() { close(w.ready) })
}

// voiceHandshakes buffers voice state and server updates per guild until both
// arrived. Discord does not guarantee their order.
type voiceHandshakes struct {
	mu      sync.Mutex
	pending map[snowflake.ID]*voiceHandshake
	waiters map[snowflake.ID]*handshakeWaiter
}

func newVoiceHandshakes() *voiceHandshakes {
	return &voiceHandshakes{
		pending: make(map[snowflake.ID]*voiceHandshake),
		waiters: make(map[snowflake.ID]*handshakeWaiter),
	}
}

// expect registers a waiter for the next complete handshake of guildID.
func (v *voiceHandshakes) expect(guildID snowflake.ID) *handshakeWaiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	waiter := &handshakeWaiter{ready: make(chan struct{})}
	v.waiters[guildID] = waiter
	return waiter
}

// forget drops waiter if it is still the registered one.
func (v *voiceHandshakes) forget(guildID snowflake.ID, waiter *handshakeWaiter) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.waiters[guildID] == waiter {
		delete(v.waiters, guildID)
	}
}

func (v *voiceHandshakes) setState(
	guildID, channelID snowflake.ID,
	sessionID string,
) (voiceHandshake, bool) {
	return v.update(guildID, func(h *voiceHandshake) {
		h.channelID = channelID
		h.sessionID = sessionID
		h.hasState = true
	})
}

func (v *voiceHandshakes) setServer(
	guildID snowflake.ID,
	token, endpoint string,
) (voiceHandshake, bool) {
	return v.update(guildID, func(h *voiceHandshake) {
		h.token = token
		h.endpoint = endpoint
		h.hasServer = true
	})
}

// clear drops any half-received handshake for guildID.
func (v *voiceHandshakes) clear(guildID snowflake.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.pending, guildID)
}

// update applies fn to the guild's pending handshake. When the handshake
// becomes complete it is removed, any waiter is signalled, and it is returned
// with true.
func (v *voiceHandshakes) update(
	guildID snowflake.ID,
	fn func(*voiceHandshake),
) (voiceHandshake, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	h, ok := v.pending[guildID]
	if !ok {
		h = &voiceHandshake{}
		v.pending[guildID] = h
	}
	fn(h)

	if !h.complete() {
		return voiceHandshake{}, false
	}

	delete(v.pending, guildID)
	if waiter, ok := v.waiters[guildID]; ok {
		waiter.signal()
	}
	return *h, true
}

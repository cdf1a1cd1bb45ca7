package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/internal/game"
	"github.com/robalobadob/bossdle/internal/store"
)

const (
	lockStripes      = 64
	screenTTL        = 6 * time.Hour
	maxScreens       = 10000
	screenPruneEvery = 10 * time.Minute
)

// screenEntry is a player's transient screen and when it was last used.
type screenEntry struct {
	sc   *game.Screen
	seen time.Time
}

// lockPlayers serializes requests of the given players. Ids map onto a fixed
// set of mutexes, locked in index order; the returned func unlocks them.
func (s *Server) lockPlayers(ids ...string) func() {
	idx := make([]int, 0, len(ids))
	seen := map[int]bool{}
	for _, id := range ids {
		h := fnv.New32a()
		_, _ = h.Write([]byte(id))
		i := int(h.Sum32() % lockStripes)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	for _, i := range idx {
		s.locks[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			s.locks[idx[j]].Unlock()
		}
	}
}

// loadSession restores the player's session for today. A restored session is
// persisted when it differs from what was stored, except for a brand new
// player who has not guessed yet.
func (s *Server) loadSession(ctx context.Context, playerID string, eng *game.Engine) *game.Session {
	raw, err := s.kv.Get(ctx, playerID, eng.Mode.StorageKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Str("player", playerID).Str("mode", eng.Mode.Key).Msg("load session")
	}
	sess, changed := eng.Restore(raw, s.now())
	if changed && (len(raw) > 0 || len(sess.Guesses) > 0) {
		s.saveSession(ctx, playerID, eng, sess)
	}
	return sess
}

func (s *Server) saveSession(ctx context.Context, playerID string, eng *game.Engine, sess *game.Session) {
	raw, err := sess.Marshal()
	if err == nil {
		err = s.kv.Set(ctx, playerID, eng.Mode.StorageKey, raw)
	}
	if err != nil {
		log.Error().Err(err).Str("player", playerID).Str("mode", eng.Mode.Key).Msg("save session")
	}
}

// screen returns the player's screen switched to eng's mode and synced with
// sess. Callers hold the player's lock.
func (s *Server) screen(playerID string, eng *game.Engine, sess *game.Session) *game.Screen {
	now := s.now()
	s.screensMu.Lock()
	s.pruneScreens(now)
	e, ok := s.screens[playerID]
	if !ok {
		e = &screenEntry{sc: game.NewScreen(eng.Mode.Key)}
		s.screens[playerID] = e
	}
	e.seen = now
	s.screensMu.Unlock()

	e.sc.SwitchMode(eng.Mode.Key)
	e.sc.Open(sess)
	return e.sc
}

// pruneScreens drops screens idle for longer than screenTTL, then the least
// recently used ones while the map is full. Caller holds screensMu.
func (s *Server) pruneScreens(now time.Time) {
	if len(s.screens) < s.maxScreens && now.Sub(s.lastPrune) < screenPruneEvery {
		return
	}
	s.lastPrune = now
	for id, e := range s.screens {
		if now.Sub(e.seen) > s.screenTTL {
			delete(s.screens, id)
		}
	}
	for len(s.screens) >= s.maxScreens {
		oldest, at := "", now
		for id, e := range s.screens {
			if oldest == "" || e.seen.Before(at) {
				oldest, at = id, e.seen
			}
		}
		delete(s.screens, oldest)
	}
}

func (s *Server) dropScreens(ids ...string) {
	s.screensMu.Lock()
	defer s.screensMu.Unlock()
	for _, id := range ids {
		delete(s.screens, id)
	}
}

// progress summarizes a stored session snapshot. Unreadable ones rank lowest.
type progress struct {
	day     string
	won     bool
	guesses int
}

func progressOf(raw []byte) progress {
	var sess game.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return progress{}
	}
	return progress{day: sess.LastPlayedDate, won: sess.Won, guesses: len(sess.Guesses)}
}

// ahead reports whether p is strictly further along than q: a later
// game-day, then a win, then more guesses.
func (p progress) ahead(q progress) bool {
	switch {
	case p.day != q.day:
		return p.day > q.day
	case p.won != q.won:
		return p.won
	}
	return p.guesses > q.guesses
}

// adoptGuestSessions copies each of the guest's session snapshots over the
// account's when the guest's is further along, so the claim that follows
// keeps it.
func (s *Server) adoptGuestSessions(ctx context.Context, anonID, userID string) {
	for _, k := range s.order {
		key := s.engines[k].Mode.StorageKey
		guest, err := s.kv.Get(ctx, anonID, key)
		if err != nil {
			continue
		}
		own, err := s.kv.Get(ctx, userID, key)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			log.Warn().Err(err).Str("user", userID).Msg("read account session")
			continue
		case !progressOf(guest).ahead(progressOf(own)):
			continue
		}
		if err := s.kv.Set(ctx, userID, key, guest); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("adopt guest session")
		}
	}
}

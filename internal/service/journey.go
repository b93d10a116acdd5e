package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shiva/autospecs/internal/model"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	ErrJourneyNotFound = errors.New("journey session not found")
	ErrRouteIncomplete = errors.New("journey requires a route with origin, destination and distance")
	ErrStaleUpdate     = errors.New("update sequence is older than the last applied update")
)

// MpsToKmh converts meters-per-second (as reported by position
// providers) to kilometers-per-hour.
const MpsToKmh = 3.6

// ─── Events ─────────────────────────────────────────────────

// PositionUpdate is a single delivery from a client's position stream.
// Sequence numbers are assigned by the client and must be monotonically
// increasing; the reducer discards anything at or below the last
// applied sequence, so a slow in-flight update can never overwrite a
// newer one.
type PositionUpdate struct {
	Sequence       uint64
	Position       model.Location
	SpeedMPS       float64
	HeadingDegrees float64
}

// RouteUpdate carries a fresh remaining-distance/duration reading,
// typically from a routing call completing alongside the position stream.
type RouteUpdate struct {
	Sequence            uint64
	DistanceRemainingKm float64
	DurationRemaining   string
}

// ─── Journey Session ────────────────────────────────────────

// JourneySession is one live journey. Two states: idle sessions do not
// exist (starting creates active, stopping deletes), so State is only
// ever JourneyActive while the session is in the store.
type JourneySession struct {
	ID        string             `json:"id"`
	State     model.JourneyState `json:"state"`
	Route     model.RoutePoints  `json:"route"`
	Stats     model.JourneyStats `json:"stats"`
	StartedAt time.Time          `json:"started_at"`
}

// ─── JourneyService ─────────────────────────────────────────

// JourneyService manages live journey sessions in memory.
//
// State transitions:
//
//	(none) → active   via Start, which requires a complete route
//	active → (gone)   via Stop; stats are discarded, never archived
//
// Updates are applied through pure reducer functions over the stats
// snapshot; the store's lock serializes application per session, and
// the sequence check gives last-writer-wins semantics over out-of-order
// network completions.
type JourneyService struct {
	mu       sync.RWMutex
	sessions map[string]*JourneySession
	nextID   uint64
	now      func() time.Time
}

// NewJourneyService creates an empty journey service.
func NewJourneyService() *JourneyService {
	return &JourneyService{
		sessions: make(map[string]*JourneySession),
		now:      time.Now,
	}
}

// Start activates a journey for the given route. The route must have
// both endpoints and a positive distance.
func (s *JourneyService) Start(route model.RoutePoints) (*JourneySession, error) {
	if route.Origin == nil || route.Destination == nil || route.DistanceKm <= 0 {
		return nil, ErrRouteIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	session := &JourneySession{
		ID:        fmt.Sprintf("jny-%d", s.nextID),
		State:     model.JourneyActive,
		Route:     route,
		StartedAt: s.now(),
		Stats: model.JourneyStats{
			DistanceRemainingKm: route.DistanceKm,
			DurationRemaining:   route.DurationText,
		},
	}
	s.sessions[session.ID] = session

	log.Printf("[journey] started %s: %.1f km to destination", session.ID, route.DistanceKm)
	return session, nil
}

// ApplyPosition folds a position update into the session stats.
// Stale sequences return ErrStaleUpdate and leave the stats untouched.
func (s *JourneyService) ApplyPosition(id string, upd PositionUpdate) (*model.JourneyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrJourneyNotFound
	}

	next, err := reducePosition(session.Stats, upd, s.now())
	if err != nil {
		return nil, err
	}
	session.Stats = next

	stats := session.Stats
	return &stats, nil
}

// ApplyRoute folds a remaining-distance/duration update into the
// session stats, under the same sequence-discard rule.
func (s *JourneyService) ApplyRoute(id string, upd RouteUpdate) (*model.JourneyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrJourneyNotFound
	}

	next, err := reduceRoute(session.Stats, upd, s.now())
	if err != nil {
		return nil, err
	}
	session.Stats = next

	stats := session.Stats
	return &stats, nil
}

// Get returns a snapshot of the session.
func (s *JourneyService) Get(id string) (*JourneySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrJourneyNotFound
	}
	snapshot := *session
	return &snapshot, nil
}

// Stop ends the journey and discards its stats. Stopping is the only
// terminal transition — there is no timeout.
func (s *JourneyService) Stop(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrJourneyNotFound
	}
	delete(s.sessions, id)

	log.Printf("[journey] stopped %s", id)
	return nil
}

// ─── Reducers ───────────────────────────────────────────────
//
// Pure snapshot + event → snapshot functions. Keeping them free of the
// store makes the sequence-discard rule testable in isolation.

func reducePosition(cur model.JourneyStats, upd PositionUpdate, now time.Time) (model.JourneyStats, error) {
	if upd.Sequence <= cur.LastSequence {
		return cur, ErrStaleUpdate
	}
	pos := upd.Position
	cur.Position = &pos
	cur.SpeedKmh = roundTo(upd.SpeedMPS*MpsToKmh, 1)
	// Some providers report due north as 360; store it as 0.
	if upd.HeadingDegrees == 360 {
		upd.HeadingDegrees = 0
	}
	cur.HeadingDegrees = upd.HeadingDegrees
	cur.LastSequence = upd.Sequence
	cur.UpdatedAt = now
	return cur, nil
}

func reduceRoute(cur model.JourneyStats, upd RouteUpdate, now time.Time) (model.JourneyStats, error) {
	if upd.Sequence <= cur.LastSequence {
		return cur, ErrStaleUpdate
	}
	cur.DistanceRemainingKm = upd.DistanceRemainingKm
	cur.DurationRemaining = upd.DurationRemaining
	cur.LastSequence = upd.Sequence
	cur.UpdatedAt = now
	return cur, nil
}

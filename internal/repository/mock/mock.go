package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/repository"
)

var (
	_ repository.ChallengeRepository = (*MockChallengeRepository)(nil)
	_ repository.SolutionRepository  = (*MockSolutionRepository)(nil)
	_ repository.ProfileRepository   = (*MockProfileRepository)(nil)
	_ repository.LeaderboardStore    = (*MockLeaderboardStore)(nil)
	_ repository.MultiplierCache     = (*MockMultiplierCache)(nil)
	_ repository.IdempotencyStore    = (*MockIdempotencyStore)(nil)
)

// MockChallengeRepository is an in-memory challenge repository for testing.
type MockChallengeRepository struct {
	mu         sync.RWMutex
	Challenges map[uuid.UUID]*domain.Challenge

	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)
}

// NewMockChallengeRepository creates an empty mock challenge repository.
func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{Challenges: make(map[uuid.UUID]*domain.Challenge)}
}

func (m *MockChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.Challenges[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	return ch, nil
}

// Add stores a challenge for later lookup.
func (m *MockChallengeRepository) Add(ch *domain.Challenge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Challenges[ch.ID] = ch
}

// MockSolutionRepository records upserted solutions.
type MockSolutionRepository struct {
	mu        sync.Mutex
	Solutions []*domain.Solution

	UpsertFunc func(ctx context.Context, sol *domain.Solution) error
}

// NewMockSolutionRepository creates an empty mock solution repository.
func NewMockSolutionRepository() *MockSolutionRepository {
	return &MockSolutionRepository{}
}

func (m *MockSolutionRepository) Upsert(ctx context.Context, sol *domain.Solution) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, sol)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Solutions = append(m.Solutions, sol)
	return nil
}

// MockProfileRepository serves a fixed multiplier and level-change signal.
type MockProfileRepository struct {
	Multiplier  float64
	LevelChange domain.LevelChange

	mu        sync.Mutex
	XPApplied []int

	ActiveMultiplierFunc func(ctx context.Context, userID uuid.UUID) (float64, error)
	ApplyXPFunc          func(ctx context.Context, userID uuid.UUID, xp int) (*domain.LevelChange, error)
}

// NewMockProfileRepository creates a mock profile repository with the base
// multiplier and no level change.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{Multiplier: 1.0}
}

func (m *MockProfileRepository) ActiveMultiplier(ctx context.Context, userID uuid.UUID) (float64, error) {
	if m.ActiveMultiplierFunc != nil {
		return m.ActiveMultiplierFunc(ctx, userID)
	}
	return m.Multiplier, nil
}

func (m *MockProfileRepository) ApplyXP(ctx context.Context, userID uuid.UUID, xp int) (*domain.LevelChange, error) {
	if m.ApplyXPFunc != nil {
		return m.ApplyXPFunc(ctx, userID, xp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.XPApplied = append(m.XPApplied, xp)
	change := m.LevelChange
	return &change, nil
}

// AppliedXP returns all XP amounts credited so far.
func (m *MockProfileRepository) AppliedXP() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.XPApplied))
	copy(out, m.XPApplied)
	return out
}

// MockLeaderboardStore keeps scores in a map.
type MockLeaderboardStore struct {
	mu     sync.Mutex
	Scores map[uuid.UUID]int

	AddPointsFunc func(ctx context.Context, userID uuid.UUID, points int) error
}

// NewMockLeaderboardStore creates an empty mock leaderboard.
func NewMockLeaderboardStore() *MockLeaderboardStore {
	return &MockLeaderboardStore{Scores: make(map[uuid.UUID]int)}
}

func (m *MockLeaderboardStore) AddPoints(ctx context.Context, userID uuid.UUID, points int) error {
	if m.AddPointsFunc != nil {
		return m.AddPointsFunc(ctx, userID, points)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scores[userID] += points
	return nil
}

func (m *MockLeaderboardStore) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]domain.LeaderboardEntry, 0, len(m.Scores))
	for id, pts := range m.Scores {
		entries = append(entries, domain.LeaderboardEntry{UserID: id, Points: pts})
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// MockMultiplierCache is an in-memory multiplier cache.
type MockMultiplierCache struct {
	mu     sync.Mutex
	Values map[uuid.UUID]float64

	GetFunc func(ctx context.Context, userID uuid.UUID) (float64, bool, error)
}

// NewMockMultiplierCache creates an empty mock cache.
func NewMockMultiplierCache() *MockMultiplierCache {
	return &MockMultiplierCache{Values: make(map[uuid.UUID]float64)}
}

func (m *MockMultiplierCache) Get(ctx context.Context, userID uuid.UUID) (float64, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Values[userID]
	return val, ok, nil
}

func (m *MockMultiplierCache) Set(ctx context.Context, userID uuid.UUID, multiplier float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values[userID] = multiplier
	return nil
}

// MockIdempotencyStore tracks held locks in memory.
type MockIdempotencyStore struct {
	mu    sync.Mutex
	Locks map[string]bool

	AcquireLockFunc func(ctx context.Context, key string) (bool, error)
}

// NewMockIdempotencyStore creates an empty mock lock store.
func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{Locks: make(map[string]bool)}
}

func (m *MockIdempotencyStore) AcquireLock(ctx context.Context, key string) (bool, error) {
	if m.AcquireLockFunc != nil {
		return m.AcquireLockFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Locks[key] {
		return false, nil
	}
	m.Locks[key] = true
	return true, nil
}

func (m *MockIdempotencyStore) ReleaseLock(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Locks, key)
	return nil
}

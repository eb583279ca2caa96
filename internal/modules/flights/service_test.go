package flights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skybook/internal/domain"
)

type mockFlightRepo struct {
	mock.Mock
}

func (m *mockFlightRepo) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *mockFlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *mockFlightRepo) Search(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, source, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type memCache struct {
	entries map[string][]domain.Flight
	gets    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]domain.Flight{}}
}

func (c *memCache) key(source, destination string, date time.Time) string {
	return source + "|" + destination + "|" + date.Format("2006-01-02")
}

func (c *memCache) GetSearch(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error) {
	c.gets++
	return c.entries[c.key(source, destination, date)], nil
}

func (c *memCache) SetSearch(ctx context.Context, source, destination string, date time.Time, flights []domain.Flight) error {
	c.sets++
	c.entries[c.key(source, destination, date)] = flights
	return nil
}

func TestSearchCacheAside(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	stored := []domain.Flight{{ID: "f-1", Source: "Delhi", Destination: "Mumbai"}}

	repo := new(mockFlightRepo)
	repo.On("Search", ctx, "Delhi", "Mumbai", date).Return(stored, nil).Once()

	c := newMemCache()
	svc := NewService(repo, c)

	first, err := svc.Search(ctx, SearchQuery{Source: "Delhi", Destination: "Mumbai", Date: date})
	require.NoError(t, err)
	assert.Len(t, first, 1)

	// Second call must be served from the cache.
	second, err := svc.Search(ctx, SearchQuery{Source: "Delhi", Destination: "Mumbai", Date: date})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertNumberOfCalls(t, "Search", 1)
	assert.Equal(t, 1, c.sets)
}

func TestSearchWithoutCache(t *testing.T) {
	ctx := context.Background()

	repo := new(mockFlightRepo)
	repo.On("Search", ctx, "", "", time.Time{}).Return([]domain.Flight{}, nil)

	svc := NewService(repo, nil)
	flights, err := svc.Search(ctx, SearchQuery{})

	require.NoError(t, err)
	assert.NotNil(t, flights)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	repo := new(mockFlightRepo)
	repo.On("GetByID", ctx, "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, nil)
	_, err := svc.GetByID(ctx, "missing")

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

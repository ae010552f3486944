package usecase_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
)

// MockPlaceProvider is a mock of PlaceProvider
type MockPlaceProvider struct {
	mock.Mock
	detailCalls atomic.Int32
}

func (m *MockPlaceProvider) TextSearch(ctx context.Context, query string, bias *domain.LocationBias) ([]domain.Place, error) {
	args := m.Called(ctx, query, bias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

func (m *MockPlaceProvider) FetchDetails(ctx context.Context, placeID string) (*domain.Place, error) {
	m.detailCalls.Add(1)
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceProvider) FetchReviews(ctx context.Context, placeID string) (*domain.ExternalReviewFeed, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalReviewFeed), args.Error(1)
}

// BuildPhotoURL не мокается: чистая функция, удобнее проверять результат напрямую
func (m *MockPlaceProvider) BuildPhotoURL(photoRef string, maxWidth int) string {
	if photoRef == "" {
		return ""
	}
	return "https://photos.test/" + photoRef + "?w=" + strconv.Itoa(maxWidth)
}

// MockEncyclopedia is a mock of EncyclopediaRepository
type MockEncyclopedia struct {
	mock.Mock
}

func (m *MockEncyclopedia) GetSummary(ctx context.Context, title string, lat, lon *float64) (string, error) {
	args := m.Called(ctx, title, lat, lon)
	return args.String(0), args.Error(1)
}

// MockViewStatRepository is a mock of ViewStatRepository
type MockViewStatRepository struct {
	mock.Mock
}

func (m *MockViewStatRepository) Increment(ctx context.Context, placeID string, at time.Time) error {
	args := m.Called(ctx, placeID, at)
	return args.Error(0)
}

func (m *MockViewStatRepository) Top(ctx context.Context, n int) ([]domain.ViewStat, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ViewStat), args.Error(1)
}

// fakeLikeRepository - хранилище лайков в памяти с уникальностью пары,
// Exists и Insert берут блокировку раздельно, как два запроса к базе
type fakeLikeRepository struct {
	mu    sync.Mutex
	seq   int64
	likes map[string]domain.Like
	clock time.Time
}

func newFakeLikeRepository() *fakeLikeRepository {
	return &fakeLikeRepository{
		likes: make(map[string]domain.Like),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func likeKey(userID int64, placeID string) string {
	return strconv.FormatInt(userID, 10) + "|" + placeID
}

func (f *fakeLikeRepository) Exists(_ context.Context, userID int64, placeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.likes[likeKey(userID, placeID)]
	return ok, nil
}

func (f *fakeLikeRepository) Insert(_ context.Context, like *domain.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey(like.UserID, like.PlaceID)
	if _, ok := f.likes[key]; ok {
		return repository.ErrDuplicate
	}
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	stored := *like
	stored.ID = f.seq
	stored.CreatedAt = f.clock
	f.likes[key] = stored
	return nil
}

func (f *fakeLikeRepository) Delete(_ context.Context, userID int64, placeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey(userID, placeID)
	if _, ok := f.likes[key]; !ok {
		return false, nil
	}
	delete(f.likes, key)
	return true, nil
}

func (f *fakeLikeRepository) ListByUser(_ context.Context, userID int64, limit int, ascending bool) ([]domain.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Like, 0)
	for _, l := range f.likes {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLikeRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.likes)
}

// fakeReviewRepository повторяет поведение частичного уникального индекса по активным отзывам
type fakeReviewRepository struct {
	mu        sync.Mutex
	seq       int64
	rows      []domain.Review
	clock     time.Time
	createErr error
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeReviewRepository) Create(_ context.Context, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rows {
		if !r.Deleted && r.PlaceID == review.PlaceID && r.AuthorID == review.AuthorID {
			return repository.ErrDuplicate
		}
	}
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	review.ID = f.seq
	review.CreatedAt = f.clock
	review.UpdatedAt = f.clock
	f.rows = append(f.rows, *review)
	return nil
}

func (f *fakeReviewRepository) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, errors.ErrReviewNotFound
}

func (f *fakeReviewRepository) FindActive(_ context.Context, placeID string, authorID int64) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if !r.Deleted && r.PlaceID == placeID && r.AuthorID == authorID {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepository) ExistsActive(ctx context.Context, placeID string, authorID int64) (bool, error) {
	r, err := f.FindActive(ctx, placeID, authorID)
	return r != nil, err
}

func (f *fakeReviewRepository) ListActive(_ context.Context, placeID string, limit int) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Review, 0)
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		r := f.rows[i]
		if !r.Deleted && r.PlaceID == placeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepository) Summary(_ context.Context, placeID string) (*domain.ReviewSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	var n int
	for _, r := range f.rows {
		if !r.Deleted && r.PlaceID == placeID {
			sum += r.Rating
			n++
		}
	}
	s := &domain.ReviewSummary{Count: n}
	if n > 0 {
		avg := sum / float64(n)
		s.Average = &avg
	}
	return s, nil
}

func (f *fakeReviewRepository) Update(_ context.Context, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == review.ID && !f.rows[i].Deleted {
			f.rows[i].Rating = review.Rating
			f.rows[i].Text = review.Text
			f.rows[i].AuthorName = review.AuthorName
			return nil
		}
	}
	return errors.ErrReviewNotFound
}

func (f *fakeReviewRepository) SoftDelete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && !f.rows[i].Deleted {
			f.rows[i].Deleted = true
			return nil
		}
	}
	return errors.ErrReviewNotFound
}

func (f *fakeReviewRepository) seed(placeID string, authorID int64, name string, rating float64, text string) {
	_ = f.Create(context.Background(), &domain.Review{
		PlaceID:    placeID,
		AuthorID:   authorID,
		AuthorName: name,
		Rating:     rating,
		Text:       text,
	})
}

func ptrFloat64(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

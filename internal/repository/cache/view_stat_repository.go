package cache

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
)

const (
	viewsKey      = "place:views"
	lastViewedKey = "place:last_viewed"
)

var _ repository.ViewStatRepository = (*ViewStatRepository)(nil)

// incrementScript увеличивает счетчик и сдвигает last_viewed только вперед.
// Наносекунды не помещаются в double Lua, поэтому сравнение строк одной длины
var incrementScript = redis.NewScript(`
redis.call('ZINCRBY', KEYS[1], 1, ARGV[1])
local prev = redis.call('HGET', KEYS[2], ARGV[1])
local at = ARGV[2]
if not prev or string.len(at) > string.len(prev)
	or (string.len(at) == string.len(prev) and at > prev) then
	redis.call('HSET', KEYS[2], ARGV[1], at)
end
return 1
`)

// ViewStatRepository хранит счетчики в sorted set, время последнего просмотра в hash.
// Оба ключа меняются одним скриптом
type ViewStatRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewViewStatRepository(r *Redis) *ViewStatRepository {
	return &ViewStatRepository{
		client: r.Client(),
		logger: r.logger,
	}
}

func (r *ViewStatRepository) Increment(ctx context.Context, placeID string, at time.Time) error {
	err := incrementScript.Run(ctx, r.client, []string{viewsKey, lastViewedKey},
		placeID, strconv.FormatInt(at.UnixNano(), 10)).Err()
	if err != nil {
		r.logger.Error("Failed to increment view count", zap.String("place_id", placeID), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
	return nil
}

// Top берет всех с очками не ниже n-го, чтобы выровнять ничьи по времени просмотра
func (r *ViewStatRepository) Top(ctx context.Context, n int) ([]domain.ViewStat, error) {
	if n <= 0 {
		return []domain.ViewStat{}, nil
	}

	boundary, err := r.client.ZRevRangeWithScores(ctx, viewsKey, int64(n-1), int64(n-1)).Result()
	if err != nil {
		return nil, r.fail(err)
	}

	var members []redis.Z
	if len(boundary) == 0 {
		members, err = r.client.ZRevRangeWithScores(ctx, viewsKey, 0, -1).Result()
	} else {
		members, err = r.client.ZRangeByScoreWithScores(ctx, viewsKey, &redis.ZRangeBy{
			Min: strconv.FormatFloat(boundary[0].Score, 'f', -1, 64),
			Max: "+inf",
		}).Result()
	}
	if err != nil {
		return nil, r.fail(err)
	}
	if len(members) == 0 {
		return []domain.ViewStat{}, nil
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i], _ = m.Member.(string)
	}

	lastViewed, err := r.client.HMGet(ctx, lastViewedKey, ids...).Result()
	if err != nil {
		return nil, r.fail(err)
	}

	stats := make([]domain.ViewStat, len(members))
	for i, m := range members {
		stats[i] = domain.ViewStat{
			PlaceID:      ids[i],
			ViewCount:    int64(m.Score),
			LastViewedAt: parseNanos(lastViewed[i]),
		}
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Less(stats[j]) })
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats, nil
}

func (r *ViewStatRepository) fail(err error) error {
	r.logger.Error("Failed to read top places", zap.Error(err))
	return errors.ErrDatabaseError.Wrap(err)
}

func parseNanos(v interface{}) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

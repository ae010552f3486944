package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/repository/postgres"
)

// NewDBForTest создает postgres.DB поверх тестового подключения
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

func NewReviewRepositoryForTest(db *sqlx.DB, logger *zap.Logger) *postgres.ReviewRepository {
	return postgres.NewReviewRepository(NewDBForTest(db, logger), logger)
}

func NewLikeRepositoryForTest(db *sqlx.DB, logger *zap.Logger) *postgres.LikeRepository {
	return postgres.NewLikeRepository(NewDBForTest(db, logger), logger)
}

func NewViewStatRepositoryForTest(db *sqlx.DB, logger *zap.Logger) *postgres.ViewStatRepository {
	return postgres.NewViewStatRepository(NewDBForTest(db, logger), logger)
}

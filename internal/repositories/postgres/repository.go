package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db        *gorm.DB
	study     repositories.StudyRepository
	cohort    repositories.CohortRepository
	survey    repositories.SurveyRepository
	structure repositories.StructureRepository
	link      repositories.SurveyLinkRepository
	response  repositories.ResponseRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &PostgresRepository{
		db:        db,
		study:     NewStudyPostgreSQL(db),
		cohort:    NewCohortPostgreSQL(db),
		survey:    NewSurveyPostgreSQL(db),
		structure: NewStructurePostgreSQL(db),
		link:      NewSurveyLinkPostgreSQL(db),
		response:  NewResponsePostgreSQL(db),
	}
}

func (r *PostgresRepository) Study() repositories.StudyRepository           { return r.study }
func (r *PostgresRepository) Cohort() repositories.CohortRepository         { return r.cohort }
func (r *PostgresRepository) Survey() repositories.SurveyRepository         { return r.survey }
func (r *PostgresRepository) Structure() repositories.StructureRepository   { return r.structure }
func (r *PostgresRepository) SurveyLink() repositories.SurveyLinkRepository { return r.link }
func (r *PostgresRepository) Response() repositories.ResponseRepository     { return r.response }

// WithTransaction runs fn in a transaction that is rolled back when fn fails
func (r *PostgresRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Ping checks the underlying database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// resolveDB returns tx when the caller is inside a transaction, db otherwise
func resolveDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

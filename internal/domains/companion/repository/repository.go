package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"velvet/infras/otel"
	"velvet/infras/postgres"
	"velvet/internal/domains/companion/model"
	gDto "velvet/shared/dto"
	gRepo "velvet/shared/repository"
)

type Companion interface {
	Insert(ctx context.Context, model model.Companion) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Companion, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Companion, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Companion]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Companion {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Companion](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"velvet/config"
	"velvet/infras/otel"
	"velvet/infras/s3"
	"velvet/internal/domains/companion/model"
	"velvet/internal/domains/companion/model/dto"
	"velvet/internal/domains/companion/repository"
	"velvet/shared"
	"velvet/shared/cache"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/failure"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetCompanion    = "companion:get"
	cacheGetAllCompanion = "companion:gets"
	cacheCountCompanion  = "companion:count"
)

type Companion interface {
	Create(ctx context.Context, req dto.CreateCompanionRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCompanionsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CompanionResponse, error)
	Update(ctx context.Context, req dto.UpdateCompanionRequest, id string) error
	SetAvailability(ctx context.Context, req dto.SetAvailabilityRequest, id string) error
	AddGalleryImage(ctx context.Context, req dto.AddGalleryImageRequest, id string) (string, error)
	RemoveGalleryImage(ctx context.Context, id, imageURL string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Companion
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Companion, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Companion {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCompanionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL := constant.Empty
	var uploadedObjectName string

	if req.Image != nil {
		url, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
		if err != nil {
			return err
		}

		imageURL = url
		uploadedObjectName = objectName
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, imageURL)); err != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, uploadedObjectName)
		}

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCompanion)
		shared.InvalidateCaches(c, s.cache, cacheCountCompanion)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCompanionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCompanion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for companions")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count companions")

		return res, fmt.Errorf("failed to count companions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get companions")

		return res, fmt.Errorf("failed to get companions: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save companions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCompanion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for companion count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count companions")

		return res, fmt.Errorf("failed to count companions: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save companion count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CompanionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCompanion, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for companion")

		return res, nil
	}

	companion, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get companion")

		return res, fmt.Errorf("failed to get companion: %w", err)
	}

	if companion.ID == constant.Empty {
		return res, failure.NotFound("companion not found") // nolint:wrapcheck
	}

	res.FromModel(companion)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save companion to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCompanionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check companion existence")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("companion not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if req.Image != nil {
		url, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
		if err != nil {
			return err
		}

		updatedFields[model.FieldImage] = url

		if current.Image != constant.Empty {
			oldObject := s.s3.GetObjectNameFromURL(s.cfg.External.S3.BucketName, current.Image)
			if deleteErr := s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, oldObject); deleteErr != nil {
				log.Warn().Err(deleteErr).Str("object", objectName).Msg("failed to delete replaced companion image")
			}
		}
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update companion")

		return fmt.Errorf("failed to update companion: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetAvailability(ctx context.Context, req dto.SetAvailabilityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check companion existence")

		return fmt.Errorf("failed to check companion existence: %w", err)
	}

	if !exist {
		return failure.NotFound("companion not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldIsAvailable] = *req.IsAvailable

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to toggle companion availability")

		return fmt.Errorf("failed to toggle companion availability: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AddGalleryImage(ctx context.Context, req dto.AddGalleryImageRequest, id string) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddGalleryImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get companion for gallery upload")

		return constant.Empty, fmt.Errorf("failed to get companion: %w", err)
	}

	if current.ID == constant.Empty {
		return constant.Empty, failure.NotFound("companion not found") // nolint:wrapcheck
	}

	url, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return constant.Empty, err
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldImages] = pq.StringArray(append(current.Images, url))

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		_ = s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, objectName)

		log.Error().Err(err).Msg("failed to append gallery image")

		return constant.Empty, fmt.Errorf("failed to append gallery image: %w", err)
	}

	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) RemoveGalleryImage(ctx context.Context, id, imageURL string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveGalleryImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get companion for gallery removal")

		return fmt.Errorf("failed to get companion: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("companion not found") // nolint:wrapcheck
	}

	remaining := make([]string, 0, len(current.Images))
	for _, existing := range current.Images {
		if existing != imageURL {
			remaining = append(remaining, existing)
		}
	}

	if len(remaining) == len(current.Images) {
		return failure.NotFound("gallery image not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldImages] = pq.StringArray(remaining)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to remove gallery image")

		return fmt.Errorf("failed to remove gallery image: %w", err)
	}

	objectName := s.s3.GetObjectNameFromURL(s.cfg.External.S3.BucketName, imageURL)
	if deleteErr := s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, objectName); deleteErr != nil {
		log.Warn().Err(deleteErr).Str("object", objectName).Msg("failed to delete gallery object")
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check companion existence")

		return fmt.Errorf("failed to check companion existence: %w", err)
	}

	if !exist {
		return failure.NotFound("companion not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete companion")

		return fmt.Errorf("failed to delete companion: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (url, objectName string, err error) {
	filename := uuid.NewString()

	// Get original extension
	parts := strings.Split(header.Filename, ".")
	if len(parts) > 1 {
		filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
	}

	url, err = s.s3.UploadFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, file, header, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload image to S3")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, filename, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCompanion, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete companion from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCompanion)
		shared.InvalidateCaches(c, s.cache, cacheCountCompanion)
	}()
}

//go:build wireinject
// +build wireinject

package di

import (
	"velvet/config"
	"velvet/infras/jwt"
	"velvet/infras/kafka"
	"velvet/infras/otel"
	"velvet/infras/postgres"
	"velvet/infras/redis"
	"velvet/infras/s3"
	"velvet/permissions"
	"velvet/shared/cache"
	"velvet/transport/http"
	"velvet/transport/http/middleware"
	"velvet/transport/http/router"

	authService "velvet/internal/domains/auth/service"
	availabilityRepository "velvet/internal/domains/availability/repository"
	availabilityService "velvet/internal/domains/availability/service"
	bookingRepository "velvet/internal/domains/booking/repository"
	bookingService "velvet/internal/domains/booking/service"
	companionRepository "velvet/internal/domains/companion/repository"
	companionService "velvet/internal/domains/companion/service"
	userRepository "velvet/internal/domains/user/repository"
	userService "velvet/internal/domains/user/service"

	authHandler "velvet/internal/handlers/auth"
	availabilityHandler "velvet/internal/handlers/availability"
	bookingHandler "velvet/internal/handlers/booking"
	companionHandler "velvet/internal/handlers/companion"
	userHandler "velvet/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var companionDomain = wire.NewSet(
	companionRepository.New,
	companionService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	companionDomain,
	availabilityDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	companionHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"velvet/config"
	kafkaMocks "velvet/infras/kafka/mocks"
	"velvet/infras/otel/mocks"
	availabilityMocks "velvet/internal/domains/availability/mocks"
	bookingMocks "velvet/internal/domains/booking/mocks"
	"velvet/internal/domains/booking/model"
	"velvet/internal/domains/booking/model/dto"
	"velvet/internal/domains/booking/repository"
	"velvet/internal/domains/booking/service"
	companionMocks "velvet/internal/domains/companion/mocks"
	companionModel "velvet/internal/domains/companion/model"
	cacheMocks "velvet/shared/cache/mocks"
	"velvet/shared/constant"
	gDto "velvet/shared/dto"
	"velvet/shared/timezone"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.BusinessOpen = "08:00"
	cfg.Booking.BusinessClose = "20:00"
	cfg.Booking.SlotStepMinutes = 30
	cfg.Booking.CutoffHour = 17
	cfg.Booking.MinDurationHrs = 1
	cfg.Booking.MaxDurationHrs = 12
	cfg.Kafka.Topics.BookingEvents = "velvet.booking.events"

	return cfg
}

func validCompanion() companionModel.Companion {
	return companionModel.Companion{
		ID:          "3f6f3f8e-9f3f-4f3f-8f3f-3f3f3f3f3f3f",
		Name:        "Test Companion",
		Rate:        150000,
		IsAvailable: true,
		Status:      companionModel.StatusActive,
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCompanionRepo := companionMocks.NewMockCompanion(ctrl)
	mockAvailRepo := availabilityMocks.NewMockAvailability(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := testConfig()

	svc := service.New(mockRepo, mockCompanionRepo, mockAvailRepo, cfg, mockCache, mockOtel, mockKafka)

	companion := validCompanion()

	baseReq := dto.CreateBookingRequest{
		CompanionID:   companion.ID,
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		CustomerPhone: "+6281234567890",
		Date:          "2100-01-01",
		Time:          "10:00",
		Duration:      2,
		Location:      "Jakarta",
	}

	// The write path publishes an event and flushes caches asynchronously.
	mockKafka.EXPECT().
		SendMessages(gomock.Any(), cfg.Kafka.Topics.BookingEvents, gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		setupMock func()
		wantErr   bool
	}{
		{
			name:      "successful booking",
			mutate:    func(req *dto.CreateBookingRequest) {},
			setupMock: func() {
				mockCompanionRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(companion, nil)

				mockAvailRepo.EXPECT().
					BlackoutExists(gomock.Any(), companion.ID, gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					InsertIfFree(gomock.Any(), gomock.Any(), 600, 720).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duration below minimum",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Duration = 0
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "duration above maximum",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Duration = 13
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "malformed time",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Time = "ten o'clock"
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "window runs past closing time",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Time = "19:00"
				req.Duration = 3
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "window starts before opening time",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Time = "07:00"
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "past date refused by the cutoff rule",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Date = "2000-01-01"
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:   "companion not found",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func() {
				mockCompanionRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(companionModel.Companion{}, nil)
			},
			wantErr: true,
		},
		{
			name:   "companion not accepting bookings",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func() {
				unavailable := companion
				unavailable.IsAvailable = false

				mockCompanionRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unavailable, nil)
			},
			wantErr: true,
		},
		{
			name:   "blackout date",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func() {
				mockCompanionRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(companion, nil)

				mockAvailRepo.EXPECT().
					BlackoutExists(gomock.Any(), companion.ID, gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name:   "slot taken between check and insert",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func() {
				mockCompanionRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(companion, nil)

				mockAvailRepo.EXPECT().
					BlackoutExists(gomock.Any(), companion.ID, gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					InsertIfFree(gomock.Any(), gomock.Any(), 600, 720).
					Return(repository.ErrBookingConflict)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseReq
			tt.mutate(&req)
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, constant.BookingStatusPending, res.Status)
			assert.Equal(t, companion.Name, res.CompanionName)
			assert.Equal(t, companion.Rate*float64(req.Duration), res.TotalAmount)
		})
	}
}

func TestBookingService_CheckConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCompanionRepo := companionMocks.NewMockCompanion(ctrl)
	mockAvailRepo := availabilityMocks.NewMockAvailability(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCompanionRepo, mockAvailRepo, testConfig(), mockCache, mockOtel, mockKafka)

	companionID := "3f6f3f8e-9f3f-4f3f-8f3f-3f3f3f3f3f3f"

	tests := []struct {
		name         string
		date         string
		startTime    string
		duration     int
		setupMock    func()
		wantErr      bool
		wantConflict bool
	}{
		{
			name:      "window is free",
			date:      "2100-01-01",
			startTime: "10:00",
			duration:  2,
			setupMock: func() {
				mockRepo.EXPECT().
					ConflictExists(gomock.Any(), companionID, gomock.Any(), 600, 720).
					Return(false, nil)
			},
			wantConflict: false,
		},
		{
			name:      "window collides with a held booking",
			date:      "2100-01-01",
			startTime: "10:00",
			duration:  2,
			setupMock: func() {
				mockRepo.EXPECT().
					ConflictExists(gomock.Any(), companionID, gomock.Any(), 600, 720).
					Return(true, nil)
			},
			wantConflict: true,
		},
		{
			name:      "invalid duration",
			date:      "2100-01-01",
			startTime: "10:00",
			duration:  0,
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "invalid start time",
			date:      "2100-01-01",
			startTime: "25:00",
			duration:  2,
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "invalid date",
			date:      "not-a-date",
			startTime: "10:00",
			duration:  2,
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "repository error",
			date:      "2100-01-01",
			startTime: "10:00",
			duration:  2,
			setupMock: func() {
				mockRepo.EXPECT().
					ConflictExists(gomock.Any(), companionID, gomock.Any(), 600, 720).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.CheckConflict(context.Background(), companionID, tt.date, tt.startTime, tt.duration)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantConflict, res.Conflict)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCompanionRepo := companionMocks.NewMockCompanion(ctrl)
	mockAvailRepo := availabilityMocks.NewMockAvailability(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := testConfig()

	svc := service.New(mockRepo, mockCompanionRepo, mockAvailRepo, cfg, mockCache, mockOtel, mockKafka)

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), cfg.Kafka.Topics.BookingEvents, gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	bookingWithStatus := func(status string) model.Booking {
		return model.Booking{
			ID:          "booking-id-1",
			CompanionID: "companion-id-1",
			Status:      status,
		}
	}

	tests := []struct {
		name      string
		newStatus string
		setupMock func()
		wantErr   bool
	}{
		{
			name:      "pending to approved",
			newStatus: constant.BookingStatusApproved,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusPending), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "pending to rejected",
			newStatus: constant.BookingStatusRejected,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusPending), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "approved to completed",
			newStatus: constant.BookingStatusCompleted,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusApproved), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "pending cannot jump to completed",
			newStatus: constant.BookingStatusCompleted,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusPending), nil)
			},
			wantErr: true,
		},
		{
			name:      "completed is terminal",
			newStatus: constant.BookingStatusApproved,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusCompleted), nil)
			},
			wantErr: true,
		},
		{
			name:      "rejected is terminal",
			newStatus: constant.BookingStatusApproved,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingWithStatus(constant.BookingStatusRejected), nil)
			},
			wantErr: true,
		},
		{
			name:      "booking not found",
			newStatus: constant.BookingStatusApproved,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdateStatus(ctx, dto.UpdateStatusRequest{Status: tt.newStatus}, "booking-id-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCompanionRepo := companionMocks.NewMockCompanion(ctrl)
	mockAvailRepo := availabilityMocks.NewMockAvailability(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCompanionRepo, mockAvailRepo, testConfig(), mockCache, mockOtel, mockKafka)

	t.Run("rejects anonymous callers", func(t *testing.T) {
		_, err := svc.GetMine(context.Background(), gDto.QueryParams{Limit: 10, Page: 1})

		assert.Error(t, err)
	})

	t.Run("lists the caller's bookings", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "booking-id-1", UserID: "test-user-id", Status: constant.BookingStatusPending}}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
		res, err := svc.GetMine(ctx, gDto.QueryParams{Limit: 10, Page: 1})

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}

func TestBookingService_GetForCompanion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCompanionRepo := companionMocks.NewMockCompanion(ctrl)
	mockAvailRepo := availabilityMocks.NewMockAvailability(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCompanionRepo, mockAvailRepo, testConfig(), mockCache, mockOtel, mockKafka)

	date, _ := timezone.Parse(constant.DateOnlyFormat, "2100-01-01")

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, err := svc.GetForCompanion(context.Background(), "companion-id-1", "not-a-date", nil)

		assert.Error(t, err)
	})

	t.Run("defaults to blocking statuses and returns compact rows", func(t *testing.T) {
		mockRepo.EXPECT().
			ListForCompanionDate(gomock.Any(), "companion-id-1", gomock.Any(), []string{constant.BookingStatusPending, constant.BookingStatusApproved}).
			Return([]model.Booking{
				{ID: "booking-id-1", Date: date, Time: "10:00", Duration: 2, Status: constant.BookingStatusApproved},
			}, nil)

		res, err := svc.GetForCompanion(context.Background(), "companion-id-1", "2100-01-01", nil)

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, "2100-01-01", res.Bookings[0].Date)
		assert.Equal(t, "10:00", res.Bookings[0].Time)
		assert.Equal(t, 2, res.Bookings[0].Duration)
		assert.Equal(t, constant.BookingStatusApproved, res.Bookings[0].Status)
	})
}

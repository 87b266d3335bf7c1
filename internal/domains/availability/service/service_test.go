package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"velvet/config"
	"velvet/infras/otel/mocks"
	availabilityMocks "velvet/internal/domains/availability/mocks"
	"velvet/internal/domains/availability/model"
	"velvet/internal/domains/availability/model/dto"
	"velvet/internal/domains/availability/schedule"
	"velvet/internal/domains/availability/service"
	bookingMocks "velvet/internal/domains/booking/mocks"
	bookingModel "velvet/internal/domains/booking/model"
	companionMocks "velvet/internal/domains/companion/mocks"
	companionModel "velvet/internal/domains/companion/model"
	cacheMocks "velvet/shared/cache/mocks"
	"velvet/shared/constant"
	"velvet/shared/timezone"
)

const (
	testCompanionID = "3f6f3f8e-9f3f-4f3f-8f3f-3f3f3f3f3f3f"
	testDate        = "2100-01-01"
)

type serviceMocks struct {
	repo          *availabilityMocks.MockAvailability
	companionRepo *companionMocks.MockCompanion
	bookingRepo   *bookingMocks.MockBooking
	cache         *cacheMocks.MockRedisCache
}

func newService(ctrl *gomock.Controller) (service.Availability, serviceMocks) {
	m := serviceMocks{
		repo:          availabilityMocks.NewMockAvailability(ctrl),
		companionRepo: companionMocks.NewMockCompanion(ctrl),
		bookingRepo:   bookingMocks.NewMockBooking(ctrl),
		cache:         cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.BusinessOpen = "08:00"
	cfg.Booking.BusinessClose = "20:00"
	cfg.Booking.SlotStepMinutes = 30
	cfg.Booking.CutoffHour = 17
	cfg.Booking.MinDurationHrs = 1
	cfg.Booking.MaxDurationHrs = 12

	// Writes invalidate the computed caches asynchronously.
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	svc := service.New(m.repo, m.companionRepo, m.bookingRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func availableCompanion() companionModel.Companion {
	return companionModel.Companion{
		ID:          testCompanionID,
		Name:        "Test Companion",
		Rate:        150000,
		IsAvailable: true,
		Status:      companionModel.StatusActive,
	}
}

func TestAvailabilityService_CreateSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	baseReq := dto.CreateSlotRequest{
		Date:      testDate,
		StartTime: "09:00",
		EndTime:   "12:00",
	}

	tests := []struct {
		name      string
		mutate    func(req *dto.CreateSlotRequest)
		ctx       context.Context
		setupMock func()
		wantErr   bool
	}{
		{
			name:   "successful creation defaults the slot to unavailable",
			mutate: func(req *dto.CreateSlotRequest) {},
			ctx:    context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id"),
			setupMock: func() {
				m.repo.EXPECT().
					BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					OverlappingSlotExists(gomock.Any(), testCompanionID, gomock.Any(), "09:00", "12:00").
					Return(false, nil)

				m.repo.EXPECT().
					InsertSlot(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, slot model.AvailabilitySlot) error {
						assert.False(t, slot.IsAvailable)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "end before start",
			mutate: func(req *dto.CreateSlotRequest) {
				req.StartTime = "12:00"
				req.EndTime = "09:00"
			},
			ctx:       context.Background(),
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "outside business hours",
			mutate: func(req *dto.CreateSlotRequest) {
				req.StartTime = "06:00"
				req.EndTime = "09:00"
			},
			ctx:       context.Background(),
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:   "blackout date rejects new slots",
			mutate: func(req *dto.CreateSlotRequest) {},
			ctx:    context.Background(),
			setupMock: func() {
				m.repo.EXPECT().
					BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name:   "overlapping slot already exists",
			mutate: func(req *dto.CreateSlotRequest) {},
			ctx:    context.Background(),
			setupMock: func() {
				m.repo.EXPECT().
					BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					OverlappingSlotExists(gomock.Any(), testCompanionID, gomock.Any(), "09:00", "12:00").
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name:      "another companion's token is rejected",
			mutate:    func(req *dto.CreateSlotRequest) {},
			ctx:       context.WithValue(context.Background(), constant.ContextKeyCompanionID, "someone-else"),
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseReq
			tt.mutate(&req)
			tt.setupMock()

			err := svc.CreateSlot(tt.ctx, req, testCompanionID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAvailabilityService_UpdateSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	existing := model.AvailabilitySlot{
		ID:          "slot-id-1",
		CompanionID: testCompanionID,
		StartTime:   "09:00",
		EndTime:     "12:00",
	}

	t.Run("toggling availability on", func(t *testing.T) {
		m.repo.EXPECT().
			GetSlot(gomock.Any(), gomock.Any()).
			Return(existing, nil)

		m.repo.EXPECT().
			UpdateSlot(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldIsAvailable])

				return nil
			})

		enabled := true
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

		err := svc.UpdateSlot(ctx, dto.UpdateSlotRequest{IsAvailable: &enabled}, testCompanionID, "slot-id-1")

		assert.NoError(t, err)
	})

	t.Run("slot not found", func(t *testing.T) {
		m.repo.EXPECT().
			GetSlot(gomock.Any(), gomock.Any()).
			Return(model.AvailabilitySlot{}, nil)

		err := svc.UpdateSlot(context.Background(), dto.UpdateSlotRequest{}, testCompanionID, "slot-id-1")

		assert.Error(t, err)
	})

	t.Run("new window outside business hours", func(t *testing.T) {
		m.repo.EXPECT().
			GetSlot(gomock.Any(), gomock.Any()).
			Return(existing, nil)

		err := svc.UpdateSlot(context.Background(), dto.UpdateSlotRequest{EndTime: "21:00"}, testCompanionID, "slot-id-1")

		assert.Error(t, err)
	})
}

func TestAvailabilityService_CreateBlackout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	t.Run("successful creation", func(t *testing.T) {
		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(false, nil)

		m.repo.EXPECT().
			InsertBlackout(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.CreateBlackout(ctx, dto.CreateBlackoutRequest{Date: testDate}, testCompanionID)

		assert.NoError(t, err)
	})

	t.Run("duplicate date", func(t *testing.T) {
		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(true, nil)

		err := svc.CreateBlackout(ctx, dto.CreateBlackoutRequest{Date: testDate}, testCompanionID)

		assert.Error(t, err)
	})

	t.Run("invalid date", func(t *testing.T) {
		err := svc.CreateBlackout(ctx, dto.CreateBlackoutRequest{Date: "not-a-date"}, testCompanionID)

		assert.Error(t, err)
	})
}

func TestAvailabilityService_GetTimeSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	date, _ := timezone.Parse(constant.DateOnlyFormat, testDate)

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	t.Run("blackout date yields no rows", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(true, nil)

		res, err := svc.GetTimeSlots(context.Background(), testCompanionID, testDate)

		assert.NoError(t, err)
		assert.Empty(t, res.Slots)
	})

	t.Run("companion slots take precedence over the recurring grid", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(false, nil)

		m.bookingRepo.EXPECT().
			ListForCompanionDate(gomock.Any(), testCompanionID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		m.repo.EXPECT().
			GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.AvailabilitySlot{
				{ID: "slot-id-1", CompanionID: testCompanionID, Date: date, StartTime: "14:00", EndTime: "16:00", IsAvailable: true},
			}, nil)

		res, err := svc.GetTimeSlots(context.Background(), testCompanionID, testDate)

		assert.NoError(t, err)
		assert.Len(t, res.Slots, 1)
		assert.Equal(t, constant.SlotTypeSpecific, res.Slots[0].SlotType)
		assert.Equal(t, constant.SlotSourceCompanion, res.Slots[0].Source)
	})

	t.Run("recurring grid merges free runs and flags booked hours", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(false, nil)

		m.bookingRepo.EXPECT().
			ListForCompanionDate(gomock.Any(), testCompanionID, gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{
				{ID: "booking-id-1", Time: "12:00", Duration: 1, Status: constant.BookingStatusApproved},
			}, nil)

		m.repo.EXPECT().
			GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		res, err := svc.GetTimeSlots(context.Background(), testCompanionID, testDate)

		assert.NoError(t, err)
		assert.Equal(t, []schedule.SlotRow{
			{SlotType: constant.SlotTypeCombinedDefault, StartTime: "08:00", EndTime: "12:00", IsAvailable: true, Source: constant.SlotSourceRecurring},
			{SlotType: constant.SlotTypeDefault, StartTime: "12:00", EndTime: "13:00", IsAvailable: true, IsBooked: true, Source: constant.SlotSourceRecurring},
			{SlotType: constant.SlotTypeCombinedDefault, StartTime: "13:00", EndTime: "20:00", IsAvailable: true, Source: constant.SlotSourceRecurring},
		}, res.Slots)
	})

	t.Run("cache hit skips the repositories", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.GetTimeSlots(context.Background(), testCompanionID, testDate)

		assert.NoError(t, err)
	})
}

func TestAvailabilityService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	t.Run("invalid duration is rejected before anything is read", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), testCompanionID, testDate, 13)

		assert.Error(t, err)
	})

	t.Run("unknown companion", func(t *testing.T) {
		m.companionRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(companionModel.Companion{}, nil)

		_, err := svc.Resolve(context.Background(), testCompanionID, testDate, 2)

		assert.Error(t, err)
	})

	t.Run("kill switch short-circuits before any slot data is read", func(t *testing.T) {
		paused := availableCompanion()
		paused.IsAvailable = false

		m.companionRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paused, nil)

		res, err := svc.Resolve(context.Background(), testCompanionID, testDate, 2)

		assert.NoError(t, err)
		assert.Equal(t, string(schedule.OutcomeCompanionUnavailable), res.Outcome)
		assert.Empty(t, res.StartTimes)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("blackout date resolves to day unavailable", func(t *testing.T) {
		m.companionRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCompanion(), nil)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(true, nil)

		res, err := svc.Resolve(context.Background(), testCompanionID, testDate, 2)

		assert.NoError(t, err)
		assert.Equal(t, string(schedule.OutcomeDayUnavailable), res.Outcome)
		assert.Empty(t, res.StartTimes)
	})

	t.Run("open day offers grid starts for the duration", func(t *testing.T) {
		m.companionRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCompanion(), nil)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(false, nil)

		m.bookingRepo.EXPECT().
			ListForCompanionDate(gomock.Any(), testCompanionID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		m.repo.EXPECT().
			GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		res, err := svc.Resolve(context.Background(), testCompanionID, testDate, 11)

		assert.NoError(t, err)
		assert.Equal(t, string(schedule.OutcomeOffering), res.Outcome)
		assert.Equal(t, []string{"08:00", "08:30", "09:00"}, res.StartTimes)
	})

	t.Run("curated day with no fitting window", func(t *testing.T) {
		date, _ := timezone.Parse(constant.DateOnlyFormat, testDate)

		m.companionRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCompanion(), nil)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			BlackoutExists(gomock.Any(), testCompanionID, gomock.Any()).
			Return(false, nil)

		m.bookingRepo.EXPECT().
			ListForCompanionDate(gomock.Any(), testCompanionID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		m.repo.EXPECT().
			GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.AvailabilitySlot{
				{ID: "slot-id-1", CompanionID: testCompanionID, Date: date, StartTime: "14:00", EndTime: "16:00", IsAvailable: true},
			}, nil)

		res, err := svc.Resolve(context.Background(), testCompanionID, testDate, 3)

		assert.NoError(t, err)
		assert.Equal(t, string(schedule.OutcomeNoFit), res.Outcome)
		assert.Empty(t, res.StartTimes)
		assert.NotEmpty(t, res.Message)
	})
}

func TestAvailabilityService_DeleteSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	t.Run("successful deletion", func(t *testing.T) {
		m.repo.EXPECT().
			SlotExists(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.repo.EXPECT().
			DeleteSlot(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.DeleteSlot(context.Background(), testCompanionID, "slot-id-1")

		assert.NoError(t, err)
	})

	t.Run("slot not found", func(t *testing.T) {
		m.repo.EXPECT().
			SlotExists(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.DeleteSlot(context.Background(), testCompanionID, "slot-id-1")

		assert.Error(t, err)
	})

	t.Run("owning companion passes the ownership guard", func(t *testing.T) {
		m.repo.EXPECT().
			SlotExists(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.repo.EXPECT().
			DeleteSlot(gomock.Any(), gomock.Any()).
			Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyCompanionID, testCompanionID)

		assert.NoError(t, svc.DeleteSlot(ctx, testCompanionID, "slot-id-1"))
	})

	t.Run("other companions are restricted", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), constant.ContextKeyCompanionID, "someone-else")

		assert.Error(t, svc.DeleteSlot(ctx, testCompanionID, "slot-id-1"))
	})
}

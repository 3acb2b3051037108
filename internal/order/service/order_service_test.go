package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/order/repository"
	repoMocks "github.com/ewakoroyal/booking-api/internal/order/repository/mocks"
	svcMocks "github.com/ewakoroyal/booking-api/internal/order/service/mocks"
	"github.com/ewakoroyal/booking-api/internal/platform/events"
	notifyMocks "github.com/ewakoroyal/booking-api/internal/platform/notify/mocks"
	vehicleDomain "github.com/ewakoroyal/booking-api/internal/vehicle/domain"
)

type orderTestDeps struct {
	repo     *repoMocks.MockOrderRepository
	vehicles *svcMocks.MockVehicleDirectory
	notifier *notifyMocks.MockNotifier
	service  OrderService
}

func newOrderTestDeps() orderTestDeps {
	repo := new(repoMocks.MockOrderRepository)
	vehicles := new(svcMocks.MockVehicleDirectory)
	notifier := new(notifyMocks.MockNotifier)
	// staleAfter 0 mematikan scheduler pengingat di test.
	svc := NewOrderService(repo, vehicles, notifier, events.NewNoopPublisher(), testConverter(), 0)
	return orderTestDeps{repo: repo, vehicles: vehicles, notifier: notifier, service: svc}
}

var (
	customer = Actor{UserID: "user-1"}
	stranger = Actor{UserID: "user-2"}
	admin    = Actor{UserID: "admin-1", Admin: true}
)

func hotelRawData() json.RawMessage {
	return json.RawMessage(`{
		"customerName": "H. Ahmad",
		"phone": "+628123456789",
		"madinahHotel": {"name": "Al Haram Hotel", "nights": 3, "rooms": {"quad": 2}, "checkIn": "2026-10-01"},
		"includeVisa": true,
		"visaPax": 4
	}`)
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful creation starts at Request Confirmation", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyAdmin", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		order, err := d.service.CreateOrder(ctx, customer, domain.CreateOrderRequest{
			ServiceType: domain.ServiceHotel,
			Data:        hotelRawData(),
		})

		require.NoError(t, err)
		assert.Equal(t, "mock-order-id", order.ID)
		assert.Equal(t, "user-1", order.UserID)
		assert.Equal(t, domain.StatusRequestConfirmation, order.Status)
		assert.Nil(t, order.TotalPrice)

		// checkOut diturunkan dari checkIn + nights.
		data := order.Data.(*domain.HotelBookingData)
		assert.Equal(t, "2026-10-04", data.MadinahHotel.CheckOut)
		d.repo.AssertExpectations(t)
		d.notifier.AssertExpectations(t)
	})

	t.Run("Admin can create on behalf of a customer", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyAdmin", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		order, err := d.service.CreateOrder(ctx, admin, domain.CreateOrderRequest{
			UserID:      "user-1",
			ServiceType: domain.ServiceHotel,
			Data:        hotelRawData(),
		})

		require.NoError(t, err)
		assert.Equal(t, "user-1", order.UserID)
	})

	t.Run("Unknown service type is rejected", func(t *testing.T) {
		d := newOrderTestDeps()

		_, err := d.service.CreateOrder(ctx, customer, domain.CreateOrderRequest{
			ServiceType: domain.ServiceType("Kapal Pesiar"),
			Data:        hotelRawData(),
		})

		assert.Error(t, err)
		d.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Invalid booking data is rejected", func(t *testing.T) {
		d := newOrderTestDeps()

		_, err := d.service.CreateOrder(ctx, customer, domain.CreateOrderRequest{
			ServiceType: domain.ServiceHotel,
			Data:        json.RawMessage(`{"customerName": "", "phone": ""}`),
		})

		assert.Error(t, err)
		d.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	ctx := context.TODO()

	t.Run("Customer cannot read someone else's order", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()

		_, err := d.service.GetOrder(ctx, stranger, "order-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Admin can read any order", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()

		order, err := d.service.GetOrder(ctx, admin, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})
}

func tentativeHotelOrder() *domain.Order {
	order := newHotelOrder()
	order.Status = domain.StatusTentativeConfirmation
	total := int64(18240000)
	order.TotalPrice = &total
	order.Version = 2
	return order
}

func TestOrderService_CustomerConfirmation(t *testing.T) {
	ctx := context.TODO()
	yes, no := true, false

	t.Run("Accept advances Tentative to Definite", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyCustomer", ctx, "+628123456789", mock.AnythingOfType("string")).Return(nil).Once()
		d.notifier.On("NotifyAdmin", ctx, mock.MatchedBy(func(msg string) bool {
			return msg != ""
		})).Return(nil).Once()

		order, err := d.service.UpdateStatus(ctx, customer, "order-1", domain.UpdateStatusRequest{CustomerConfirmation: &yes})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusDefiniteConfirmation, order.Status)
		require.NotNil(t, order.CustomerConfirmation)
		assert.True(t, *order.CustomerConfirmation)
		d.notifier.AssertExpectations(t)
	})

	t.Run("Reject moves the order to a terminal status", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyCustomer", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		d.notifier.On("NotifyAdmin", ctx, mock.Anything).Return(nil).Once()

		order, err := d.service.UpdateStatus(ctx, customer, "order-1", domain.UpdateStatusRequest{CustomerConfirmation: &no})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejectedByCustomer, order.Status)
		assert.True(t, order.Status.IsTerminal())
	})

	t.Run("Confirmation outside Tentative is rejected without mutation", func(t *testing.T) {
		d := newOrderTestDeps()
		order := tentativeHotelOrder()
		order.Status = domain.StatusRequestConfirmation
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()

		_, err := d.service.UpdateStatus(ctx, customer, "order-1", domain.UpdateStatusRequest{CustomerConfirmation: &yes})

		assert.ErrorIs(t, err, ErrConfirmationNotAllowed)
		d.repo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Stranger cannot confirm someone else's order", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()

		_, err := d.service.UpdateStatus(ctx, stranger, "order-1", domain.UpdateStatusRequest{CustomerConfirmation: &yes})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestOrderService_AdminStatusOverride(t *testing.T) {
	ctx := context.TODO()

	t.Run("Non-admin cannot set status manually", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()

		_, err := d.service.UpdateStatus(ctx, customer, "order-1", domain.UpdateStatusRequest{Status: domain.StatusConfirmedByAdmin})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Leaving a terminal status is rejected", func(t *testing.T) {
		d := newOrderTestDeps()
		order := tentativeHotelOrder()
		order.Status = domain.StatusRejectedByCustomer
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()

		_, err := d.service.UpdateStatus(ctx, admin, "order-1", domain.UpdateStatusRequest{Status: domain.StatusConfirmedByAdmin})

		assert.ErrorIs(t, err, ErrTerminalStatus)
		d.repo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Milestone status notifies the customer", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyCustomer", ctx, "+628123456789", mock.AnythingOfType("string")).Return(nil).Once()

		order, err := d.service.UpdateStatus(ctx, admin, "order-1", domain.UpdateStatusRequest{Status: domain.StatusConfirmedByAdmin})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmedByAdmin, order.Status)
		d.notifier.AssertExpectations(t)
	})
}

func TestOrderService_UpdateData(t *testing.T) {
	ctx := context.TODO()

	t.Run("Customer edit keeps admin unit prices", func(t *testing.T) {
		d := newOrderTestDeps()
		order := tentativeHotelOrder()
		order.Data.(*domain.HotelBookingData).MadinahHotel.PricesSAR = &domain.RoomPricesSAR{Quad: fptr(400)}
		order.Data.(*domain.HotelBookingData).VisaPricePerPaxUSD = fptr(120)
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		// Payload pelanggan tanpa harga satuan sama sekali.
		updated, err := d.service.UpdateData(ctx, customer, "order-1", hotelRawData())

		require.NoError(t, err)
		data := updated.Data.(*domain.HotelBookingData)
		require.NotNil(t, data.MadinahHotel.PricesSAR)
		assert.Equal(t, 400.0, *data.MadinahHotel.PricesSAR.Quad)
		require.NotNil(t, data.VisaPricePerPaxUSD)
		assert.Equal(t, 120.0, *data.VisaPricePerPaxUSD)
	})

	t.Run("Edit is locked once the admin confirmed the order", func(t *testing.T) {
		d := newOrderTestDeps()
		order := tentativeHotelOrder()
		order.Status = domain.StatusConfirmedByAdmin
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()

		_, err := d.service.UpdateData(ctx, customer, "order-1", hotelRawData())

		assert.ErrorIs(t, err, ErrOrderLocked)
		d.repo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent stale write surfaces a conflict", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(repository.ErrOrderConflict).Once()

		_, err := d.service.UpdateData(ctx, customer, "order-1", hotelRawData())
		assert.ErrorIs(t, err, repository.ErrOrderConflict)
	})
}

func TestOrderService_UpdatePackageInfo(t *testing.T) {
	ctx := context.TODO()

	t.Run("Vehicle fields are re-resolved from live records", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.vehicles.On("GetVehicle", ctx, "veh-1").Return(&vehicleDomain.Vehicle{
			ID:          "veh-1",
			Type:        vehicleDomain.TypeBus,
			Name:        "Mercedes 2024",
			PlateNumber: "B 1234 XY",
			DriverName:  "Abdullah",
			DriverPhone: "+966500000001",
			CompanyName: "SYR-88",
		}, nil).Once()

		order, err := d.service.UpdatePackageInfo(ctx, admin, "order-1", domain.PackageInfo{
			PPIUName:     "PT Barokah Travel",
			BusVehicleID: "veh-1",
			BusName:      "stale name from client",
		})

		require.NoError(t, err)
		require.NotNil(t, order.PackageInfo)
		assert.Equal(t, "Mercedes 2024", order.PackageInfo.BusName)
		assert.Equal(t, "Bus", order.PackageInfo.BusVehicleType)
		assert.Equal(t, "Abdullah", order.PackageInfo.BusDriverName)
		assert.Equal(t, "SYR-88", order.PackageInfo.BusSyarikahNumber)
		d.vehicles.AssertExpectations(t)
	})

	t.Run("Missing vehicle keeps the client copy", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.vehicles.On("GetVehicle", ctx, "veh-gone").Return(nil, assert.AnError).Once()

		order, err := d.service.UpdatePackageInfo(ctx, admin, "order-1", domain.PackageInfo{
			BusVehicleID: "veh-gone",
			BusName:      "Bus Lama",
		})

		require.NoError(t, err)
		assert.Equal(t, "Bus Lama", order.PackageInfo.BusName)
	})
}

func TestOrderService_Payments(t *testing.T) {
	ctx := context.TODO()

	t.Run("Only admin can record payments", func(t *testing.T) {
		d := newOrderTestDeps()

		_, err := d.service.AddPayment(ctx, customer, "order-1", domain.AddPaymentRequest{
			Amount:        5000000,
			PaymentDate:   "2026-08-01",
			PaymentType:   domain.PaymentDP,
			PaymentMethod: domain.MethodTransfer,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Invalid payment data is rejected", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Once()

		_, err := d.service.AddPayment(ctx, admin, "order-1", domain.AddPaymentRequest{
			Amount:        0,
			PaymentType:   domain.PaymentType("Cicilan"),
			PaymentMethod: domain.MethodTransfer,
		})

		assert.Error(t, err)
		d.repo.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
	})

	t.Run("Successful payment reloads the order", func(t *testing.T) {
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, "order-1").Return(tentativeHotelOrder(), nil).Twice()
		d.repo.On("AddPayment", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()

		order, err := d.service.AddPayment(ctx, admin, "order-1", domain.AddPaymentRequest{
			Amount:        5000000,
			PaymentDate:   "2026-08-01",
			PaymentType:   domain.PaymentDP,
			PaymentMethod: domain.MethodTransfer,
		})

		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		d.repo.AssertExpectations(t)
	})
}

func TestOrderService_SetPriceAndDetails(t *testing.T) {
	ctx := context.TODO()

	t.Run("Pricing is admin-only", func(t *testing.T) {
		d := newOrderTestDeps()

		_, err := d.service.SetPriceAndDetails(ctx, customer, "order-1", domain.AdminPriceDetails{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Pricing rejected after the order is confirmed", func(t *testing.T) {
		d := newOrderTestDeps()
		order := tentativeHotelOrder()
		order.Status = domain.StatusConfirmedByAdmin
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()

		_, err := d.service.SetPriceAndDetails(ctx, admin, "order-1", domain.AdminPriceDetails{})
		assert.ErrorIs(t, err, ErrPricingNotAllowed)
	})

	t.Run("Complete pricing notifies the customer with the IDR total", func(t *testing.T) {
		d := newOrderTestDeps()
		order := newHotelOrder() // masih Request Confirmation
		d.repo.On("GetOrderByID", ctx, "order-1").Return(order, nil).Once()
		d.repo.On("UpdateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		d.notifier.On("NotifyCustomer", ctx, "+628123456789", mock.MatchedBy(func(msg string) bool {
			return msg != ""
		})).Return(nil).Once()

		updated, err := d.service.SetPriceAndDetails(ctx, admin, "order-1", domain.AdminPriceDetails{
			MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
			VisaPricePerPaxUSD:        fptr(120),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusTentativeConfirmation, updated.Status)
		require.NotNil(t, updated.TotalPrice)
		assert.Equal(t, int64(18240000), *updated.TotalPrice)
		d.notifier.AssertExpectations(t)
	})
}

func TestOrderService_RemindStaleRequests(t *testing.T) {
	ctx := context.TODO()
	d := newOrderTestDeps()

	stale := []domain.Order{*newHotelOrder(), *newHotelOrder()}
	d.repo.On("ListStaleRequestOrders", ctx, time.Duration(0)).Return(stale, nil).Once()
	d.notifier.On("NotifyAdmin", ctx, mock.AnythingOfType("string")).Return(nil).Twice()

	d.service.RemindStaleRequests(ctx)

	d.repo.AssertExpectations(t)
	d.notifier.AssertExpectations(t)
}

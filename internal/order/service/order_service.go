package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/order/repository"
	"github.com/ewakoroyal/booking-api/internal/platform/currency"
	"github.com/ewakoroyal/booking-api/internal/platform/events"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/notify"
)

var (
	ErrForbidden              = errors.New("you are not allowed to access this order")
	ErrOrderLocked            = errors.New("order can no longer be edited in its current status")
	ErrConfirmationNotAllowed = errors.New("customer confirmation is only accepted while the order is in Tentative Confirmation")
	ErrPricingNotAllowed      = errors.New("pricing can no longer be entered in the current order status")
	ErrTerminalStatus         = errors.New("order is already in a terminal status")
	ErrInvalidStatus          = errors.New("unknown order status")
)

// Actor mengidentifikasi pemanggil operasi: user id dari token + perannya.
type Actor struct {
	UserID string
	Admin  bool
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, req domain.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, actor Actor, filterUserID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID string, req domain.UpdateStatusRequest) (*domain.Order, error)
	UpdateData(ctx context.Context, actor Actor, orderID string, raw json.RawMessage) (*domain.Order, error)
	UpdatePackageInfo(ctx context.Context, actor Actor, orderID string, pi domain.PackageInfo) (*domain.Order, error)
	UpdateManifest(ctx context.Context, actor Actor, orderID string, items []domain.ManifestItem) (*domain.Order, error)
	AddPayment(ctx context.Context, actor Actor, orderID string, req domain.AddPaymentRequest) (*domain.Order, error)
	DeletePayment(ctx context.Context, actor Actor, orderID, paymentID string) (*domain.Order, error)
	SetPriceAndDetails(ctx context.Context, actor Actor, orderID string, details domain.AdminPriceDetails) (*domain.Order, error)
	RemindStaleRequests(ctx context.Context)
}

type orderServiceImpl struct {
	orderRepo  repository.OrderRepository
	vehicles   VehicleDirectory
	notifier   notify.Notifier
	publisher  events.Publisher
	converter  *currency.Converter
	scheduler  *cron.Cron
	staleAfter time.Duration
}

// NewOrderService merangkai service pesanan. staleAfter <= 0 mematikan
// job pengingat (dipakai di test).
func NewOrderService(
	or repository.OrderRepository,
	vehicles VehicleDirectory,
	notifier notify.Notifier,
	publisher events.Publisher,
	converter *currency.Converter,
	staleAfter time.Duration,
) OrderService {
	s := &orderServiceImpl{
		orderRepo:  or,
		vehicles:   vehicles,
		notifier:   notifier,
		publisher:  publisher,
		converter:  converter,
		staleAfter: staleAfter,
	}
	if staleAfter > 0 {
		s.scheduler = cron.New()
		s.scheduler.AddFunc("@hourly", func() {
			s.RemindStaleRequests(context.Background())
		})
		s.scheduler.Start()
		logger.Info("Stale-request reminder scheduled hourly, threshold %v", staleAfter)
	}
	return s
}

// RemindStaleRequests mengingatkan admin soal pesanan yang terlalu lama
// diam di Request Confirmation tanpa diberi harga.
func (s *orderServiceImpl) RemindStaleRequests(ctx context.Context) {
	orders, err := s.orderRepo.ListStaleRequestOrders(ctx, s.staleAfter)
	if err != nil {
		logger.Error("RemindStaleRequests: failed to list stale orders", err)
		return
	}
	for _, o := range orders {
		msg := fmt.Sprintf("Pesanan %s (ID: %s) dari %s sudah lebih dari %v menunggu penawaran harga.",
			o.ServiceType, shortID(o.ID), o.Data.CustomerName(), s.staleAfter)
		if err := s.notifier.NotifyAdmin(ctx, msg); err != nil {
			logger.Error("RemindStaleRequests: failed to notify admin", err)
		}
	}
	if len(orders) > 0 {
		logger.Info("RemindStaleRequests: reminded admin about %d stale orders", len(orders))
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, actor Actor, req domain.CreateOrderRequest) (*domain.Order, error) {
	if !req.ServiceType.Valid() {
		ve := domain.NewValidationError("Jenis layanan tidak dikenal.")
		ve.Add("service_type", "jenis layanan tidak dikenal")
		return nil, ve
	}

	data, err := domain.DecodeBookingData(req.ServiceType, req.Data)
	if err != nil {
		ve := domain.NewValidationError("Data pemesanan tidak valid.")
		ve.Add("data", err.Error())
		return nil, ve
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if hotel, ok := data.(*domain.HotelBookingData); ok {
		hotel.Normalize()
	}

	userID := actor.UserID
	if actor.Admin && req.UserID != "" {
		// Admin boleh membuat pesanan atas nama pelanggan.
		userID = req.UserID
	}

	order := &domain.Order{
		UserID:      userID,
		ServiceType: req.ServiceType,
		Data:        data,
		Status:      domain.StatusRequestConfirmation,
		Manifest:    []domain.ManifestItem{},
		Payments:    []domain.Payment{},
	}
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		logger.Error("CreateOrder: failed to save order", err)
		return nil, err
	}

	s.publisher.Publish(events.EventOrderCreated, order.ID, events.OrderCreatedPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		ServiceType: string(order.ServiceType),
	})
	msg := fmt.Sprintf("Pesanan baru %s dari %s (%s), ID: %s.",
		order.ServiceType, data.CustomerName(), data.CustomerPhone(), shortID(order.ID))
	if err := s.notifier.NotifyAdmin(ctx, msg); err != nil {
		logger.Error("CreateOrder: failed to notify admin", err)
	}
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, actor Actor, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && order.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, actor Actor, filterUserID string) ([]domain.Order, error) {
	if actor.Admin {
		if filterUserID != "" {
			return s.orderRepo.ListOrdersByUserID(ctx, filterUserID)
		}
		return s.orderRepo.ListOrders(ctx)
	}
	// Pelanggan hanya melihat pesanannya sendiri, apa pun filternya.
	return s.orderRepo.ListOrdersByUserID(ctx, actor.UserID)
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, actor Actor, orderID string, req domain.UpdateStatusRequest) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.CustomerConfirmation != nil {
		return s.applyCustomerConfirmation(ctx, actor, order, *req.CustomerConfirmation)
	}

	// Override status manual: khusus admin. Dipertahankan sebagai
	// escape hatch operasional, kecuali keluar dari status terminal.
	if !actor.Admin {
		return nil, ErrForbidden
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if order.Status.IsTerminal() && req.Status != order.Status {
		logger.Warn("UpdateStatus: rejected attempt to leave terminal status %s on order %s", order.Status, order.ID)
		return nil, ErrTerminalStatus
	}

	previous := order.Status
	order.Status = req.Status
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publisher.Publish(events.EventOrderStatusChanged, order.ID, events.OrderStatusChangedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		FromStatus: string(previous),
		ToStatus:   string(order.Status),
	})
	s.notifyStatusMilestone(ctx, order)
	return order, nil
}

// applyCustomerConfirmation menangani persetujuan/penolakan pelanggan.
// Hanya sah saat status Tentative Confirmation; di luar itu ditolak tanpa
// mutasi apa pun.
func (s *orderServiceImpl) applyCustomerConfirmation(ctx context.Context, actor Actor, order *domain.Order, confirmed bool) (*domain.Order, error) {
	if !actor.Admin && order.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if order.Status != domain.StatusTentativeConfirmation {
		return nil, ErrConfirmationNotAllowed
	}

	previous := order.Status
	order.CustomerConfirmation = &confirmed
	if confirmed {
		order.Status = domain.StatusDefiniteConfirmation
	} else {
		order.Status = domain.StatusRejectedByCustomer
	}
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publisher.Publish(events.EventOrderStatusChanged, order.ID, events.OrderStatusChangedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		FromStatus: string(previous),
		ToStatus:   string(order.Status),
	})

	phone := order.Data.CustomerPhone()
	var toCustomer string
	if confirmed {
		toCustomer = fmt.Sprintf("Pesanan Anda (%s - ID: %s) telah Anda konfirmasi. Kami akan segera memprosesnya.",
			order.ServiceType, shortID(order.ID))
	} else {
		toCustomer = fmt.Sprintf("Anda telah menolak pesanan (%s - ID: %s). Jika ada pertanyaan, silakan hubungi kami.",
			order.ServiceType, shortID(order.ID))
	}
	if err := s.notifier.NotifyCustomer(ctx, phone, toCustomer); err != nil {
		logger.Error("applyCustomerConfirmation: failed to notify customer", err)
	}

	verdict := "MENOLAK"
	if confirmed {
		verdict = "MENGKONFIRMASI"
	}
	toAdmin := fmt.Sprintf("Pelanggan %s (%s) telah %s pesanan %s (ID: %s).",
		order.Data.CustomerName(), phone, verdict, order.ServiceType, shortID(order.ID))
	if err := s.notifier.NotifyAdmin(ctx, toAdmin); err != nil {
		logger.Error("applyCustomerConfirmation: failed to notify admin", err)
	}
	return order, nil
}

// notifyStatusMilestone mengirim template notifikasi per milestone status
// yang dilihat pelanggan.
func (s *orderServiceImpl) notifyStatusMilestone(ctx context.Context, order *domain.Order) {
	phone := order.Data.CustomerPhone()
	base := fmt.Sprintf("Status pesanan Anda (%s - ID: %s) telah diperbarui menjadi: %s.",
		order.ServiceType, shortID(order.ID), order.Status)

	var msg string
	switch order.Status {
	case domain.StatusDefiniteConfirmation:
		msg = base + " Berikut adalah detail tagihan dan instruksi pembayaran Down Payment (DP). (Detail akan dikirim terpisah)"
	case domain.StatusConfirmedByAdmin:
		msg = base + " Pesanan Anda telah dikonfirmasi oleh Admin. Silakan lanjutkan ke tahap berikutnya."
	case domain.StatusDownpaymentReceived:
		msg = fmt.Sprintf("Pembayaran DP Anda untuk pesanan (%s - ID: %s) telah kami terima. Terima kasih.",
			order.ServiceType, shortID(order.ID))
	case domain.StatusFullyPaid:
		msg = fmt.Sprintf("Pembayaran Anda untuk pesanan (%s - ID: %s) telah lunas. Itinerary dan dokumen akan segera kami kirimkan. Terima kasih telah menggunakan layanan EWAKO ROYAL.",
			order.ServiceType, shortID(order.ID))
	case domain.StatusCancelled:
		msg = base
	default:
		// Status non-milestone tidak dinotifikasikan.
		return
	}
	if err := s.notifier.NotifyCustomer(ctx, phone, msg); err != nil {
		logger.Error("notifyStatusMilestone: failed to notify customer", err)
	}
}

func (s *orderServiceImpl) UpdateData(ctx context.Context, actor Actor, orderID string, raw json.RawMessage) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEditable(actor, order); err != nil {
		return nil, err
	}

	data, err := domain.DecodeBookingData(order.ServiceType, raw)
	if err != nil {
		ve := domain.NewValidationError("Data pemesanan tidak valid.")
		ve.Add("data", err.Error())
		return nil, ve
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	preserveUnitPrices(order.Data, data)
	if hotel, ok := data.(*domain.HotelBookingData); ok {
		hotel.Normalize()
	}
	order.Data = data
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderServiceImpl) UpdatePackageInfo(ctx context.Context, actor Actor, orderID string, pi domain.PackageInfo) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Admin boleh mengubah info paket kapan pun; pelanggan hanya sebelum
	// status terkunci.
	if !actor.Admin {
		if order.UserID != actor.UserID {
			return nil, ErrForbidden
		}
		if !order.Status.CustomerEditable() {
			return nil, ErrOrderLocked
		}
	}

	s.resolveVehicleFields(ctx, &pi)
	order.PackageInfo = &pi
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// resolveVehicleFields menyegarkan salinan denormalisasi kendaraan dari
// record Vehicle yang hidup; referensi yang tidak ditemukan dibiarkan
// seperti kiriman klien.
func (s *orderServiceImpl) resolveVehicleFields(ctx context.Context, pi *domain.PackageInfo) {
	if pi.BusVehicleID != "" {
		if v, err := s.vehicles.GetVehicle(ctx, pi.BusVehicleID); err == nil {
			pi.BusName = v.Name
			pi.BusVehicleType = string(v.Type)
			pi.BusDriverName = v.DriverName
			pi.BusDriverPhone = v.DriverPhone
			if v.CompanyName != "" {
				pi.BusSyarikahNumber = v.CompanyName
			}
		} else {
			logger.Warn("resolveVehicleFields: bus vehicle %s not found", pi.BusVehicleID)
		}
	}
	for i := range pi.BusRoutes {
		route := &pi.BusRoutes[i]
		if route.RouteVehicleID == "" {
			continue
		}
		v, err := s.vehicles.GetVehicle(ctx, route.RouteVehicleID)
		if err != nil {
			logger.Warn("resolveVehicleFields: route vehicle %s not found", route.RouteVehicleID)
			continue
		}
		details := fmt.Sprintf("%s (%s)", v.Name, v.PlateNumber)
		if v.DriverName != "" {
			details += " - " + v.DriverName
		}
		route.VehicleDetails = details
	}
}

func (s *orderServiceImpl) UpdateManifest(ctx context.Context, actor Actor, orderID string, items []domain.ManifestItem) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEditable(actor, order); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].RefreshUsia(now)
	}
	order.Manifest = items
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderServiceImpl) AddPayment(ctx context.Context, actor Actor, orderID string, req domain.AddPaymentRequest) (*domain.Order, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ve := domain.NewValidationError("Data pembayaran tidak valid.")
	if req.Amount <= 0 {
		ve.Add("amount", "nominal harus lebih dari 0")
	}
	if !req.PaymentType.Valid() {
		ve.Add("payment_type", "jenis pembayaran tidak dikenal")
	}
	if !req.PaymentMethod.Valid() {
		ve.Add("payment_method", "metode pembayaran tidak dikenal")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		OrderID:       order.ID,
		UserID:        actor.UserID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentType:   req.PaymentType,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if err := s.orderRepo.AddPayment(ctx, payment); err != nil {
		return nil, err
	}
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

func (s *orderServiceImpl) DeletePayment(ctx context.Context, actor Actor, orderID, paymentID string) (*domain.Order, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	if _, err := s.orderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.DeletePayment(ctx, orderID, paymentID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

// SetPriceAndDetails adalah pintu masuk engine harga (lihat pricing.go).
func (s *orderServiceImpl) SetPriceAndDetails(ctx context.Context, actor Actor, orderID string, details domain.AdminPriceDetails) (*domain.Order, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.AdminPricingAllowed() {
		return nil, ErrPricingNotAllowed
	}

	res := applyPricing(order, details, s.converter)
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	if res.Complete {
		s.publisher.Publish(events.EventOrderPriced, order.ID, events.OrderPricedPayload{
			OrderID:       order.ID,
			TotalPriceIDR: res.TotalIDR,
		})
	}
	if res.Advanced {
		s.publisher.Publish(events.EventOrderStatusChanged, order.ID, events.OrderStatusChangedPayload{
			OrderID:    order.ID,
			UserID:     order.UserID,
			FromStatus: string(domain.StatusRequestConfirmation),
			ToStatus:   string(order.Status),
		})
		msg := fmt.Sprintf("Penawaran harga untuk pesanan Anda (%s - ID: %s) sudah tersedia: %s. Silakan buka aplikasi untuk konfirmasi atau tolak.",
			order.ServiceType, shortID(order.ID), currency.FormatIDR(res.TotalIDR))
		if err := s.notifier.NotifyCustomer(ctx, order.Data.CustomerPhone(), msg); err != nil {
			logger.Error("SetPriceAndDetails: failed to notify customer", err)
		}
	}
	return order, nil
}

// checkEditable memberlakukan gating mutasi data/manifest: pelanggan
// pemilik selama status masih editable, admin selama belum terminal.
func (s *orderServiceImpl) checkEditable(actor Actor, order *domain.Order) error {
	if actor.Admin {
		if order.Status.IsTerminal() {
			return ErrOrderLocked
		}
		return nil
	}
	if order.UserID != actor.UserID {
		return ErrForbidden
	}
	if !order.Status.CustomerEditable() {
		return ErrOrderLocked
	}
	return nil
}

// preserveUnitPrices mencegah edit data oleh pelanggan menghapus harga
// satuan yang sudah diisi admin.
func preserveUnitPrices(old, next domain.BookingData) {
	switch next := next.(type) {
	case *domain.HotelBookingData:
		prev, ok := old.(*domain.HotelBookingData)
		if !ok {
			return
		}
		preserveHotelPrices(prev.MadinahHotel, next.MadinahHotel)
		preserveHotelPrices(prev.MakkahHotel, next.MakkahHotel)
		if next.VisaPricePerPaxUSD == nil {
			next.VisaPricePerPaxUSD = prev.VisaPricePerPaxUSD
		}
		if next.HandlingPricePerPaxSAR == nil {
			next.HandlingPricePerPaxSAR = prev.HandlingPricePerPaxSAR
		}
		if next.BusPriceTotalSAR == nil {
			next.BusPriceTotalSAR = prev.BusPriceTotalSAR
		}
		if next.MuasasahName == "" {
			next.MuasasahName = prev.MuasasahName
		}
	case *domain.VisaBookingData:
		prev, ok := old.(*domain.VisaBookingData)
		if !ok {
			return
		}
		if next.VisaPricePerPaxUSD == nil {
			next.VisaPricePerPaxUSD = prev.VisaPricePerPaxUSD
		}
		if next.BusPriceTotalSAR == nil {
			next.BusPriceTotalSAR = prev.BusPriceTotalSAR
		}
		if next.MuasasahName == "" {
			next.MuasasahName = prev.MuasasahName
		}
	case *domain.HandlingBookingData:
		prev, ok := old.(*domain.HandlingBookingData)
		if !ok {
			return
		}
		if next.HandlingPricePerPaxSAR == nil {
			next.HandlingPricePerPaxSAR = prev.HandlingPricePerPaxSAR
		}
	}
}

func preserveHotelPrices(prev, next *domain.HotelInfo) {
	if prev == nil || next == nil || next.PricesSAR != nil {
		return
	}
	next.PricesSAR = prev.PricesSAR
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

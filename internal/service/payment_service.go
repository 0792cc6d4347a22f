package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
	"billflow/internal/ledger"
	"billflow/internal/logger"
	"billflow/internal/metrics"
)

// PaymentInput is the DTO for recording a payment.
type PaymentInput struct {
	CustomerID string             `json:"customer_id"`
	Date       string             `json:"date" binding:"omitempty,isodate"`
	Amount     decimal.Decimal    `json:"amount"`
	Mode       domain.PaymentMode `json:"mode" binding:"omitempty,oneof=CASH UPI BANK_TRANSFER CHEQUE"`
	Reference  string             `json:"reference"`
	Note       string             `json:"note"`
}

// PaymentService records and reverses customer payments.
type PaymentService interface {
	Record(ctx context.Context, ns domain.Namespace, input PaymentInput) (*domain.Payment, error)
	Reverse(ctx context.Context, ns domain.Namespace, id string) error
	Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Payment, error)
	List(ctx context.Context, ns domain.Namespace, customerID string) ([]domain.Payment, error)
}

type paymentService struct {
	workspaces *WorkspaceRegistry
	metrics    *metrics.Metrics
}

// NewPaymentService creates a new PaymentService implementation. m may be nil.
func NewPaymentService(workspaces *WorkspaceRegistry, m *metrics.Metrics) PaymentService {
	return &paymentService{workspaces: workspaces, metrics: m}
}

func (s *paymentService) Record(ctx context.Context, ns domain.Namespace, input PaymentInput) (*domain.Payment, error) {
	tracker := s.metrics.Track("payment_record")
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, tracker.End(domain.ErrCustomerRequired)
	}
	if !input.Amount.IsPositive() {
		return nil, tracker.End(domain.ErrInvalidAmount)
	}
	if err := validateInput(input); err != nil {
		return nil, tracker.End(err)
	}

	var out domain.Payment
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		customer, ok := ws.customers[input.CustomerID]
		if !ok {
			return fmt.Errorf("%w: customer %s does not exist", domain.ErrCustomerRequired, input.CustomerID)
		}
		p := &domain.Payment{
			ID:         newID(),
			CustomerID: customer.ID,
			Date:       input.Date,
			Amount:     input.Amount,
			Mode:       input.Mode,
			Reference:  strings.TrimSpace(input.Reference),
			Note:       strings.TrimSpace(input.Note),
			CreatedAt:  time.Now().UTC(),
		}
		if p.Date == "" {
			p.Date = today()
		}
		if p.Mode == "" {
			p.Mode = domain.PaymentModeCash
		}

		ledger.ForPayment(p).Apply(ws.customers)
		ws.payments[p.ID] = p
		notify(customer, domain.NotificationPayment, "Payment Received",
			fmt.Sprintf("Payment of %s received via %s.", rupees(p.Amount), p.Mode))

		out = *p
		if err := ws.savePayment(ctx, p); err != nil {
			return err
		}
		return ws.saveCustomers(ctx, []*domain.Customer{customer})
	})
	if err != nil {
		return nil, tracker.End(err)
	}
	log := logger.WithComponent("payment")
	log.Info().
		Str("namespace", string(ns)).
		Str("payment_id", out.ID).
		Str("customer_id", out.CustomerID).
		Str("amount", out.Amount.String()).
		Msg("paymentService.Record: payment recorded")
	return &out, tracker.End(nil)
}

// Reverse removes a payment and restores the customer's balance by its amount.
func (s *paymentService) Reverse(ctx context.Context, ns domain.Namespace, id string) error {
	tracker := s.metrics.Track("payment_reverse")
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p, ok := ws.payments[id]
		if !ok {
			return domain.ErrNotFound
		}
		customers := ledger.ForPaymentReversal(p).Apply(ws.customers)
		delete(ws.payments, id)
		if customer, ok := ws.customers[p.CustomerID]; ok {
			notify(customer, domain.NotificationSystem, "Payment Reversed",
				fmt.Sprintf("Payment of %s dated %s was reversed.", rupees(p.Amount), p.Date))
		}

		if err := ws.remove(ctx, domain.CollectionPayments, id); err != nil {
			return err
		}
		return ws.saveCustomers(ctx, customers)
	})
	if err != nil {
		return tracker.End(err)
	}
	log := logger.WithComponent("payment")
	log.Info().Str("payment_id", id).Msg("paymentService.Reverse: payment reversed")
	return tracker.End(nil)
}

func (s *paymentService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Payment, error) {
	var out domain.Payment
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p, ok := ws.payments[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *paymentService) List(ctx context.Context, ns domain.Namespace, customerID string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		out = make([]domain.Payment, 0, len(ws.payments))
		for _, p := range ws.paymentList() {
			if customerID != "" && p.CustomerID != customerID {
				continue
			}
			out = append(out, *p)
		}
		return nil
	})
	return out, err
}

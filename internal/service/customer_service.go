package service

import (
	"context"
	"fmt"
	"strings"

	"billflow/internal/domain"
	"billflow/internal/logger"
	"billflow/internal/port"
)

// CustomerInput is the DTO for creating or replacing a customer. Balance is not
// writable; it only moves through invoices and payments.
type CustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	State   string `json:"state"`
	GSTIN   string `json:"gstin" binding:"omitempty,gstin"`
}

// CustomerService manages customers and their notification log.
type CustomerService interface {
	List(ctx context.Context, ns domain.Namespace) ([]domain.Customer, error)
	Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error)
	Create(ctx context.Context, ns domain.Namespace, input CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, ns domain.Namespace, id string, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, ns domain.Namespace, id string) error
	SendReminder(ctx context.Context, ns domain.Namespace, id string) error
	MarkNotificationsRead(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error)
}

type customerService struct {
	workspaces *WorkspaceRegistry
	email      port.EmailSender
	baseURL    string
}

// NewCustomerService creates a new CustomerService implementation.
func NewCustomerService(workspaces *WorkspaceRegistry, email port.EmailSender, baseURL string) CustomerService {
	return &customerService{
		workspaces: workspaces,
		email:      email,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func copyCustomer(c *domain.Customer) domain.Customer {
	out := *c
	out.Notifications = make([]domain.CustomerNotification, len(c.Notifications))
	copy(out.Notifications, c.Notifications)
	return out
}

func (s *customerService) List(ctx context.Context, ns domain.Namespace) ([]domain.Customer, error) {
	var out []domain.Customer
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		list := ws.customerList()
		out = make([]domain.Customer, 0, len(list))
		for _, c := range list {
			out = append(out, copyCustomer(c))
		}
		return nil
	})
	return out, err
}

func (s *customerService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error) {
	var out domain.Customer
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c, ok := ws.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyCustomer(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *customerService) Create(ctx context.Context, ns domain.Namespace, input CustomerInput) (*domain.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var out domain.Customer
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c := &domain.Customer{ID: newID(), Notifications: []domain.CustomerNotification{}}
		applyCustomerInput(c, input)
		ws.customers[c.ID] = c
		out = copyCustomer(c)
		return ws.saveCustomers(ctx, []*domain.Customer{c})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *customerService) Update(ctx context.Context, ns domain.Namespace, id string, input CustomerInput) (*domain.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var out domain.Customer
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c, ok := ws.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		applyCustomerInput(c, input)
		out = copyCustomer(c)
		return ws.saveCustomers(ctx, []*domain.Customer{c})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a customer. Their invoices and payments stay; ledger
// adjustments that later reference the customer are skipped.
func (s *customerService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	return s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		if _, ok := ws.customers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(ws.customers, id)
		return ws.remove(ctx, domain.CollectionCustomers, id)
	})
}

func (s *customerService) SendReminder(ctx context.Context, ns domain.Namespace, id string) error {
	log := logger.WithComponent("customer")
	return s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c, ok := ws.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		if strings.TrimSpace(c.Email) == "" {
			return domain.ErrNoEmail
		}

		err := s.email.SendPaymentReminder(ctx, port.PaymentReminder{
			ToEmail:     c.Email,
			ToName:      c.Name,
			CompanyName: ws.company.Name,
			Balance:     rupees(c.Balance),
			LedgerURL:   fmt.Sprintf("%s/customer/%s/ledger", s.baseURL, c.ID),
		})
		if err != nil {
			log.Error().Err(err).Str("customer_id", c.ID).Msg("customerService.SendReminder: email failed")
			return fmt.Errorf("sending reminder: %w", err)
		}

		notify(c, domain.NotificationReminder, "Payment Reminder Sent",
			fmt.Sprintf("A payment reminder was sent to %s.", c.Email))
		log.Info().Str("customer_id", c.ID).Msg("customerService.SendReminder: reminder sent")
		return ws.saveCustomers(ctx, []*domain.Customer{c})
	})
}

func (s *customerService) MarkNotificationsRead(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error) {
	var out domain.Customer
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c, ok := ws.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range c.Notifications {
			c.Notifications[i].Read = true
		}
		out = copyCustomer(c)
		return ws.saveCustomers(ctx, []*domain.Customer{c})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func applyCustomerInput(c *domain.Customer, input CustomerInput) {
	c.Name = strings.TrimSpace(input.Name)
	c.Company = strings.TrimSpace(input.Company)
	c.Email = strings.TrimSpace(input.Email)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Address = input.Address
	c.State = strings.TrimSpace(input.State)
	c.GSTIN = normalizeGSTIN(input.GSTIN)
}

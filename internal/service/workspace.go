package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"billflow/internal/domain"
	"billflow/internal/logger"
	"billflow/internal/port"
)

// Workspace is the in-memory working set of one namespace. It is loaded wholesale
// from the document store and written through on every mutation.
// All access goes through a WorkspaceRegistry, which serializes operations.
type Workspace struct {
	mu     sync.Mutex
	ns     domain.Namespace
	store  port.DocumentStore
	loaded bool
	// dirty is set once the current operation has started writing through.
	dirty bool
	log   zerolog.Logger

	company   domain.CompanyProfile
	products  map[string]*domain.Product
	customers map[string]*domain.Customer
	invoices  map[string]*domain.Invoice
	payments  map[string]*domain.Payment
}

func newWorkspace(ns domain.Namespace, store port.DocumentStore) *Workspace {
	return &Workspace{
		ns:        ns,
		store:     store,
		log:       logger.WithComponent("workspace").With().Str("namespace", string(ns)).Logger(),
		company:   domain.DefaultCompanyProfile(),
		products:  map[string]*domain.Product{},
		customers: map[string]*domain.Customer{},
		invoices:  map[string]*domain.Invoice{},
		payments:  map[string]*domain.Payment{},
	}
}

// Namespace returns the namespace the workspace belongs to.
func (w *Workspace) Namespace() domain.Namespace { return w.ns }

func decodeAll[T any](docs []port.Document) (map[string]*T, error) {
	out := make(map[string]*T, len(docs))
	for _, d := range docs {
		v := new(T)
		if err := json.Unmarshal(d.Data, v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", d.ID, err)
		}
		out[d.ID] = v
	}
	return out, nil
}

// Load replaces the in-memory state with the contents of the store.
func (w *Workspace) Load(ctx context.Context) error {
	var (
		products  map[string]*domain.Product
		customers map[string]*domain.Customer
		invoices  map[string]*domain.Invoice
		payments  map[string]*domain.Payment
		company   = domain.DefaultCompanyProfile()
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := w.store.GetAll(ctx, w.ns.Collection(domain.CollectionProducts))
		if err != nil {
			return err
		}
		products, err = decodeAll[domain.Product](docs)
		return err
	})
	g.Go(func() error {
		docs, err := w.store.GetAll(ctx, w.ns.Collection(domain.CollectionCustomers))
		if err != nil {
			return err
		}
		customers, err = decodeAll[domain.Customer](docs)
		return err
	})
	g.Go(func() error {
		docs, err := w.store.GetAll(ctx, w.ns.Collection(domain.CollectionInvoices))
		if err != nil {
			return err
		}
		invoices, err = decodeAll[domain.Invoice](docs)
		return err
	})
	g.Go(func() error {
		docs, err := w.store.GetAll(ctx, w.ns.Collection(domain.CollectionPayments))
		if err != nil {
			return err
		}
		payments, err = decodeAll[domain.Payment](docs)
		return err
	})
	g.Go(func() error {
		data, err := w.store.Get(ctx, w.ns.Collection(domain.CollectionCompany), domain.CompanyProfileID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &company)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("workspace.Load %s: %w", w.ns, err)
	}

	w.company = company
	w.products = products
	w.customers = customers
	w.invoices = invoices
	w.payments = payments
	w.loaded = true

	w.log.Debug().
		Int("products", len(products)).
		Int("customers", len(customers)).
		Int("invoices", len(invoices)).
		Int("payments", len(payments)).
		Msg("workspace loaded")
	return nil
}

func (w *Workspace) empty() bool {
	return len(w.products) == 0 && len(w.customers) == 0 && len(w.invoices) == 0 && len(w.payments) == 0
}

// seedGuest fills an empty guest workspace with demo data.
func (w *Workspace) seedGuest(ctx context.Context) error {
	products := []*domain.Product{
		{ID: "1", Name: "Product A", Price: decimal.NewFromInt(500), Stock: decimal.NewFromInt(100), Category: "Electronics"},
		{ID: "2", Name: "Product B", Price: decimal.NewFromInt(800), Stock: decimal.NewFromInt(45), Category: "Electronics"},
	}
	customer := &domain.Customer{
		ID:            "c1",
		Name:          "John Doe",
		Company:       "XYZ Enterprises",
		Email:         "john@xyz.com",
		Phone:         "9123456789",
		Address:       "456, Business Park, Mumbai",
		Notifications: []domain.CustomerNotification{},
	}
	for _, p := range products {
		w.products[p.ID] = p
	}
	w.customers[customer.ID] = customer

	if err := w.saveProducts(ctx, products); err != nil {
		return err
	}
	return w.saveCustomers(ctx, []*domain.Customer{customer})
}

func (w *Workspace) put(ctx context.Context, collection, id string, v any) error {
	w.dirty = true
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}
	return w.store.Set(ctx, w.ns.Collection(collection), id, data)
}

func (w *Workspace) remove(ctx context.Context, collection, id string) error {
	w.dirty = true
	return w.store.Delete(ctx, w.ns.Collection(collection), id)
}

func (w *Workspace) saveProducts(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := w.put(ctx, domain.CollectionProducts, p.ID, p); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) saveCustomers(ctx context.Context, customers []*domain.Customer) error {
	for _, c := range customers {
		if err := w.put(ctx, domain.CollectionCustomers, c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) saveInvoice(ctx context.Context, inv *domain.Invoice) error {
	return w.put(ctx, domain.CollectionInvoices, inv.ID, inv)
}

func (w *Workspace) savePayment(ctx context.Context, p *domain.Payment) error {
	return w.put(ctx, domain.CollectionPayments, p.ID, p)
}

func (w *Workspace) saveCompany(ctx context.Context) error {
	return w.put(ctx, domain.CollectionCompany, domain.CompanyProfileID, w.company)
}

func (w *Workspace) productList() []*domain.Product {
	out := make([]*domain.Product, 0, len(w.products))
	for _, p := range w.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (w *Workspace) customerList() []*domain.Customer {
	out := make([]*domain.Customer, 0, len(w.customers))
	for _, c := range w.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// invoiceList returns invoices newest first.
func (w *Workspace) invoiceList() []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(w.invoices))
	for _, inv := range w.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// paymentList returns payments newest first.
func (w *Workspace) paymentList() []*domain.Payment {
	out := make([]*domain.Payment, 0, len(w.payments))
	for _, p := range w.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// WorkspaceRegistry hands out one Workspace per namespace and runs every
// operation on it under the workspace lock.
type WorkspaceRegistry struct {
	store     port.DocumentStore
	seedGuest bool

	mu     sync.Mutex
	spaces map[domain.Namespace]*Workspace
}

// NewWorkspaceRegistry creates a registry backed by store. When seedGuest is true an
// empty guest namespace is filled with demo data on first load.
func NewWorkspaceRegistry(store port.DocumentStore, seedGuest bool) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		store:     store,
		seedGuest: seedGuest,
		spaces:    make(map[domain.Namespace]*Workspace),
	}
}

func (r *WorkspaceRegistry) workspace(ns domain.Namespace) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.spaces[ns]
	if !ok {
		ws = newWorkspace(ns, r.store)
		r.spaces[ns] = ws
	}
	return ws
}

// With locks the namespace's workspace, loads it on first use and runs fn.
// When fn fails after it has started writing, the cached state no longer
// matches the store and is dropped; the next call loads it again.
func (r *WorkspaceRegistry) With(ctx context.Context, ns domain.Namespace, fn func(ws *Workspace) error) error {
	ws := r.workspace(ns)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.loaded {
		if err := ws.Load(ctx); err != nil {
			return err
		}
		if r.seedGuest && ns.IsGuest() && ws.empty() {
			if err := ws.seedGuest(ctx); err != nil {
				ws.loaded = false
				return fmt.Errorf("seeding guest workspace: %w", err)
			}
			ws.log.Info().Msg("guest workspace seeded")
		}
	}

	ws.dirty = false
	err := fn(ws)
	if err != nil && ws.dirty {
		ws.loaded = false
		ws.log.Warn().Err(err).Msg("write-through failed, cached state dropped")
	}
	ws.dirty = false
	return err
}

// Reload discards the cached state of ns and loads it again from the store.
// A workspace that was never loaded is left for With to load and seed.
func (r *WorkspaceRegistry) Reload(ctx context.Context, ns domain.Namespace) error {
	ws := r.workspace(ns)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.loaded {
		return nil
	}
	return ws.Load(ctx)
}

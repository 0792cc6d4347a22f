package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"billflow/internal/domain"
	"billflow/internal/importer"
	"billflow/internal/logger"
	"billflow/internal/port"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = 1

// ErrBackupDisabled is returned when no object storage is configured.
var ErrBackupDisabled = errors.New("backup storage is not configured")

// Snapshot is a complete copy of one namespace.
type Snapshot struct {
	Version    int                   `json:"version"`
	Namespace  domain.Namespace      `json:"namespace"`
	ExportedAt time.Time             `json:"exported_at"`
	Company    domain.CompanyProfile `json:"company"`
	Products   []domain.Product      `json:"products"`
	Customers  []domain.Customer     `json:"customers"`
	Invoices   []domain.Invoice      `json:"invoices"`
	Payments   []domain.Payment      `json:"payments"`
}

// BackupResult describes an uploaded snapshot.
type BackupResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

// ImportResult summarizes a master-data import.
type ImportResult struct {
	ProductsCreated  int      `json:"products_created"`
	CustomersCreated int      `json:"customers_created"`
	Skipped          []string `json:"skipped"`
}

// BackupConfig locates snapshot uploads.
type BackupConfig struct {
	Bucket        string
	PresignExpiry int64
}

// DataService moves whole namespaces in and out and imports master data.
type DataService interface {
	Export(ctx context.Context, ns domain.Namespace) (*Snapshot, error)
	Import(ctx context.Context, ns domain.Namespace, snap *Snapshot) error
	Backup(ctx context.Context, ns domain.Namespace) (*BackupResult, error)
	Restore(ctx context.Context, ns domain.Namespace, key string) error
	ImportWorkbook(ctx context.Context, ns domain.Namespace, r io.Reader) (*ImportResult, error)
	ImportTally(ctx context.Context, ns domain.Namespace, r io.Reader) (*ImportResult, error)
}

type dataService struct {
	workspaces *WorkspaceRegistry
	companies  CompanyService
	products   ProductService
	customers  CustomerService
	storage    port.ObjectStorage
	backup     BackupConfig
}

// NewDataService creates a new DataService. storage may be nil, which disables Backup and Restore.
func NewDataService(
	workspaces *WorkspaceRegistry,
	companies CompanyService,
	products ProductService,
	customers CustomerService,
	storage port.ObjectStorage,
	backup BackupConfig,
) DataService {
	return &dataService{
		workspaces: workspaces,
		companies:  companies,
		products:   products,
		customers:  customers,
		storage:    storage,
		backup:     backup,
	}
}

func (s *dataService) Export(ctx context.Context, ns domain.Namespace) (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion, Namespace: ns, ExportedAt: time.Now().UTC()}
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		snap.Company = ws.company
		snap.Products = make([]domain.Product, 0, len(ws.products))
		for _, p := range ws.productList() {
			snap.Products = append(snap.Products, *p)
		}
		snap.Customers = make([]domain.Customer, 0, len(ws.customers))
		for _, c := range ws.customerList() {
			snap.Customers = append(snap.Customers, copyCustomer(c))
		}
		snap.Invoices = make([]domain.Invoice, 0, len(ws.invoices))
		for _, inv := range ws.invoiceList() {
			snap.Invoices = append(snap.Invoices, copyInvoice(inv))
		}
		snap.Payments = make([]domain.Payment, 0, len(ws.payments))
		for _, p := range ws.paymentList() {
			snap.Payments = append(snap.Payments, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func validateSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: empty snapshot", domain.ErrInvalidImport)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrInvalidImport, snap.Version)
	}
	for _, p := range snap.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: product without id", domain.ErrInvalidImport)
		}
	}
	for _, c := range snap.Customers {
		if c.ID == "" {
			return fmt.Errorf("%w: customer without id", domain.ErrInvalidImport)
		}
	}
	for _, inv := range snap.Invoices {
		if inv.ID == "" {
			return fmt.Errorf("%w: invoice without id", domain.ErrInvalidImport)
		}
	}
	for _, p := range snap.Payments {
		if p.ID == "" {
			return fmt.Errorf("%w: payment without id", domain.ErrInvalidImport)
		}
	}
	return nil
}

// Import replaces the namespace contents with the snapshot. Balances are taken as
// stored; run a reconcile afterwards to check them.
func (s *dataService) Import(ctx context.Context, ns domain.Namespace, snap *Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		for id := range ws.products {
			if err := ws.remove(ctx, domain.CollectionProducts, id); err != nil {
				return err
			}
		}
		for id := range ws.customers {
			if err := ws.remove(ctx, domain.CollectionCustomers, id); err != nil {
				return err
			}
		}
		for id := range ws.invoices {
			if err := ws.remove(ctx, domain.CollectionInvoices, id); err != nil {
				return err
			}
		}
		for id := range ws.payments {
			if err := ws.remove(ctx, domain.CollectionPayments, id); err != nil {
				return err
			}
		}

		ws.company = snap.Company
		ws.products = make(map[string]*domain.Product, len(snap.Products))
		ws.customers = make(map[string]*domain.Customer, len(snap.Customers))
		ws.invoices = make(map[string]*domain.Invoice, len(snap.Invoices))
		ws.payments = make(map[string]*domain.Payment, len(snap.Payments))

		if err := ws.saveCompany(ctx); err != nil {
			return err
		}
		for i := range snap.Products {
			p := snap.Products[i]
			ws.products[p.ID] = &p
			if err := ws.saveProducts(ctx, []*domain.Product{&p}); err != nil {
				return err
			}
		}
		for i := range snap.Customers {
			c := snap.Customers[i]
			ws.customers[c.ID] = &c
			if err := ws.saveCustomers(ctx, []*domain.Customer{&c}); err != nil {
				return err
			}
		}
		for i := range snap.Invoices {
			inv := snap.Invoices[i]
			ws.invoices[inv.ID] = &inv
			if err := ws.saveInvoice(ctx, &inv); err != nil {
				return err
			}
		}
		for i := range snap.Payments {
			p := snap.Payments[i]
			ws.payments[p.ID] = &p
			if err := ws.savePayment(ctx, &p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("dataService.Import: %w", err)
	}
	log := logger.WithComponent("data")
	log.Info().
		Str("namespace", string(ns)).
		Int("products", len(snap.Products)).
		Int("customers", len(snap.Customers)).
		Int("invoices", len(snap.Invoices)).
		Int("payments", len(snap.Payments)).
		Msg("dataService.Import: snapshot imported")
	return nil
}

func backupPrefix(ns domain.Namespace) string {
	return "backups/" + strings.ReplaceAll(string(ns), "/", "-") + "/"
}

func backupKey(ns domain.Namespace, at time.Time) string {
	return backupPrefix(ns) + at.Format("20060102T150405Z") + ".json"
}

func (s *dataService) Backup(ctx context.Context, ns domain.Namespace) (*BackupResult, error) {
	if s.storage == nil || s.backup.Bucket == "" {
		return nil, ErrBackupDisabled
	}
	snap, err := s.Export(ctx, ns)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	key := backupKey(ns, snap.ExportedAt)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.backup.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Metadata: map[string]string{
			"namespace":        string(ns),
			"snapshot-version": strconv.Itoa(snap.Version),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dataService.Backup: %w", err)
	}
	url, err := s.storage.GetPresignedURL(ctx, s.backup.Bucket, key, s.backup.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("dataService.Backup: %w", err)
	}

	log := logger.WithComponent("data")
	log.Info().Str("namespace", string(ns)).Str("key", key).Msg("dataService.Backup: snapshot uploaded")
	return &BackupResult{Key: key, Location: out.Location, URL: url}, nil
}

func (s *dataService) Restore(ctx context.Context, ns domain.Namespace, key string) error {
	if s.storage == nil || s.backup.Bucket == "" {
		return ErrBackupDisabled
	}
	// Only the namespace's own backups can be restored into it.
	if !strings.HasPrefix(key, backupPrefix(ns)) {
		return domain.ErrNotFound
	}
	data, err := s.storage.Download(ctx, s.backup.Bucket, key)
	if err != nil {
		return fmt.Errorf("dataService.Restore: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	return s.Import(ctx, ns, &snap)
}

func (s *dataService) ImportWorkbook(ctx context.Context, ns domain.Namespace, r io.Reader) (*ImportResult, error) {
	company, err := s.companies.Get(ctx, ns)
	if err != nil {
		return nil, err
	}
	batch, err := importer.ParseWorkbook(r, importer.Options{GSTEnabled: company.GSTEnabled})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, ns, batch)
}

func (s *dataService) ImportTally(ctx context.Context, ns domain.Namespace, r io.Reader) (*ImportResult, error) {
	company, err := s.companies.Get(ctx, ns)
	if err != nil {
		return nil, err
	}
	batch, err := importer.ParseTally(r, importer.Options{GSTEnabled: company.GSTEnabled})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, ns, batch)
}

// apply submits parsed records through the normal create operations. Records
// that fail validation are skipped and reported; storage failures abort.
func (s *dataService) apply(ctx context.Context, ns domain.Namespace, batch *importer.Batch) (*ImportResult, error) {
	res := &ImportResult{Skipped: []string{}}
	for _, p := range batch.Products {
		_, err := s.products.Create(ctx, ns, ProductInput{
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			Category: p.Category,
			HSN:      p.HSN,
			GSTRate:  p.GSTRate,
		})
		if errors.Is(err, domain.ErrValidation) {
			res.Skipped = append(res.Skipped, fmt.Sprintf("product %q: %v", p.Name, err))
			continue
		}
		if err != nil {
			return res, err
		}
		res.ProductsCreated++
	}
	for _, c := range batch.Customers {
		_, err := s.customers.Create(ctx, ns, CustomerInput{
			Name:    c.Name,
			Company: c.Company,
			Email:   c.Email,
			Phone:   c.Phone,
			Address: c.Address,
			State:   c.State,
			GSTIN:   c.GSTIN,
		})
		if errors.Is(err, domain.ErrValidation) {
			res.Skipped = append(res.Skipped, fmt.Sprintf("customer %q: %v", c.Name, err))
			continue
		}
		if err != nil {
			return res, err
		}
		res.CustomersCreated++
	}

	log := logger.WithComponent("data")
	log.Info().
		Str("namespace", string(ns)).
		Int("products", res.ProductsCreated).
		Int("customers", res.CustomersCreated).
		Int("skipped", len(res.Skipped)).
		Msg("dataService.apply: master data imported")
	return res, nil
}

// Package app wires configuration, storage adapters and services into the
// object graph shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"

	"billflow/internal/config"
	"billflow/internal/email/noop"
	"billflow/internal/email/ses"
	"billflow/internal/logger"
	"billflow/internal/metrics"
	"billflow/internal/port"
	"billflow/internal/repository/memory"
	"billflow/internal/repository/postgres"
	redisrepo "billflow/internal/repository/redis"
	"billflow/internal/service"
	s3storage "billflow/internal/storage/s3"
	"billflow/internal/validator"
)

// App holds every service of a running instance.
type App struct {
	Store      port.DocumentStore
	Metrics    *metrics.Metrics
	Workspaces *service.WorkspaceRegistry

	Auth      service.AuthService
	Company   service.CompanyService
	Products  service.ProductService
	Customers service.CustomerService
	Invoices  service.InvoiceService
	Payments  service.PaymentService
	Reports   service.ReportService
	Share     service.ShareService
	Data      service.DataService

	closers []func() error
}

// Deps are the adapters a service graph is built on. Storage may be nil,
// which disables backups. Metrics may be nil.
type Deps struct {
	Store   port.DocumentStore
	Email   port.EmailSender
	Storage port.ObjectStorage
	Metrics *metrics.Metrics
}

// New opens the configured adapters and builds the service graph.
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*App, error) {
	log := logger.WithComponent("app")

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Warn().Msg("s3 bucket not configured, backups disabled")
	}

	a := Build(cfg, Deps{Store: store, Email: sender, Storage: storage, Metrics: m})
	a.closers = append(a.closers, closeStore)
	log.Info().
		Str("store", cfg.Store.Driver).
		Str("email", cfg.Email.Provider).
		Bool("backups", storage != nil).
		Msg("application initialized")
	return a, nil
}

// Build creates the service graph over already opened adapters.
func Build(cfg *config.Config, deps Deps) *App {
	opts := service.BillingOptionsFromConfig(cfg.Billing)
	workspaces := service.NewWorkspaceRegistry(deps.Store, cfg.Auth.SeedGuest)

	a := &App{
		Store:      deps.Store,
		Metrics:    deps.Metrics,
		Workspaces: workspaces,
		Auth:       service.NewAuthService(deps.Store, cfg.JWT),
		Company:    service.NewCompanyService(workspaces),
		Products:   service.NewProductService(workspaces),
		Customers:  service.NewCustomerService(workspaces, deps.Email, cfg.Share.BaseURL),
		Invoices:   service.NewInvoiceService(workspaces, opts, deps.Metrics),
		Payments:   service.NewPaymentService(workspaces, deps.Metrics),
		Reports:    service.NewReportService(workspaces, opts, validator.NewDefaultRegistry()),
		Share:      service.NewShareService(workspaces, cfg.Share.BaseURL),
	}
	a.Data = service.NewDataService(workspaces, a.Company, a.Products, a.Customers, deps.Storage,
		service.BackupConfig{Bucket: cfg.S3.Bucket, PresignExpiry: cfg.S3.PresignExpiry})
	return a
}

// OpenStore connects the document store selected by store.driver. The
// returned func releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config) (port.DocumentStore, func() error, error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := redisrepo.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisrepo.NewDocumentStore(client, cfg.Redis.KeyPrefix), client.Close, nil
	case "postgres":
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewDocumentStore(db), db.Close, nil
	case "memory", "":
		return memory.NewDocumentStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the adapters opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

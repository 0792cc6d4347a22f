package service_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billflow/internal/domain"
	"billflow/internal/port"
	"billflow/internal/service"
	"billflow/mocks"
)

func (f *fixture) data(storage port.ObjectStorage) service.DataService {
	return service.NewDataService(f.workspaces, f.company, f.products, f.customers, storage,
		service.BackupConfig{Bucket: "billflow-backups", PresignExpiry: 900})
}

func seedBusiness(t *testing.T, f *fixture) {
	t.Helper()
	f.setCompany("Delhi", true)
	c := f.customer("Ravi", "Delhi")
	p := f.product("Widget", "100", "20", "Electronics")
	_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, line(p.ID, "2")))
	require.NoError(t, err)
	_, err = f.payments.Record(f.ctx, f.ns, service.PaymentInput{CustomerID: c.ID, Amount: dec("50")})
	require.NoError(t, err)
}

func TestDataService_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	seedBusiness(t, f)
	svc := f.data(nil)

	snap, err := svc.Export(f.ctx, f.ns)
	require.NoError(t, err)
	assert.Equal(t, service.SnapshotVersion, snap.Version)
	assert.Len(t, snap.Products, 1)
	assert.Len(t, snap.Customers, 1)
	assert.Len(t, snap.Invoices, 1)
	assert.Len(t, snap.Payments, 1)

	target := domain.UserNamespace("u2")
	_, err = f.customers.Create(f.ctx, target, service.CustomerInput{Name: "Leftover"})
	require.NoError(t, err)

	require.NoError(t, svc.Import(f.ctx, target, snap))

	customers, err := f.customers.List(f.ctx, target)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ravi", customers[0].Name)
	assert.True(t, customers[0].Balance.Equal(snap.Customers[0].Balance))

	report, err := f.reports.Reconcile(f.ctx, target, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)

	f.wire()
	invoices, err := f.invoices.List(f.ctx, target, service.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, snap.Invoices[0].InvoiceNumber, invoices[0].InvoiceNumber)
}

func TestDataService_Import_RejectsBadSnapshot(t *testing.T) {
	f := newFixture(t)
	svc := f.data(nil)

	err := svc.Import(f.ctx, f.ns, &service.Snapshot{Version: 99})
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
	err = svc.Import(f.ctx, f.ns, &service.Snapshot{Version: service.SnapshotVersion, Products: []domain.Product{{Name: "no id"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
	assert.ErrorIs(t, svc.Import(f.ctx, f.ns, nil), domain.ErrInvalidImport)
}

func TestDataService_BackupAndRestore(t *testing.T) {
	f := newFixture(t)
	seedBusiness(t, f)
	storage := new(mocks.MockObjectStorage)
	svc := f.data(storage)

	var uploaded []byte
	var key string
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "billflow-backups" && in.ContentType == "application/json" &&
			in.Metadata["namespace"] == "users/u1" && in.Metadata["snapshot-version"] == "1"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(port.UploadInput)
		key = in.Key
		uploaded, _ = io.ReadAll(in.Body)
	}).Return(&port.UploadOutput{Location: "s3://billflow-backups/x"}, nil)
	storage.On("GetPresignedURL", mock.Anything, "billflow-backups", mock.Anything, int64(900)).
		Return("https://signed.example/backup", nil)

	res, err := svc.Backup(f.ctx, f.ns)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "backups/users-u1/"))
	assert.Equal(t, key, res.Key)
	assert.Equal(t, "https://signed.example/backup", res.URL)
	assert.Equal(t, "s3://billflow-backups/x", res.Location)
	require.NotEmpty(t, uploaded)

	storage.On("Download", mock.Anything, "billflow-backups", res.Key).Return(uploaded, nil)
	products, err := f.products.List(f.ctx, f.ns)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NoError(t, f.products.Delete(f.ctx, f.ns, products[0].ID))

	require.NoError(t, svc.Restore(f.ctx, f.ns, res.Key))

	products, err = f.products.List(f.ctx, f.ns)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Stock.Equal(dec("18")))

	err = svc.Restore(f.ctx, domain.UserNamespace("other"), res.Key)
	assert.ErrorIs(t, err, domain.ErrNotFound, "a backup cannot be restored into another namespace")
	storage.AssertExpectations(t)
}

func TestDataService_RestoreFailures(t *testing.T) {
	f := newFixture(t)
	storage := new(mocks.MockObjectStorage)
	svc := f.data(storage)

	storage.On("Download", mock.Anything, "billflow-backups", "backups/users-u1/missing.json").Return(nil, domain.ErrNotFound)
	storage.On("Download", mock.Anything, "billflow-backups", "backups/users-u1/garbage.json").Return([]byte("not json"), nil)
	storage.On("Download", mock.Anything, "billflow-backups", "backups/users-u1/down.json").Return(nil, errors.New("connection reset"))

	assert.ErrorIs(t, svc.Restore(f.ctx, f.ns, "backups/users-u1/missing.json"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Restore(f.ctx, f.ns, "backups/users-u1/garbage.json"), domain.ErrInvalidImport)
	assert.ErrorContains(t, svc.Restore(f.ctx, f.ns, "backups/users-u1/down.json"), "connection reset")
	assert.ErrorIs(t, svc.Restore(f.ctx, f.ns, "backups/guest/x.json"), domain.ErrNotFound)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, "backups/guest/x.json")
}

func TestDataService_BackupDisabled(t *testing.T) {
	f := newFixture(t)
	svc := f.data(nil)

	_, err := svc.Backup(f.ctx, f.ns)
	assert.ErrorIs(t, err, service.ErrBackupDisabled)
	assert.ErrorIs(t, svc.Restore(f.ctx, f.ns, "k"), service.ErrBackupDisabled)
}

func TestDataService_ImportTally(t *testing.T) {
	f := newFixture(t)
	svc := f.data(nil)
	xml := `<ENVELOPE><BODY><TALLYMESSAGE>
		<ITEM><NAME>Steel Rod</NAME><HSNCODE>7214</HSNCODE><GSTRATE>18</GSTRATE></ITEM>
		<ITEM><NAME>Odd Code</NAME><HSNCODE>12</HSNCODE></ITEM>
		<LEDGER><NAME>Sales</NAME></LEDGER>
		<LEDGER><NAME>Mehta Traders</NAME><STATE>Gujarat</STATE><PHONE>9000000001</PHONE></LEDGER>
	</TALLYMESSAGE></BODY></ENVELOPE>`

	res, err := svc.ImportTally(f.ctx, f.ns, strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)
	assert.Equal(t, 1, res.CustomersCreated)
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Skipped[0], "Odd Code")

	products, err := f.products.List(f.ctx, f.ns)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "7214", products[0].HSN)

	_, err = svc.ImportTally(f.ctx, f.ns, strings.NewReader("<ENVELOPE><ITEM>"))
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}

func TestDataService_ImportWorkbook(t *testing.T) {
	f := newFixture(t)
	svc := f.data(nil)

	wb := excelize.NewFile()
	defer wb.Close()
	_, err := wb.NewSheet("Products")
	require.NoError(t, err)
	require.NoError(t, wb.SetSheetRow("Products", "A1", &[]any{"Product Name", "Price", "Stock", "Category", "GST Rate"}))
	require.NoError(t, wb.SetSheetRow("Products", "A2", &[]any{"Cable", "1,250", "40", "Electronics", "18%"}))
	require.NoError(t, wb.SetSheetRow("Products", "A3", &[]any{"Broken", "-5", "1", "Misc", "0"}))
	_, err = wb.NewSheet("Customers")
	require.NoError(t, err)
	require.NoError(t, wb.SetSheetRow("Customers", "A1", &[]any{"Customer Name", "Email", "State"}))
	require.NoError(t, wb.SetSheetRow("Customers", "A2", &[]any{"Asha", "asha@example.com", "Kerala"}))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	res, err := svc.ImportWorkbook(f.ctx, f.ns, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProductsCreated)
	assert.Equal(t, 1, res.CustomersCreated)
	assert.Len(t, res.Skipped, 1)

	products, err := f.products.List(f.ctx, f.ns)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(dec("1250")))
	assert.True(t, products[0].GSTRate.Equal(dec("18")))
}

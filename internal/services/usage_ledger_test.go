package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"os-manager/internal/entities"
	"os-manager/internal/repositories"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEquipmentTypeRepo keeps equipment types in memory and emulates the
// SQL clamp on usage_count.
type fakeEquipmentTypeRepo struct {
	items     []*entities.EquipmentType
	adjustErr error
	setErr    error
	listErr   error
	setCalls  int
	adjustLog []string
}

func (f *fakeEquipmentTypeRepo) find(tenantID, name string) *entities.EquipmentType {
	n := repositories.NormalizeEquipmentName(name)
	for _, et := range f.items {
		if et.TenantID == tenantID && et.Name == n {
			return et
		}
	}
	return nil
}

func (f *fakeEquipmentTypeRepo) GetEquipmentTypes(ctx context.Context, tenantID string, filter types.Filter) ([]entities.EquipmentType, uint64, error) {
	return nil, 0, nil
}

func (f *fakeEquipmentTypeRepo) FindEquipmentType(ctx context.Context, tenantID string, id uint64) (*entities.EquipmentType, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentTypeRepo) CreateEquipmentType(ctx context.Context, entity entities.EquipmentType) (*entities.EquipmentType, error) {
	entity.Name = repositories.NormalizeEquipmentName(entity.Name)
	f.items = append(f.items, &entity)
	return &entity, nil
}

func (f *fakeEquipmentTypeRepo) UpdateEquipmentType(ctx context.Context, tenantID string, id uint64, entity entities.EquipmentType) (*entities.EquipmentType, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentTypeRepo) DeleteEquipmentType(ctx context.Context, tenantID string, id uint64) error {
	return nil
}

func (f *fakeEquipmentTypeRepo) AdjustUsage(ctx context.Context, tenantID, name string, delta int64) (bool, error) {
	if f.adjustErr != nil {
		return false, f.adjustErr
	}
	f.adjustLog = append(f.adjustLog, fmt.Sprintf("%s/%s%+d", tenantID, repositories.NormalizeEquipmentName(name), delta))
	et := f.find(tenantID, name)
	if et == nil {
		return false, nil
	}
	et.UsageCount += delta
	if et.UsageCount < 0 {
		et.UsageCount = 0
	}
	return true, nil
}

func (f *fakeEquipmentTypeRepo) SetUsage(ctx context.Context, tenantID, name string, value int64) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls++
	et := f.find(tenantID, name)
	if et == nil {
		return apperrors.ErrNotFound
	}
	if value < 0 {
		value = 0
	}
	et.UsageCount = value
	return nil
}

func (f *fakeEquipmentTypeRepo) ListForSweep(ctx context.Context, tenantID string) ([]entities.EquipmentType, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entities.EquipmentType, 0, len(f.items))
	for _, et := range f.items {
		if tenantID != "" && et.TenantID != tenantID {
			continue
		}
		out = append(out, *et)
	}
	return out, nil
}

// fakeOrderRepo serves only CountByEquipmentName, keyed by tenant and
// normalized name.
type fakeOrderRepo struct {
	counts   map[string]map[string]int64
	countErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{counts: make(map[string]map[string]int64)}
}

func (f *fakeOrderRepo) setCount(tenantID, name string, count int64) {
	if f.counts[tenantID] == nil {
		f.counts[tenantID] = make(map[string]int64)
	}
	f.counts[tenantID][repositories.NormalizeEquipmentName(name)] = count
}

func (f *fakeOrderRepo) CountByEquipmentName(ctx context.Context, tenantID, name string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[tenantID][repositories.NormalizeEquipmentName(name)], nil
}

func (f *fakeOrderRepo) GetServiceOrders(ctx context.Context, tenantID string, filter types.Filter) ([]entities.ServiceOrder, uint64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) FindServiceOrder(ctx context.Context, tenantID string, id uint64) (*entities.ServiceOrder, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeOrderRepo) CreateServiceOrderInTx(ctx context.Context, tx pgx.Tx, entity entities.ServiceOrder) (*entities.ServiceOrder, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) UpdateServiceOrderInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64, entity entities.ServiceOrder) (*entities.ServiceOrder, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64) (*entities.ServiceOrder, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) SoftDeleteServiceOrder(ctx context.Context, tenantID string, id uint64) error {
	return nil
}

func (f *fakeOrderRepo) AppendEventInTx(ctx context.Context, tx pgx.Tx, event entities.OrderEvent) error {
	return nil
}

func (f *fakeOrderRepo) ListEvents(ctx context.Context, tenantID string, orderID uint64) ([]entities.OrderEvent, error) {
	return nil, nil
}

// fakeCache emulates SetNX lock semantics and a plain key/value store.
type fakeCache struct {
	locks    map[string]bool
	values   map[string]string
	setNXErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{locks: make(map[string]bool), values: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.locks, k)
	}
	return nil
}

func (f *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	if f.locks[key] {
		return false, nil
	}
	f.locks[key] = true
	return true, nil
}

func newTestLedger(etRepo *fakeEquipmentTypeRepo, orderRepo *fakeOrderRepo, cache *fakeCache) UsageLedgerServiceInterface {
	return NewUsageLedgerService(etRepo, orderRepo, cache, time.Minute, zap.NewNop())
}

func et(tenantID, name string, usage int64) *entities.EquipmentType {
	return &entities.EquipmentType{
		TenantID:   tenantID,
		Name:       repositories.NormalizeEquipmentName(name),
		Active:     true,
		UsageCount: usage,
	}
}

func TestTrueCountValidatesInput(t *testing.T) {
	ledger := newTestLedger(&fakeEquipmentTypeRepo{}, newFakeOrderRepo(), newFakeCache())

	_, err := ledger.TrueCount(context.Background(), "", "NOTEBOOK")
	assert.Error(t, err)

	_, err = ledger.TrueCount(context.Background(), "t1", "   ")
	assert.Error(t, err)
}

func TestTrueCountSurfacesStoreFailure(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.countErr = errors.New("connection refused")
	ledger := newTestLedger(&fakeEquipmentTypeRepo{}, orderRepo, newFakeCache())

	_, err := ledger.TrueCount(context.Background(), "t1", "NOTEBOOK")
	require.Error(t, err)

	var dataErr *apperrors.DataAccessError
	assert.True(t, errors.As(err, &dataErr), "store failure must not be mistaken for a zero count")
}

func TestAdjustUsageGhostNameIsNoOp(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	err := ledger.AdjustUsage(context.Background(), "t1", "UNREGISTERED THING", +1)
	assert.NoError(t, err)
}

func TestAdjustUsageNeverGoesNegative(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 0)}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	require.NoError(t, ledger.AdjustUsage(context.Background(), "t1", "NOTEBOOK", -1))
	assert.Equal(t, int64(0), etRepo.items[0].UsageCount)
}

func TestOnOrderCreatedIncrements(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 2)}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	ledger.OnOrderCreated(context.Background(), "t1", null.StringFrom("  notebook "))
	assert.Equal(t, int64(3), etRepo.items[0].UsageCount)
}

func TestOnOrderCreatedWithoutNameIsNoOp(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 2)}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	ledger.OnOrderCreated(context.Background(), "t1", null.String{})
	assert.Empty(t, etRepo.adjustLog)
}

func TestOnOrderEditedMovesUsageBetweenNames(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{
		et("t1", "NOTEBOOK", 3),
		et("t1", "PRINTER", 1),
	}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	ledger.OnOrderEdited(context.Background(), "t1", null.StringFrom("Notebook"), null.StringFrom("Printer"))

	assert.Equal(t, int64(2), etRepo.items[0].UsageCount)
	assert.Equal(t, int64(2), etRepo.items[1].UsageCount)
}

func TestOnOrderEditedSameNameIsNoOp(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 3)}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	// same name modulo case and whitespace must produce no counter traffic
	ledger.OnOrderEdited(context.Background(), "t1", null.StringFrom("Notebook"), null.StringFrom("  NOTEBOOK "))

	assert.Empty(t, etRepo.adjustLog)
	assert.Equal(t, int64(3), etRepo.items[0].UsageCount)
}

func TestOnOrderEditedClearsName(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 3)}}
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), newFakeCache())

	ledger.OnOrderEdited(context.Background(), "t1", null.StringFrom("NOTEBOOK"), null.String{})
	assert.Equal(t, int64(2), etRepo.items[0].UsageCount)
}

func TestSweepConvergesToGroundTruth(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{
		et("t1", "NOTEBOOK", 10), // drifted high
		et("t1", "PRINTER", 0),   // drifted low
		et("t1", "MONITOR", 4),   // correct
	}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 7)
	orderRepo.setCount("t1", "PRINTER", 2)
	orderRepo.setCount("t1", "MONITOR", 4)
	ledger := newTestLedger(etRepo, orderRepo, newFakeCache())

	report, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, 2, report.CorrectedCount)
	assert.Len(t, report.Corrections, 2)
	assert.Equal(t, int64(7), etRepo.items[0].UsageCount)
	assert.Equal(t, int64(2), etRepo.items[1].UsageCount)
	assert.Equal(t, int64(4), etRepo.items[2].UsageCount)

	for _, corr := range report.Corrections {
		assert.Equal(t, "t1", corr.TenantID)
		assert.NotEqual(t, corr.OldValue, corr.NewValue)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 10)}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 3)
	ledger := newTestLedger(etRepo, orderRepo, newFakeCache())

	first, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.CorrectedCount)

	second, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.CorrectedCount)
	assert.Empty(t, second.Corrections)
}

func TestSweepScopedToOneTenant(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{
		et("t1", "NOTEBOOK", 10),
		et("t2", "NOTEBOOK", 10),
	}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 1)
	orderRepo.setCount("t2", "NOTEBOOK", 2)
	ledger := newTestLedger(etRepo, orderRepo, newFakeCache())

	report, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.CorrectedCount)
	assert.Equal(t, int64(1), etRepo.items[0].UsageCount)
	assert.Equal(t, int64(10), etRepo.items[1].UsageCount, "other tenant must stay untouched")
}

func TestSweepAllTenants(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{
		et("t1", "NOTEBOOK", 9),
		et("t2", "PRINTER", 9),
	}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 1)
	orderRepo.setCount("t2", "PRINTER", 2)
	ledger := newTestLedger(etRepo, orderRepo, newFakeCache())

	report, err := ledger.Sweep(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.CorrectedCount)
}

func TestSweepRejectsConcurrentRun(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 0)}}
	cache := newFakeCache()
	cache.locks["ledger:sweep:t1"] = true
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), cache)

	_, err := ledger.Sweep(context.Background(), "t1")
	assert.ErrorIs(t, err, apperrors.ErrSweepInProgress)
}

func TestSweepReleasesLock(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{}
	cache := newFakeCache()
	ledger := newTestLedger(etRepo, newFakeOrderRepo(), cache)

	_, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)

	_, err = ledger.Sweep(context.Background(), "t1")
	assert.NoError(t, err, "lock from the first sweep must be released")
}

func TestSweepProceedsWhenLockBackendDown(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 5)}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 1)
	cache := newFakeCache()
	cache.setNXErr = errors.New("redis down")
	ledger := newTestLedger(etRepo, orderRepo, cache)

	report, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.CorrectedCount)
}

func TestLastSweepReportRoundTrip(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 10)}}
	orderRepo := newFakeOrderRepo()
	orderRepo.setCount("t1", "NOTEBOOK", 3)
	cache := newFakeCache()
	ledger := newTestLedger(etRepo, orderRepo, cache)

	_, err := ledger.Sweep(context.Background(), "t1")
	require.NoError(t, err)

	report, err := ledger.LastSweepReport(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.CorrectedCount)
	require.Len(t, report.Corrections, 1)
	assert.Equal(t, int64(10), report.Corrections[0].OldValue)
	assert.Equal(t, int64(3), report.Corrections[0].NewValue)
}

func TestLastSweepReportMissing(t *testing.T) {
	ledger := newTestLedger(&fakeEquipmentTypeRepo{}, newFakeOrderRepo(), newFakeCache())

	_, err := ledger.LastSweepReport(context.Background(), "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSweepNeverWritesFromFailedCount(t *testing.T) {
	etRepo := &fakeEquipmentTypeRepo{items: []*entities.EquipmentType{et("t1", "NOTEBOOK", 5)}}
	orderRepo := newFakeOrderRepo()
	orderRepo.countErr = errors.New("connection reset")
	ledger := newTestLedger(etRepo, orderRepo, newFakeCache())

	_, err := ledger.Sweep(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, 0, etRepo.setCalls)
	assert.Equal(t, int64(5), etRepo.items[0].UsageCount)
}

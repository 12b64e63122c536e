package invoiceapp

import (
	"context"
	"errors"
	"testing"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReferenceRepository struct {
	mock.Mock
}

func (m *mockReferenceRepository) FindKey(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, error) {
	args := m.Called(ctx, kind, matchKey)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockReferenceCache struct {
	mock.Mock
}

func (m *mockReferenceCache) Get(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, kind, matchKey)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockReferenceCache) Set(ctx context.Context, kind procurement.ReferenceKind, matchKey string, key uuid.UUID) error {
	return m.Called(ctx, kind, matchKey, key).Error(0)
}

func TestPlaceholderResolver(t *testing.T) {
	r := NewPlaceholderResolver(seededKeys(1))

	a, err := r.Resolve(context.Background(), procurement.RefSupplier, "ACME")
	require.NoError(t, err)
	b, err := r.Resolve(context.Background(), procurement.RefSupplier, "ACME")
	require.NoError(t, err)

	assert.True(t, a.Placeholder)
	assert.NotEqual(t, uuid.Nil, a.Key)
	assert.Equal(t, uuid.Version(4), a.Key.Version())
	assert.NotEqual(t, a.Key, b.Key, "placeholders are fresh per call")
}

func TestLookupResolver_NormalizesIdentifier(t *testing.T) {
	key := uuid.New()
	repo := new(mockReferenceRepository)
	repo.On("FindKey", mock.Anything, procurement.RefSupplier, "acme fasteners pvt ltd").Return(key, nil).Once()

	res, err := NewLookupResolver(repo, nil).Resolve(context.Background(), procurement.RefSupplier, "  ACME   Fasteners\tPvt Ltd ")
	require.NoError(t, err)
	assert.Equal(t, key, res.Key)
	assert.False(t, res.Placeholder)
	repo.AssertExpectations(t)
}

func TestLookupResolver_NotFound(t *testing.T) {
	repo := new(mockReferenceRepository)
	repo.On("FindKey", mock.Anything, procurement.RefPO, "po1").Return(uuid.Nil, shared.ErrNotFound)

	_, err := NewLookupResolver(repo, nil).Resolve(context.Background(), procurement.RefPO, "PO1")
	var nf *procurement.ReferenceNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, procurement.RefPO, nf.Kind)
	assert.Equal(t, "PO1", nf.Identifier)
}

func TestLookupResolver_RepositoryFailure(t *testing.T) {
	repo := new(mockReferenceRepository)
	boom := errors.New("connection reset")
	repo.On("FindKey", mock.Anything, procurement.RefItem, "bolt").Return(uuid.Nil, boom)

	_, err := NewLookupResolver(repo, nil).Resolve(context.Background(), procurement.RefItem, "Bolt")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var nf *procurement.ReferenceNotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestLookupResolver_RejectsBadInput(t *testing.T) {
	repo := new(mockReferenceRepository)
	r := NewLookupResolver(repo, nil)

	_, err := r.Resolve(context.Background(), procurement.ReferenceKind("warehouse"), "X")
	assert.ErrorContains(t, err, "unknown reference kind")

	_, err = r.Resolve(context.Background(), procurement.RefItem, "   ")
	var nf *procurement.ReferenceNotFoundError
	assert.True(t, errors.As(err, &nf))

	repo.AssertNotCalled(t, "FindKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupResolver_Cache(t *testing.T) {
	cachedKey := uuid.New()
	freshKey := uuid.New()

	repo := new(mockReferenceRepository)
	repo.On("FindKey", mock.Anything, procurement.RefItem, "nut").Return(freshKey, nil).Once()

	cache := new(mockReferenceCache)
	cache.On("Get", mock.Anything, procurement.RefItem, "bolt").Return(cachedKey, true, nil)
	cache.On("Get", mock.Anything, procurement.RefItem, "nut").Return(uuid.Nil, false, nil)
	cache.On("Set", mock.Anything, procurement.RefItem, "nut", freshKey).Return(nil).Once()

	r := NewLookupResolver(repo, cache)

	res, err := r.Resolve(context.Background(), procurement.RefItem, "BOLT")
	require.NoError(t, err)
	assert.Equal(t, cachedKey, res.Key)

	res, err = r.Resolve(context.Background(), procurement.RefItem, "Nut")
	require.NoError(t, err)
	assert.Equal(t, freshKey, res.Key)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestLookupResolver_CacheFailuresAreNotFatal(t *testing.T) {
	key := uuid.New()
	repo := new(mockReferenceRepository)
	repo.On("FindKey", mock.Anything, procurement.RefSupplier, "acme").Return(key, nil)

	cache := new(mockReferenceCache)
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(uuid.Nil, false, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	res, err := NewLookupResolver(repo, cache).Resolve(context.Background(), procurement.RefSupplier, "ACME")
	require.NoError(t, err)
	assert.Equal(t, key, res.Key)
}

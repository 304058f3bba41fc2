package listing_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

func newLoader(store listing.Store) *listing.Loader {
	return listing.NewLoader(
		listing.NewExecutor(store),
		listing.StoreCompanies{Store: store},
		logging.NewNop(),
	)
}

func TestLoader_Load(t *testing.T) {
	store := &countingStore{Store: listing.NewMemoryStore(engineeringCatalogue()...)}

	seed, err := newLoader(store).Load(context.Background(), url.Values{
		"department": {"Engineering"},
		"page":       {"2"},
	})
	require.NoError(t, err)

	assert.Equal(t, listing.NewFilter([]string{"Engineering"}, nil, "", 2), seed.Filter)
	assert.Len(t, seed.Result.Items, 5)
	assert.Equal(t, 25, seed.Result.TotalCount)
	assert.Equal(t, []listing.CompanyOption{
		{Slug: "acme", Name: "Acme"},
		{Slug: "brightline", Name: "Brightline"},
		{Slug: "cobalt", Name: "Cobalt"},
	}, seed.Companies)

	assert.Equal(t, int32(1), store.searches.Load())
	assert.Equal(t, int32(1), store.companies.Load())
}

func TestLoader_CompaniesIgnoreSelection(t *testing.T) {
	store := listing.NewMemoryStore(engineeringCatalogue()...)
	seed, err := newLoader(store).Load(context.Background(), url.Values{"company": {"acme"}})
	require.NoError(t, err)

	assert.Len(t, seed.Companies, 3)
}

func TestLoader_MalformedParamsUseDefaults(t *testing.T) {
	store := listing.NewMemoryStore(engineeringCatalogue()...)
	seed, err := newLoader(store).Load(context.Background(), url.Values{"page": {"banana"}})
	require.NoError(t, err)

	assert.Equal(t, 1, seed.Filter.Page)
	assert.Len(t, seed.Result.Items, listing.PageSize)
}

func TestLoader_FailureIsLoadError(t *testing.T) {
	seed, err := newLoader(failingStore{}).Load(context.Background(), url.Values{"q": {"go"}})

	var lerr *listing.LoadError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotEmpty(t, lerr.Message())

	assert.Equal(t, "go", seed.Filter.Search)
	assert.NotNil(t, seed.Result.Items)
	assert.Empty(t, seed.Result.Items)
}

// companiesDown serves postings but cannot enumerate companies.
type companiesDown struct{ listing.Store }

func (companiesDown) CompanyRows(context.Context) ([]listing.CompanyOption, error) {
	return nil, errStoreDown
}

func TestLoader_CompanyFailureKeepsResults(t *testing.T) {
	store := companiesDown{Store: listing.NewMemoryStore(engineeringCatalogue()...)}
	seed, err := newLoader(store).Load(context.Background(), url.Values{"department": {"Engineering"}})
	require.NoError(t, err)

	assert.Len(t, seed.Result.Items, listing.PageSize)
	assert.Equal(t, 25, seed.Result.TotalCount)
	assert.NotNil(t, seed.Companies)
	assert.Empty(t, seed.Companies)
}

package grpcserver_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/directory-service/internal/grpcserver"
	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

type downStore struct{}

func (downStore) Search(context.Context, listing.Criteria) ([]listing.Posting, int, error) {
	return nil, 0, errors.New("store down")
}

func (downStore) CompanyRows(context.Context) ([]listing.CompanyOption, error) {
	return nil, errors.New("store down")
}

func catalogue() *listing.MemoryStore {
	store := listing.NewMemoryStore()
	for i := 0; i < 25; i++ {
		store.Add(listing.Posting{
			ID:            fmt.Sprintf("eng-%02d", i),
			Title:         fmt.Sprintf("Engineer %02d", i),
			CompanyName:   "Acme",
			CompanySlug:   "acme",
			DepartmentTag: "Engineering",
			Location:      "Remote, US",
			CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		})
	}
	store.Add(listing.Posting{ID: "d-1", Title: "Designer", CompanyName: "Cobalt", CompanySlug: "cobalt", DepartmentTag: "Design"})
	return store
}

func dial(t *testing.T, store listing.Store) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	exec := listing.NewExecutor(store)
	loader := listing.NewLoader(exec, listing.StoreCompanies{Store: store}, logging.NewNop())
	grpcserver.NewServer(loader, exec, logging.NewNop()).Register(gs)

	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSearch(t *testing.T) {
	conn := dial(t, catalogue())

	req, err := grpcserver.FilterToStruct(listing.NewFilter([]string{"Engineering"}, nil, "", 2))
	require.NoError(t, err)

	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(context.Background(), grpcserver.SearchMethod, req, out))

	page, err := grpcserver.PageFromStruct(out)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, listing.PageSize, page.PageSize)
	assert.Equal(t, "Engineer 20", page.Items[0].Title)
	assert.True(t, page.Items[0].CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestSeed(t *testing.T) {
	conn := dial(t, catalogue())

	req, err := grpcserver.FilterToStruct(listing.NewFilter(nil, nil, "designer", 1))
	require.NoError(t, err)

	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(context.Background(), grpcserver.SeedMethod, req, out))

	seed, err := grpcserver.SeedFromStruct(out)
	require.NoError(t, err)
	assert.Equal(t, "designer", seed.Filter.Search)
	assert.Equal(t, 1, seed.Result.TotalCount)
	assert.Equal(t, []listing.CompanyOption{{Slug: "acme", Name: "Acme"}, {Slug: "cobalt", Name: "Cobalt"}}, seed.Companies)
}

func TestSearch_BadValuesFallBackToDefaults(t *testing.T) {
	conn := dial(t, catalogue())

	req, err := structpb.NewStruct(map[string]any{"page": -4, "department": []any{"", "Design"}})
	require.NoError(t, err)

	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(context.Background(), grpcserver.SearchMethod, req, out))

	page, err := grpcserver.PageFromStruct(out)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalCount)
}

func TestSearch_MalformedRequest(t *testing.T) {
	conn := dial(t, catalogue())

	req, err := structpb.NewStruct(map[string]any{"department": "not-a-list"})
	require.NoError(t, err)

	err = conn.Invoke(context.Background(), grpcserver.SearchMethod, req, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestErrorsMapToUnavailable(t *testing.T) {
	conn := dial(t, downStore{})
	req, err := grpcserver.FilterToStruct(listing.DefaultFilter())
	require.NoError(t, err)

	for _, method := range []string{grpcserver.SearchMethod, grpcserver.SeedMethod} {
		err := conn.Invoke(context.Background(), method, req, &structpb.Struct{})
		assert.Equalf(t, codes.Unavailable, status.Code(err), "method %s", method)
	}
}

func TestFilterStruct_RoundTrip(t *testing.T) {
	cases := []listing.FilterState{
		listing.DefaultFilter(),
		listing.NewFilter([]string{"Engineering", "Data"}, []string{"acme"}, "remote", 3),
	}
	for _, want := range cases {
		s, err := grpcserver.FilterToStruct(want)
		require.NoError(t, err)

		got, err := grpcserver.FilterFromStruct(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	s, err := grpcserver.FilterToStruct(listing.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, s.GetFields(), "defaults are omitted")
}

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/directory-service/internal/grpcserver"
	"jobmate/directory-service/internal/listing"
)

const httpTimeout = 15 * time.Second

// Remote is a directory service the browser can query.
type Remote interface {
	listing.Executor
	// FetchSeed returns the initial state for location. Failures are
	// *listing.LoadError.
	FetchSeed(ctx context.Context, location string) (listing.Seed, error)
}

// ─── HTTP ────────────────────────────────────────────────────────────────────

var _ Remote = (*HTTPRemote)(nil)

// HTTPRemote talks to the JSON API of the directory service.
type HTTPRemote struct {
	BaseURL string // e.g. "http://localhost:8083"
	client  *http.Client
}

// NewHTTPRemote constructs a remote with a shared HTTP client.
func NewHTTPRemote(baseURL string) *HTTPRemote {
	return &HTTPRemote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Execute implements listing.Executor via GET /api/jobs.
func (r *HTTPRemote) Execute(ctx context.Context, f listing.FilterState) (listing.ResultPage, error) {
	var body listing.PageResponse
	if err := r.getJSON(ctx, "/api/jobs", listing.Encode(f), &body); err != nil {
		return listing.ResultPage{}, &listing.QueryError{Op: "http search", Err: err}
	}
	return body.Result(), nil
}

// FetchSeed implements Remote via GET /api/jobs/seed.
func (r *HTTPRemote) FetchSeed(ctx context.Context, location string) (listing.Seed, error) {
	_, query, _ := strings.Cut(location, "?")

	var seed listing.Seed
	if err := r.getJSON(ctx, "/api/jobs/seed", query, &seed); err != nil {
		return failedSeed(location), &listing.LoadError{Err: err}
	}
	return seed, nil
}

func (r *HTTPRemote) getJSON(ctx context.Context, path, query string, v any) error {
	reqURL := r.BaseURL + path
	if query != "" {
		reqURL += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

// ─── gRPC ────────────────────────────────────────────────────────────────────

var _ Remote = (*GRPCRemote)(nil)

// GRPCRemote talks to directory.v1.ListingService.
type GRPCRemote struct {
	conn grpc.ClientConnInterface
}

// NewGRPCRemote wraps an established client connection.
func NewGRPCRemote(conn grpc.ClientConnInterface) *GRPCRemote {
	return &GRPCRemote{conn: conn}
}

// Execute implements listing.Executor via ListingService/Search.
func (r *GRPCRemote) Execute(ctx context.Context, f listing.FilterState) (listing.ResultPage, error) {
	out, err := r.invoke(ctx, grpcserver.SearchMethod, f)
	if err != nil {
		return listing.ResultPage{}, &listing.QueryError{Op: "grpc search", Err: err}
	}
	page, err := grpcserver.PageFromStruct(out)
	if err != nil {
		return listing.ResultPage{}, &listing.QueryError{Op: "grpc search", Err: err}
	}
	return page.Result(), nil
}

// FetchSeed implements Remote via ListingService/Seed.
func (r *GRPCRemote) FetchSeed(ctx context.Context, location string) (listing.Seed, error) {
	f, _ := listing.ParseLocation(location)

	out, err := r.invoke(ctx, grpcserver.SeedMethod, f)
	if err != nil {
		return failedSeed(location), &listing.LoadError{Err: err}
	}
	seed, err := grpcserver.SeedFromStruct(out)
	if err != nil {
		return failedSeed(location), &listing.LoadError{Err: err}
	}
	return seed, nil
}

func (r *GRPCRemote) invoke(ctx context.Context, method string, f listing.FilterState) (*structpb.Struct, error) {
	req, err := grpcserver.FilterToStruct(f)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := r.conn.Invoke(ctx, method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// failedSeed keeps the state the location asks for, so the controller mounts
// on the same filter the address bar shows even when nothing could be loaded.
func failedSeed(location string) listing.Seed {
	f, _ := listing.ParseLocation(location)
	return listing.Seed{Filter: f, Result: listing.ResultPage{Items: []listing.Posting{}}}
}

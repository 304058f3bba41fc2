package grpcserver

import (
	"encoding/json"
	"net/url"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/directory-service/internal/listing"
)

// Messages are google.protobuf.Struct values carrying the same JSON shapes as
// the HTTP API:
//
//	request   {"department": [..], "company": [..], "q": "..", "page": n}
//	Search    {"items": [..], "totalCount": n, "totalPages": n, "page": n, "pageSize": n}
//	Seed      {"filter": {..}, "result": {..}, "companies": [..]}

type filterMessage struct {
	Department []string `json:"department,omitempty"`
	Company    []string `json:"company,omitempty"`
	Q          string   `json:"q,omitempty"`
	Page       int      `json:"page,omitempty"`
}

// FilterToStruct encodes f as a request message. Defaults are omitted.
func FilterToStruct(f listing.FilterState) (*structpb.Struct, error) {
	f = f.Normalize()
	msg := filterMessage{Department: f.Departments, Company: f.Companies, Q: f.Search}
	if f.Page > 1 {
		msg.Page = f.Page
	}
	return toStruct(msg)
}

// FilterFromStruct decodes a request message. Shape errors are returned as
// is; bad values are replaced by defaults and reported as a
// *listing.ValidationError alongside a usable state.
func FilterFromStruct(s *structpb.Struct) (listing.FilterState, error) {
	var msg filterMessage
	if err := fromStruct(s, &msg); err != nil {
		return listing.DefaultFilter(), err
	}

	values := url.Values{}
	for _, d := range msg.Department {
		values.Add(listing.ParamDepartment, d)
	}
	for _, c := range msg.Company {
		values.Add(listing.ParamCompany, c)
	}
	if msg.Q != "" {
		values.Set(listing.ParamSearch, msg.Q)
	}
	if msg.Page != 0 {
		values.Set(listing.ParamPage, strconv.Itoa(msg.Page))
	}
	return listing.ParseQuery(values)
}

// PageToStruct encodes one result page.
func PageToStruct(f listing.FilterState, r listing.ResultPage) (*structpb.Struct, error) {
	return toStruct(listing.NewPageResponse(f, r))
}

// PageFromStruct decodes a Search response.
func PageFromStruct(s *structpb.Struct) (listing.PageResponse, error) {
	var out listing.PageResponse
	err := fromStruct(s, &out)
	return out, err
}

// SeedToStruct encodes a Seed response.
func SeedToStruct(seed listing.Seed) (*structpb.Struct, error) {
	return toStruct(seed)
}

// SeedFromStruct decodes a Seed response.
func SeedFromStruct(s *structpb.Struct) (listing.Seed, error) {
	var out listing.Seed
	err := fromStruct(s, &out)
	return out, err
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

func TestSavePlanRoundTrip(t *testing.T) {
	var got SaveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/p1/plan" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(SaveResult{Preview: "preview.png"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.SavePlan(context.Background(), "p1", SaveRequest{
		Document: "<svg></svg>",
		Elements: plan.Elements{Doors: []*plan.Door{{ID: 1, Width: 82}}},
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if res.Preview != "preview.png" {
		t.Fatalf("preview = %q", res.Preview)
	}
	if len(got.Elements.Doors) != 1 || got.Elements.Doors[0].Width != 82 {
		t.Fatalf("server received %+v", got.Elements)
	}
}

func TestSavePlanSurfacesErrorDetailVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "plan locked by another save"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).SavePlan(context.Background(), "p1", SaveRequest{})
	if err == nil || err.Error() != "plan locked by another save" {
		t.Fatalf("err = %v, want the service detail verbatim", err)
	}
}

func TestFetchElementsMissingIsEmptySeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	els, err := New(srv.URL).FetchElements(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FetchElements: %v", err)
	}
	if els.Count() != 0 {
		t.Fatalf("elements = %+v, want empty", els)
	}
}

package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crateops/operator/pkg/integrations"
)

func TestClient_PullsForCommit(t *testing.T) {
	var gotAccept, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/hannobraun/fornjot/commits/abc123/pulls" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		pulls := []PullRequest{
			{
				Number: 1502,
				Title:  "Release v0.8.0",
				State:  "closed",
				Labels: []Label{{Name: "release"}, {Name: "documentation"}},
			},
		}
		json.NewEncoder(w).Encode(pulls)
	}))
	defer server.Close()

	c := NewClientWithBaseURL("gh-token", server.URL)

	pulls, err := c.PullsForCommit(context.Background(), "hannobraun", "fornjot", "abc123")
	if err != nil {
		t.Fatalf("PullsForCommit failed: %v", err)
	}

	if gotAccept != "application/vnd.github.v3+json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotAuth != "Bearer gh-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	if len(pulls) != 1 {
		t.Fatalf("got %d pulls, want 1", len(pulls))
	}
	pr := pulls[0]
	if pr.Number != 1502 {
		t.Errorf("number = %d", pr.Number)
	}
	if !pr.HasLabel("release") {
		t.Error("expected release label")
	}
	if pr.HasLabel("bug") {
		t.Error("unexpected bug label")
	}
	if got := pr.LabelNames(); len(got) != 2 || got[0] != "release" {
		t.Errorf("labels = %v", got)
	}
}

func TestClient_PullsForCommit_NoPulls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("", server.URL)

	pulls, err := c.PullsForCommit(context.Background(), "hannobraun", "fornjot", "abc123")
	if err != nil {
		t.Fatalf("PullsForCommit failed: %v", err)
	}
	if len(pulls) != 0 {
		t.Errorf("got %d pulls, want 0", len(pulls))
	}
}

func TestClient_PullsForCommit_CommitNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClientWithBaseURL("", server.URL)

	_, err := c.PullsForCommit(context.Background(), "hannobraun", "fornjot", "deadbeef")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_PullsForCommit_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClientWithBaseURL("expired", server.URL)

	_, err := c.PullsForCommit(context.Background(), "hannobraun", "fornjot", "abc123")
	if !errors.Is(err, integrations.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestClient_PullsForCommit_Validation(t *testing.T) {
	c := NewClient("")

	if _, err := c.PullsForCommit(context.Background(), "", "repo", "abc"); err == nil {
		t.Error("expected error for empty owner")
	}
	if _, err := c.PullsForCommit(context.Background(), "owner", "repo", ""); err == nil {
		t.Error("expected error for empty sha")
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"hannobraun/fornjot", "hannobraun", "fornjot", false},
		{"rust-lang/crates.io", "rust-lang", "crates.io", false},
		{"noslash", "", "", true},
		{"-bad/repo", "", "", true},
		{"owner/", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepoRef(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepoRef(%q): expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoRef(%q): %v", tt.ref, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoRef(%q) = %s, %s", tt.ref, owner, repo)
		}
	}
}

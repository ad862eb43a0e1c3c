package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
)

func TestGenerateFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Poster.JPG", `^poster-1700000000123-[0-9a-f]{6}\.jpg$`},
		{"spaces and unicode", "Etkinlik Afişi 2024.png", `^etkinlik-afi-i-2024-1700000000123-[0-9a-f]{6}\.png$`},
		{"long name truncated", "a-very-long-file-name-that-goes-on-and-on.webp", `^a-very-long-file-name-that-goe-1700000000123-[0-9a-f]{6}\.webp$`},
		{"directory stripped", "../../etc/passwd.gif", `^passwd-1700000000123-[0-9a-f]{6}\.gif$`},
		{"no extension", "photo", `^photo-1700000000123-[0-9a-f]{6}\.img$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateFilename(tt.in, now)
			if !regexp.MustCompile(tt.want).MatchString(got) {
				t.Errorf("GenerateFilename(%q) = %q, want match %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCheckPath(t *testing.T) {
	valid := []string{"public/images/events/a.jpg", "/public/images/blog/b.png"}
	for _, p := range valid {
		if _, err := CheckPath(p); err != nil {
			t.Errorf("CheckPath(%q) = %v", p, err)
		}
	}

	invalid := []string{"", "public/a.jpg", "public/images/../secret", "src/app.ts", "public/images"}
	for _, p := range invalid {
		if _, err := CheckPath(p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("CheckPath(%q) error = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("", "public/images/events/a.jpg"); got != "/images/events/a.jpg" {
		t.Errorf("got %q", got)
	}
	if got := PublicURL("https://ieeeestu.org/", "public/images/a.jpg"); got != "https://ieeeestu.org/images/a.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/static/uploads/")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	url, err := store.Put(ctx, "public/images/events/a.jpg", []byte("img"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/static/uploads/events/a.jpg" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "events", "a.jpg"))
	if err != nil || string(data) != "img" {
		t.Fatalf("file content = %q, %v", data, err)
	}

	if err := store.Delete(ctx, "public/images/events/a.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "public/images/events/a.jpg"); !errors.Is(err, ErrNotExist) {
		t.Errorf("second Delete = %v, want ErrNotExist", err)
	}
	if _, err := store.Put(ctx, "../outside.jpg", nil); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Put outside root = %v", err)
	}
}

// fakeContentsAPI, GitHub Contents API'nin kullanılan üç uç noktasını taklit eder.
type fakeContentsAPI struct {
	files   map[string]string // path → sha
	methods []string
}

func (f *fakeContentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/repos/ieee/site/contents/"
	p := r.URL.Path[len(prefix):]
	f.methods = append(f.methods, r.Method)
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		sha, ok := f.files[p]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"type": "file", "path": p, "sha": sha})
	case http.MethodPut:
		var body struct {
			SHA string `json:"sha"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if old, ok := f.files[p]; ok && body.SHA != old {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"message":"sha mismatch"}`)
			return
		}
		f.files[p] = "sha-" + p
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"content": map[string]any{"path": p, "sha": f.files[p]}})
	case http.MethodDelete:
		delete(f.files, p)
		io.WriteString(w, `{"content":null}`)
	}
}

func newTestGitHubStore(t *testing.T, api http.Handler) *GitHubStore {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Client())
	base, _ := url.Parse(srv.URL + "/")
	client.BaseURL = base

	return NewGitHubStoreWithClient(client, GitHubConfig{Owner: "ieee", Repo: "site"})
}

func TestGitHubStoreCreateUpdateDelete(t *testing.T) {
	api := &fakeContentsAPI{files: map[string]string{}}
	store := newTestGitHubStore(t, api)
	ctx := context.Background()

	url, err := store.Put(ctx, "public/images/events/a.jpg", []byte("v1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if url != "/images/events/a.jpg" {
		t.Errorf("url = %q", url)
	}

	if _, err := store.Put(ctx, "public/images/events/a.jpg", []byte("v2")); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, "public/images/events/a.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "public/images/events/a.jpg"); !errors.Is(err, ErrNotExist) {
		t.Errorf("delete missing = %v, want ErrNotExist", err)
	}

	want := []string{"GET", "PUT", "GET", "PUT", "GET", "DELETE", "GET"}
	if len(api.methods) != len(want) {
		t.Fatalf("methods = %v, want %v", api.methods, want)
	}
	for i := range want {
		if api.methods[i] != want[i] {
			t.Fatalf("methods = %v, want %v", api.methods, want)
		}
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/email"
	"github.com/ieeeestu/site/pkg/storage"
	"github.com/ieeeestu/site/repository"
	"github.com/ieeeestu/site/ws"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	db, err := database.New(database.MemoryPath, migrations)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeSender, gönderilen mesajları kaydeder. failFor'daki adresler hata döner.
type fakeSender struct {
	mu         sync.Mutex
	configured bool
	failFor    map[string]bool
	sent       []email.Message
	welcomed   []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{configured: true, failFor: map[string]bool{}}
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if !f.configured {
		return email.ErrNotConfigured
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To[0]] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) SendWelcome(_ context.Context, to, locale string) error {
	if !f.configured {
		return email.ErrNotConfigured
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomed = append(f.welcomed, to+"/"+locale)
	return nil
}

type recordedEvent struct {
	adminID string
	event   ws.Event
}

// fakePublisher, hub yerine yayınlanan event'leri toplar.
type fakePublisher struct {
	mu     sync.Mutex
	all    []ws.Event
	toUser []recordedEvent
}

func (p *fakePublisher) BroadcastToAll(e ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.all = append(p.all, e)
}

func (p *fakePublisher) BroadcastToUser(adminID string, e ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toUser = append(p.toUser, recordedEvent{adminID: adminID, event: e})
}

// ─── Newsletter ───

func newNewsletter(t *testing.T, sender email.EmailSender) NewsletterService {
	t.Helper()
	db := newTestDB(t)
	return NewNewsletterService(repository.NewSQLiteSubscriberRepo(db.Conn), sender, &fakePublisher{}, 4)
}

func TestSubscribeDuplicateIgnoresCase(t *testing.T) {
	ctx := context.Background()
	sender := newFakeSender()
	svc := newNewsletter(t, sender)

	res, err := svc.Subscribe(ctx, &models.SubscribeRequest{Email: "  Ada@Example.com ", Locale: "tr"})
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if !res.Success || !res.WelcomeSent {
		t.Fatalf("first subscribe result = %+v", res)
	}
	if len(sender.welcomed) != 1 || sender.welcomed[0] != "ada@example.com/tr" {
		t.Fatalf("welcomed = %v", sender.welcomed)
	}

	_, err = svc.Subscribe(ctx, &models.SubscribeRequest{Email: "ada@example.com", Locale: "en"})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("second subscribe error = %v, want ErrAlreadyExists", err)
	}
	if got := pkg.StatusOf(err); got != 409 {
		t.Fatalf("status = %d, want 409", got)
	}

	count, err := svc.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("Count = %d, %v; want 1", count, err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	svc := newNewsletter(t, newFakeSender())

	tests := []struct {
		name string
		req  models.SubscribeRequest
		want error
	}{
		{"missing email", models.SubscribeRequest{Locale: "tr"}, models.ErrSubscribeMissingFields},
		{"missing locale", models.SubscribeRequest{Email: "a@b.co"}, models.ErrSubscribeMissingFields},
		{"bad shape", models.SubscribeRequest{Email: "not-an-email", Locale: "tr"}, models.ErrInvalidEmail},
		{"bad locale", models.SubscribeRequest{Email: "a@b.co", Locale: "de"}, models.ErrInvalidLocale},
		{"disposable", models.SubscribeRequest{Email: "x@Mailinator.com", Locale: "en"}, models.ErrDisposableEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Subscribe(context.Background(), &req)
			if !errors.Is(err, pkg.ErrBadRequest) {
				t.Fatalf("error = %v, want ErrBadRequest", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubscribeHoneypotStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc := newNewsletter(t, newFakeSender())

	res, err := svc.Subscribe(ctx, &models.SubscribeRequest{Email: "bot@example.com", Locale: "tr", Website: "http://spam"})
	if err != nil || !res.Success {
		t.Fatalf("Subscribe = %+v, %v", res, err)
	}
	if count, _ := svc.Count(ctx); count != 0 {
		t.Fatalf("Count = %d, want 0", count)
	}
}

func TestSubscribeWithoutEmailConfigured(t *testing.T) {
	sender := newFakeSender()
	sender.configured = false
	svc := newNewsletter(t, sender)

	res, err := svc.Subscribe(context.Background(), &models.SubscribeRequest{Email: "a@example.com", Locale: "en"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if res.WelcomeSent || res.EmailError == "" {
		t.Fatalf("result = %+v, want welcome not sent with error", res)
	}
}

func TestSendCampaignCountsFailures(t *testing.T) {
	sender := newFakeSender()
	sender.failFor["b@example.com"] = true
	svc := newNewsletter(t, sender)

	res, err := svc.SendCampaign(context.Background(), &models.CampaignRequest{
		Emails:  []string{"a@example.com", "b@example.com", "c@example.com"},
		Subject: "Duyuru",
		HTML:    "<p>Merhaba</p>",
	})
	if err != nil {
		t.Fatalf("SendCampaign: %v", err)
	}
	want := models.CampaignResult{Sent: 2, Failed: 1, Total: 3}
	if *res != want {
		t.Fatalf("result = %+v, want %+v", *res, want)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent = %d messages, want 2", len(sender.sent))
	}
}

func TestSendCampaignRejects(t *testing.T) {
	ctx := context.Background()

	svc := newNewsletter(t, newFakeSender())
	_, err := svc.SendCampaign(ctx, &models.CampaignRequest{Subject: "x", HTML: "y"})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("empty list error = %v, want ErrBadRequest", err)
	}

	sender := newFakeSender()
	sender.configured = false
	svc = newNewsletter(t, sender)
	_, err = svc.SendCampaign(ctx, &models.CampaignRequest{Emails: []string{"a@example.com"}, Subject: "x", HTML: "y"})
	if !errors.Is(err, email.ErrNotConfigured) {
		t.Fatalf("unconfigured error = %v, want ErrNotConfigured", err)
	}
	if got := pkg.StatusOf(err); got != 500 {
		t.Fatalf("status = %d, want 500", got)
	}
}

// ─── Events & posts ───

func eventRequest(titleEN string) *models.CreateEventRequest {
	lt := func(tr, en string) models.LocalizedText { return models.LocalizedText{TR: tr, EN: en} }
	return &models.CreateEventRequest{
		Title:        lt("Yapay Zeka Atölyesi", titleEN),
		Description:  lt("Açıklama", "Description"),
		Location:     lt("A Blok", "Block A"),
		Category:     lt("Atölye", "Workshop"),
		Participants: lt("50 kişi", "50 people"),
		StatusLabel:  lt("Yakında", "Soon"),
		Date:         "2026-11-20",
		Time:         "14:00",
	}
}

func TestEventCreateSlugAndDefaults(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pub := &fakePublisher{}
	svc := NewEventService(repository.NewSQLiteEventRepo(db.Conn), pub)

	first, err := svc.Create(ctx, eventRequest("AI Workshop"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Slug != "ai-workshop" {
		t.Fatalf("slug = %q, want ai-workshop", first.Slug)
	}
	if first.Image != models.DefaultEventImage || first.Status != models.EventStatusUpcoming {
		t.Fatalf("defaults not applied: image=%q status=%q", first.Image, first.Status)
	}

	second, err := svc.Create(ctx, eventRequest("AI Workshop"))
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Slug != "ai-workshop-2" {
		t.Fatalf("second slug = %q, want ai-workshop-2", second.Slug)
	}

	newTitle := models.LocalizedText{TR: "Yeni", EN: "Renamed"}
	updated, err := svc.Update(ctx, first.ID, &models.UpdateEventRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "ai-workshop" || updated.Title.EN != "Renamed" {
		t.Fatalf("updated = slug %q title %q", updated.Slug, updated.Title.EN)
	}

	if len(pub.all) != 3 || pub.all[0].Op != ws.OpContentChanged {
		t.Fatalf("published events = %+v", pub.all)
	}
}

func TestEventCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(repository.NewSQLiteEventRepo(db.Conn), nil)

	req := eventRequest("")
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("error = %v, want ErrBadRequest", err)
	}

	req = eventRequest("Talk")
	req.Date = "20-11-2026"
	_, err = svc.Create(context.Background(), req)
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("bad date error = %v, want ErrBadRequest", err)
	}
}

func TestEventDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewEventService(repository.NewSQLiteEventRepo(db.Conn), nil)

	event, err := svc.Create(ctx, eventRequest("Robotics Day"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, event.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, event.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestPostDraftsHiddenFromPublic(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(repository.NewSQLitePostRepo(db.Conn), nil)

	req := &models.CreatePostRequest{
		Title:   models.LocalizedText{TR: "Taslak", EN: "Draft Notes"},
		Content: models.LocalizedText{TR: "# Merhaba", EN: "# Hello"},
		Author:  "IEEE ESTU",
		Date:    "2026-10-01",
	}
	draft, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetPublishedBySlug(ctx, draft.Slug); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("draft by slug = %v, want ErrNotFound", err)
	}
	if list, _ := svc.ListPublished(ctx, 0); len(list) != 0 {
		t.Fatalf("published list = %d, want 0", len(list))
	}

	published := true
	if _, err := svc.Update(ctx, draft.ID, &models.UpdatePostRequest{Published: &published}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	post, err := svc.GetPublishedBySlug(ctx, "draft-notes")
	if err != nil {
		t.Fatalf("GetPublishedBySlug: %v", err)
	}
	if !post.Published {
		t.Fatal("post should be published")
	}
}

func TestPostUpdateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(repository.NewSQLitePostRepo(db.Conn), nil)

	post, err := svc.Create(ctx, &models.CreatePostRequest{
		Title:   models.LocalizedText{TR: "Duyuru", EN: "Announcement"},
		Content: models.LocalizedText{TR: "metin", EN: "text"},
		Author:  "IEEE ESTU",
		Date:    "2026-10-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Boşluklardan oluşan başlık Apply'daki trim sonrası boş kalır.
	blank := &models.UpdatePostRequest{Title: &models.LocalizedText{TR: "   ", EN: "Announcement"}}
	if _, err := svc.Update(ctx, post.ID, blank); !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("Update = %v, want ErrBadRequest", err)
	}

	got, err := svc.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title.TR != "Duyuru" {
		t.Errorf("title TR = %q, want unchanged", got.Title.TR)
	}
}

// ─── Auth ───

func newTestAuth(t *testing.T) (*authService, *fakePublisher) {
	t.Helper()
	db := newTestDB(t)
	pub := &fakePublisher{}
	svc := NewAuthService(
		db.Conn,
		repository.NewSQLiteAdminRepo(db.Conn),
		repository.NewSQLiteSessionRepo(db.Conn),
		pub, "test-secret", 60, 7,
	).(*authService)
	svc.bcryptCost = bcrypt.MinCost

	if err := svc.EnsureAdmin(context.Background(), "Admin@IEEEESTU.org", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	return svc, pub
}

func TestAuthSignInRefreshSignOut(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestAuth(t)

	if _, err := svc.SignIn(ctx, &models.LoginRequest{Email: "admin@ieeeestu.org", Password: "wrong"}); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("wrong password = %v, want ErrUnauthorized", err)
	}

	tokens, err := svc.SignIn(ctx, &models.LoginRequest{Email: " ADMIN@ieeeestu.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if tokens.Admin.PasswordHash != "" {
		t.Fatal("password hash leaked in tokens")
	}

	claims, err := svc.VerifyIDToken(tokens.IDToken)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if claims.AdminID != tokens.Admin.ID || claims.Email != "admin@ieeeestu.org" {
		t.Fatalf("claims = %+v", claims)
	}

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("reused refresh token = %v, want ErrUnauthorized", err)
	}

	if err := svc.SignOut(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Refresh(ctx, rotated.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("refresh after sign out = %v, want ErrUnauthorized", err)
	}

	if len(pub.toUser) != 1 {
		t.Fatalf("published to user = %d, want 1", len(pub.toUser))
	}
	got := pub.toUser[0]
	state, ok := got.event.Data.(ws.AuthState)
	if got.adminID != tokens.Admin.ID || got.event.Op != ws.OpAuthState || !ok || state.SignedIn {
		t.Fatalf("sign out event = %+v", got)
	}
}

func TestVerifyIDTokenRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := svc.SignIn(ctx, &models.LoginRequest{Email: "admin@ieeeestu.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	svc.now = time.Now

	if _, err := svc.VerifyIDToken(old.IDToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token = %v, want ErrTokenExpired", err)
	}
	if _, err := svc.VerifyIDToken("garbage"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("garbage token = %v, want ErrUnauthorized", err)
	}

	other := NewAuthService(nil, nil, nil, nil, "other-secret", 60, 7)
	fresh, err := svc.SignIn(ctx, &models.LoginRequest{Email: "admin@ieeeestu.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if _, err := other.VerifyIDToken(fresh.IDToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("foreign secret = %v, want ErrUnauthorized", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, _ := newTestAuth(t)
	if err := svc.EnsureAdmin(context.Background(), "admin@ieeeestu.org", "another"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	count, err := svc.adminRepo.Count(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("admin count = %d, %v; want 1", count, err)
	}
}

// ─── Upload ───

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func fileHeader(name string, size int) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: int64(size)}
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func TestUploadImageToDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, "/static/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	svc := NewUploadService(store, 1024)
	ctx := context.Background()

	res, err := svc.UploadImage(ctx, "events", memFile{bytes.NewReader(pngBytes)}, fileHeader("Poster Final.PNG", len(pngBytes)))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(res.Path, "public/images/events/poster-final-") || !strings.HasSuffix(res.Path, ".png") {
		t.Fatalf("path = %q", res.Path)
	}
	if !strings.HasPrefix(res.URL, "/static/uploads/events/") {
		t.Fatalf("url = %q", res.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, "events", filepath.Base(res.Path))); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := svc.DeleteImage(ctx, res.Path); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := svc.DeleteImage(ctx, res.Path); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("second DeleteImage = %v, want ErrNotFound", err)
	}
}

func TestUploadImageRejects(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir(), "/static/uploads")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewUploadService(store, 16)
	ctx := context.Background()

	text := []byte("hello")
	tests := []struct {
		name    string
		folder  string
		content []byte
	}{
		{"unknown folder", "secrets", text},
		{"too large", "blog", pngBytes},
		{"not an image", "blog", text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(ctx, tt.folder, memFile{bytes.NewReader(tt.content)}, fileHeader("a.png", len(tt.content)))
			if !errors.Is(err, pkg.ErrBadRequest) {
				t.Fatalf("error = %v, want ErrBadRequest", err)
			}
		})
	}

	if err := svc.DeleteImage(ctx, "public/../go.mod"); !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("traversal delete = %v, want ErrBadRequest", err)
	}
}

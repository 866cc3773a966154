package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/babaru/internal/analytics"
	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/director"
	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/eggs"
	"github.com/ivlev/babaru/internal/mascot"
	"github.com/ivlev/babaru/internal/prefs"
	"github.com/ivlev/babaru/internal/renderer"
)

type fakeChat struct {
	reply chat.Response
	err   error
	got   chat.Request
}

func (f *fakeChat) Send(_ context.Context, req chat.Request) (chat.Response, error) {
	f.got = req
	return f.reply, f.err
}

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

var noon = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, svc chat.Service) *Server {
	t.Helper()
	static, err := catalog.NewStatic()
	if err != nil {
		t.Fatal(err)
	}
	a, err := renderer.New(director.Canonical())
	if err != nil {
		t.Fatal(err)
	}
	raster, err := effects.NewRasterizer(64, 36, nil)
	if err != nil {
		t.Fatal(err)
	}
	store := prefs.Memory()
	reg := eggs.NewRegistry(store, nil)
	reg.Load()

	return New(Options{
		Catalog:      catalog.New(nil, static, nil),
		Chat:         svc,
		Registry:     reg,
		Tracker:      eggs.NewTracker(reg, store),
		Mascot:       mascot.New(noon, firstRand{}, reg),
		Analytics:    analytics.New(nil, nil, nil),
		Animator:     a,
		Raster:       raster,
		ShareBaseURL: "https://babaru.tv/",
		Now:          func() time.Time { return noon },
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, &fakeChat{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, &fakeChat{})

	snap := decode[catalog.Snapshot](t, do(t, s, http.MethodGet, "/api/catalog", ""))
	if len(snap.Items) != 12 || len(snap.Groupings) != 6 || !snap.Fallback {
		t.Errorf("snapshot: %d items, %d groupings, fallback %v", len(snap.Items), len(snap.Groupings), snap.Fallback)
	}

	items := decode[[]catalog.Item](t, do(t, s, http.MethodGet, "/api/comics?status=IN_PRODUCTION", ""))
	if len(items) != 6 {
		t.Errorf("in production = %d, want 6", len(items))
	}
	for _, it := range items {
		if it.Status != catalog.InProduction {
			t.Errorf("%s has status %s", it.ID, it.Status)
		}
	}

	if rec := do(t, s, http.MethodGet, "/api/comics?status=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d", rec.Code)
	}

	groupings := decode[[]catalog.Grouping](t, do(t, s, http.MethodGet, "/api/groupings", ""))
	if len(groupings) != 6 || groupings[0].ID != "on-air" {
		t.Errorf("groupings = %+v", groupings)
	}

	it := decode[catalog.Item](t, do(t, s, http.MethodGet, "/api/comics/the-jesters-origin", ""))
	if it.ID != "jester-origin" {
		t.Errorf("item = %s", it.ID)
	}
	if rec := do(t, s, http.MethodGet, "/api/comics/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing item = %d", rec.Code)
	}
}

func TestShareCode(t *testing.T) {
	s := newTestServer(t, &fakeChat{})

	rec := do(t, s, http.MethodGet, "/api/comics/chaos-begins/share.png?size=128", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("share = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("qr width = %d", img.Bounds().Dx())
	}

	if rec := do(t, s, http.MethodGet, "/api/comics/chaos-begins/share.png?size=9", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("tiny size = %d", rec.Code)
	}
	if got := ShareLink("https://babaru.tv/", "x"); got != "https://babaru.tv/comics/x" {
		t.Errorf("ShareLink = %q", got)
	}
}

func TestChat(t *testing.T) {
	svc := &fakeChat{reply: chat.Response{Response: "Honk!"}}
	s := newTestServer(t, svc)

	rec := do(t, s, http.MethodPost, "/api/chat", `{"user_id":"web-1","message":"  hi  ","path":"/comics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode[chatResponse](t, rec)
	if out.Response != "Honk!" || out.Fallback || out.UserID != "web-1" {
		t.Errorf("reply = %+v", out)
	}
	if svc.got.Message != "hi" || svc.got.Context != chat.ContextComics {
		t.Errorf("sent = %+v", svc.got)
	}

	if rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"   "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank message = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/chat", `{`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d", rec.Code)
	}
}

func TestChatFailureIsCanned(t *testing.T) {
	s := newTestServer(t, &fakeChat{err: errors.New("babaru api error: 503")})

	rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode[chatResponse](t, rec)
	if out.Response != chat.CannedReply || !out.Fallback || out.Mood != mascot.Confused {
		t.Errorf("reply = %+v", out)
	}
	if !strings.HasPrefix(out.UserID, "web-") {
		t.Errorf("generated user id = %q", out.UserID)
	}
}

func TestAchievements(t *testing.T) {
	s := newTestServer(t, &fakeChat{})

	rec := do(t, s, http.MethodPost, "/api/achievements/dev-tools", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("unlock = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/achievements/dev-tools", ""); rec.Code != http.StatusOK {
		t.Errorf("repeat unlock = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/achievements/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown unlock = %d", rec.Code)
	}

	for _, p := range []string{"/", "/comics", "/about"} {
		do(t, s, http.MethodPost, "/api/visits", `{"path":"`+p+`"}`)
	}
	got := decode[unlockedResponse](t, do(t, s, http.MethodPost, "/api/visits", `{"path":"/community"}`))
	if len(got.Unlocked) != 1 || got.Unlocked[0].ID != eggs.Explorer {
		t.Errorf("explorer = %+v", got.Unlocked)
	}

	do(t, s, http.MethodPost, "/api/input", `{"kind":"dial","value":"channel"}`)
	got = decode[unlockedResponse](t, do(t, s, http.MethodPost, "/api/input", `{"kind":"dial","value":"volume"}`))
	if len(got.Unlocked) != 1 || got.Unlocked[0].ID != eggs.ButtonMasher {
		t.Errorf("button masher = %+v", got.Unlocked)
	}

	for _, code := range []string{"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown", "ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight", "KeyB"} {
		do(t, s, http.MethodPost, "/api/input", `{"kind":"keydown","value":"`+code+`"}`)
	}
	got = decode[unlockedResponse](t, do(t, s, http.MethodPost, "/api/input", `{"kind":"keydown","value":"KeyA"}`))
	if len(got.Unlocked) != 1 || got.Unlocked[0].ID != eggs.Konami {
		t.Errorf("konami = %+v", got.Unlocked)
	}

	if rec := do(t, s, http.MethodPost, "/api/input", `{"kind":"mouse","value":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind = %d", rec.Code)
	}

	list := decode[achievementsResponse](t, do(t, s, http.MethodGet, "/api/achievements", ""))
	if list.Found != 4 || list.Total != 10 || !list.Party {
		t.Errorf("progress = %d/%d party %v", list.Found, list.Total, list.Party)
	}

	v := decode[mascot.View](t, do(t, s, http.MethodGet, "/api/mascot", ""))
	if !strings.Contains(v.Comment, "PARTY MODE") {
		t.Errorf("mascot comment = %q", v.Comment)
	}
}

func TestMascotClick(t *testing.T) {
	s := newTestServer(t, &fakeChat{})
	v := decode[mascot.View](t, do(t, s, http.MethodPost, "/api/mascot/click", ""))
	if v.Mood != mascot.Excited || v.Comment != "That tickles! 😄" {
		t.Errorf("click view = %+v", v)
	}
}

func TestIntro(t *testing.T) {
	s := newTestServer(t, &fakeChat{})

	info := decode[introInfo](t, do(t, s, http.MethodGet, "/api/intro", ""))
	if info.FPS != 30 || info.TotalFrames != 240 || info.Width != 1920 || info.Seconds != 8 {
		t.Errorf("info = %+v", info)
	}

	var frame struct {
		Frame  int `json:"frame"`
		Layers []struct {
			Kind string `json:"kind"`
		} `json:"layers"`
	}
	rec := do(t, s, http.MethodGet, "/api/intro/frames/-5", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Frame != 0 || len(frame.Layers) != 9 || frame.Layers[0].Kind != "glow" {
		t.Errorf("frame = %+v", frame)
	}

	if rec := do(t, s, http.MethodGet, "/api/intro/frames/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad frame = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/intro/frames/79/png", "")
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 36 {
		t.Errorf("png size = %v", b)
	}
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/campusboard/server/config"
	"github.com/campusboard/server/internal/oauth"
	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/services/mocks"
	"github.com/campusboard/server/internal/session"
	"github.com/campusboard/server/types"
	"github.com/campusboard/server/web"
	"github.com/go-chi/chi/v5"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mock.Mock
}

func (p *fakeProvider) AuthCodeURL(state, nonce string) string {
	return "https://accounts.example.test/auth?state=" + url.QueryEscape(state) + "&nonce=" + url.QueryEscape(nonce)
}

func (p *fakeProvider) Exchange(ctx context.Context, code, nonce string) (types.ExternalIdentity, error) {
	args := p.Called(ctx, code, nonce)
	return args.Get(0).(types.ExternalIdentity), args.Error(1)
}

type harness struct {
	users     *mocks.UserRepository
	posts     *mocks.PostRepository
	comments  *mocks.CommentRepository
	generator *mocks.GenerativeClient
	pages     *mocks.PageStore
	provider  *fakeProvider
	hook      *logtest.Hook

	server *httptest.Server
	client *http.Client
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	withoutGoogle bool
	withoutGemini bool
}

func withoutGoogle() harnessOption {
	return func(c *harnessConfig) { c.withoutGoogle = true }
}

func withoutGemini() harnessOption {
	return func(c *harnessConfig) { c.withoutGemini = true }
}

// newHarness serves the full page routing over the real services, with
// repositories and external clients mocked.
func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	var cfg harnessConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	log, hook := logtest.NewNullLogger()
	h := &harness{
		users:     new(mocks.UserRepository),
		posts:     new(mocks.PostRepository),
		comments:  new(mocks.CommentRepository),
		generator: new(mocks.GenerativeClient),
		pages:     new(mocks.PageStore),
		provider:  new(fakeProvider),
		hook:      hook,
	}

	repos := services.Repositories{Users: h.users, Posts: h.posts, Comments: h.comments}
	tx := &mocks.Transactor{Repos: repos}
	events := services.NopPublisher{}

	authService := services.NewAuthService(h.users, tx, events, log)
	boardService := services.NewBoardService(repos, tx, events, log)
	buildingService := services.NewBuildingService(h.pages)
	var searchService *services.SearchService
	if cfg.withoutGemini {
		searchService = services.NewSearchService(nil, log)
	} else {
		searchService = services.NewSearchService(h.generator, log)
	}

	renderer, err := NewRenderer(web.Templates, log)
	require.NoError(t, err)
	sessions := session.New(config.SessionConfig{Lifetime: time.Hour}, nil)
	var provider OAuthProvider
	if !cfg.withoutGoogle {
		provider = h.provider
	}
	pages := NewPageHandler(renderer, sessions, log, provider != nil)

	index := NewIndexHandler(pages, boardService)
	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave, LoadUser(sessions, authService, log))
	r.NotFound(index.NotFound)
	r.Get("/healthz", Healthz)
	r.Get("/", index.Index)
	r.Get("/test/login/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err := sessions.Login(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	AuthRouter(r, NewAuthHandler(pages, authService, provider, oauth.NewStateSigner("test-secret")))
	BoardRouter(r, NewPersonalBoardHandler(pages, boardService))
	BoardRouter(r, NewBulletinBoardHandler(pages, boardService))
	r.Get("/building/{id}", NewBuildingHandler(pages, buildingService).Page)
	r.Post("/gemini-search", NewSearchHandler(searchService, log).Search)

	h.server = httptest.NewServer(r)
	t.Cleanup(h.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	h.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return h
}

// signIn binds user to the harness client's session.
func (h *harness) signIn(t *testing.T, user types.User) {
	t.Helper()
	h.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Maybe()
	resp := h.get(t, "/test/login/"+strconv.FormatInt(user.ID, 10))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (h *harness) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (h *harness) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (h *harness) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := h.client.Post(h.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (h *harness) assertExpectations(t *testing.T) {
	h.users.AssertExpectations(t)
	h.posts.AssertExpectations(t)
	h.comments.AssertExpectations(t)
	h.generator.AssertExpectations(t)
	h.pages.AssertExpectations(t)
	h.provider.AssertExpectations(t)
}

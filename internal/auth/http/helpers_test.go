package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/events"
	"github.com/lanternsec/authd/internal/auth/mail"
	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/internal/auth/store/drivers/sqlite"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/jwtx"
	"github.com/lanternsec/authd/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "authd-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

const testIssuer = "authd-test"

// testServer runs the real router over an in-memory database.
type testServer struct {
	*httptest.Server
	store  *sqlite.Store
	mailer *mail.Capture
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateSigner("test-key")
	require.NoError(t, err)

	hasher := cryptox.Hasher{Params: cryptox.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}}
	mailer := &mail.Capture{}
	emitter := events.LogEmitter{}

	sessions := &service.SessionService{Store: st, Hasher: hasher, Events: emitter, RefreshTTL: time.Hour}
	tokens := &service.TokenService{Signer: signer, Sessions: sessions, Store: st, Issuer: testIssuer, AccessTTL: time.Minute}
	redeem := &service.RedeemService{Store: st, Hasher: hasher}

	logger := slogx.New(slogx.Config{Service: "authd-test", Level: "error", Format: "text"})

	router := NewRouter(signer.Verifier(testIssuer), "test", st, logger)
	router.UserService = &service.UserService{Store: st, Tokens: tokens, Events: emitter}
	router.TokenService = tokens
	router.SessionService = sessions
	router.AccountService = &service.AccountService{
		Store:  st,
		Redeem: redeem,
		Mailer: mailer,
		Events: emitter,
		AppURL: "https://app.example.com",
	}
	router.MFAService = &service.MFAService{Store: st, Issuer: testIssuer}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: st, mailer: mailer}
}

// do sends a JSON request, optionally authenticated, and decodes the response
// into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *testServer) register(t *testing.T, email, password string) RegisterResponse {
	t.Helper()

	var out RegisterResponse
	resp := s.do(t, http.MethodPost, "/v1/auth/register", "",
		RegisterRequest{Email: email, Password: password}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return out
}

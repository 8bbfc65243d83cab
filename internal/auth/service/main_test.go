package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/events"
	"github.com/lanternsec/authd/internal/auth/mail"
	"github.com/lanternsec/authd/internal/auth/store/drivers/sqlite"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "authd-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// testHasher keeps the argon2 cost low so tests stay fast.
func testHasher() cryptox.Hasher {
	return cryptox.Hasher{Params: cryptox.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}}
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// testEnv wires the full service graph against a fresh in-memory database,
// with capture fakes for mail and events.
type testEnv struct {
	store    *sqlite.Store
	sessions *SessionService
	tokens   *TokenService
	redeem   *RedeemService
	users    *UserService
	account  *AccountService
	mfa      *MFAService
	mailer   *mail.Capture
	events   *events.Capture
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := newTestStore(t)
	hasher := testHasher()
	ev := &events.Capture{}
	mailer := &mail.Capture{}

	signer, err := jwtx.GenerateSigner("test-key")
	require.NoError(t, err)

	sessions := &SessionService{Store: st, Hasher: hasher, Events: ev, RefreshTTL: time.Hour}
	tokens := &TokenService{Signer: signer, Sessions: sessions, Store: st, Issuer: "authd-test", AccessTTL: time.Minute}
	redeem := &RedeemService{Store: st, Hasher: hasher}
	users := &UserService{Store: st, Tokens: tokens, Events: ev}
	account := &AccountService{
		Store:  st,
		Redeem: redeem,
		Mailer: mailer,
		Events: ev,
		AppURL: "https://app.example.com",
	}
	mfa := &MFAService{Store: st, Issuer: "authd-test"}

	return &testEnv{
		store:    st,
		sessions: sessions,
		tokens:   tokens,
		redeem:   redeem,
		users:    users,
		account:  account,
		mfa:      mfa,
		mailer:   mailer,
		events:   ev,
	}
}

package impl

import (
	"context"
	"errors"
	"testing"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/service"
	"budget/internal/store"
	"budget/internal/testutil"

	"github.com/google/uuid"
)

type stubPasswordService struct {
	hashFunc   func(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error)
	verifyFunc func(password string, cred service.PasswordCredential) (rehashNeeded bool, ok bool)

	hashCalls   []string
	verifyCalls []string
}

func (s *stubPasswordService) Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error) {
	s.hashCalls = append(s.hashCalls, password)
	if s.hashFunc != nil {
		return s.hashFunc(password)
	}
	return []byte("hash"), []byte("salt"), []byte("params"), "argon2id", 1, nil
}

func (s *stubPasswordService) Verify(password string, cred service.PasswordCredential) (rehashNeeded bool, ok bool) {
	s.verifyCalls = append(s.verifyCalls, password)
	if s.verifyFunc != nil {
		return s.verifyFunc(password, cred)
	}
	return false, false
}

type stubTokenService struct {
	issueCalls []uuid.UUID
}

func (s *stubTokenService) Issue(user *domain.User) (*dto.TokenResponse, error) {
	s.issueCalls = append(s.issueCalls, user.ID)
	return &dto.TokenResponse{AccessToken: "access", TokenType: "Bearer", ExpiresIn: 900}, nil
}

func (s *stubTokenService) Authenticate(string) (domain.UserID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (s *stubTokenService) JWKS() map[string]any { return nil }

type env struct {
	st      *store.Store
	tracker *audit.Tracker
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := testutil.OpenStore(t)
	reg, err := audit.NewRegistry(nil, domain.AuditedModels()...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return &env{st: st, tracker: audit.NewTracker(reg)}
}

// call opens an audit call the way the HTTP middleware does.
func (e *env) call(t *testing.T, user *domain.User) domain.AuditCallID {
	t.Helper()
	in := audit.CallInput{HTTPMethod: "POST", Route: "/test"}
	if user != nil {
		in.UserID = &user.ID
	}
	c, err := audit.CreateCall(context.Background(), e.st, in)
	if err != nil {
		t.Fatalf("create call: %v", err)
	}
	return c.ID
}

func (e *env) changes(t *testing.T, callID domain.AuditCallID) []domain.Change {
	t.Helper()
	out, err := audit.Changes(e.st).FindByAuditCall(context.Background(), callID)
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	return out
}

func (e *env) signUp(t *testing.T, email string) *domain.User {
	t.Helper()
	svc := NewAuthServiceImpl(e.st, e.tracker, &stubPasswordService{}, &stubTokenService{})
	resp, err := svc.SignUp(context.Background(), e.call(t, nil), dto.SignUpRequest{Email: email, Name: email, Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	u, err := e.st.Users().GetByID(context.Background(), uuid.MustParse(resp.UserID))
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u
}

func TestAuthServiceSignUpCreatesUserAndCredential(t *testing.T) {
	e := newEnv(t)
	ps := &stubPasswordService{}
	svc := NewAuthServiceImpl(e.st, e.tracker, ps, &stubTokenService{})
	ctx := context.Background()

	callID := e.call(t, nil)
	resp, err := svc.SignUp(ctx, callID, dto.SignUpRequest{Email: " Alice@Example.com ", Name: "Alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign up returned error: %v", err)
	}
	if resp.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", resp.Email)
	}
	if len(ps.hashCalls) != 1 || ps.hashCalls[0] != "hunter22" {
		t.Fatalf("expected password hash to be invoked once with provided password")
	}

	cred, err := e.st.Credentials().GetPasswordByUserID(ctx, uuid.MustParse(resp.UserID))
	if err != nil {
		t.Fatalf("password credential was not stored: %v", err)
	}
	if string(cred.Hash) != "hash" || cred.PasswordVer != 1 {
		t.Fatalf("unexpected credential data: %+v", cred)
	}

	tables := map[string]int{}
	for _, c := range e.changes(t, callID) {
		tables[c.Table]++
		if c.Attribute == "hash" || c.Attribute == "salt" || c.Attribute == "params_json" {
			t.Fatalf("secret column %q reached the change log", c.Attribute)
		}
	}
	if tables["users"] != 3 || tables["password_credentials"] != 4 {
		t.Fatalf("unexpected change counts: %v", tables)
	}
}

func TestAuthServiceSignUpValidations(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthServiceImpl(e.st, e.tracker, NewPasswordServiceWithParams(1, Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}), &stubTokenService{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.SignUpRequest
		want error
	}{
		{name: "missing email", req: dto.SignUpRequest{Name: "alice", Password: "hunter22"}, want: ErrEmptyEmail},
		{name: "missing name", req: dto.SignUpRequest{Email: "alice@example.com", Password: "hunter22"}, want: domain.ErrEmptyName},
		{name: "short password", req: dto.SignUpRequest{Email: "alice@example.com", Name: "alice", Password: "short"}, want: ErrPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SignUp(ctx, e.call(t, nil), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthServiceSignUpDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "dup@example.com")

	svc := NewAuthServiceImpl(e.st, e.tracker, &stubPasswordService{}, &stubTokenService{})
	callID := e.call(t, nil)
	_, err := svc.SignUp(context.Background(), callID, dto.SignUpRequest{Email: "dup@example.com", Name: "Dup", Password: "hunter22"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := e.changes(t, callID); len(got) != 0 {
		t.Fatalf("expected no changes after rollback, got %d", len(got))
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	e := newEnv(t)
	user := e.signUp(t, "bob@example.com")

	ps := &stubPasswordService{
		verifyFunc: func(password string, cred service.PasswordCredential) (bool, bool) {
			return false, password == "super-secret"
		},
	}
	ts := &stubTokenService{}
	svc := NewAuthServiceImpl(e.st, e.tracker, ps, ts)

	callID := e.call(t, nil)
	resp, err := svc.Login(context.Background(), callID, dto.LoginRequest{Email: "BOB@example.com", Password: "super-secret"})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if resp.AccessToken != "access" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	if len(ps.hashCalls) != 0 {
		t.Fatalf("expected no rehash, got %d hash calls", len(ps.hashCalls))
	}
	if len(ts.issueCalls) != 1 || ts.issueCalls[0] != user.ID {
		t.Fatalf("token service issue not invoked correctly: %+v", ts.issueCalls)
	}
	if got := e.changes(t, callID); len(got) != 0 {
		t.Fatalf("plain login should not change anything, got %d changes", len(got))
	}
}

func TestAuthServiceLoginRehashesWhenNeeded(t *testing.T) {
	e := newEnv(t)
	user := e.signUp(t, "carol@example.com")

	ps := &stubPasswordService{
		verifyFunc: func(string, service.PasswordCredential) (bool, bool) { return true, true },
		hashFunc: func(string) ([]byte, []byte, []byte, string, int, error) {
			return []byte("new-hash"), []byte("new-salt"), []byte("new-params"), "argon2id", 2, nil
		},
	}
	svc := NewAuthServiceImpl(e.st, e.tracker, ps, &stubTokenService{})

	callID := e.call(t, nil)
	if _, err := svc.Login(context.Background(), callID, dto.LoginRequest{Email: user.Email, Password: "whatever1"}); err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	cred, err := e.st.Credentials().GetPasswordByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load credential: %v", err)
	}
	if string(cred.Hash) != "new-hash" || cred.PasswordVer != 2 {
		t.Fatalf("credential was not rehashed: %+v", cred)
	}

	got := e.changes(t, callID)
	if len(got) != 1 || got[0].Attribute != "password_ver" || *got[0].OldValue != "1" || *got[0].NewValue != "2" {
		t.Fatalf("expected a single password_ver change, got %+v", got)
	}
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "dave@example.com")
	svc := NewAuthServiceImpl(e.st, e.tracker, &stubPasswordService{}, &stubTokenService{})

	for _, req := range []dto.LoginRequest{
		{Email: "dave@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "wrong-password"},
		{Email: "", Password: "x"},
	} {
		if _, err := svc.Login(context.Background(), e.call(t, nil), req); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %q, got %v", req.Email, err)
		}
	}
}

func TestAuthServiceDeleteAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.signUp(t, "erin@example.com")

	households := NewHouseholdServiceImpl(e.st, e.tracker)
	if _, err := households.Create(ctx, e.call(t, user), dto.NameRequest{Name: "Flat"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	svc := NewAuthServiceImpl(e.st, e.tracker, &stubPasswordService{}, &stubTokenService{})
	callID := e.call(t, user)
	if err := svc.DeleteAccount(ctx, callID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := e.st.Users().GetByID(ctx, user.ID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected user to be soft-deleted, got %v", err)
	}

	var deletedAt, memberships int
	for _, c := range e.changes(t, callID) {
		switch {
		case c.Table == "users" && c.Attribute == "deleted_at":
			deletedAt++
		case c.Table == "household_members" && c.NewValue == nil:
			memberships++
		}
	}
	if deletedAt != 1 || memberships == 0 {
		t.Fatalf("unexpected changes: deleted_at=%d membership rows=%d", deletedAt, memberships)
	}

	// The old call now points at a vanished user.
	if err := svc.DeleteAccount(ctx, callID); !errors.Is(err, audit.ErrAuditUserDoesNotExist) {
		t.Fatalf("expected audit user error, got %v", err)
	}
}

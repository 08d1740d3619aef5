package signup_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelhub/reelhub/internal/app/features/signup"
	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	"github.com/reelhub/reelhub/internal/app/system/auth"
	"github.com/reelhub/reelhub/internal/domain/models"
	"github.com/reelhub/reelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*signup.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-0123456789ABCDEF", "reelhub-test", "", false, logger)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return signup.NewHandler(userstore.New(db), sessionMgr, logger), db
}

func TestHandleSignup_Success(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewJSONRequest(t, "POST", "/signup", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "Ada@Example.com",
		"password": "correct horse battery",
	})
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.User
	testutil.DecodeJSON(t, rec, &created)
	if created.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want %q", created.Name, "Ada Lovelace")
	}
	if created.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased %q", created.Email, "ada@example.com")
	}
	if created.AuthMethod != "password" {
		t.Errorf("AuthMethod = %q, want %q", created.AuthMethod, "password")
	}

	// Password hash must never leak into the response body.
	if body := rec.Body.String(); len(body) > 0 && containsHash(body) {
		t.Error("response body leaks password hash")
	}

	// Session cookie should be set so signup doubles as sign-in.
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie after signup")
	}

	// Stored record carries the bcrypt hash.
	stored, err := userstore.New(db).GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail after signup: %v", err)
	}
	if stored.PasswordHash == "" {
		t.Error("stored user has no password hash")
	}
}

func containsHash(body string) bool {
	// bcrypt hashes start with $2; the json tag on PasswordHash is "-".
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '$' && body[i+1] == '2' {
			return true
		}
	}
	return false
}

func TestHandleSignup_RejectsShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/signup", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "short",
	})
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSignup_RejectsBadEmail(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/signup", map[string]string{
		"name":     "Ada",
		"email":    "not-an-email",
		"password": "correct horse battery",
	})
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSignup_DuplicateEmailConflicts(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct horse battery",
	}

	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, testutil.NewJSONRequest(t, "POST", "/signup", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d, want %d", rec.Code, http.StatusCreated)
	}

	// Same email with different case must still conflict.
	body["email"] = "ADA@example.com"
	rec = httptest.NewRecorder()
	handler.HandleSignup(rec, testutil.NewJSONRequest(t, "POST", "/signup", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleSignup_StripsHTMLFromName(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/signup", map[string]string{
		"name":     "<script>alert(1)</script>Ada",
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created models.User
	testutil.DecodeJSON(t, rec, &created)
	if created.Name != "Ada" {
		t.Errorf("Name = %q, want markup stripped %q", created.Name, "Ada")
	}
}

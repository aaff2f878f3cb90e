package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"watchparty/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	lowerAlnumRe = regexp.MustCompile(`^[a-z0-9]+$`)
	userNameRe   = regexp.MustCompile(`^Unnamed User #[0-9]{6}$`)
	roomNameRe   = regexp.MustCompile(`^Unnamed Room [0-9]{6}$`)
)

func TestRandomString(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		n        int
	}{
		{"digits", Digits, 6},
		{"password", LowerAlnum, PasswordLen},
		{"api key", LowerAlnum, APIKeyLen},
		{"empty", LowerAlnum, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := RandomString(tt.alphabet, tt.n)
			if err != nil {
				t.Fatalf("RandomString() error = %v", err)
			}
			if len(s) != tt.n {
				t.Errorf("RandomString() length = %d, want %d", len(s), tt.n)
			}
			for _, r := range s {
				if !strings.ContainsRune(tt.alphabet, r) {
					t.Errorf("RandomString() char %q outside alphabet", r)
				}
			}
		})
	}
}

func TestNewCredentials(t *testing.T) {
	for i := 0; i < 50; i++ {
		c, err := NewCredentials()
		if err != nil {
			t.Fatalf("NewCredentials() error = %v", err)
		}
		if !userNameRe.MatchString(c.Name) {
			t.Errorf("Name = %q", c.Name)
		}
		if len(c.Password) != 10 || !lowerAlnumRe.MatchString(c.Password) {
			t.Errorf("Password = %q", c.Password)
		}
		if len(c.APIKey) != 40 || !lowerAlnumRe.MatchString(c.APIKey) {
			t.Errorf("APIKey = %q", c.APIKey)
		}
	}
}

func TestNewCredentials_Distinct(t *testing.T) {
	a, _ := NewCredentials()
	b, _ := NewCredentials()
	if a.APIKey == b.APIKey {
		t.Error("two generated API keys collided")
	}
}

func TestRoomName(t *testing.T) {
	name, err := RoomName()
	if err != nil {
		t.Fatalf("RoomName() error = %v", err)
	}
	if !roomNameRe.MatchString(name) {
		t.Errorf("RoomName() = %q", name)
	}
}

func TestWriteAndReadSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	WriteSession(c, 42, "abc123", false)

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("WriteSession() set %d cookies, want 2", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req

	id, pw, ok := ReadSession(c2)
	if !ok || id != "42" || pw != "abc123" {
		t.Errorf("ReadSession() = %q, %q, %v", id, pw, ok)
	}
}

func TestWriteAndReadSession_SpecialChars(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, pw := range []string{"p+w", "100%sure", "a;b", `q"u\o`, "sp ace"} {
		t.Run(pw, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			WriteSession(c, 9, pw, false)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, ck := range w.Result().Cookies() {
				req.AddCookie(ck)
			}
			c2, _ := gin.CreateTestContext(httptest.NewRecorder())
			c2.Request = req

			id, got, ok := ReadSession(c2)
			if !ok || id != "9" || got != pw {
				t.Errorf("ReadSession() = %q, %q, %v; want 9, %q", id, got, ok, pw)
			}
		})
	}
}

func TestReadSession_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		cookies map[string]string
	}{
		{"none", nil},
		{"only id", map[string]string{CookieUserID: "1"}},
		{"only password", map[string]string{CookiePassword: "pw"}},
		{"empty values", map[string]string{CookieUserID: "", CookiePassword: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.cookies {
				req.AddCookie(&http.Cookie{Name: k, Value: v})
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req
			if _, _, ok := ReadSession(c); ok {
				t.Error("ReadSession() ok = true, want false")
			}
		})
	}
}

func TestClearSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ClearSession(c, true)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge >= 0 || ck.Value != "" {
			t.Errorf("cookie %s not expired: %+v", ck.Name, ck)
		}
		if !ck.Secure {
			t.Errorf("cookie %s not secure", ck.Name)
		}
	}
}

type fakeAuthenticator struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeAuthenticator) AuthenticateFromCookies(_ context.Context, userID, password string) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && password == f.user.Password {
		return f.user, nil
	}
	return nil, nil
}

func newIdentifyEngine(a Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(Identify(a))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	r.GET("/private", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": CurrentUser(c).Name})
	})
	return r
}

func TestIdentify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &models.User{ID: 7, Name: "ann", Password: "secret"}

	tests := []struct {
		name      string
		auth      *fakeAuthenticator
		cookies   map[string]string
		path      string
		wantCode  int
		wantCalls int
	}{
		{"anonymous public", &fakeAuthenticator{user: user}, nil, "/whoami", http.StatusOK, 0},
		{"anonymous private", &fakeAuthenticator{user: user}, nil, "/private", http.StatusForbidden, 0},
		{"wrong password", &fakeAuthenticator{user: user}, map[string]string{CookieUserID: "7", CookiePassword: "nope"}, "/private", http.StatusForbidden, 1},
		{"valid pair", &fakeAuthenticator{user: user}, map[string]string{CookieUserID: "7", CookiePassword: "secret"}, "/private", http.StatusOK, 1},
		{"store failure", &fakeAuthenticator{err: errors.New("boom")}, map[string]string{CookieUserID: "7", CookiePassword: "secret"}, "/whoami", http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newIdentifyEngine(tt.auth)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.cookies {
				req.AddCookie(&http.Cookie{Name: k, Value: v})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.auth.calls != tt.wantCalls {
				t.Errorf("authenticator calls = %d, want %d", tt.auth.calls, tt.wantCalls)
			}
		})
	}
}

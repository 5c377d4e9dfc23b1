package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/julianlk522/miniface/dbtest"
	util "github.com/julianlk522/miniface/handler/util"
	"github.com/julianlk522/miniface/model"
)

func TestSignUp(t *testing.T) {
	long_email := strings.Repeat("a", 250) + "@x.com"

	test_signup_requests := []struct {
		Payload            map[string]string
		ExpectedStatusCode int
		ExpectedError      string
	}{
		{map[string]string{"email": "", "username": "carol", "password": "testtest"}, 400, ""},
		{map[string]string{"email": "notanemail", "username": "carol", "password": "testtest"}, 400, ""},
		{map[string]string{"email": long_email, "username": "carol", "password": "testtest"}, 400, "email too long (max 255 chars)"},
		{map[string]string{"email": "carol@x.com", "username": "", "password": "testtest"}, 400, ""},
		{map[string]string{"email": "carol@x.com", "username": strings.Repeat("c", 81), "password": "testtest"}, 400, "username too long (max 80 chars)"},
		{map[string]string{"email": "carol@x.com", "username": "carol", "password": ""}, 400, ""},
		{map[string]string{"email": "carol@x.com", "username": "carol", "password": strings.Repeat("p", 73)}, 400, "password too long (max 72 bytes)"},
		// taken
		{map[string]string{"email": dbtest.TEST_USER_EMAIL, "username": "carol", "password": "testtest"}, 409, ""},
		{map[string]string{"email": "carol@x.com", "username": dbtest.TEST_USER_USERNAME, "password": "testtest"}, 409, ""},
		{map[string]string{"email": "carol@x.com", "username": "carol", "password": "testtest"}, 201, ""},
		// short names, any characters and short passwords are fine
		{map[string]string{"email": "dan@x.com", "username": "d", "password": "p"}, 201, ""},
		{map[string]string{"email": "erin@x.com", "username": "erin o'neil-smith", "password": "pw"}, 201, ""},
		{map[string]string{"email": "frank@x.com", "username": strings.Repeat("f", 80), "password": strings.Repeat("p", 72)}, 201, ""},
	}

	for _, tr := range test_signup_requests {
		pl, _ := json.Marshal(tr.Payload)
		r := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/register",
			bytes.NewReader(pl),
		)
		r.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		SignUp(w, r)
		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != tr.ExpectedStatusCode {
			t.Fatalf(
				"expected status code %d, got %d (test request %+v)\n%s",
				tr.ExpectedStatusCode,
				res.StatusCode,
				tr.Payload,
				readBody(t, res),
			)
		}
		if tr.ExpectedError != "" {
			if body := readBody(t, res); !strings.Contains(body, tr.ExpectedError) {
				t.Fatalf("expected error %q, got %s", tr.ExpectedError, body)
			}
		}
	}

	// new user is usable right away
	user, err := util.AuthenticateUser(t.Context(), "carol@x.com", "testtest")
	if err != nil || user.Username != "carol" {
		t.Fatalf("new user could not log in: %v", err)
	}
}

func TestLogIn(t *testing.T) {
	test_login_requests := []struct {
		Username           string
		Password           string
		ExpectedStatusCode int
	}{
		{"", dbtest.TEST_PASSWORD, 400},
		{dbtest.TEST_USER_EMAIL, "", 400},
		{"nobody@x.com", dbtest.TEST_PASSWORD, 401},
		{dbtest.TEST_USER_EMAIL, "wrongpassword", 401},
		{dbtest.TEST_USER_EMAIL, dbtest.TEST_PASSWORD, 200},
	}

	for _, tr := range test_login_requests {
		form := url.Values{}
		form.Set("username", tr.Username)
		form.Set("password", tr.Password)

		r := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		LogIn(w, r)
		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != tr.ExpectedStatusCode {
			t.Fatalf("expected status code %d, got %d (test request %+v)", tr.ExpectedStatusCode, res.StatusCode, tr)
		}
		if res.StatusCode != 200 {
			continue
		}

		var token model.Token
		if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
			t.Fatal(err)
		}
		if token.AccessToken == "" || token.TokenType != "bearer" {
			t.Fatalf("unexpected token response %+v", token)
		}

		jwt, err := token_auth.Decode(token.AccessToken)
		if err != nil {
			t.Fatalf("issued token does not verify: %s", err)
		}
		if jwt.Subject() != "1" {
			t.Fatalf("expected subject 1, got %q", jwt.Subject())
		}
	}
}

func TestGetMe(t *testing.T) {
	r := withUser(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), dbtest.TEST_AVATAR_USER_ID)
	w := httptest.NewRecorder()
	GetMe(w, r)

	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("expected status code 200, got %d", res.StatusCode)
	}

	body := readBody(t, res)
	if strings.Contains(body, "hashed_password") || strings.Contains(body, "$2a$") {
		t.Fatalf("password hash leaked: %s", body)
	}

	var user model.User
	if err := json.Unmarshal([]byte(body), &user); err != nil {
		t.Fatal(err)
	}
	if user.Email != dbtest.TEST_AVATAR_USER_EMAIL {
		t.Fatalf("expected %s, got %s", dbtest.TEST_AVATAR_USER_EMAIL, user.Email)
	}
	if user.AvatarURL == nil || *user.AvatarURL != dbtest.TEST_AVATAR_URL {
		t.Fatalf("expected avatar %s, got %v", dbtest.TEST_AVATAR_URL, user.AvatarURL)
	}
}

func uploadAvatar(t *testing.T, user_id int64, data []byte) *http.Response {
	t.Helper()

	r := newMultipartRequest(
		t,
		http.MethodPost,
		"/api/users/me/avatar",
		nil,
		testFilePart{
			Field:       AVATAR_FORM_FIELD,
			Filename:    "me.png",
			ContentType: "image/png",
			Data:        data,
		},
	)
	r = withUser(t, r, user_id)

	w := httptest.NewRecorder()
	UploadAvatar(w, r)
	return w.Result()
}

func TestUploadAvatarInvalid(t *testing.T) {
	test_uploads := []struct {
		Name string
		Data []byte
	}{
		{"not an image", []byte("hello there")},
		{"too wide", testPNG(t, 500, 100)},
		{"too tall", testPNG(t, 100, 500)},
	}

	before := countBlobs(t)
	for _, tu := range test_uploads {
		res := uploadAvatar(t, dbtest.TEST_USER_ID, tu.Data)
		res.Body.Close()

		if res.StatusCode != 400 {
			t.Fatalf("%s: expected status code 400, got %d", tu.Name, res.StatusCode)
		}
	}

	if after := countBlobs(t); after != before {
		t.Fatalf("rejected avatars left %d blobs behind", after-before)
	}
}

func TestUploadAndDeleteAvatar(t *testing.T) {
	res := uploadAvatar(t, dbtest.TEST_USER_ID, testPNG(t, 300, 300))
	defer res.Body.Close()
	if res.StatusCode != 201 {
		t.Fatalf("expected status code 201, got %d: %s", res.StatusCode, readBody(t, res))
	}

	var user model.User
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		t.Fatal(err)
	}
	if user.AvatarURL == nil || !strings.HasSuffix(*user.AvatarURL, ".png") {
		t.Fatalf("expected png avatar locator, got %v", user.AvatarURL)
	}
	first_avatar := *user.AvatarURL

	// stored thumbnail is scaled down
	f, err := os.Open(blobPath(t, first_avatar))
	if err != nil {
		t.Fatalf("avatar blob missing: %s", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 200 {
		t.Fatalf("expected width 200, got %d", cfg.Width)
	}

	// replacing removes the previous blob
	res2 := uploadAvatar(t, dbtest.TEST_USER_ID, testPNG(t, 150, 100))
	defer res2.Body.Close()
	if res2.StatusCode != 201 {
		t.Fatalf("expected status code 201, got %d", res2.StatusCode)
	}
	if _, err := os.Stat(blobPath(t, first_avatar)); !os.IsNotExist(err) {
		t.Fatal("previous avatar blob was not removed")
	}

	second_avatar, has_avatar := util.GetAvatarURL(dbtest.TEST_USER_ID)
	if !has_avatar || second_avatar == first_avatar {
		t.Fatalf("avatar not replaced: %q", second_avatar)
	}

	// delete
	r := withUser(t, httptest.NewRequest(http.MethodDelete, "/api/users/me/avatar", nil), dbtest.TEST_USER_ID)
	w := httptest.NewRecorder()
	DeleteAvatar(w, r)
	if w.Code != 204 {
		t.Fatalf("expected status code 204, got %d", w.Code)
	}
	if _, has_avatar = util.GetAvatarURL(dbtest.TEST_USER_ID); has_avatar {
		t.Fatal("avatar still set after delete")
	}
	if _, err := os.Stat(blobPath(t, second_avatar)); !os.IsNotExist(err) {
		t.Fatal("avatar blob was not removed")
	}

	// nothing left to delete
	r = withUser(t, httptest.NewRequest(http.MethodDelete, "/api/users/me/avatar", nil), dbtest.TEST_USER_ID)
	w = httptest.NewRecorder()
	DeleteAvatar(w, r)
	if w.Code != 400 {
		t.Fatalf("expected status code 400, got %d", w.Code)
	}
}

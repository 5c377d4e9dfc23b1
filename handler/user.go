package handler

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianlk522/miniface/db"
	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/handler/util"
	m "github.com/julianlk522/miniface/middleware"
	"github.com/julianlk522/miniface/model"
)

const AVATAR_FORM_FIELD = "avatar"

// Auth
func SignUp(w http.ResponseWriter, r *http.Request) {
	signup_data := &model.SignUpRequest{}
	if err := render.Bind(r, signup_data); err != nil {
		render.Render(w, r, e.ErrInvalidRequest(err))
		return
	}

	if util.EmailTaken(signup_data.Email) {
		render.Render(w, r, e.ErrConflict(e.ErrEmailTaken))
		return
	} else if util.UsernameTaken(signup_data.Username) {
		render.Render(w, r, e.ErrConflict(e.ErrUsernameTaken))
		return
	}

	pw_hash, err := bcrypt.GenerateFromPassword(
		[]byte(signup_data.Password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	res, err := db.Client.ExecContext(
		r.Context(),
		`INSERT INTO users (email, username, hashed_password, avatar_url, created_at) VALUES (?,?,?,?,?)`,
		signup_data.Email,
		signup_data.Username,
		pw_hash,
		nil,
		signup_data.CreatedAt,
	)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	user_id, err := res.LastInsertId()
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &model.User{
		ID:        user_id,
		Email:     signup_data.Email,
		Username:  signup_data.Username,
		CreatedAt: signup_data.CreatedAt,
	})
}

func LogIn(w http.ResponseWriter, r *http.Request) {
	login_data := &model.LogInRequest{}
	if err := login_data.Bind(r); err != nil {
		render.Render(w, r, e.ErrInvalidRequest(err))
		return
	}

	user, err := util.AuthenticateUser(r.Context(), login_data.Email, login_data.Password)
	if err == e.ErrInvalidLogin || err == e.ErrIncorrectPassword {
		// don't reveal which one was wrong
		render.Render(w, r, e.ErrUnauthorized(e.ErrInvalidLogin))
		return
	} else if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	token, err := util.GetJWTFromUserID(token_auth, user.ID, token_ttl)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	render.Status(r, http.StatusOK)
	util.RenderJWT(token, w, r)
}

// Users
func GetMe(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, m.UserFromContext(r.Context()))
}

func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)
	if err := r.ParseMultipartForm(max_upload_bytes); err != nil {
		RenderIngestError(w, r, err)
		return
	}
	file, header, err := r.FormFile(AVATAR_FORM_FIELD)
	if err != nil {
		render.Render(w, r, e.ErrInvalidRequest(err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	avatar, file_name, err := util.PrepareAvatar(&model.AvatarUpload{
		Bytes:    bytes.NewReader(raw),
		Filename: header.Filename,
	})
	if err != nil {
		render.Render(w, r, e.ErrInvalidRequest(err))
		return
	}

	locator, err := blobs.Store(r.Context(), avatar, file_name, "")
	if err != nil {
		render.Render(w, r, e.Err500(e.ErrCouldNotSaveAvatar))
		return
	}

	user := m.UserFromContext(r.Context())
	if err = util.SetAvatarURL(user.ID, &locator); err != nil {
		removeBlob(r, locator)
		render.Render(w, r, e.Err500(e.ErrCouldNotSaveAvatar))
		return
	}

	// replace previous avatar
	if user.AvatarURL != nil {
		removeBlob(r, *user.AvatarURL)
	}

	user.AvatarURL = &locator
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := m.UserFromContext(r.Context())

	avatar_url, has_avatar := util.GetAvatarURL(user.ID)
	if !has_avatar {
		render.Render(w, r, e.ErrInvalidRequest(e.ErrNoAvatar))
		return
	}

	if err := util.SetAvatarURL(user.ID, nil); err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}
	removeBlob(r, avatar_url)

	w.WriteHeader(http.StatusNoContent)
}

// best effort: a leftover blob is logged, not fatal
func removeBlob(r *http.Request, locator string) {
	if err := blobs.Delete(r.Context(), locator); err != nil {
		log.Printf("could not delete blob %s: %s", locator, err)
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/handler/util"
	"github.com/julianlk522/miniface/ingest"
	m "github.com/julianlk522/miniface/middleware"
	"github.com/julianlk522/miniface/query"
)

const (
	POST_ID_URL_PARAM    = "post_id"
	OWNER_ID_QUERY_PARAM = "owner_id"
)

func GetPosts(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(m.PageKey).(int)

	posts_sql := query.NewPosts()

	// optional author filter
	if owner_id_param := r.URL.Query().Get(OWNER_ID_QUERY_PARAM); owner_id_param != "" {
		owner_id, err := strconv.ParseInt(owner_id_param, 10, 64)
		if err != nil || owner_id <= 0 {
			render.Render(w, r, e.ErrInvalidRequest(e.ErrInvalidUserID))
			return
		}
		posts_sql = posts_sql.FromOwner(owner_id)
	}

	posts_sql = posts_sql.Page(page)
	if err := posts_sql.Check(); err != nil {
		render.Render(w, r, e.ErrInvalidRequest(err))
		return
	}

	posts, err := util.GetPostsPage(r.Context(), posts_sql, page)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	render.JSON(w, r, posts)
}

func CreatePost(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)
	if err := r.ParseMultipartForm(max_upload_bytes); err != nil {
		RenderIngestError(w, r, err)
		return
	}

	var content *string
	if vs := r.MultipartForm.Value[ingest.CONTENT_FORM_FIELD]; len(vs) > 0 {
		content = &vs[0]
	}
	validated_content, err := ingest.ValidateContent(content)
	if err != nil {
		RenderIngestError(w, r, err)
		return
	}

	file, err := ingest.MultipartFileFromForm(r.MultipartForm, ingest.IMAGE_FORM_FIELD)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}

	var image_url *string
	if file != nil {
		img, err := ingest.DecodeMultipartFile(*file)
		if err != nil {
			RenderIngestError(w, r, err)
			return
		}

		locator, err := ingest.Persist(r.Context(), blobs, img)
		if err != nil {
			render.Render(w, r, e.Err500(err))
			return
		}
		image_url = &locator
	}

	user := m.UserFromContext(r.Context())
	post, err := util.InsertPost(r.Context(), validated_content, image_url, user.ID)
	if err != nil {
		if image_url != nil {
			removeBlob(r, *image_url)
		}
		render.Render(w, r, e.Err500(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

func DeletePost(w http.ResponseWriter, r *http.Request) {
	post_id_param := chi.URLParam(r, POST_ID_URL_PARAM)
	if post_id_param == "" {
		render.Render(w, r, e.ErrInvalidRequest(e.ErrNoPostID))
		return
	}
	post_id, err := strconv.ParseInt(post_id_param, 10, 64)
	if err != nil || post_id <= 0 {
		render.Render(w, r, e.ErrInvalidRequest(e.ErrInvalidPostID))
		return
	}

	post, err := util.GetPostByID(r.Context(), post_id)
	if err != nil {
		render.Render(w, r, e.Err500(err))
		return
	} else if post == nil {
		render.Render(w, r, e.ErrNotFound(e.ErrNoPostWithID))
		return
	}

	user := m.UserFromContext(r.Context())
	if post.OwnerID != user.ID {
		render.Render(w, r, e.ErrForbidden(e.ErrDoesntOwnPost))
		return
	}

	if err = util.DeletePost(r.Context(), post_id); err != nil {
		render.Render(w, r, e.Err500(err))
		return
	}
	if post.ImageURL != nil {
		removeBlob(r, *post.ImageURL)
	}

	w.WriteHeader(http.StatusNoContent)
}

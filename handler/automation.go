package handler

import (
	"net/http"

	"github.com/go-chi/render"

	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/handler/util"
	"github.com/julianlk522/miniface/ingest"
)

// CreatePostFromAutomation accepts posts from n8n workflows. The body may
// be multipart, urlencoded or JSON, with the image sent as a file part,
// base64 text or an n8n binary reference.
func CreatePostFromAutomation(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	payload, err := ingest.ParseRequest(r, max_upload_bytes)
	if err != nil {
		RenderIngestError(w, r, err)
		return
	}

	draft, err := normalizer.Normalize(r.Context(), payload)
	if err != nil {
		RenderIngestError(w, r, err)
		return
	}

	post, err := util.InsertPost(r.Context(), draft.Content, draft.ImageLocator, draft.AuthorID)
	if err != nil {
		if draft.ImageLocator != nil {
			removeBlob(r, *draft.ImageLocator)
		}
		render.Render(w, r, e.Err500(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

package ingest

import (
	"context"
	"strings"
	"unicode/utf8"

	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
	util "github.com/julianlk522/miniface/model/util"
)

// FindUserByEmail returns a nil user (and nil error) when nobody matches.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Fields resolved from an ingestion request. A nil Content means no
// branch supplied one; Image is nil when no image was sent.
type Payload struct {
	Content     *string
	AuthorEmail string
	Image       ImageSource
}

type Normalizer struct {
	Blobs              BlobStore
	Users              UserFinder
	Binary             *BinaryResolver
	DefaultAuthorEmail string
}

// Normalize validates the payload, resolves the author and stores the
// image. The image is decoded first but written last, after the author
// is known to exist, so a rejected request never leaves a blob behind.
func (n *Normalizer) Normalize(ctx context.Context, p *Payload) (*model.PostDraft, error) {
	img, err := Decode(p.Image, n.Binary)
	if err != nil {
		return nil, err
	}

	content, err := ValidateContent(p.Content)
	if err != nil {
		return nil, err
	}

	author_email, err := ResolveAuthorEmail(p.AuthorEmail, n.DefaultAuthorEmail)
	if err != nil {
		return nil, err
	}

	author, err := n.Users.FindUserByEmail(ctx, author_email)
	if err != nil {
		return nil, err
	} else if author == nil {
		return nil, e.ErrAuthorEmailNotFound(author_email)
	}

	draft := &model.PostDraft{
		Content:     content,
		AuthorEmail: author_email,
		AuthorID:    author.ID,
	}

	if img != nil {
		locator, err := Persist(ctx, n.Blobs, img)
		if err != nil {
			return nil, err
		}
		draft.ImageLocator = &locator
	}

	return draft, nil
}

func ValidateContent(content *string) (string, error) {
	if content == nil || *content == "" {
		return "", e.ErrNoContent
	}
	if utf8.RuneCountInString(*content) > util.POST_CONTENT_CHAR_LIMIT {
		return "", e.ContentExceedsLimit(util.POST_CONTENT_CHAR_LIMIT)
	}

	return *content, nil
}

// payload email > configured default
func ResolveAuthorEmail(payload_email string, default_email string) (string, error) {
	if email := strings.TrimSpace(payload_email); email != "" {
		return email, nil
	}
	if email := strings.TrimSpace(default_email); email != "" {
		return email, nil
	}

	return "", e.ErrNoAuthorEmail
}

package query

import (
	"strings"

	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/model/util"
)

type Posts struct {
	Query
}

func NewPosts() *Posts {
	return &Posts{
		Query: Query{
			Text: POSTS_BASE_FIELDS +
				POSTS_FROM +
				POSTS_ORDER_BY +
				POSTS_LIMIT,
			Args: []any{util.POSTS_PAGE_LIMIT},
		},
	}
}

const POSTS_BASE_FIELDS = `
SELECT
	p.id,
	p.content,
	p.image_url,
	p.owner_id,
	p.created_at`

const POSTS_FROM = `
FROM posts p`

const POSTS_ORDER_BY = `
ORDER BY
	p.created_at DESC,
	p.id DESC`

const POSTS_LIMIT = `
LIMIT ?;`

func (p *Posts) FromOwner(owner_id int64) *Posts {
	p.Text = strings.Replace(
		p.Text,
		POSTS_FROM,
		POSTS_FROM+`
WHERE p.owner_id = ?`,
		1,
	)

	// owner arg goes before limit
	p.Args = append([]any{owner_id}, p.Args...)
	return p
}

// Page fetches one extra row so the caller can tell whether
// another page exists.
func (p *Posts) Page(page int) *Posts {
	if page < 0 {
		p.Error = e.ErrInvalidPage
		return p
	}
	if page == 0 {
		return p
	}

	// pop limit arg and replace with limit + 1
	p.Args = append(p.Args[:len(p.Args)-1], util.POSTS_PAGE_LIMIT+1)

	if page == 1 {
		return p
	}

	p.Text = strings.Replace(
		p.Text,
		"LIMIT ?",
		"LIMIT ? OFFSET ?",
		1,
	)
	p.Args = append(p.Args, (page-1)*util.POSTS_PAGE_LIMIT)

	return p
}

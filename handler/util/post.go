package handler

import (
	"context"
	"database/sql"

	"github.com/julianlk522/miniface/db"
	"github.com/julianlk522/miniface/model"
	util "github.com/julianlk522/miniface/model/util"
	"github.com/julianlk522/miniface/query"
)

const POST_FIELDS = `id, content, image_url, owner_id, created_at`

// InsertPost stores a post and returns it as it was saved.
func InsertPost(ctx context.Context, content string, image_url *string, owner_id int64) (*model.Post, error) {
	created_at := util.NEW_LONG_TIMESTAMP()

	res, err := db.Client.ExecContext(
		ctx,
		`INSERT INTO posts (content, image_url, owner_id, created_at) VALUES (?,?,?,?);`,
		content,
		image_url,
		owner_id,
		created_at,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Post{
		ID:        id,
		Content:   content,
		ImageURL:  image_url,
		OwnerID:   owner_id,
		CreatedAt: created_at,
	}, nil
}

func GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	row := db.Client.QueryRowContext(ctx, "SELECT "+POST_FIELDS+" FROM posts WHERE id = ?", id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func DeletePost(ctx context.Context, id int64) error {
	_, err := db.Client.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	return err
}

// GetPostsPage runs a paged query and trims the extra row fetched by
// query.Posts.Page. next_page is -1 on the last page.
func GetPostsPage(ctx context.Context, posts_sql *query.Posts, page int) (*model.PaginatedPosts, error) {
	rows, err := db.Client.QueryContext(ctx, posts_sql.Text, posts_sql.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	next_page := -1
	if len(posts) > util.POSTS_PAGE_LIMIT {
		posts = posts[:util.POSTS_PAGE_LIMIT]
		next_page = page + 1
	}

	return &model.PaginatedPosts{
		Posts:    posts,
		NextPage: next_page,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var p model.Post
	var image_url sql.NullString

	if err := row.Scan(
		&p.ID,
		&p.Content,
		&image_url,
		&p.OwnerID,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	if image_url.Valid {
		p.ImageURL = &image_url.String
	}
	return &p, nil
}

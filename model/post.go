package model

type Post struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	OwnerID   int64   `json:"owner_id"`
	CreatedAt string  `json:"created_at"`
}

type PaginatedPosts struct {
	Posts    []Post `json:"posts"`
	NextPage int    `json:"next_page"`
}

// Output of the ingestion pipeline, ready to be inserted.
// ImageLocator is only set once the image has been written.
type PostDraft struct {
	Content      string
	ImageLocator *string
	AuthorEmail  string
	AuthorID     int64
}

package handler

import (
	"context"
	"testing"

	"github.com/julianlk522/miniface/dbtest"
	util "github.com/julianlk522/miniface/model/util"
	"github.com/julianlk522/miniface/query"
)

func TestInsertAndDeletePost(t *testing.T) {
	image_url := "/uploads/abc.png"
	p, err := InsertPost(context.Background(), "inserted", &image_url, dbtest.TEST_BOT_ID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := GetPostByID(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Content != "inserted" || got.OwnerID != dbtest.TEST_BOT_ID || got.ImageURL == nil || *got.ImageURL != image_url {
		t.Fatalf("unexpected post %+v", got)
	}

	if err := DeletePost(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if got, err = GetPostByID(context.Background(), p.ID); err != nil || got != nil {
		t.Fatalf("expected post to be gone, got %+v / %v", got, err)
	}
}

func TestGetPostsPage(t *testing.T) {
	// enough posts for a second page
	var inserted []int64
	for i := 0; i < util.POSTS_PAGE_LIMIT; i++ {
		p, err := InsertPost(context.Background(), "filler", nil, dbtest.TEST_BOT_ID)
		if err != nil {
			t.Fatal(err)
		}
		inserted = append(inserted, p.ID)
	}
	defer func() {
		for _, id := range inserted {
			DeletePost(context.Background(), id)
		}
	}()

	first, err := GetPostsPage(context.Background(), query.NewPosts().Page(1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Posts) != util.POSTS_PAGE_LIMIT || first.NextPage != 2 {
		t.Fatalf("page 1: got %d posts, next page %d", len(first.Posts), first.NextPage)
	}

	second, err := GetPostsPage(context.Background(), query.NewPosts().Page(2), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Posts) != dbtest.TEST_SEED_POSTS_NUM || second.NextPage != -1 {
		t.Fatalf("page 2: got %d posts, next page %d", len(second.Posts), second.NextPage)
	}
}

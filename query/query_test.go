package query

import (
	"database/sql"
	"log"
	"testing"

	"github.com/julianlk522/miniface/db"
	"github.com/julianlk522/miniface/dbtest"
	util "github.com/julianlk522/miniface/model/util"
)

var TestClient *sql.DB

func TestMain(m *testing.M) {
	if err := dbtest.SetupTestDB(); err != nil {
		log.Fatal(err)
	}
	// TestClient unneeded but helps to reiterate in tests that the DB connection is temporary in-memory
	TestClient = db.Client
	m.Run()
}

func TestNewPosts(t *testing.T) {
	rows, err := TestClient.Query(NewPosts().Text, NewPosts().Args...)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id, owner_id int64
		var content, created_at string
		var image_url sql.NullString
		if err := rows.Scan(&id, &content, &image_url, &owner_id, &created_at); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	// newest first
	if len(ids) != dbtest.TEST_SEED_POSTS_NUM || ids[0] != dbtest.TEST_IMAGE_POST_ID {
		t.Fatalf("got post IDs %v", ids)
	}
}

func TestPostsPage(t *testing.T) {
	var test_pages = []struct {
		Page      int
		WantArgs  []any
		HasOffset bool
		Valid     bool
	}{
		{0, []any{util.POSTS_PAGE_LIMIT}, false, true},
		{1, []any{util.POSTS_PAGE_LIMIT + 1}, false, true},
		{3, []any{util.POSTS_PAGE_LIMIT + 1, 2 * util.POSTS_PAGE_LIMIT}, true, true},
		{-1, nil, false, false},
	}

	for _, tp := range test_pages {
		posts := NewPosts().Page(tp.Page)
		if !tp.Valid {
			if posts.Error == nil {
				t.Fatalf("page %d: expected error", tp.Page)
			}
			continue
		}
		if posts.Error != nil {
			t.Fatalf("page %d: %s", tp.Page, posts.Error)
		}

		if len(posts.Args) != len(tp.WantArgs) {
			t.Fatalf("page %d: got args %v, want %v", tp.Page, posts.Args, tp.WantArgs)
		}
		for i := range posts.Args {
			if posts.Args[i] != tp.WantArgs[i] {
				t.Fatalf("page %d: got args %v, want %v", tp.Page, posts.Args, tp.WantArgs)
			}
		}

		rows, err := TestClient.Query(posts.Text, posts.Args...)
		if err != nil {
			t.Fatalf("page %d: %s", tp.Page, err)
		}
		rows.Close()
	}
}

func TestPostsFromOwner(t *testing.T) {
	posts := NewPosts().FromOwner(dbtest.TEST_USER_ID).Page(1)

	rows, err := TestClient.Query(posts.Text, posts.Args...)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, owner_id int64
		var content, created_at string
		var image_url sql.NullString
		if err := rows.Scan(&id, &content, &image_url, &owner_id, &created_at); err != nil {
			t.Fatal(err)
		}
		if owner_id != dbtest.TEST_USER_ID {
			t.Fatalf("got post %d from owner %d", id, owner_id)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("expected 1 post, got %d", count)
	}
}

func TestCheck(t *testing.T) {
	if err := NewPosts().FromOwner(dbtest.TEST_USER_ID).Page(3).Check(); err != nil {
		t.Fatalf("valid query failed check: %s", err)
	}
	if err := NewPosts().Page(-1).Check(); err == nil {
		t.Fatal("expected builder error from check")
	}

	q := NewPosts()
	q.Args = append(q.Args, 1)
	if err := q.Check(); err == nil {
		t.Fatal("expected arg count mismatch")
	}
}

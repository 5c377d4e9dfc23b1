package dbtest

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianlk522/miniface/db"
)

// Seed users. Every seed user's password is TEST_PASSWORD.
const (
	TEST_PASSWORD = "password123"

	TEST_USER_ID       int64 = 1
	TEST_USER_EMAIL          = "a@x.com"
	TEST_USER_USERNAME       = "alice"

	TEST_BOT_ID    int64 = 2
	TEST_BOT_EMAIL       = "bot@x.com"

	// has an avatar and a post with an image
	TEST_AVATAR_USER_ID    int64 = 3
	TEST_AVATAR_USER_EMAIL       = "bob@x.com"
	TEST_AVATAR_URL              = "/uploads/seedavatar.png"
	TEST_POST_IMAGE_URL          = "/uploads/seedpost.jpg"

	TEST_POST_ID        int64 = 1
	TEST_IMAGE_POST_ID  int64 = 2
	TEST_SEED_POSTS_NUM       = 2
)

const TEST_DSN = "file:miniface_test?mode=memory&cache=shared&_foreign_keys=on"

func SetupTestDB() error {
	log.Print("setting up test DB client")

	TestClient, err := sql.Open("sqlite3", TEST_DSN)
	if err != nil {
		return fmt.Errorf("could not open in-memory DB: %s", err)
	}
	// shared-cache in-memory DBs lock per table; one connection avoids that
	TestClient.SetMaxOpenConns(1)

	if err = db.CreateSchema(TestClient); err != nil {
		return err
	}
	if err = seed(TestClient); err != nil {
		return fmt.Errorf("could not seed test DB: %s", err)
	}

	// verify that in-memory DB has seed data
	var email string
	if err = TestClient.QueryRow("SELECT email FROM users WHERE id = ?;", TEST_USER_ID).Scan(&email); err != nil {
		return fmt.Errorf("in-memory DB did not receive seed data: %s", err)
	}
	log.Printf("verified seed data added to test DB")

	// switch DB client to TestClient
	db.Client = TestClient
	log.Print("switched to test DB client")

	return nil
}

func seed(client *sql.DB) error {
	pw_hash, err := bcrypt.GenerateFromPassword([]byte(TEST_PASSWORD), bcrypt.MinCost)
	if err != nil {
		return err
	}

	if _, err = client.Exec(`DELETE FROM posts; DELETE FROM users; DELETE FROM sqlite_sequence;`); err != nil {
		return err
	}

	_, err = client.Exec(
		`INSERT INTO users (id, email, username, hashed_password, avatar_url, created_at) VALUES
		(?, ?, ?, ?, NULL, '2025-01-01T00:00:00Z'),
		(?, ?, 'n8nbot', ?, NULL, '2025-01-01T00:00:00Z'),
		(?, ?, 'bob', ?, ?, '2025-01-02T00:00:00Z');`,
		TEST_USER_ID, TEST_USER_EMAIL, TEST_USER_USERNAME, pw_hash,
		TEST_BOT_ID, TEST_BOT_EMAIL, pw_hash,
		TEST_AVATAR_USER_ID, TEST_AVATAR_USER_EMAIL, pw_hash, TEST_AVATAR_URL,
	)
	if err != nil {
		return err
	}

	_, err = client.Exec(
		`INSERT INTO posts (id, content, image_url, owner_id, created_at) VALUES
		(?, 'first post', NULL, ?, '2025-01-03T00:00:00Z'),
		(?, 'post with a picture', ?, ?, '2025-01-04T00:00:00Z');`,
		TEST_POST_ID, TEST_USER_ID,
		TEST_IMAGE_POST_ID, TEST_POST_IMAGE_URL, TEST_AVATAR_USER_ID,
	)
	return err
}

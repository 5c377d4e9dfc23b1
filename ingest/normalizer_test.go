package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
)

type fakeUsers map[string]*model.User

func (fu fakeUsers) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return fu[email], nil
}

func newTestNormalizer(t *testing.T, default_email string) (*Normalizer, *DiskBlobStore) {
	t.Helper()

	blobs := NewDiskBlobStore(filepath.Join(t.TempDir(), "uploads"), "uploads")
	return &Normalizer{
		Blobs: blobs,
		Users: fakeUsers{
			"a@x.com":   {ID: 1, Email: "a@x.com"},
			"bot@x.com": {ID: 2, Email: "bot@x.com"},
		},
		Binary:             &BinaryResolver{Roots: []string{t.TempDir()}},
		DefaultAuthorEmail: default_email,
	}, blobs
}

func strPtr(s string) *string { return &s }

func countBlobs(t *testing.T, blobs *DiskBlobStore) int {
	t.Helper()

	entries, err := os.ReadDir(blobs.Dir)
	if os.IsNotExist(err) {
		return 0
	} else if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestNormalizeBase64Image(t *testing.T) {
	n, blobs := newTestNormalizer(t, "")

	draft, err := n.Normalize(context.Background(), &Payload{
		Content:     strPtr("hello"),
		AuthorEmail: "a@x.com",
		Image:       Base64Payload{Raw: "aGVsbG8="},
	})
	if err != nil {
		t.Fatal(err)
	}

	if draft.Content != "hello" || draft.AuthorID != 1 || draft.AuthorEmail != "a@x.com" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if draft.ImageLocator == nil {
		t.Fatal("expected image locator")
	}
	if !strings.HasSuffix(*draft.ImageLocator, ".jpg") {
		t.Fatalf("expected default .jpg extension, got %s", *draft.ImageLocator)
	}

	path, err := blobs.Path(*draft.ImageLocator)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Fatalf("stored %q, want hello", b)
	}
}

func TestNormalizeExtensions(t *testing.T) {
	n, _ := newTestNormalizer(t, "")

	var test_sources = []struct {
		Image ImageSource
		Ext   string
	}{
		{Base64Payload{Raw: "data:image/png;base64,aGVsbG8="}, ".png"},
		{Base64Payload{Raw: "data:image/png;base64,aGVsbG8=", Filename: "x.gif"}, ".gif"},
		{WorkflowBinaryRef{Data: "aGVsbG8=", FileExtension: "webp"}, ".webp"},
		{WorkflowBinaryRef{Data: "aGVsbG8=", MimeType: "image/png"}, ".png"},
		// declared type is not used for multipart extensions
		{MultipartFile{Bytes: []byte("x"), DeclaredContentType: "image/png"}, ".jpg"},
		{MultipartFile{Bytes: []byte("x"), DeclaredContentType: "image/png", Filename: "a.jpeg"}, ".jpeg"},
	}

	for _, ts := range test_sources {
		draft, err := n.Normalize(context.Background(), &Payload{
			Content:     strPtr("x"),
			AuthorEmail: "a@x.com",
			Image:       ts.Image,
		})
		if err != nil {
			t.Fatalf("source %+v: %s", ts.Image, err)
		}
		if draft.ImageLocator == nil || !strings.HasSuffix(*draft.ImageLocator, ts.Ext) {
			t.Fatalf("source %+v: got locator %v, want extension %s", ts.Image, draft.ImageLocator, ts.Ext)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	var test_payloads = []struct {
		Name          string
		DefaultAuthor string
		Payload       *Payload
		Err           error
	}{
		{
			Name:    "no author, no default",
			Payload: &Payload{Content: strPtr("hi")},
			Err:     e.ErrAuthorRequired,
		},
		{
			Name:    "no author, no default, with image",
			Payload: &Payload{Content: strPtr("hi"), Image: Base64Payload{Raw: "aGVsbG8="}},
			Err:     e.ErrAuthorRequired,
		},
		{
			Name:          "unknown default author",
			DefaultAuthor: "ghost@x.com",
			Payload:       &Payload{Content: strPtr("hi"), Image: Base64Payload{Raw: "aGVsbG8="}},
			Err:           e.ErrAuthorNotFound,
		},
		{
			Name:    "unknown author",
			Payload: &Payload{Content: strPtr("hi"), AuthorEmail: "nobody@x.com"},
			Err:     e.ErrAuthorNotFound,
		},
		{
			Name:    "no content",
			Payload: &Payload{AuthorEmail: "a@x.com"},
			Err:     e.ErrMissingField,
		},
		{
			Name:    "empty content",
			Payload: &Payload{Content: strPtr(""), AuthorEmail: "a@x.com"},
			Err:     e.ErrMissingField,
		},
		{
			Name:    "content too long",
			Payload: &Payload{Content: strPtr(strings.Repeat("é", 2001)), AuthorEmail: "a@x.com"},
			Err:     e.ErrFieldTooLong,
		},
		{
			Name: "text upload",
			Payload: &Payload{
				Content:     strPtr("hi"),
				AuthorEmail: "a@x.com",
				Image:       MultipartFile{Bytes: []byte{0x89, 'P', 'N', 'G'}, DeclaredContentType: "text/plain", Filename: "a.png"},
			},
			Err: e.ErrUnsupportedMediaType,
		},
		{
			Name: "empty upload",
			Payload: &Payload{
				Content:     strPtr("hi"),
				AuthorEmail: "a@x.com",
				Image:       MultipartFile{DeclaredContentType: "image/png", Filename: "a.png"},
			},
			Err: e.ErrInvalidEncoding,
		},
		{
			Name: "bad data URL",
			Payload: &Payload{
				Content:     strPtr("hi"),
				AuthorEmail: "a@x.com",
				Image:       Base64Payload{Raw: "data:image/png;base64"},
			},
			Err: e.ErrInvalidEncoding,
		},
		{
			Name: "unreadable binary reference",
			Payload: &Payload{
				Content:     strPtr("hi"),
				AuthorEmail: "a@x.com",
				Image:       WorkflowBinaryRef{ID: "filesystem-v2:missing", FileExtension: "png"},
			},
			Err: e.ErrUnreadableBinaryReference,
		},
		{
			Name: "image errors come before missing content",
			Payload: &Payload{
				Image: MultipartFile{Bytes: []byte("x"), DeclaredContentType: "application/pdf"},
			},
			Err: e.ErrUnsupportedMediaType,
		},
	}

	for _, tp := range test_payloads {
		n, blobs := newTestNormalizer(t, tp.DefaultAuthor)

		draft, err := n.Normalize(context.Background(), tp.Payload)
		if !errors.Is(err, tp.Err) {
			t.Fatalf("%s: expected error %s, got %v (draft %+v)", tp.Name, tp.Err, err, draft)
		}
		if draft != nil {
			t.Fatalf("%s: expected no draft, got %+v", tp.Name, draft)
		}
		if c := countBlobs(t, blobs); c != 0 {
			t.Fatalf("%s: expected no blob written, found %d", tp.Name, c)
		}
	}
}

func TestNormalizeAuthorResolution(t *testing.T) {
	var test_authors = []struct {
		PayloadEmail  string
		DefaultAuthor string
		WantID        int64
	}{
		{"a@x.com", "", 1},
		{"a@x.com", "bot@x.com", 1},
		{"", "bot@x.com", 2},
		{"   ", "bot@x.com", 2},
	}

	for _, ta := range test_authors {
		n, _ := newTestNormalizer(t, ta.DefaultAuthor)

		draft, err := n.Normalize(context.Background(), &Payload{
			Content:     strPtr("x"),
			AuthorEmail: ta.PayloadEmail,
		})
		if err != nil {
			t.Fatalf("author (%q, default %q): %s", ta.PayloadEmail, ta.DefaultAuthor, err)
		}
		if draft.AuthorID != ta.WantID {
			t.Fatalf("author (%q, default %q): got ID %d, want %d", ta.PayloadEmail, ta.DefaultAuthor, draft.AuthorID, ta.WantID)
		}
		if draft.ImageLocator != nil {
			t.Fatalf("expected no image, got %s", *draft.ImageLocator)
		}
	}
}

package ingest

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	e "github.com/julianlk522/miniface/error"
)

const FILESYSTEM_V2_SCHEME = "filesystem-v2:"

// BinaryResolver reads n8n filesystem-v2 binary data. Reads are confined to
// the allow-listed roots (tried in order) with os.Root, so a crafted id
// cannot escape them via ".." or symlinks.
type BinaryResolver struct {
	Roots []string
}

// Working directory first, then the configured n8n binary data dir (if any).
func NewBinaryResolver(binary_data_dir string) *BinaryResolver {
	roots := []string{"."}
	if binary_data_dir != "" {
		roots = append(roots, binary_data_dir)
	}
	return &BinaryResolver{Roots: roots}
}

// DecodeWorkflowBinaryRef prefers inline data and only touches the
// filesystem when there is none.
func DecodeWorkflowBinaryRef(ref WorkflowBinaryRef, resolver *BinaryResolver) (*DecodedImage, error) {
	img := &DecodedImage{
		MimeType: strings.TrimSpace(ref.MimeType),
		Filename: WorkflowFilename(ref),
	}

	if strings.TrimSpace(ref.Data) != "" {
		b, err := DecodeBase64Body(ref.Data)
		if err != nil {
			return nil, err
		}
		img.Bytes = b
		return img, nil
	}

	rel_path, ok := FilesystemV2Path(ref.ID)
	if !ok || resolver == nil {
		return nil, e.ErrNoUsableData
	}

	b, err := resolver.Read(rel_path)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, e.ErrEmptyImage
	}
	img.Bytes = b

	return img, nil
}

// "filesystem-v2:/workflows/1/executions/2/binary_data/abc" ->
// "workflows/1/executions/2/binary_data/abc"
func FilesystemV2Path(id string) (string, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(id), FILESYSTEM_V2_SCHEME)
	if !found {
		return "", false
	}

	rest = strings.TrimLeft(rest, "/\\")
	if rest == "" {
		return "", false
	}

	return filepath.FromSlash(rest), true
}

// Read returns the bytes of the first regular file found at rel_path
// under one of the roots.
func (br *BinaryResolver) Read(rel_path string) ([]byte, error) {
	if !filepath.IsLocal(rel_path) {
		return nil, e.ErrNoUsableData
	}

	for _, dir := range br.Roots {
		b, err := readRegularFileIn(dir, rel_path)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("could not read binary data %s under %s: %s", rel_path, dir, err)
		}
	}

	return nil, e.ErrNoUsableData
}

func readRegularFileIn(dir string, rel_path string) ([]byte, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(rel_path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}

	return io.ReadAll(f)
}

// fileName, else "image.<fileExtension>", else "".
func WorkflowFilename(ref WorkflowBinaryRef) string {
	if name := strings.TrimSpace(ref.FileName); name != "" {
		return name
	}

	ext := strings.TrimLeft(strings.TrimSpace(ref.FileExtension), ".")
	if ext == "" {
		return ""
	}

	return "image." + ext
}

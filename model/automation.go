package model

// JSON body accepted by the automation endpoint. Pointer fields
// distinguish "absent" from "empty".
type AutomationPostRequest struct {
	Content       *string        `json:"content"`
	AuthorEmail   *string        `json:"author_email"`
	ImageBase64   *string        `json:"image_base64"`
	ImageFilename *string        `json:"image_filename"`
	ImageBinary   map[string]any `json:"image_binary"`
}

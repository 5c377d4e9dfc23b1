package model

import "io"

type AvatarUpload struct {
	Bytes    io.ReadSeeker
	Filename string
}

package model

const (
	EMAIL_CHAR_LIMIT    = 255
	USERNAME_CHAR_LIMIT = 80
	// bcrypt ignores anything past 72 bytes
	PASSWORD_BYTE_LIMIT = 72

	POST_CONTENT_CHAR_LIMIT = 2000
	POSTS_PAGE_LIMIT        = 20
)

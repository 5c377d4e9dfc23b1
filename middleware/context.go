package middleware

type (
	CustomKey string
)

const (
	PageKey        CustomKey = "page"
	CurrentUserKey CustomKey = "currentuser"
)

package httpserver

// ErrorPageData holds the data needed to render the auth error page.
type ErrorPageData struct {
	Code     string `json:"error"`
	Title    string `json:"-"`
	Message  string `json:"message"`
	RetryURL string `json:"-"`
}

// LoginPageData holds the data needed to render the sign-in page.
type LoginPageData struct {
	SignInURL string
}

// NotFoundPageData holds the data needed to render the 404 page.
type NotFoundPageData struct {
	Path string
}

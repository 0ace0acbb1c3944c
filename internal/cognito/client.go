package cognito

import "context"

// Client looks up the user behind a Cognito access token.
type Client interface {
	GetUser(ctx context.Context, accessToken string) (UserInfo, error)
}

// UserInfo holds the attributes of a Cognito user that identify them locally.
type UserInfo struct {
	Username string
	Sub      string
	Email    string
	Picture  string
}

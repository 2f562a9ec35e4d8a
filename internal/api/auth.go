package api

import "context"

const (
	registerPath   = "/api/register/"
	loginPath      = "/api/login/"
	refreshPath    = "/api/token/refresh/"
	profilePath    = "/api/me/"
	createUserPath = "/api/users/create/"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair. It does not persist
// the pair; the session store owns that step.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.post(ctx, loginPath, loginRequest{Username: username, Password: password}, &pair)
	return pair, err
}

// Register creates an account through the public endpoint. The caller
// must still log in afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, registerPath, req, nil)
}

// Me fetches the authenticated principal's profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.get(ctx, profilePath, &u)
	return u, err
}

// CreateUser provisions a user through the privileged endpoint. The
// backend enforces that only admins may call it.
func (c *Client) CreateUser(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	err := c.post(ctx, createUserPath, req, &u)
	return u, err
}

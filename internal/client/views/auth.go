package views

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
)

const (
	msgLoginFailed    = "Login failed. Please try again."
	msgRegisterFailed = "Registration failed. Please try again."
)

// LoginForm is the input of the login view.
type LoginForm struct {
	Username string `form:"username" validate:"required,min=3"`
	Password string `form:"password" validate:"required,min=6"`
}

// LoginController signs the user in through the session store.
type LoginController struct {
	auth   Authenticator
	nav    Navigator
	logger logging.Logger
	life   lifecycle

	mu     sync.Mutex
	state  State
	values LoginForm
}

func NewLoginController(auth Authenticator, nav Navigator, logger logging.Logger) *LoginController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoginController{auth: auth, nav: nav, logger: logger.With("view", "login")}
}

func (c *LoginController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *LoginController) SetValues(v LoginForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = v
}

func (c *LoginController) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateForm(c.values)
}

// Submit logs in and navigates to the issue list. The password is cleared
// from the controller whatever the outcome.
func (c *LoginController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return ErrBusy
	}
	values := c.values
	if err := validateForm(values); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Loading()
	c.values.Password = ""
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	_, err := c.auth.Login(rctx, strings.TrimSpace(values.Username), values.Password)
	if c.life.closed() {
		return ErrClosed
	}
	if err != nil {
		c.logger.Warn(ctx, "login failed", "error", err, "username", values.Username)
		c.mu.Lock()
		c.state = Failed(failureMessage(err, msgLoginFailed))
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state = Loaded()
	c.mu.Unlock()
	c.nav.Navigate(PathIssues)
	return nil
}

// GoRegister switches to the registration view.
func (c *LoginController) GoRegister() { c.nav.Navigate(PathRegister) }

func (c *LoginController) Close() { c.life.close() }

// RegisterForm is the input of the registration view. FullName is optional.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=3,max=50"`
	Password string `form:"password" validate:"required,min=6"`
	FullName string `form:"fullName" validate:"max=100"`
}

func (f RegisterForm) Request() models.RegisterRequest {
	req := models.RegisterRequest{
		Email:    strings.TrimSpace(f.Email),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
	}
	if name := strings.TrimSpace(f.FullName); name != "" {
		req.FullName = &name
	}
	return req
}

// RegisterController creates an account and sends the user to the login view.
type RegisterController struct {
	auth   Authenticator
	nav    Navigator
	logger logging.Logger
	life   lifecycle

	mu     sync.Mutex
	state  State
	values RegisterForm
}

func NewRegisterController(auth Authenticator, nav Navigator, logger logging.Logger) *RegisterController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RegisterController{auth: auth, nav: nav, logger: logger.With("view", "register")}
}

func (c *RegisterController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *RegisterController) SetValues(v RegisterForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = v
}

func (c *RegisterController) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateForm(c.values)
}

func (c *RegisterController) Submit(ctx context.Context) (models.User, error) {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return models.User{}, ErrBusy
	}
	values := c.values
	if err := validateForm(values); err != nil {
		c.mu.Unlock()
		return models.User{}, err
	}
	c.state = Loading()
	c.values.Password = ""
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	user, err := c.auth.Register(rctx, values.Request())
	if c.life.closed() {
		return models.User{}, ErrClosed
	}
	if err != nil {
		c.logger.Warn(ctx, "registration failed", "error", err, "username", values.Username)
		c.mu.Lock()
		c.state = Failed(failureMessage(err, msgRegisterFailed))
		c.mu.Unlock()
		return models.User{}, err
	}

	c.mu.Lock()
	c.state = Loaded()
	c.mu.Unlock()
	c.nav.Navigate(PathLogin)
	return user, nil
}

func (c *RegisterController) GoLogin() { c.nav.Navigate(PathLogin) }

func (c *RegisterController) Close() { c.life.close() }

// failureMessage prefers the backend detail and falls back to fallback.
func failureMessage(err error, fallback string) string {
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return fallback
}

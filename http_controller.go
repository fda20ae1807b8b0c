package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

type AuthControllerRoutes struct {
	Register string
	Login    string
	Me       string
}

type AuthController struct {
	Auth   Authenticator
	Logger Logger
	Routes *AuthControllerRoutes
	// ContextKey must match the resolver's ContextKey when overridden.
	ContextKey string
}

type AuthControllerOption func(*AuthController)

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) {
		if l != nil {
			c.Logger = l
		}
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	controller := &AuthController{
		Auth:   auther,
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Me:       "/auth/me",
		},
		ContextKey: DefaultContextKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(controller)
		}
	}

	return controller
}

// RegisterAuthRoutes mounts the auth endpoints. The /auth/me route runs the
// full resolution pipeline plus the active re-check.
func RegisterAuthRoutes(app *fiber.App, controller *AuthController, resolver ResolverConfig) {
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Me, Protected(resolver), RequireActiveUser(resolver.ContextKey), controller.MeGet)
}

// RegisterPayload mirrors the registration request body.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&p.FullName, validation.Required, validation.Length(1, 255)),
	)
}

// LoginPayload mirrors the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// UserResponse is the outward shape of a user record. The digest never
// leaves the service.
type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

func NewUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
	}
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ErrorHandler(c, goerrors.New("invalid request body", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return ErrorHandler(c, goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := a.Auth.RegisterUser(c.UserContext(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		return ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewUserResponse(user))
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ErrorHandler(c, goerrors.New("invalid request body", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return ErrorHandler(c, goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := a.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return ErrorHandler(c, err)
	}

	token, err := a.Auth.IssueToken(user)
	if err != nil {
		return ErrorHandler(c, err)
	}

	return c.JSON(token)
}

func (a *AuthController) MeGet(c *fiber.Ctx) error {
	user, err := CurrentUser(c, a.ContextKey)
	if err != nil {
		return ErrorHandler(c, err)
	}

	return c.JSON(NewUserResponse(user))
}

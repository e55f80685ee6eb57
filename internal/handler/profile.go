package handler

import (
	"github.com/deppfellow/fnguard/internal/middleware"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/deppfellow/fnguard/internal/validation"
	"github.com/labstack/echo/v4"
)

// CreateProfileRequest is the payload of createProfile.
// Taken handles live in the Redis set fnguard:profiles:handles.
type CreateProfileRequest struct {
	Name   string `json:"name" validate:"required,max=64"`
	Email  string `json:"email" validate:"required,email"`
	Age    int    `json:"age" validate:"gte=0,lte=150"`
	Handle string `json:"handle" validate:"required,alphanum,max=32,unique=fnguard:profiles:handles"`
	Locale string `json:"locale" default:"en" validate:"oneof=en de fr es"`
}

// Profile is the result of createProfile.
type Profile struct {
	OwnerID string `json:"owner_id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Age     int    `json:"age"`
	Handle  string `json:"handle"`
	Locale  string `json:"locale"`
}

// ProfileHandler hosts the createProfile function in both invocation styles.
type ProfileHandler struct {
	Handler
	schema *validation.StructSchema[CreateProfileRequest]
}

// NewProfileHandler constructs a ProfileHandler. Handle uniqueness is only
// checked when Redis is configured.
func NewProfileHandler(s *server.Server) *ProfileHandler {
	var members validation.SetMembershipChecker
	if s.Redis != nil {
		members = s.Redis
	}

	return &ProfileHandler{
		Handler: NewHandler(s),
		schema:  validation.MustStructSchema[CreateProfileRequest](validation.UniqueInSet(members)),
	}
}

// CreateCallable is createProfile as a callable function. It requires a caller id.
func (h *ProfileHandler) CreateCallable() echo.HandlerFunc {
	return Callable("createProfile", h.schema, h.createProfile, WithAuth())
}

// CreateHTTP is createProfile as an HTTP-style function.
func (h *ProfileHandler) CreateHTTP() echo.HandlerFunc {
	return OnRequest("createProfile", h.schema, h.createProfile)
}

func (h *ProfileHandler) createProfile(c echo.Context, req *CreateProfileRequest) (*Profile, error) {
	return &Profile{
		OwnerID: middleware.GetCaller(c).UID(),
		Name:    req.Name,
		Email:   req.Email,
		Age:     req.Age,
		Handle:  req.Handle,
		Locale:  req.Locale,
	}, nil
}

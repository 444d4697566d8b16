// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	requestutil "github.com/taibuivan/wildoasis/internal/platform/request"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/platform/upload"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// # Definitions & Constructors

// Handler implements the /users endpoints.
//
// # Scope
//
// Account entry points (signup, verification, login, password recovery),
// self-service profile routes and the admin listing of accounts.
type Handler struct {
	service    *Service
	crud       *resource.Handler[User]
	descriptor *resource.Descriptor[User]
	cookies    *sec.CookieSigner
}

// NewHandler constructs a new [Handler].
func NewHandler(repository *PostgresRepository, service *Service, cookies *sec.CookieSigner) *Handler {
	return &Handler{
		service:    service,
		crud:       resource.NewHandler[User](repository, repository.Descriptor()),
		descriptor: repository.Descriptor(),
		cookies:    cookies,
	}
}

// RegisterRoutes mounts the account endpoints.
//
// # Endpoints
//   - POST   /signup                 : Creates an inactive account (manager, admin).
//   - PATCH  /verify-email/{token}   : Activates the account and signs it in.
//   - POST   /login                  : Signs in with email and password.
//   - GET    /logout                 : Replaces the session cookie.
//   - POST   /forgot-password        : Emails a reset link.
//   - PATCH  /reset-password/{token} : Sets a new password and signs in.
//   - GET    /me                     : Current user.
//   - PATCH  /update-my-password     : Changes the password (staff and above).
//   - PATCH  /update-me              : Changes the name and avatar (staff and above).
//   - GET    /, GET /{id}, DELETE /{id} : Account administration (admin).
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {

	// Public endpoints
	router.Patch("/verify-email/{token}", handler.verifyEmail)
	router.Post("/login", handler.login)
	router.Get("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Patch("/reset-password/{token}", handler.resetPassword)

	// Signed-in endpoints
	router.With(access.Session(sec.ManagersAndAdmins...)).Post("/signup", handler.signup)
	router.With(access.Session(sec.AllRoles...)).Get("/me", handler.me)
	router.With(access.Session(sec.StaffAndAbove...)).Patch("/update-my-password", handler.updateMyPassword)
	router.With(access.Session(sec.StaffAndAbove...)).Patch("/update-me", handler.updateMe)

	// Administration
	router.Group(func(admin chi.Router) {
		admin.Use(access.Session(sec.AdminsOnly...))
		admin.Get("/", handler.crud.List)
		admin.Get("/{id}", handler.crud.Get)
		admin.Delete("/{id}", handler.deactivate)
	})
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	PasswordInput
}

// # Registration

/*
Signup creates a new staff account.

POST /api/v1/users/signup

Response:
  - 201: message only; the account stays inactive until verified
  - 400: validation failure or duplicate email
  - 500: the verification email could not be sent
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input SignupInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.Signup(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusCreated, MessageVerificationSent)
}

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.service.VerifyEmail(request.Context(), requestutil.Param(request, "token"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.sendSession(writer, request, http.StatusOK, session)
}

// # Sessions

/*
Login authenticates the user and sets the session cookie.

POST /api/v1/users/login

Response:
  - 200: {status, data:{user}} with the accessToken cookie
  - 400: email or password missing
  - 401: unknown email or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.sendSession(writer, request, http.StatusOK, session)
}

func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	handler.cookies.Clear(writer, constants.LoggedOutCookieValue)
	respond.JSON(writer, http.StatusOK, respond.Envelope{Status: respond.StatusSuccess})
}

// # Password Recovery

func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, http.StatusOK, MessageResetSent)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input PasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.ResetPassword(request.Context(), requestutil.Param(request, "token"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.sendSession(writer, request, http.StatusOK, session)
}

// # Profile

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldUser: user})
}

func (handler *Handler) updateMyPassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.UpdateMyPassword(request.Context(), userID, input.CurrentPassword, input.PasswordInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.sendSession(writer, request, http.StatusOK, session)
}

/*
UpdateMe changes the profile of the signed-in user.

PATCH /api/v1/users/update-me

Request:
  - Body: JSON or multipart with fullName and an optional "avatar" image

Response:
  - 200: {status, data:{user}}
  - 400: the payload carries password fields
  - 415: the avatar is not an image
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values, avatar, err := handler.decodeProfile(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateMe(request.Context(), userID, values, avatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{FieldUser: user})
}

func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, resource.IDParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Helpers

// sendSession writes the session cookie and the signed-in user.
func (handler *Handler) sendSession(writer http.ResponseWriter, request *http.Request, status int, session *Session) {
	if err := handler.cookies.Write(writer, session.Token, time.Now()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user := *session.User
	user.PasswordChangedAt = nil
	user.Version = nil

	respond.JSON(writer, status, respond.Envelope{
		Status: respond.StatusSuccess,
		Data:   map[string]any{FieldUser: &user},
	})
}

// decodeProfile reads the update-me payload. Password fields are refused
// before the whitelist drops them, and the avatar may only arrive as an
// uploaded file.
func (handler *Handler) decodeProfile(writer http.ResponseWriter, request *http.Request) (resource.Values, *upload.File, error) {
	var (
		values resource.Values
		avatar *upload.File
	)

	if upload.IsMultipart(request) {
		form, err := upload.Parse(writer, request, FieldAvatar, MessageInvalidAvatar)
		if err != nil {
			return nil, nil, err
		}
		if hasPasswordField(form.Values) {
			return nil, nil, apperr.BadRequest(MessagePasswordRoute)
		}
		if values, err = handler.descriptor.DecodeForm(form.Values); err != nil {
			return nil, nil, err
		}
		avatar = form.File
	} else {
		raw := map[string]json.RawMessage{}
		if err := requestutil.DecodeJSON(request, &raw); err != nil {
			return nil, nil, err
		}
		if hasPasswordField(raw) {
			return nil, nil, apperr.BadRequest(MessagePasswordRoute)
		}
		var err error
		if values, err = handler.descriptor.CastRaw(raw); err != nil {
			return nil, nil, err
		}
	}

	delete(values, FieldAvatar)
	return values, avatar, nil
}

func hasPasswordField[V any](payload map[string]V) bool {
	_, password := payload[FieldPassword]
	_, confirm := payload[FieldPasswordConfirm]
	return password || confirm
}

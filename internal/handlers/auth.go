package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tubeshare/apiserver/internal/auth"
	"github.com/tubeshare/apiserver/internal/services"
	"github.com/tubeshare/apiserver/types"
)

// AuthHandler provides sign-up, sign-in and session endpoints.
type AuthHandler struct {
	responder
	users   *services.UserService
	cookies auth.CookiePolicy
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService, cookies auth.CookiePolicy, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{responder: newResponder(logger), users: users, cookies: cookies}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler, protect func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signUp", handler.SignUp)
		r.Post("/signIn", handler.SignIn)
		r.Post("/logout", handler.Logout)
	})
	r.With(protect).Get("/me", handler.Me)
	r.With(protect).Delete("/me", handler.DeleteAccount)
}

// SignUp registers a new account.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.SignUp(r.Context(), services.SignUpInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		ProfilePic:  req.ProfilePic,
		ChannelName: req.ChannelName,
		About:       req.About,
	})
	if err != nil {
		h.serviceError(w, r, err, "user")
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{Message: "User registered successfully", User: user})
}

// SignIn verifies credentials, sets the session cookie and returns the token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}
	user, token, err := h.users.SignIn(r.Context(), login, req.Password)
	if err != nil {
		h.serviceError(w, r, err, "user")
		return
	}

	auth.SetTokenCookie(w, r, token, h.cookies)
	writeJSON(w, http.StatusOK, SignInResponse{Message: "Logged in successfully", Token: token, User: user})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, r, h.cookies)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Message: "Authenticated", User: user})
}

// DeleteAccount removes the current user and clears the session cookie.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteAccount(r.Context(), user); err != nil {
		h.serviceError(w, r, err, "user")
		return
	}

	auth.ClearTokenCookie(w, r, h.cookies)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

type SignUpRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ProfilePic  string `json:"profilePic"`
	ChannelName string `json:"channelName"`
	About       string `json:"about"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

type SignInResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

package users

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/api"
	"github.com/andreysx/storefront/app/auth"
	"github.com/andreysx/storefront/apperr"
	"github.com/andreysx/storefront/models"
)

type UserProvider interface {
	Create(user *models.User) error
	FindActiveByEmail(email string) (*models.User, error)
	UpdateRole(id uint, role string) (*models.User, error)
}

type UserHandler struct {
	repo   UserProvider
	tokens *auth.Tokens
	log    *zap.Logger
}

func NewUserHandler(r UserProvider, tokens *auth.Tokens, log *zap.Logger) *UserHandler {
	return &UserHandler{repo: r, tokens: tokens, log: log}
}

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in *registerInput) validate() error {
	if !strings.Contains(in.Email, "@") {
		return apperr.Validation("invalid email")
	}
	if len(in.Password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

// HandleRegister registers a buyer or seller account.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Role == "" {
		input.Role = models.RoleBuyer
	}
	if input.Role != models.RoleBuyer && input.Role != models.RoleSeller {
		api.Error(w, h.log, apperr.Validation("role must be 'buyer' or 'seller'"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	user, err := h.createUser(input.Email, input.Password, input.Role)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, user)
}

// HandleCreateAdmin lets an existing admin create another admin account.
func (h *UserHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	user, err := h.createUser(input.Email, input.Password, models.RoleAdmin)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues a JWT carrying id and role.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}

	user, err := h.repo.FindActiveByEmail(input.Email)
	if err != nil || !auth.CheckPassword(user.HashedPassword, input.Password) {
		// Absent user and wrong password are indistinguishable on purpose.
		api.JSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect email or password"})
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		api.Error(w, h.log, apperr.Internal(err))
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// HandleUpdateRole lets an admin change a user's role.
func (h *UserHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.Error(w, h.log, apperr.Validation("invalid id"))
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	switch input.Role {
	case models.RoleBuyer, models.RoleSeller, models.RoleAdmin:
	default:
		api.Error(w, h.log, apperr.Validation("role must be 'buyer', 'seller' or 'admin'"))
		return
	}

	user, err := h.repo.UpdateRole(uint(id), input.Role)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) createUser(email, password, role string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		Role:           role,
	}
	if err := h.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

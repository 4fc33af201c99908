package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/events"
	"github.com/banyumasfresh/shop/internal/hash"
	"github.com/banyumasfresh/shop/internal/mail"
	"github.com/banyumasfresh/shop/internal/models"
	"github.com/banyumasfresh/shop/internal/service/token"
)

type UserHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
	Mailer    *mail.Sender
	PublicURL string
}

type userRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Success: false, Message: "The user with the given ID was not found."})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser is the admin-facing variant of Register.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	user, err := h.newUser(req)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Create(user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Success: false, Message: "The user with the given ID was not found."})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Password != "" {
		hashed, err := hash.HashPassword(req.Password)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, err)
		}
		user.PasswordHash = hashed
	}
	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.IsAdmin = req.IsAdmin
	user.Street = req.Street
	user.Apartment = req.Apartment
	user.Zip = req.Zip
	user.City = req.City
	user.Country = req.Country

	if err := h.DB.Save(&user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, Response{Success: false, Message: "User not found"})
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "The user is deleted!"})
}

func (h *UserHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "The user not found")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "password is wrong!")
	}

	t, err := token.SignAccessToken(user.ID, user.IsAdmin, h.JWTSecret)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{"user": user.Email, "token": t})
}

func (h *UserHandler) Register(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	req.IsAdmin = false

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	user, err := h.newUser(req)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Create(user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.sendVerification(c, user)
	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, user)
}

// VerifyEmail consumes the token from the emailed link and flags the account
// as verified.
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	userID, err := token.ParseVerificationToken(c.Param("token"), h.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Success: false, Error: "Invalid verification token"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Success: false, Message: "User not found"})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	user.IsVerified = true
	if err := h.DB.Save(&user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.String(http.StatusOK, "Email verification successful")
}

func (h *UserHandler) SendVerificationEmail(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User not found")
	}

	if err := h.deliverVerification(c.Request().Context(), &user); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Verification email sent"})
}

func (h *UserHandler) GetUserCount(c echo.Context) error {
	var count int64
	if err := h.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"userCount": count})
}

func (h *UserHandler) newUser(req userRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
	}, nil
}

// sendVerification delivers the verification mail without failing the
// request.
func (h *UserHandler) sendVerification(c echo.Context, user *models.User) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	if err := h.deliverVerification(ctx, user); err != nil {
		c.Logger().Errorf("verification email error: %v", err)
	}
}

func (h *UserHandler) deliverVerification(ctx context.Context, user *models.User) error {
	if h.Mailer == nil {
		return errors.New("mail sender is not configured")
	}
	t, err := token.SignVerificationToken(user.ID, h.JWTSecret)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/api/v1/users/verify-email/%s", h.PublicURL, t)
	return h.Mailer.SendVerificationEmail(ctx, user.Email, link)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/middleware"
	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
	"hk-blood-donation/internal/utils"
)

type AuthController struct {
	db       *gorm.DB
	verifier *services.VerificationService
	secret   string
	log      *zap.Logger
}

func NewAuthController(db *gorm.DB, verifier *services.VerificationService, secret string, log *zap.Logger) *AuthController {
	return &AuthController{db: db, verifier: verifier, secret: secret, log: log}
}

// SendOTP issues a signup code, refusing emails that already belong to
// an account.
func (a *AuthController) SendOTP(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" {
		badRequest(c, "Email is required")
		return
	}

	var count int64
	if err := a.db.Model(&models.User{}).Where("email = ?", p.Email).Count(&count).Error; err != nil {
		a.log.Error("failed to check existing user", zap.Error(err))
		serverError(c, "Failed to send OTP")
		return
	}
	if count > 0 {
		badRequest(c, "User with this email already exists")
		return
	}

	if err := a.verifier.SendCode(c.Request.Context(), p.Email); err != nil {
		serverError(c, "Failed to send OTP")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("OTP sent to %s. Please check your inbox.", p.Email),
	})
}

func (a *AuthController) VerifyOTP(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" || p.OTP == "" {
		badRequest(c, "Email and OTP are required")
		return
	}

	if err := a.verifier.VerifyCode(c.Request.Context(), p.Email, p.OTP); err != nil {
		if errors.Is(err, services.ErrCodeInvalid) {
			badRequest(c, "Invalid or expired OTP")
			return
		}
		serverError(c, "Failed to verify OTP")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP verified successfully!",
	})
}

type signupPayload struct {
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	Aadhar          string `json:"aadhar"`
	BloodType       string `json:"bloodType"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignUp completes registration for an email that already passed OTP
// verification.
func (a *AuthController) SignUp(c *gin.Context) {
	var p signupPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "All fields are required")
		return
	}
	if p.Email == "" || p.FullName == "" || p.Aadhar == "" || p.BloodType == "" ||
		p.Phone == "" || p.Address == "" || p.Password == "" || p.ConfirmPassword == "" {
		badRequest(c, "All fields are required")
		return
	}
	if p.Password != p.ConfirmPassword {
		badRequest(c, "Passwords do not match")
		return
	}

	verified, err := a.verifier.IsVerified(c.Request.Context(), p.Email)
	if err != nil {
		serverError(c, "Failed to complete registration")
		return
	}
	if !verified {
		badRequest(c, "Email not verified. Please verify your email first.")
		return
	}

	var count int64
	if err := a.db.Model(&models.User{}).
		Where("email = ? OR aadhar = ? OR phone = ?", p.Email, p.Aadhar, p.Phone).
		Count(&count).Error; err != nil {
		a.log.Error("failed to check duplicate user", zap.Error(err))
		serverError(c, "Failed to complete registration")
		return
	}
	if count > 0 {
		badRequest(c, "User with this email, Aadhar, or phone already exists")
		return
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		a.log.Error("failed to hash password", zap.Error(err))
		serverError(c, "Failed to complete registration")
		return
	}
	user := models.User{
		FullName:     p.FullName,
		Email:        p.Email,
		Aadhar:       p.Aadhar,
		BloodType:    p.BloodType,
		Phone:        p.Phone,
		Address:      p.Address,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := a.db.Create(&user).Error; err != nil {
		// Unique indexes catch the race between the duplicate check
		// and the insert.
		a.log.Error("failed to create user", zap.Error(err))
		badRequest(c, "User with this email, Aadhar, or phone already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration completed successfully!",
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
		},
	})
}

// Login checks credentials and issues the 24h session token. Missing
// user and wrong password are indistinguishable to the caller.
func (a *AuthController) Login(c *gin.Context) {
	var p struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" || p.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}

	var user models.User
	err := a.db.Where("email = ? AND is_active = ?", p.Email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		unauthorized(c, "Invalid email or password")
		return
	}
	if err != nil {
		a.log.Error("failed to look up user", zap.Error(err))
		serverError(c, "Login failed")
		return
	}
	if err := utils.CheckPasswordHash(user.PasswordHash, p.Password); err != nil {
		unauthorized(c, "Invalid email or password")
		return
	}

	token, tokenType, err := utils.CreateAccessToken([]byte(a.secret), user.ID, user.Email, user.IsAdmin)
	if err != nil {
		a.log.Error("failed to sign token", zap.Error(err))
		serverError(c, "Login failed")
		return
	}

	resp := gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
	}
	resp[tokenType] = token
	c.JSON(http.StatusOK, resp)
}

func (a *AuthController) Profile(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// QRCode returns the payload the frontend renders as a donor QR code.
func (a *AuthController) QRCode(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"qrData": gin.H{
			"id":        user.ID,
			"name":      user.FullName,
			"email":     user.Email,
			"bloodType": user.BloodType,
			"phone":     user.Phone,
			"type":      "donor",
			"verified":  true,
		},
	})
}

func (a *AuthController) currentUser(c *gin.Context) (*models.User, bool) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		unauthorized(c, "Access token required")
		return nil, false
	}
	var user models.User
	err := a.db.Where("id = ? AND is_active = ?", claims.ID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return nil, false
	}
	if err != nil {
		a.log.Error("failed to fetch user", zap.Error(err))
		serverError(c, "Failed to fetch profile")
		return nil, false
	}
	return &user, true
}

package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/middleware"
	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
	"hk-blood-donation/internal/utils"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB, *stubMailer) {
	t.Helper()
	conn := newTestDB(t)
	mailer := &stubMailer{}
	verifier := services.NewVerificationService(conn, mailer, zap.NewNop())
	auth := NewAuthController(conn, verifier, testSecret, zap.NewNop())

	r := gin.New()
	g := r.Group("/api/auth")
	g.POST("/send-otp", auth.SendOTP)
	g.POST("/verify-otp", auth.VerifyOTP)
	g.POST("/signup", auth.SignUp)
	g.POST("/login", auth.Login)
	g.GET("/profile", middleware.JWTMiddleware(testSecret), auth.Profile)
	g.GET("/qr-code", middleware.JWTMiddleware(testSecret), auth.QRCode)
	return r, conn, mailer
}

func signupBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":           email,
		"fullName":        "Asha Rao",
		"aadhar":          "123412341234",
		"bloodType":       "O+",
		"phone":           "9876543210",
		"address":         "12 MG Road, Bengaluru",
		"password":        "secret123",
		"confirmPassword": "secret123",
	}
}

func TestSignupAndLoginFlow(t *testing.T) {
	r, _, mailer := newAuthRouter(t)
	email := "a@x.com"

	w := doJSON(t, r, http.MethodPost, "/api/auth/send-otp", map[string]string{"email": email}, "")
	require.Equal(t, http.StatusOK, w.Code)
	code := mailer.lastCode(t)
	require.Len(t, code, 6)

	w = doJSON(t, r, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": email, "otp": code}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody(email), "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	user := resp["user"].(map[string]interface{})
	assert.NotZero(t, user["id"])
	assert.Equal(t, email, user["email"])

	// same email, aadhar and phone again
	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody(email), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email, Aadhar, or phone already exists", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	token, ok := resp["token"].(string)
	require.True(t, ok, "regular users get the token key")
	_, hasAdmin := resp["admintoken"]
	assert.False(t, hasAdmin)

	claims, err := utils.ParseAccessToken([]byte(testSecret), token)
	require.NoError(t, err)
	assert.Equal(t, email, claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, utils.TokenTypeUser, claims.Type)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	r, conn, _ := newAuthRouter(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, conn.Create(&models.User{
		FullName: "B", Email: "b@x.com", Aadhar: "1", BloodType: "A+",
		Phone: "1111111111", PasswordHash: hash, IsActive: true,
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "b@x.com", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPass := decode(t, w)["error"]

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@x.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPass, decode(t, w)["error"])
	assert.Equal(t, "Invalid email or password", wrongPass)
}

func TestAdminLoginUsesAdminTokenKey(t *testing.T) {
	r, conn, _ := newAuthRouter(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, conn.Create(&models.User{
		FullName: "Admin", Email: "admin@x.com", Aadhar: "2", BloodType: "B+",
		Phone: "2222222222", PasswordHash: hash, IsAdmin: true, IsActive: true,
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@x.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	token, ok := resp["admintoken"].(string)
	require.True(t, ok, "admins get the admintoken key")

	claims, err := utils.ParseAccessToken([]byte(testSecret), token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, utils.TokenTypeAdmin, claims.Type)
}

func TestSignupRequiresVerifiedEmail(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody("fresh@x.com"), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email not verified. Please verify your email first.", decode(t, w)["error"])
}

func TestSignupPasswordMismatch(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	body := signupBody("c@x.com")
	body["confirmPassword"] = "different"
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", decode(t, w)["error"])
}

func TestSignupMissingFields(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	body := signupBody("d@x.com")
	delete(body, "aadhar")
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decode(t, w)["error"])
}

func TestSendOTPRejectsExistingUser(t *testing.T) {
	r, conn, _ := newAuthRouter(t)
	require.NoError(t, conn.Create(&models.User{
		FullName: "E", Email: "e@x.com", Aadhar: "3", BloodType: "O-",
		Phone: "3333333333", PasswordHash: "h", IsActive: true,
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/send-otp", map[string]string{"email": "e@x.com"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email already exists", decode(t, w)["error"])
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	r, conn, _ := newAuthRouter(t)
	require.NoError(t, conn.Create(&models.EmailVerification{
		Email:     "late@x.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "late@x.com", "otp": "123456"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired OTP", decode(t, w)["error"])
}

func TestProfileAndQRCode(t *testing.T) {
	r, conn, _ := newAuthRouter(t)
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{
		FullName: "Asha Rao", Email: "p@x.com", Aadhar: "4", BloodType: "AB+",
		Phone: "4444444444", PasswordHash: hash, IsActive: true,
	}
	require.NoError(t, conn.Create(&user).Error)
	token, _, err := utils.CreateAccessToken([]byte(testSecret), user.ID, user.Email, false)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, "not-a-token")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "p@x.com", got["email"])
	_, leaked := got["password_hash"]
	assert.False(t, leaked)

	w = doJSON(t, r, http.MethodGet, "/api/auth/qr-code", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	qr := decode(t, w)["qrData"].(map[string]interface{})
	assert.Equal(t, "AB+", qr["bloodType"])
	assert.Equal(t, "donor", qr["type"])
	assert.Equal(t, true, qr["verified"])
}

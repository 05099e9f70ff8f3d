package auth

import (
	"fmt"
	"time"

	"election-management/constants"
	"election-management/logger"
	accountModel "election-management/models/account"
	"election-management/services/mail"
	"election-management/services/otp"
	"election-management/services/token"
	"election-management/types"
	authTypes "election-management/types/auth"
	"election-management/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// AuthController handles signup, OTP verification and login.
type AuthController struct {
	DB     *gorm.DB
	Mailer mail.Dispatcher
	Logger *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, mailer mail.Dispatcher, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{DB: db, Mailer: mailer, Logger: asyncLogger}
}

// Signup creates an unverified account and mails it a 6-digit OTP. A repeat
// signup against an unverified email overwrites the pending account instead
// of creating a second row; a verified email is a hard conflict.
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req authTypes.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse signup request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	role, err := accountModel.ParseRole(req.Role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var existing accountModel.Account
	findErr := ac.DB.Where("email = ?", req.Email).First(&existing).Error
	if findErr == nil && existing.IsVerified {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User already exists",
		})
	}
	if findErr != nil && findErr != gorm.ErrRecordNotFound {
		logger.Error("Database error while checking existing account", findErr)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	code, err := otp.Generate()
	if err != nil {
		logger.Error("Failed to generate OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}
	expiresAt := otp.Expiry(time.Now())

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	acct := &existing
	if findErr == nil {
		// Unverified account signed up again: refresh credentials and OTP.
		acct.Username = req.Username
		acct.Password = hashed
		acct.Role = role
		acct.OTPCode = &code
		acct.OTPExpiresAt = &expiresAt
		err = ac.DB.Save(acct).Error
	} else {
		acct = &accountModel.Account{
			Uuid:         uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			Password:     hashed,
			Role:         role,
			OTPCode:      &code,
			OTPExpiresAt: &expiresAt,
		}
		err = ac.DB.Create(acct).Error
	}
	if err != nil {
		logger.Error("Failed to persist account", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	html := fmt.Sprintf("<p>Your OTP is: <strong>%s</strong></p><p>It will expire in 10 minutes.</p>", code)
	if err := ac.Mailer.Send(acct.Email, "Your OTP for account verification", html); err != nil {
		logger.Error("Failed to send OTP email", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to send OTP email. Please try again later.",
		})
	}

	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Signup OTP dispatched to " + acct.Email)

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Signup successful. Please check your email for the OTP to verify your account.",
		Data:    authTypes.SignupResponse{Email: acct.Email},
	})
}

// VerifyOTP promotes an account to verified when the supplied code matches
// the pending, unexpired OTP, and issues the first session token.
func (ac *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req authTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse OTP verification body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var acct accountModel.Account
	if err := ac.DB.Where("email = ?", req.Email).First(&acct).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid OTP or OTP has expired",
		})
	}
	if !acct.OTPValid(req.OTP, time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid OTP or OTP has expired",
		})
	}

	acct.MarkVerified()
	if err := ac.DB.Save(&acct).Error; err != nil {
		logger.Error("Failed to persist verification", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	signed, err := token.Sign(acct.ID, constants.TokenTTL)
	if err != nil {
		logger.Error("Failed to sign session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Account verified: " + acct.Email)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Account verified successfully.",
		Token:   signed,
		Data:    profileOf(&acct),
	})
}

// Login authenticates a verified account and issues a session token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse login body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var acct accountModel.Account
	if err := ac.DB.Where("email = ?", req.Email).First(&acct).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if !acct.IsVerified {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Please verify your account first. Check your email for the OTP.",
		})
	}
	if !utils.CheckPassword(acct.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	signed, err := token.Sign(acct.ID, constants.TokenTTL)
	if err != nil {
		logger.Error("Failed to sign session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Login successful",
		Token:   signed,
		Data:    profileOf(&acct),
	})
}

// Logout is stateless; tokens carry their own expiry and there is no
// server-side revocation list.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out successfully",
	})
}

func profileOf(acct *accountModel.Account) authTypes.ProfileResponse {
	return authTypes.ProfileResponse{
		ID:       acct.ID,
		Uuid:     acct.Uuid,
		Username: acct.Username,
		Email:    acct.Email,
		Role:     string(acct.Role),
		Avatar:   acct.AvatarURL(),
	}
}

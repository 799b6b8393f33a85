package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/CineVault/models"
	"github.com/CineVault/services"
	"github.com/CineVault/stores"
)

// AccountController exposes the account and password-recovery flows
// over JSON. Request bodies keep the field names of the mobile client
// (nombre/usuario/contrasena/correo/codigo). Business-rule failures
// answer 200 with success:false; only binding errors get 400 and only
// infrastructure errors get 500.
type AccountController struct {
	accounts *services.AccountService
	devices  *stores.DeviceTokenStore
}

func NewAccountController(accounts *services.AccountService, devices *stores.DeviceTokenStore) *AccountController {
	return &AccountController{accounts: accounts, devices: devices}
}

// Signup registers a new account.
func (ctl *AccountController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nombre, usuario, contrasena y correo son obligatorios", "details": err.Error()})
		return
	}

	acct, err := ctl.accounts.Register(req.DisplayName, req.Username, req.Password, req.Email)
	if errors.Is(err, services.ErrDuplicateIdentity) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "El usuario o correo ya está registrado.",
		})
		return
	}
	if err != nil {
		log.Printf("signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la cuenta"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    acct,
	})
}

// Login checks credentials and hands back a session token. A wrong
// username and a wrong password share one message.
func (ctl *AccountController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario y contrasena son obligatorios", "details": err.Error()})
		return
	}

	acct, err := ctl.accounts.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Usuario o contraseña incorrectos.",
		})
		return
	}
	if err != nil {
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar sesión"})
		return
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  acct.Account_ID,
		"exp": time.Now().Add(time.Hour * 24).Unix(),
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar sesión"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    acct,
	})
}

// ForgotPassword starts the recovery flow. The response is the same
// whether or not the address is registered.
func (ctl *AccountController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requiere un correo válido", "details": err.Error()})
		return
	}

	if err := ctl.accounts.RequestPasswordReset(req.Email); err != nil {
		log.Printf("password reset request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la solicitud"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Si el correo está registrado, se ha enviado un código de verificación.",
	})
}

// VerifyResetCode answers whether the code is still good, without
// spending it. The client uses this before showing the new-password
// screen.
func (ctl *AccountController) VerifyResetCode(c *gin.Context) {
	var req models.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren correo y código de 6 dígitos", "details": err.Error()})
		return
	}

	valid, err := ctl.accounts.VerifyResetCode(req.Email, req.Code)
	if err != nil {
		log.Printf("verify reset code failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo verificar el código"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valido":  valid,
	})
}

// ResetPassword spends the code and sets the new password.
func (ctl *AccountController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren correo, código y nueva contraseña", "details": err.Error()})
		return
	}

	acct, err := ctl.accounts.CompletePasswordReset(req.Email, req.Code, req.NewPassword)
	if errors.Is(err, services.ErrInvalidOrExpiredCode) || errors.Is(err, services.ErrAccountNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Código inválido o expirado. Solicita uno nuevo.",
		})
		return
	}
	if err != nil {
		log.Printf("password reset failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo restablecer la contraseña"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contraseña actualizada. Ya puedes iniciar sesión.",
		"user":    acct,
	})
}

// GetProfile returns the logged-in account.
func (ctl *AccountController) GetProfile(c *gin.Context) {
	acct := c.MustGet("currentAccount").(models.Account)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    acct,
	})
}

// ChangePassword rotates the secret of the logged-in account.
func (ctl *AccountController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren la contraseña actual y la nueva", "details": err.Error()})
		return
	}

	acct := c.MustGet("currentAccount").(models.Account)

	updated, err := ctl.accounts.ChangePassword(acct.Account_ID, req.OldPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "La contraseña actual no es correcta.",
		})
		return
	}
	if err != nil {
		log.Printf("change password failed for account %d: %v", acct.Account_ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cambiar la contraseña"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    updated,
	})
}

// StoreDeviceToken registers the device's FCM token for security
// alerts.
func (ctl *AccountController) StoreDeviceToken(c *gin.Context) {
	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren pushToken y platform", "details": err.Error()})
		return
	}

	acct := c.MustGet("currentAccount").(models.Account)

	if err := ctl.devices.Upsert(acct.Account_ID, req.Platform, req.PushToken); err != nil {
		log.Printf("store device token for account %d: %v", acct.Account_ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar el dispositivo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

package models

import "time"

type Account struct {
	Account_ID   int       `json:"accountId" db:"account_id" goqu:"skipinsert"`
	Display_Name string    `json:"nombre" db:"display_name"`
	Username     string    `json:"usuario" db:"username"`
	Password     string    `json:"-" db:"password_hash"`
	Email        string    `json:"correo" db:"email"`
	Created_At   time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
	Updated_At   time.Time `json:"updatedAt" db:"updated_at" goqu:"skipinsert"`
}

// Request bodies keep the field names the mobile client already sends.

type SignupRequest struct {
	DisplayName string `json:"nombre" binding:"required"`
	Username    string `json:"usuario" binding:"required"`
	Password    string `json:"contrasena" binding:"required,min=6"`
	Email       string `json:"correo" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"usuario" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"correo" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"correo" binding:"required,email"`
	Code  string `json:"codigo" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"correo" binding:"required,email"`
	Code        string `json:"codigo" binding:"required,len=6"`
	NewPassword string `json:"nuevaContrasena" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

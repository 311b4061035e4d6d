// Package account validates the account forms before anything is sent to the
// remote API.
package account

import (
	"net/http"
	"strings"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	OTP      string `form:"otp" validate:"omitempty,totp"`
}

type RegisterForm struct {
	Email           string `form:"email" validate:"required,email"`
	FirstName       string `form:"first_name" validate:"max=150"`
	LastName        string `form:"last_name" validate:"max=150"`
	Password        string `form:"password" validate:"required,strongpassword"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type ForgotPasswordForm struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetPasswordForm comes from the link in the password reset email.
type ResetPasswordForm struct {
	UID             string `form:"uid" validate:"required"`
	Token           string `form:"token" validate:"required"`
	Password        string `form:"password" validate:"required,strongpassword"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type ChangePasswordForm struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required,strongpassword,nefield=CurrentPassword"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type RecoveryForm struct {
	Email        string `form:"email" validate:"required,email"`
	RecoveryCode string `form:"recovery_code" validate:"required,max=64"`
}

type TOTPForm struct {
	Code string `form:"code" validate:"required,totp"`
}

type ProfileForm struct {
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
}

// Form values are trimmed, passwords are taken as typed.

func LoginFormFrom(r *http.Request) LoginForm {
	return LoginForm{
		Email:    value(r, "email"),
		Password: r.FormValue("password"),
		OTP:      value(r, "otp"),
	}
}

func RegisterFormFrom(r *http.Request) RegisterForm {
	return RegisterForm{
		Email:           value(r, "email"),
		FirstName:       value(r, "first_name"),
		LastName:        value(r, "last_name"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}

func ForgotPasswordFormFrom(r *http.Request) ForgotPasswordForm {
	return ForgotPasswordForm{Email: value(r, "email")}
}

func ResetPasswordFormFrom(r *http.Request) ResetPasswordForm {
	return ResetPasswordForm{
		UID:             value(r, "uid"),
		Token:           value(r, "token"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}

func ChangePasswordFormFrom(r *http.Request) ChangePasswordForm {
	return ChangePasswordForm{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}

func RecoveryFormFrom(r *http.Request) RecoveryForm {
	return RecoveryForm{
		Email:        value(r, "email"),
		RecoveryCode: value(r, "recovery_code"),
	}
}

func TOTPFormFrom(r *http.Request) TOTPForm {
	return TOTPForm{Code: strings.ReplaceAll(value(r, "code"), " ", "")}
}

func ProfileFormFrom(r *http.Request) ProfileForm {
	return ProfileForm{
		Email:     value(r, "email"),
		FirstName: value(r, "first_name"),
		LastName:  value(r, "last_name"),
	}
}

func value(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

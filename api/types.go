package api

import "time"

// TokenPair is what the token endpoints return on a successful login.
type TokenPair struct {
	// Access is the short lived JWT sent as "Authorization: Bearer <access>"
	Access string `json:"access"`

	// Refresh is exchanged at /api/token/refresh for a new access token
	Refresh string `json:"refresh"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"` // Only when the account has TOTP enabled
}

type User struct {
	ID          any        `json:"id,omitempty"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	TOTPEnabled bool       `json:"totp_enabled"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// DisplayName is the user's full name, or their email when no name is set.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UpdateUserRequest only sends the fields that are set.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// TOTPSetup is the secret to enrol in an authenticator app.
type TOTPSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// RecoveryCodes are issued once, when TOTP is verified.
type RecoveryCodes struct {
	Codes []string `json:"recovery_codes"`
}

type RecoveryCodeRequest struct {
	Email        string `json:"email"`
	RecoveryCode string `json:"recovery_code"`
}

type ForgottenPasswordRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest carries the uid and token from the reset email link.
type PasswordResetRequest struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteRequest struct {
	Start   Coordinate `json:"start"`
	End     Coordinate `json:"end"`
	Traffic bool       `json:"traffic"`
}

// Route is a computed route between two points.
type Route struct {
	Distance     float64          `json:"distance"` // metres
	Duration     float64          `json:"duration"` // seconds
	Geometry     [][2]float64     `json:"geometry"` // [lon, lat] pairs
	Instructions []Instruction    `json:"instructions,omitempty"`
	Traffic      []TrafficSegment `json:"traffic,omitempty"`
}

type Instruction struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// TrafficSegment is an overlay section of the route geometry.
type TrafficSegment struct {
	Geometry   [][2]float64 `json:"geometry"`
	Congestion string       `json:"congestion"` // low, moderate, heavy, severe
	SpeedKPH   float64      `json:"speed_kph,omitempty"`
}

// Location is a geocoding result.
type Location struct {
	Name string  `json:"display_name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

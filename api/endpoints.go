package api

// Remote API endpoints, relative to the API base URL.
const (
	EndpointToken             = "/api/token"
	EndpointTokenRefresh      = "/api/token/refresh"
	EndpointUser              = "/api/user"
	EndpointChangePassword    = "/api/change-password"
	EndpointRoute             = "/api/route"
	EndpointLocation          = "/api/location"
	EndpointLogout            = "/api/logout"
	EndpointSetupTOTP         = "/api/setup-totp"
	EndpointVerifyTOTP        = "/api/verify-totp"
	EndpointDisableTOTP       = "/api/disable-totp"
	EndpointUseRecoveryCode   = "/api/use-recovery-code"
	EndpointForgottenPassword = "/api/forgotten-password"
	EndpointPasswordReset     = "/api/password-reset"
)

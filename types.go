package authcore

import (
	"context"
	"time"
)

// UserRecord is the credential record persisted by the [CredentialStore].
// Emails are stored lowercased; TwoFactorSecret is set only while 2FA is
// enabled, TwoFactorTempSecret only during the pending-confirmation window,
// and the reset-token fields are both zero or both set.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string

	TwoFactorEnabled    bool
	TwoFactorSecret     string
	TwoFactorTempSecret string

	ResetTokenHash string
	ResetExpiresAt time.Time

	MustChangePassword bool
	MustSetupTwoFactor bool

	CreatedAt time.Time
}

// UserUpdate is a partial update applied by [CredentialStore.Update]. A nil
// field means "leave unchanged"; a non-nil pointer to the zero value clears
// the field. Helpers [Set] and [Clear] build the pointers.
type UserUpdate struct {
	Email        *string
	PasswordHash *string

	TwoFactorEnabled    *bool
	TwoFactorSecret     *string
	TwoFactorTempSecret *string

	ResetTokenHash *string
	ResetExpiresAt *time.Time

	MustChangePassword *bool
	MustSetupTwoFactor *bool
}

// Set returns a pointer to v for use in [UserUpdate] fields.
func Set[T any](v T) *T { return &v }

// Clear returns a pointer to the zero value of T, clearing the field.
func Clear[T any]() *T {
	var zero T
	return &zero
}

// CredentialStore is the persistence collaborator. Implementations must
// enforce case-insensitive email uniqueness, apply [UserUpdate] atomically
// per record, and never return soft-deleted records from any lookup.
// Lookups that find nothing return (nil, nil); errors are reserved for
// backend failures.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindByID(ctx context.Context, id string) (*UserRecord, error)
	// FindByResetTokenHash matches the stored reset-token hash. The engine
	// re-checks expiry; stores may additionally filter expired records.
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*UserRecord, error)
	Create(ctx context.Context, record UserRecord) (*UserRecord, error)
	Update(ctx context.Context, id string, update UserUpdate) (*UserRecord, error)
}

// NotificationDispatcher delivers account email out-of-band. Calls are
// fire-and-forget: they must not block on delivery, and delivery failures
// are the dispatcher's problem (bounded retries with backoff), never the
// auth operation's.
type NotificationDispatcher interface {
	SendPasswordReset(email, rawToken string)
	SendWelcomeEmail(email, tempPassword string)
}

// TokenPair is a full session: a short-lived access token and a single-use
// refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by [Engine.Login]. Either Tokens is populated, or
// RequiresTwoFactor is true and TempToken carries the step-up token that is
// accepted only by [Engine.AuthenticateTwoFactor].
type LoginResult struct {
	RequiresTwoFactor bool
	TempToken         string
	Tokens            *TokenPair
}

// RegisterResult is the redacted view returned by [Engine.Register] and
// [Engine.ProvisionUser].
type RegisterResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile is the redacted credential view returned by [Engine.Profile].
// It never carries hashes or shared secrets.
type Profile struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	TwoFactorEnabled   bool      `json:"isTwoFactorEnabled"`
	MustSetupTwoFactor bool      `json:"mustSetupTwoFactor"`
	MustChangePassword bool      `json:"mustChangePassword"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TwoFactorSetup is returned by [Engine.SetupTwoFactor]: the base32 shared
// secret and the otpauth:// URI renderable as an enrollment QR code.
type TwoFactorSetup struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"qrCodeUrl"`
}

// Identity is the verified subject attached to a request by the middleware
// guards after token validation.
type Identity struct {
	UserID            string
	Email             string
	TwoFactorVerified bool
}

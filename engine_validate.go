package authcore

// Validate verifies a full access token and returns the identity it
// carries. A step-up token (tfv=false) is rejected with [ErrAccessInvalid]:
// it authorizes exactly one thing, completing the second factor, and
// nothing else.
func (e *Engine) Validate(accessToken string) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrAccessInvalid
	}
	if !claims.TwoFactorVerified {
		return nil, ErrAccessInvalid
	}

	return &Identity{
		UserID:            claims.Subject,
		Email:             claims.Email,
		TwoFactorVerified: true,
	}, nil
}

// ValidateStepUp verifies a step-up token issued by Login for accounts with
// 2FA enabled. It accepts only tokens whose second factor is still pending;
// a full access token is rejected so the two token kinds stay
// non-interchangeable.
func (e *Engine) ValidateStepUp(tempToken string) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseAccess(tempToken)
	if err != nil {
		return nil, ErrStepUpInvalid
	}
	if claims.TwoFactorVerified {
		return nil, ErrStepUpInvalid
	}

	return &Identity{
		UserID:            claims.Subject,
		Email:             claims.Email,
		TwoFactorVerified: false,
	}, nil
}

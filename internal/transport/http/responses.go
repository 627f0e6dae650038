package httptransport

import (
	"time"

	"bizfilings/internal/authz"
	"bizfilings/internal/filing"
	"bizfilings/internal/filing/eligibility"
	"bizfilings/internal/filing/service"
	"bizfilings/internal/session"
)

type authorizationsResponse struct {
	SessionKey  string            `json:"session_key,omitempty"`
	Subject     string            `json:"subject"`
	Username    string            `json:"username,omitempty"`
	Roles       []authz.Role      `json:"roles"`
	AccountID   string            `json:"account_id,omitempty"`
	AccountType authz.AccountType `json:"account_type"`
	Actions     authz.ActionSet   `json:"actions"`
	// Grants lists, per role, the actions it contributes to Actions.
	Grants    map[authz.Role]authz.ActionSet `json:"grants"`
	ExpiresAt time.Time                      `json:"expires_at,omitzero"`
}

func toAuthorizations(sc *session.Context) authorizationsResponse {
	return authorizationsResponse{
		SessionKey:  sc.Key,
		Subject:     sc.Claims.Subject,
		Username:    sc.Claims.Username,
		Roles:       sc.Claims.Roles,
		AccountID:   sc.AccountID,
		AccountType: sc.AccountType,
		Actions:     sc.Actions,
		Grants:      authz.GrantsByRole(sc.Claims.Roles, sc.AccountType),
		ExpiresAt:   sc.Claims.ExpiresAt,
	}
}

type filingOptionsResponse struct {
	Identifier  string           `json:"identifier"`
	LegalType   filing.LegalType `json:"legal_type"`
	State       filing.State     `json:"state"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
	Options     []filing.Option  `json:"filing_options"`
}

func toFilingOptions(result *service.OptionsResult) filingOptionsResponse {
	return filingOptionsResponse{
		Identifier:  result.Business.Identifier,
		LegalType:   result.Business.LegalType,
		State:       result.Business.State,
		EvaluatedAt: result.EvaluatedAt,
		Options:     result.Options,
	}
}

type agmExtensionResponse struct {
	Identifier string `json:"identifier"`
	eligibility.AgmExtensionResult
}

type restorationResponse struct {
	Identifier         string                               `json:"identifier"`
	Restoration        eligibility.RestorationResult        `json:"restoration"`
	LimitedRestoration eligibility.LimitedRestorationResult `json:"limited_restoration"`
}

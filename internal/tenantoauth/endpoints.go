package tenantoauth

// init registers the OAuth2 endpoints for every upstream fitness provider
// named in the tool catalog. RedirectURI and client credentials are
// per-tenant and supplied via StoreCredentials; only the provider-fixed
// endpoint URLs and default scopes live here.
func init() {
	RegisterEndpoint("strava", Endpoint{
		AuthURL:       "https://www.strava.com/oauth/authorize",
		TokenURL:      "https://www.strava.com/oauth/token",
		RevokeURL:     "https://www.strava.com/oauth/deauthorize",
		DefaultScopes: []string{"read", "activity:read_all", "profile:read_all"},
	})
	RegisterEndpoint("fitbit", Endpoint{
		AuthURL:       "https://www.fitbit.com/oauth2/authorize",
		TokenURL:      "https://api.fitbit.com/oauth2/token",
		RevokeURL:     "https://api.fitbit.com/oauth2/revoke",
		DefaultScopes: []string{"activity", "sleep", "profile", "heartrate"},
	})
	RegisterEndpoint("garmin", Endpoint{
		AuthURL:       "https://connect.garmin.com/oauthConfirm",
		TokenURL:      "https://connectapi.garmin.com/oauth-service/oauth/exchange",
		DefaultScopes: []string{"activity_read", "health_read"},
	})
	RegisterEndpoint("whoop", Endpoint{
		AuthURL:       "https://api.prod.whoop.com/oauth/oauth2/auth",
		TokenURL:      "https://api.prod.whoop.com/oauth/oauth2/token",
		RevokeURL:     "https://api.prod.whoop.com/oauth/oauth2/revoke",
		DefaultScopes: []string{"read:recovery", "read:sleep", "read:workout", "read:profile"},
	})
	RegisterEndpoint("terra", Endpoint{
		AuthURL:       "https://widget.tryterra.co/auth",
		TokenURL:      "https://api.tryterra.co/v2/auth/authenticateUser",
		DefaultScopes: []string{"activity", "body", "sleep"},
	})
	// synthetic has no upstream OAuth flow; it never resolves a tenant
	// credential row and RegisterEndpoint is omitted intentionally so any
	// attempt to configure it surfaces apperr.KindConfig at StoreCredentials.
}

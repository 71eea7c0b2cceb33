package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"auth": map[string]any{
			"accessTokenTTL":  "15m",
			"refreshTokenTTL": "168h",
		},
		"secretKey": map[string]any{
			"signing": "",
		},
		"http": map[string]any{
			"tokenDelivery": "body",
			"cookie": map[string]any{
				"secure": true,
			},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "AUTH_ACCESSTOKENTTL", want: "auth.accessTokenTTL"},
		{envKey: "AUTH_REFRESHTOKENTTL", want: "auth.refreshTokenTTL"},
		{envKey: "SECRETKEY_SIGNING", want: "secretKey.signing"},
		{envKey: "HTTP_TOKENDELIVERY", want: "http.tokenDelivery"},
		{envKey: "HTTP_COOKIE_SECURE", want: "http.cookie.secure"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

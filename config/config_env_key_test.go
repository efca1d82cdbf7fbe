package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	yamlKeys := map[string]any{
		"otp": map[string]any{
			"resendCooldown": "0s",
			"enforceExpiry":  true,
		},
		"storage": map[string]any{
			"bucketUrl":      "mem://",
			"maxUploadBytes": 5242880,
		},
		"mail": map[string]any{
			"fromName": "BlogSphere",
		},
		"http": map[string]any{
			"timeouts": map[string]any{
				"readHeaderTimeout": "5s",
			},
		},
	}

	tests := map[string]string{
		"OTP_RESENDCOOLDOWN":              "otp.resendCooldown",
		"STORAGE_BUCKETURL":               "storage.bucketUrl",
		"STORAGE_MAXUPLOADBYTES":          "storage.maxUploadBytes",
		"MAIL_FROMNAME":                   "mail.fromName",
		"HTTP_TIMEOUTS_READHEADERTIMEOUT": "http.timeouts.readHeaderTimeout",
		"MAIL__HOST":                      "mail.host",
		"WORKER_PORT":                     "worker.port",
	}

	for envKey, want := range tests {
		t.Run(envKey, func(t *testing.T) {
			assert.Equal(t, want, canonicalizeEnvKey(envKey, yamlKeys))
		})
	}
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5432")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")

	replicas := buildReplicasFromEnv()

	if assert.Len(t, replicas, 1, "an entry without a port ends the list") {
		assert.Equal(t, "replica-a", replicas[0].Host)
		assert.Equal(t, "5432", replicas[0].Port)
		assert.Equal(t, "reader", replicas[0].UserName)
	}
}

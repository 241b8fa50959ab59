package initializers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingEnv(t *testing.T) {
	tests := []struct {
		name     string
		dbURL    string
		secret   string
		expected []string
	}{
		{name: "all set", dbURL: "postgres://localhost/choir", secret: "s3cret", expected: nil},
		{name: "db url missing", dbURL: "", secret: "s3cret", expected: []string{"DB_URL"}},
		{name: "both blank", dbURL: "  ", secret: "", expected: []string{"DB_URL", "SECRET"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_URL", tt.dbURL)
			t.Setenv("SECRET", tt.secret)
			assert.Equal(t, tt.expected, MissingEnv())
		})
	}
}

func TestGetIntEnvOrDefault(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "")
	assert.Equal(t, 50, GetIntEnvOrDefault("MAX_UPLOAD_MB", 50))

	t.Setenv("MAX_UPLOAD_MB", "20")
	assert.Equal(t, 20, GetIntEnvOrDefault("MAX_UPLOAD_MB", 50))

	t.Setenv("MAX_UPLOAD_MB", "-3")
	assert.Equal(t, 50, GetIntEnvOrDefault("MAX_UPLOAD_MB", 50))

	t.Setenv("S3_REGION", " eu-west-1 ")
	assert.Equal(t, "eu-west-1", GetEnvOrDefault("S3_REGION", "us-east-1"))
}

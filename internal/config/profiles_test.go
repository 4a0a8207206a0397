package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	reg := NewProfileRegistry(BuiltinProfiles()...)

	gmail, ok := reg.Get("Gmail")
	require.True(t, ok)
	assert.Equal(t, "smtp.gmail.com", gmail.Host)
	assert.Equal(t, 465, gmail.Port)
	assert.Equal(t, TLSImplicit, gmail.TLS)
	assert.False(t, gmail.Configured())

	outlook, ok := reg.Get("Outlook")
	require.True(t, ok)
	assert.Equal(t, 587, outlook.Port)
	assert.Equal(t, TLSStartTLS, outlook.TLS)

	_, ok = reg.Get("NoSuchServer")
	assert.False(t, ok)

	assert.Equal(t, []string{"Gmail", "Outlook", "Yandex"}, reg.Names())
}

func TestLoadProfiles_CredentialsFromEnvConfig(t *testing.T) {
	cfg := &AppConfig{
		YandexAddress:  "me@yandex.ru",
		YandexPassword: "secret",
	}

	reg, err := LoadProfiles(cfg)
	require.NoError(t, err)

	yandex, ok := reg.Get("Yandex")
	require.True(t, ok)
	assert.True(t, yandex.Configured())
	assert.Equal(t, "me@yandex.ru", yandex.Address)

	gmail, ok := reg.Get("Gmail")
	require.True(t, ok)
	assert.False(t, gmail.Configured())
}

func TestLoadProfiles_YAMLOverlay(t *testing.T) {
	overlay := `
profiles:
  - name: Corp
    host: mail.corp.example
    port: 465
    tls: implicit-tls
    address: robot@corp.example
    password: hunter2
  - name: Gmail
    host: smtp.gmail.example
    port: 587
    tls: starttls
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0600))

	reg, err := LoadProfiles(&AppConfig{ProfilesFile: path})
	require.NoError(t, err)

	corp, ok := reg.Get("Corp")
	require.True(t, ok)
	assert.True(t, corp.Configured())
	assert.Equal(t, "mail.corp.example", corp.Host)

	// Overlay entries replace built-ins with the same name.
	gmail, ok := reg.Get("Gmail")
	require.True(t, ok)
	assert.Equal(t, "smtp.gmail.example", gmail.Host)
	assert.Equal(t, TLSStartTLS, gmail.TLS)
}

func TestLoadProfiles_InvalidOverlay(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing host", "profiles:\n  - name: Broken\n    port: 465\n    tls: implicit-tls\n"},
		{"bad tls mode", "profiles:\n  - name: Broken\n    host: h\n    port: 465\n    tls: ssl\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profiles.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := LoadProfiles(&AppConfig{ProfilesFile: path})
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles_MissingOverlayFile(t *testing.T) {
	_, err := LoadProfiles(&AppConfig{ProfilesFile: "/nonexistent/profiles.yaml"})
	assert.Error(t, err)
}

package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartyrMind/email-cli-app/internal/config"
	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/task"
	"github.com/MartyrMind/email-cli-app/internal/transport"
)

func TestSMTP_UnknownProfile(t *testing.T) {
	tr := transport.NewSMTP(config.NewProfileRegistry(), newTestLogger())

	start := time.Now()
	err := tr.Send(context.Background(),
		task.EmailTask{ID: "t1", Profile: "NoSuchServer"},
		&message.Message{}, "a@b.c")

	require.ErrorIs(t, err, transport.ErrUnknownProfile)
	assert.Contains(t, err.Error(), "NoSuchServer")
	// Fails immediately: no connection attempt, no dial timeout.
	assert.Less(t, time.Since(start), time.Second)
}

func TestSMTP_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		profile config.ServerProfile
		missing string
	}{
		{
			name:    "no credentials at all",
			profile: config.ServerProfile{Name: "Gmail", Host: "smtp.gmail.com", Port: 465, TLS: config.TLSImplicit},
			missing: "address",
		},
		{
			name: "address without password",
			profile: config.ServerProfile{
				Name: "Gmail", Host: "smtp.gmail.com", Port: 465,
				TLS: config.TLSImplicit, Address: "me@gmail.com",
			},
			missing: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := transport.NewSMTP(config.NewProfileRegistry(tt.profile), newTestLogger())

			err := tr.Send(context.Background(),
				task.EmailTask{ID: "t1", Profile: "Gmail"},
				&message.Message{}, "a@b.c")

			require.ErrorIs(t, err, transport.ErrNotConfigured)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestSMTP_Name(t *testing.T) {
	tr := transport.NewSMTP(config.NewProfileRegistry(), newTestLogger())
	assert.Equal(t, "smtp", tr.Name())
}

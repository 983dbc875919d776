package mailer

import (
	"strings"
	"testing"

	"paceup/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresConfiguration(t *testing.T) {
	_, err := New(&config.Config{})
	require.Error(t, err)

	m, err := New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPFrom: "noreply@paceup.local"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestResetCodeBody(t *testing.T) {
	t.Parallel()
	body := ResetCodeBody("482913")
	assert.True(t, strings.Contains(body, "482913"))
	assert.True(t, strings.Contains(body, "15 minutes"))
}

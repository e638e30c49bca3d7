package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetPasswordBody(t *testing.T) {
	body, err := ResetPasswordBody(ResetPasswordData{
		Name:         "Linh <script>",
		Link:         "https://meatfresh.app/reset?token=abc",
		ValidMinutes: 15,
	})
	require.NoError(t, err)

	assert.Contains(t, body, `href="https://meatfresh.app/reset?token=abc"`)
	assert.Contains(t, body, "valid for 15 minutes")
	assert.Contains(t, body, "Linh &lt;script&gt;")
}

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberadmission/internal/domain"
)

func TestTemplateRenderer_Render_welcome(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.WelcomeMessageEmailData{
		Email:      "ada@example.com",
		FirstName:  "Ada",
		MemberID:   "m-1",
		MemberType: domain.MemberTypeEducator,
		QRCode:     "tok<en>",
	}

	subject, html, text, err := r.Render("welcome", data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome, Ada: your member badge is ready", subject)
	assert.Contains(t, text, "Member ID: m-1")
	assert.Contains(t, text, "tok<en>")
	assert.Contains(t, html, "educator")
	assert.Contains(t, html, "tok&lt;en&gt;", "html body escapes the token")
}

func TestTemplateRenderer_Render_unknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
}

package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Text(t *testing.T) {
	s := New()

	assert.Equal(t, "hello", s.Text("  hello  "))
	assert.Equal(t, "hi", s.Text(`hi <script>alert(1)</script>`))
	assert.Equal(t, "<b>bold</b>", s.Text("<b>bold</b>"))
	assert.NotContains(t, s.Text(`<a href="#" onclick="steal()">x</a>`), "onclick")
}

func TestSanitizer_Optional(t *testing.T) {
	s := New()

	assert.Nil(t, s.Optional(nil))

	in := " <i>ok</i> "
	out := s.Optional(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "<i>ok</i>", *out)
	}
}

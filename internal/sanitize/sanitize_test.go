package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "I need help with a property dispute.",
			want:  "I need help with a property dispute.",
		},
		{
			name:  "script block removed with content",
			input: "<script>alert(1)</script>Hello",
			want:  "Hello",
		},
		{
			name:  "script block with attributes",
			input: `before <script type="text/javascript">document.cookie</script> after`,
			want:  "before after",
		},
		{
			name:  "generic tags stripped keeping text",
			input: "<b>urgent</b> matter about <i>tenancy</i>",
			want:  "urgent matter about tenancy",
		},
		{
			name:  "event handler removed",
			input: `click onerror="steal()" here`,
			want:  "click here",
		},
		{
			name:  "javascript scheme removed",
			input: "see javascript:alert(1) for details",
			want:  "see alert(1) for details",
		},
		{
			name:  "data scheme removed",
			input: "data:text/html,payload",
			want:  "text/html,payload",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  too   many\n\nspaces  ",
			want:  "too many spaces",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

package render

import (
	"strings"
	"testing"
)

func TestEscapeText_EscapesMetacharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`<script>alert("x")</script>`, `&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;`},
		{`a & b`, `a &amp; b`},
		{`it's`, `it&#39;s`},
		{`plain text`, `plain text`},
		{``, ``},
	}
	for _, tc := range cases {
		if got := EscapeText(tc.in); got != tc.want {
			t.Fatalf("EscapeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeText_AmpersandFirst(t *testing.T) {
	// Una entidad ya presente se escapa una sola vez, no en cascada.
	if got := EscapeText("&lt;"); got != "&amp;lt;" {
		t.Fatalf("got %q", got)
	}
}

func TestMessageBubble_EscapesRoleAndContent(t *testing.T) {
	got := MessageBubble("assistant", `say "hi" & <b>run</b>`)
	if strings.Contains(got, "<b>") {
		t.Fatalf("content not escaped: %q", got)
	}
	if !strings.Contains(got, `class="bubble assistant"`) {
		t.Fatalf("missing role class: %q", got)
	}
}

func TestChatRow_ActiveFlag(t *testing.T) {
	active := ChatRow("abc", "Title <x>", true)
	if !strings.Contains(active, `chat-row active`) {
		t.Fatalf("expected active class: %q", active)
	}
	if strings.Contains(active, "<x>") {
		t.Fatalf("title not escaped: %q", active)
	}
	inactive := ChatRow("abc", "Title", false)
	if strings.Contains(inactive, "active") {
		t.Fatalf("unexpected active class: %q", inactive)
	}
}

package irc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		raw  string
		want Message
	}{
		{
			raw:  "PING :86F3E357",
			want: Message{Command: "PING", Trailing: "86F3E357", hasTrailing: true},
		},
		{
			raw:  "PING 86F3E357",
			want: Message{Command: "PING", Params: []string{"86F3E357"}},
		},
		{
			raw: ":Bob MODE Bob :+ixz",
			want: Message{
				Source:      Prefix{Nick: "Bob"},
				Command:     "MODE",
				Params:      []string{"Bob"},
				Trailing:    "+ixz",
				hasTrailing: true,
			},
		},
		{
			raw: ":NickServ!services@services.host NOTICE Bob :This nickname is registered.",
			want: Message{
				Source:      Prefix{Nick: "NickServ", User: "services", Host: "services.host"},
				Command:     "NOTICE",
				Params:      []string{"Bob"},
				Trailing:    "This nickname is registered.",
				hasTrailing: true,
			},
		},
		{
			raw: ":fiery.ca.us.example.net MODE #foo +nt",
			want: Message{
				Source:  Prefix{Host: "fiery.ca.us.example.net"},
				Command: "MODE",
				Params:  []string{"#foo", "+nt"},
			},
		},
		{
			raw:  "privmsg #go :Hello, World!",
			want: Message{Command: "PRIVMSG", Params: []string{"#go"}, Trailing: "Hello, World!", hasTrailing: true},
		},
		{
			// empty trailing is kept distinct from no trailing
			raw:  "TOPIC #test :",
			want: Message{Command: "TOPIC", Params: []string{"#test"}, Trailing: "", hasTrailing: true},
		},
		{
			raw:  "TOPIC #test",
			want: Message{Command: "TOPIC", Params: []string{"#test"}},
		},
		{
			// extra separating spaces collapse
			raw:  "PRIVMSG  #a   #b :m",
			want: Message{Command: "PRIVMSG", Params: []string{"#a", "#b"}, Trailing: "m", hasTrailing: true},
		},
		{
			// trailing may contain further colons and spaces
			raw:  "PRIVMSG #c :one :two  three",
			want: Message{Command: "PRIVMSG", Params: []string{"#c"}, Trailing: "one :two  three", hasTrailing: true},
		},
		{
			raw:  "PRIVMSG #c :m\r\n",
			want: Message{Command: "PRIVMSG", Params: []string{"#c"}, Trailing: "m", hasTrailing: true},
		},
		{
			// don't blow up on lines exceeding the protocol-defined length
			raw:  "PRIVMSG #c :" + strings.Repeat("a", 513),
			want: Message{Command: "PRIVMSG", Params: []string{"#c"}, Trailing: strings.Repeat("a", 513), hasTrailing: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, err := ParseLine(tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(&tt.want, m, cmp.AllowUnexported(Message{})); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"\r\n",
		"   ",
		":",
		": ",
		":prefix_only",
		":prefix :trailing_without_command",
	} {
		_, err := ParseLine(raw)
		require.Error(t, err, "raw line: %q", raw)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "raw line: %q", raw)
	}
}

func TestPrefixString(t *testing.T) {
	tests := []struct {
		prefix Prefix
		want   string
	}{
		{Prefix{}, ""},
		{Prefix{Nick: "Bob"}, "Bob"},
		{Prefix{Host: "irc.example.net"}, "irc.example.net"},
		{Prefix{Nick: "Bob", User: "bob", Host: "law.blog"}, "Bob!bob@law.blog"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.prefix.String())
	}
}

func TestPrefixIsServer(t *testing.T) {
	assert.True(t, Prefix{Host: "irc.example.net"}.IsServer())
	assert.False(t, Prefix{Nick: "Bob", User: "bob", Host: "law.blog"}.IsServer())
	assert.False(t, Prefix{Nick: "Bob"}.IsServer())
}

func TestMessageString(t *testing.T) {
	for _, raw := range []string{
		":Bob!bob@law.blog PRIVMSG #LawBlog :no habla",
		"PING :token",
		"MODE #foo +nt",
		"TOPIC #test :",
	} {
		m, err := ParseLine(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, m.String())
	}
}

func TestMessageParam(t *testing.T) {
	m := &Message{Command: "KICK", Params: []string{"#a", "Bob"}}
	assert.Equal(t, "#a", m.Param(0))
	assert.Equal(t, "Bob", m.Param(1))
	assert.Equal(t, "", m.Param(2))
	assert.Equal(t, "", m.Param(-1))
}

package irc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynonym(t *testing.T) {
	assert.Equal(t, "RPL_WELCOME", Synonym("001"))
	assert.Equal(t, "RPL_WELCOME", Synonym("RPL_WELCOME"))
	assert.Equal(t, "ERR_NOMOTD", Synonym("422"))
	assert.Equal(t, "PRIVMSG", Synonym("privmsg"))
	// unknown, even impossible commands pass through upper-cased
	assert.Equal(t, "!@#TEST", Synonym("!@#test"))
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		event string
		want  Fields
	}{
		{
			name:  "ping trailing",
			line:  "PING :ping msg",
			event: "PING",
			want:  Fields{"message": "ping msg"},
		},
		{
			name:  "ping positional",
			line:  "PING this_is_message",
			event: "PING",
			want:  Fields{"message": "this_is_message"},
		},
		{
			name:  "case insensitive",
			line:  "pInG :m",
			event: "PING",
			want:  Fields{"message": "m"},
		},
		{
			name:  "privmsg",
			line:  ":n!u@h PRIVMSG #t :m",
			event: "PRIVMSG",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "target": "#t", "message": "m"},
		},
		{
			name:  "notice from server",
			line:  ":some.host.edu NOTICE #t :m",
			event: "NOTICE",
			want:  Fields{"host": "some.host.edu", "target": "#t", "message": "m"},
		},
		{
			name:  "join",
			line:  ":n!u@h JOIN #c",
			event: "JOIN",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "channel": "#c"},
		},
		{
			name:  "join trailing channel",
			line:  ":n!u@h JOIN :#c",
			event: "JOIN",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "channel": "#c"},
		},
		{
			name:  "nick",
			line:  ":n!u@h NICK new_user_nick",
			event: "NICK",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "new_nick": "new_user_nick"},
		},
		{
			name:  "quit",
			line:  ":n!u@h QUIT :m",
			event: "QUIT",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "message": "m"},
		},
		{
			name:  "quit no message",
			line:  ":n!u@h QUIT",
			event: "QUIT",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "message": ""},
		},
		{
			name:  "part",
			line:  ":n!u@h PART #c :m",
			event: "PART",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "channel": "#c", "message": "m"},
		},
		{
			name:  "invite",
			line:  ":n!u@h INVITE n #c",
			event: "INVITE",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "target": "n", "channel": "#c"},
		},
		{
			name:  "kick",
			line:  ":n!u@h KICK #c m :boot",
			event: "KICK",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "channel": "#c", "target": "m", "message": "boot"},
		},
		{
			name:  "usermode",
			line:  ":WiZ MODE WiZ :-w",
			event: "USERMODE",
			want:  Fields{"nick": "WiZ", "target": "WiZ", "modes": "-w"},
		},
		{
			name:  "channelmode",
			line:  ":n!u@h MODE #en-ops +v WiZ",
			event: "CHANNELMODE",
			want:  Fields{"nick": "n", "user": "u", "host": "h", "channel": "#en-ops", "modes": "+v", "params": []string{"WiZ"}},
		},
		{
			name:  "topic",
			line:  "TOPIC nick #ch :m",
			event: "TOPIC",
			want:  Fields{"channel": "#ch", "message": "m"},
		},
		{
			name:  "topic clear",
			line:  "TOPIC nick #ch :",
			event: "TOPIC",
			want:  Fields{"channel": "#ch", "message": ""},
		},
		{
			name:  "topic query has no message",
			line:  "TOPIC nick #ch",
			event: "TOPIC",
			want:  Fields{"channel": "#ch"},
		},
		{
			name:  "rpl_topic",
			line:  ":srv 332 nick #ch :m",
			event: "RPL_TOPIC",
			want:  Fields{"channel": "#ch", "message": "m"},
		},
		{
			name:  "rpl_endofnames",
			line:  ":srv 366 nick #ch :End of NAMES list",
			event: "RPL_ENDOFNAMES",
			want:  Fields{"channel": "#ch", "message": "End of NAMES list"},
		},
		{
			name:  "rpl_namreply short",
			line:  ":srv 353 #t #ch :aa bb cc",
			event: "RPL_NAMREPLY",
			want:  Fields{"target": "#t", "channel_type": "", "channel": "#ch", "users": []string{"aa", "bb", "cc"}},
		},
		{
			name:  "rpl_namreply channel type",
			line:  ":srv 353 #t = #ch :aa bb cc",
			event: "RPL_NAMREPLY",
			want:  Fields{"target": "#t", "channel_type": "=", "channel": "#ch", "users": []string{"aa", "bb", "cc"}},
		},
		{
			name:  "rpl_whoreply",
			line:  ":srv 352 #t #ch usr hst srv nck H :27 some real name",
			event: "RPL_WHOREPLY",
			want: Fields{
				"target": "#t", "channel": "#ch", "user": "usr", "host": "hst",
				"server": "srv", "nick": "nck", "hg_code": "H",
				"hopcount": 27, "real_name": "some real name",
			},
		},
		{
			name:  "rpl_endofwho",
			line:  ":srv 315 #nm :End of WHO list",
			event: "RPL_ENDOFWHO",
			want:  Fields{"name": "#nm", "message": "End of WHO list"},
		},
		{
			name:  "rpl_welcome",
			line:  ":srv 001 nick :Welcome to the network",
			event: "RPL_WELCOME",
			want:  Fields{"message": "Welcome to the network"},
		},
		{
			name:  "err_nomotd",
			line:  ":srv 422 nick :MOTD File is missing",
			event: "ERR_NOMOTD",
			want:  Fields{"message": "MOTD File is missing"},
		},
		{
			name:  "error",
			line:  "ERROR :Closing Link",
			event: "ERROR",
			want:  Fields{"message": "Closing Link"},
		},
		{
			name:  "count positional",
			line:  ":srv 252 nick 3 :operator(s) online",
			event: "RPL_LUSEROP",
			want:  Fields{"count": 3, "message": "operator(s) online"},
		},
		{
			name:  "count trailing",
			line:  ":srv 252 nick :3",
			event: "RPL_LUSEROP",
			want:  Fields{"count": 3, "message": ""},
		},
		{
			name:  "rpl_myinfo",
			line:  ":srv 004 nick one two three :m",
			event: "RPL_MYINFO",
			want:  Fields{"info": []string{"one", "two", "three"}, "message": "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, fields, err := Unpack(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.event, event)
			if diff := cmp.Diff(tt.want, fields); diff != "" {
				t.Errorf("Unpack(%q) fields mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestUnpackErrors(t *testing.T) {
	for _, line := range []string{
		"",
		":prefix_only",
		"unknown_command",
		"WHATNOW a b :c",
		":srv 352 #t #ch usr hst srv nck H :not-a-number rn",
		":srv 252 nick :not-a-number",
	} {
		_, _, err := Unpack(line)
		require.Error(t, err, "line: %q", line)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "line: %q", line)
	}
}

func TestUnpackModeSplit(t *testing.T) {
	for _, tt := range []struct {
		first string
		event string
	}{
		{"#chan", "CHANNELMODE"},
		{"&chan", "CHANNELMODE"},
		{"+chan", "CHANNELMODE"},
		{"!chan", "CHANNELMODE"},
		{"WiZ", "USERMODE"},
	} {
		event, _, err := Unpack("MODE " + tt.first + " +i")
		require.NoError(t, err)
		assert.Equal(t, tt.event, event, "first param %q", tt.first)
	}
}

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{
			name: "no options",
			line: ":pgn-to-fen -- :pgn 1. e4 e5 2. Nf3\\n\\n\n",
			want: Request{Command: ":pgn-to-fen", RawOptions: "", PayloadType: ":pgn", Payload: `1. e4 e5 2. Nf3\n\n`},
		},
		{
			name: "options",
			line: ":pgn-to-board -pixels 200 -- :pgn 1. e4\\n\\n\n",
			want: Request{Command: ":pgn-to-board", RawOptions: " -pixels 200", PayloadType: ":pgn", Payload: `1. e4\n\n`},
		},
		{
			name: "quoted engine path",
			line: ":pgn-to-score -engine '/opt/my engines/sf' -depth 5 -- :pgn 1. d4\n",
			want: Request{Command: ":pgn-to-score", RawOptions: " -engine '/opt/my engines/sf' -depth 5", PayloadType: ":pgn", Payload: "1. d4"},
		},
		{
			name: "separator inside payload",
			line: ":pgn-to-fen -- :pgn 1. e4 {a -- b} e5\n",
			want: Request{Command: ":pgn-to-fen", RawOptions: "", PayloadType: ":pgn", Payload: "1. e4 {a -- b} e5"},
		},
		{
			name: "carriage return",
			line: ":pgn-to-fen -- :pgn 1. e4\r\n",
			want: Request{Command: ":pgn-to-fen", RawOptions: "", PayloadType: ":pgn", Payload: "1. e4"},
		},
		{
			name: "other payload type parses",
			line: ":pgn-to-fen -- :fen 8/8/8/8/8/8/8/8 w - - 0 1\n",
			want: Request{Command: ":pgn-to-fen", RawOptions: "", PayloadType: ":fen", Payload: "8/8/8/8/8/8/8/8 w - - 0 1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *req)
		})
	}
}

func TestParseRequestMalformed(t *testing.T) {
	lines := []string{
		"hello\n",
		":pgn-to-fen :pgn 1. e4\n",
		":pgn-to-fen -- :pgn 1. e4",
		":pgn-to-fen -- :pgn \n",
		"pgn-to-fen -- :pgn 1. e4\n",
	}
	for _, line := range lines {
		_, err := ParseRequest(line)
		assert.ErrorIs(t, err, ErrMalformedRequest, "line %q", line)
	}
}

func TestCheckPayloadType(t *testing.T) {
	req := &Request{PayloadType: ":pgn"}
	assert.NoError(t, req.CheckPayloadType())

	req.PayloadType = ":fen"
	assert.ErrorIs(t, req.CheckPayloadType(), ErrUnknownPayloadType)
}

func TestIsKeepAlive(t *testing.T) {
	assert.True(t, IsKeepAlive("\n"))
	assert.True(t, IsKeepAlive("\r\n"))
	assert.False(t, IsKeepAlive(" \n"))
	assert.False(t, IsKeepAlive(""))
}

func TestReply(t *testing.T) {
	assert.Equal(t, ":fen 8/8/8/8/8/8/8/8 w - - 0 1", Reply(":fen", "8/8/8/8/8/8/8/8 w - - 0 1"))
}

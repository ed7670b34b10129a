package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saworbit/binkit/pkg/binerr"
)

func TestParseEncoding(t *testing.T) {
	for name, want := range map[string]Encoding{
		"utf-8":        UTF8,
		"UTF8":         UTF8,
		"utf-16le":     UTF16LE,
		"utf16be":      UTF16BE,
		"latin-1":      Windows1252,
		"iso-8859-1":   Windows1252,
		"windows-1252": Windows1252,
		"cp1252":       Windows1252,
	} {
		got, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseEncoding("ebcdic")
	assert.ErrorIs(t, err, binerr.ErrInvalidInput)
}

func TestEncodingBOM(t *testing.T) {
	assert.Equal(t, []byte{0xef, 0xbb, 0xbf}, UTF8.BOM())
	assert.Equal(t, []byte{0xff, 0xfe}, UTF16LE.BOM())
	assert.Equal(t, []byte{0xfe, 0xff}, UTF16BE.BOM())
	assert.Nil(t, Windows1252.BOM())
}

func TestConvertUTF8ToUTF16LE(t *testing.T) {
	cfg := DefaultConfig()
	cfg.To = UTF16LE

	out, err := Convert([]byte("Hi"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []byte{'H', 0x00, 'i', 0x00}, out)
}

func TestConvertUTF16LERoundTrip(t *testing.T) {
	original := []byte("héllo wörld\n")

	toUTF16 := DefaultConfig()
	toUTF16.To = UTF16LE
	encoded, err := Convert(original, toUTF16)
	require.NoError(t, err)

	back := DefaultConfig()
	back.From = UTF16LE
	decoded, err := Convert(encoded, back)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestConvertUTF16BE(t *testing.T) {
	cfg := DefaultConfig()
	cfg.To = UTF16BE
	out, err := Convert([]byte("A"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'A'}, out)

	back := DefaultConfig()
	back.From = UTF16BE
	decoded, err := Convert(out, back)
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), decoded)
}

func TestConvertWindows1252(t *testing.T) {
	cfg := DefaultConfig()
	cfg.From = Windows1252

	// 0xe9 is é, 0x80 is the euro sign in windows-1252.
	out, err := Convert([]byte{0xe9, 0x80}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "é€", string(out))

	back := DefaultConfig()
	back.To = Windows1252
	encoded, err := Convert(out, back)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe9, 0x80}, encoded)
}

func TestConvertWindows1252Unrepresentable(t *testing.T) {
	input := []byte("snow☃man") // U+2603 has no windows-1252 mapping

	t.Run("replace", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.To = Windows1252
		out, err := Convert(input, cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte("snow?man"), out)
	})

	t.Run("ignore", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.To = Windows1252
		cfg.OnError = ErrorIgnore
		out, err := Convert(input, cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte("snowman"), out)
	})

	t.Run("strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.To = Windows1252
		cfg.OnError = ErrorStrict
		_, err := Convert(input, cfg)
		assert.ErrorIs(t, err, binerr.ErrParse)
	})
}

func TestConvertInvalidUTF8(t *testing.T) {
	input := []byte{'a', 0xff, 'b'}

	t.Run("replace", func(t *testing.T) {
		out, err := Convert(input, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "a�b", string(out))
	})

	t.Run("ignore", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OnError = ErrorIgnore
		out, err := Convert(input, cfg)
		require.NoError(t, err)
		assert.Equal(t, "ab", string(out))
	})

	t.Run("strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OnError = ErrorStrict
		_, err := Convert(input, cfg)
		assert.ErrorIs(t, err, binerr.ErrParse)
	})
}

func TestConvertNewlines(t *testing.T) {
	tests := []struct {
		name string
		mode NewlineMode
		in   string
		want string
	}{
		{name: "to unix", mode: NewlineUnix, in: "a\r\nb\rc\n", want: "a\nb\nc\n"},
		{name: "to windows", mode: NewlineWindows, in: "a\nb\r\nc\r", want: "a\r\nb\r\nc\r\n"},
		{name: "to mac", mode: NewlineMac, in: "a\r\nb\nc", want: "a\rb\rc"},
		{name: "keep", mode: NewlineKeep, in: "a\r\nb\n", want: "a\r\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Newlines = tt.mode
			out, err := Convert([]byte(tt.in), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestConvertBOMModes(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BOM = BOMAdd
		out, err := Convert([]byte("x"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xef, 0xbb, 0xbf, 'x'}, out)
	})

	t.Run("remove strips existing", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BOM = BOMRemove
		out, err := Convert([]byte{0xef, 0xbb, 0xbf, 'x'}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), out)
	})

	t.Run("keep preserves presence", func(t *testing.T) {
		cfg := DefaultConfig()
		out, err := Convert([]byte{0xef, 0xbb, 0xbf, 'x'}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xef, 0xbb, 0xbf, 'x'}, out)

		out, err = Convert([]byte("x"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), out)
	})

	t.Run("keep translates BOM to target encoding", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.To = UTF16LE
		out, err := Convert([]byte{0xef, 0xbb, 0xbf, 'x'}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xfe, 'x', 0x00}, out)
	})
}

func TestDetectBOMEncoding(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Encoding
		wantBOM bool
	}{
		{name: "utf-8", data: []byte{0xef, 0xbb, 0xbf, 'a'}, want: UTF8, wantBOM: true},
		{name: "utf-16be", data: []byte{0xfe, 0xff, 0x00, 'a'}, want: UTF16BE, wantBOM: true},
		{name: "utf-16le", data: []byte{0xff, 0xfe, 'a', 0x00}, want: UTF16LE, wantBOM: true},
		{name: "none", data: []byte("plain"), want: UTF8, wantBOM: false},
		{name: "empty", data: nil, want: UTF8, wantBOM: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasBOM := DetectBOMEncoding(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantBOM, hasBOM)
		})
	}
}

func TestConfigDescribe(t *testing.T) {
	cfg := Config{From: UTF8, To: UTF16LE, Newlines: NewlineUnix, BOM: BOMAdd, OnError: ErrorStrict}
	assert.Equal(t,
		"Convert: UTF-8 -> UTF-16LE, newlines: unix, bom: add, on_error: strict",
		cfg.Describe())
}

func TestParseModeKeywords(t *testing.T) {
	nl, err := ParseNewlineMode("crlf")
	require.NoError(t, err)
	assert.Equal(t, NewlineWindows, nl)
	_, err = ParseNewlineMode("vertical")
	assert.ErrorIs(t, err, binerr.ErrInvalidInput)

	bom, err := ParseBOMMode("strip")
	require.NoError(t, err)
	assert.Equal(t, BOMRemove, bom)
	_, err = ParseBOMMode("maybe")
	assert.ErrorIs(t, err, binerr.ErrInvalidInput)

	em, err := ParseErrorMode("fail")
	require.NoError(t, err)
	assert.Equal(t, ErrorStrict, em)
	_, err = ParseErrorMode("panic")
	assert.ErrorIs(t, err, binerr.ErrInvalidInput)
}

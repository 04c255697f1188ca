package clish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ethernetType() *PType {
	return &PType{
		Name:    "ifname",
		Method:  MethodRegexpSelect,
		Pattern: `[A-Za-z]+\s*[0-9/]*`,
		Items: []SelectItem{
			{Name: "ethernet"},
			{Name: "vlan"},
			{Name: "portchannel"},
		},
	}
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	types := []*PType{
		{Name: "word", Method: MethodRegexp, Pattern: `[a-zA-Z]+`},
		{Name: "upper", Method: MethodRegexp, Pattern: `[A-Z]+`, Preprocess: PreprocessToUpper},
		{Name: "port", Method: MethodUnsignedInteger, Pattern: "1..4096"},
		ethernetType(),
	}

	tokens := []string{"abc", "abc", "10", "eth0/1"}

	for i, typ := range types {
		v1, err := typ.Validate(tokens[i], false)
		require.NoError(t, err)
		v2, err := typ.Validate(v1, false)
		require.NoError(t, err)
		assert.Equal(t, v1, v2, "validate(validate(tok)) must equal validate(tok) for %s", typ.Name)
	}
}

func TestSelectTranslateConsistency(t *testing.T) {
	t.Parallel()

	pt := &PType{
		Name:   "proto",
		Method: MethodSelect,
		Items: []SelectItem{
			{Name: "tcp", Value: "6"},
			{Name: "udp", Value: "17"},
		},
	}

	for _, it := range pt.Items {
		validated, err := pt.Validate(it.Name, false)
		require.NoError(t, err)
		assert.Equal(t, it.Name, validated)
		assert.Equal(t, it.Value, pt.Translate(validated))

		// Case-insensitive on input.
		validated, err = pt.Validate(toUpperASCII(it.Name), false)
		require.NoError(t, err)
		assert.Equal(t, it.Name, validated)
	}
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestRegexpSelectShortForm(t *testing.T) {
	t.Parallel()

	pt := ethernetType()

	for _, suffix := range []string{"0", "0/1", "0/1/2"} {
		got, err := pt.Validate("eth"+suffix, false)
		require.NoError(t, err)
		assert.Equal(t, "ethernet"+suffix, got)

		got, err = pt.Validate("eth "+suffix, false)
		require.NoError(t, err)
		assert.Equal(t, "ethernet"+suffix, got)
	}
}

func TestIntegerOutOfRange(t *testing.T) {
	t.Parallel()

	pt := &PType{Name: "vlanid", Method: MethodUnsignedInteger, Pattern: "1..4096"}

	_, err := pt.Validate("4097", false)
	require.Error(t, err)

	rangeErr, ok := err.(*ErrOutOfRange)
	require.True(t, ok)
	assert.Equal(t, "Value out of range(1..4096).", rangeErr.Error())

	_, err = pt.Validate("10", false)
	require.NoError(t, err)
}

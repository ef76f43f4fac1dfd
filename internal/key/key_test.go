package key

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePermutation(t *testing.T, k Key) {
	t.Helper()
	require.NoError(t, k.Validate(), "key %s", k)
}

func TestIdentity(t *testing.T) {
	k := Identity()
	assert.Equal(t, Alphabet, k.String())
	assert.Equal(t, "HELLO, World!", k.Apply("HELLO, World!"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "letters", in: "QWERTYUIOPASDFGHJKLZXCVBNM", want: "QWERTYUIOPASDFGHJKLZXCVBNM"},
		{name: "lower case", in: " qwertyuiopasdfghjklzxcvbnm\n", want: "QWERTYUIOPASDFGHJKLZXCVBNM"},
		{name: "pairs", in: Identity().Pairs(), want: Alphabet},
		{name: "grouped pairs", in: "ABCDEFGHIJKLM=NOPQRSTUVWXYZ NOPQRSTUVWXYZ=ABCDEFGHIJKLM", want: "NOPQRSTUVWXYZABCDEFGHIJKLM"},
		{name: "too short", in: "ABC", wantErr: true},
		{name: "duplicate", in: "AACDEFGHIJKLMNOPQRSTUVWXYZ", wantErr: true},
		{name: "incomplete pairs", in: "A=B B=A", wantErr: true},
		{name: "unequal pair", in: "AB=C", wantErr: true},
		{name: "conflicting pair", in: "A=B A=C", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := Parse(tt.in)
			if tt.wantErr {
				var ike *InvalidKeyError
				require.Error(t, err)
				assert.True(t, errors.As(err, &ike))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.String())
		})
	}
}

func TestValidate_RejectsNonLetters(t *testing.T) {
	k := Identity()
	k[3] = '3'
	var ike *InvalidKeyError
	require.ErrorAs(t, k.Validate(), &ike)
	assert.Contains(t, ike.Reason, "position 3")

	var zero Key
	assert.Error(t, zero.Validate())
}

func TestApply_PassesNonLettersThrough(t *testing.T) {
	k, err := Parse("BCDEFGHIJKLMNOPQRSTUVWXYZA")
	require.NoError(t, err)
	assert.Equal(t, "BCD, bcd! 123 ZA", k.Apply("ABC, abc! 123 YZ"))
}

func TestInvert_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	text := "The quick brown fox jumps over the lazy dog, 1234!"
	for i := 0; i < 200; i++ {
		k := Random(rng)
		inv := k.Invert()
		requirePermutation(t, inv)
		assert.Equal(t, text, k.Apply(inv.Apply(text)))
		assert.Equal(t, k, inv.Invert())
	}
}

func TestMapping(t *testing.T) {
	k := Shift(3).Key()
	m := k.Mapping()
	for i := range m {
		assert.Equal(t, k[i]-'A', m[i])
	}
}

func TestShiftKey(t *testing.T) {
	tests := []struct {
		shift Shift
		in    string
		want  string
	}{
		{0, "ABC XYZ", "ABC XYZ"},
		{1, "BCD", "ABC"},
		{3, "WKH TXLFN", "THE QUICK"},
		{7, "AOL XBPJR IYVDU MVE", "THE QUICK BROWN FOX"},
		{25, "ZAB", "ABC"},
		{29, "WKH", "THE"},
	}
	for _, tt := range tests {
		k := tt.shift.Key()
		requirePermutation(t, k)
		assert.Equal(t, tt.want, k.Apply(tt.in), "shift %d", tt.shift)
	}
	assert.True(t, Shift(25).Valid())
	assert.False(t, Shift(26).Valid())
	assert.False(t, Shift(-1).Valid())
	assert.Equal(t, "7", Shift(7).String())
}

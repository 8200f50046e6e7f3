package steamid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "steamid64", input: "76561197993496553", want: "76561197993496553"},
		{name: "steam2 universe 0", input: "STEAM_0:1:16615412", want: "76561197993496553"},
		{name: "steam2 universe 1", input: "STEAM_1:1:16615412", want: "76561197993496553"},
		{name: "steam3", input: "[U:1:33230825]", want: "76561197993496553"},
		{name: "steam3 with instance", input: "[U:1:33230825:1]", want: "76561197993496553"},
		{name: "surrounding whitespace", input: "  76561197993496553\n", want: "76561197993496553"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, id.IsValid())
			assert.Equal(t, tt.want, id.SteamID64())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "blank", input: "   ", wantErr: ErrEmpty},
		{name: "garbage", input: "not-a-steamid", wantErr: ErrUnknownFormat},
		{name: "overflow", input: "999999999999999999999999", wantErr: ErrUnknownFormat},
		{name: "unknown steam3 letter", input: "[X:1:123]", wantErr: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want bool
	}{
		{
			name: "individual desktop",
			id:   FromIndividualAccountID(33230825),
			want: true,
		},
		{
			name: "individual zero account",
			id:   FromIndividualAccountID(0),
			want: false,
		},
		{
			name: "individual instance above web",
			id:   ID{Universe: UniversePublic, Type: TypeIndividual, Instance: 5, AccountID: 1},
			want: false,
		},
		{
			name: "invalid universe",
			id:   ID{Universe: UniverseInvalid, Type: TypeIndividual, Instance: InstanceDesktop, AccountID: 1},
			want: false,
		},
		{
			name: "universe out of range",
			id:   ID{Universe: 9, Type: TypeIndividual, Instance: InstanceDesktop, AccountID: 1},
			want: false,
		},
		{
			name: "invalid type",
			id:   ID{Universe: UniversePublic, Type: TypeInvalid, AccountID: 1},
			want: false,
		},
		{
			name: "clan with instance",
			id:   ID{Universe: UniversePublic, Type: TypeClan, Instance: 1, AccountID: 4},
			want: false,
		},
		{
			name: "clan",
			id:   ID{Universe: UniversePublic, Type: TypeClan, Instance: InstanceAll, AccountID: 4},
			want: true,
		},
		{
			name: "game server without account",
			id:   ID{Universe: UniversePublic, Type: TypeGameServer},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.IsValid())
		})
	}
}

func TestParse_SmallNumberIsInvalid(t *testing.T) {
	id, err := Parse("123")
	require.NoError(t, err)
	assert.False(t, id.IsValid())
}

func TestRendering(t *testing.T) {
	id, err := Parse("76561197993496553")
	require.NoError(t, err)

	assert.Equal(t, "STEAM_0:1:16615412", id.Steam2())
	assert.Equal(t, "[U:1:33230825]", id.Steam3())
	assert.Equal(t, uint64(76561197993496553), id.Uint64())
	assert.Equal(t, "76561197993496553", id.String())
}

func TestSteam3_RoundTrip(t *testing.T) {
	inputs := []string{
		"[U:1:33230825]",
		"[g:1:4]",
		"[G:1:100]",
		"[A:1:100:7]",
		"[c:1:55]",
		"[L:1:55]",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			id, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, id.Steam3())

			again := FromUint64(id.Uint64())
			assert.Equal(t, id, again)
		})
	}
}

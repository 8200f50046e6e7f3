// Package steamid parses and validates Steam account identifiers.
//
// Three textual forms are accepted:
//
//	76561197993496553   SteamID64
//	STEAM_0:1:16615412  Steam2
//	[U:1:33230825]      Steam3 (optionally with a trailing instance: [U:1:33230825:1])
package steamid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Universe is the Steam universe an account belongs to.
type Universe uint8

const (
	UniverseInvalid Universe = iota
	UniversePublic
	UniverseBeta
	UniverseInternal
	UniverseDev
)

// Type is the account type encoded in a SteamID.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeIndividual
	TypeMultiseat
	TypeGameServer
	TypeAnonGameServer
	TypePending
	TypeContentServer
	TypeClan
	TypeChat
	TypeP2PSuperSeeder
	TypeAnonUser
)

// Instance values for individual and clan accounts.
const (
	InstanceAll     uint32 = 0
	InstanceDesktop uint32 = 1
	InstanceConsole uint32 = 2
	InstanceWeb     uint32 = 4
)

// Chat instance flags, stored in the top bits of the 20-bit instance field.
const (
	chatInstanceFlagClan  uint32 = 0x80000 >> 1
	chatInstanceFlagLobby uint32 = 0x80000 >> 2
)

const (
	accountIDMask = 0xFFFFFFFF
	instanceMask  = 0x000FFFFF
)

var (
	// ErrEmpty is returned when the input string is empty.
	ErrEmpty = errors.New("steamid: empty input")

	// ErrUnknownFormat is returned when the input matches none of the supported forms.
	ErrUnknownFormat = errors.New("steamid: unknown format")
)

var (
	steam2Pattern = regexp.MustCompile(`^STEAM_([0-5]):([0-1]):([0-9]+)$`)
	steam3Pattern = regexp.MustCompile(`^\[([a-zA-Z]):([0-5]):([0-9]+)(:[0-9]+)?\]$`)
)

var steam3Letters = map[Type]string{
	TypeInvalid:        "I",
	TypeIndividual:     "U",
	TypeMultiseat:      "M",
	TypeGameServer:     "G",
	TypeAnonGameServer: "A",
	TypePending:        "P",
	TypeContentServer:  "C",
	TypeClan:           "g",
	TypeChat:           "T",
	TypeAnonUser:       "a",
}

// ID is a decoded SteamID.
type ID struct {
	Universe  Universe
	Type      Type
	Instance  uint32
	AccountID uint32
}

// Parse decodes any of the supported textual forms.
// The returned ID is not guaranteed to be valid; call IsValid.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, ErrEmpty
	}

	if m := steam2Pattern.FindStringSubmatch(s); m != nil {
		return parseSteam2(m)
	}

	if m := steam3Pattern.FindStringSubmatch(s); m != nil {
		return parseSteam3(m)
	}

	if isDigits(s) {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %q: %v", ErrUnknownFormat, s, err)
		}
		return FromUint64(v), nil
	}

	return ID{}, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FromUint64 decodes a numeric SteamID64.
func FromUint64(v uint64) ID {
	return ID{
		Universe:  Universe(v >> 56),
		Type:      Type((v >> 52) & 0xF),
		Instance:  uint32((v >> 32) & instanceMask),
		AccountID: uint32(v & accountIDMask),
	}
}

// FromIndividualAccountID builds a public desktop individual ID.
func FromIndividualAccountID(accountID uint32) ID {
	return ID{
		Universe:  UniversePublic,
		Type:      TypeIndividual,
		Instance:  InstanceDesktop,
		AccountID: accountID,
	}
}

func parseSteam2(m []string) (ID, error) {
	universe, _ := strconv.ParseUint(m[1], 10, 8)
	if universe == 0 {
		// STEAM_0 is a legacy alias for the public universe.
		universe = uint64(UniversePublic)
	}
	y, _ := strconv.ParseUint(m[2], 10, 32)
	z, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("%w: account number: %v", ErrUnknownFormat, err)
	}
	accountID := z*2 + y
	if accountID > accountIDMask {
		return ID{}, fmt.Errorf("%w: account id out of range", ErrUnknownFormat)
	}

	return ID{
		Universe:  Universe(universe),
		Type:      TypeIndividual,
		Instance:  InstanceDesktop,
		AccountID: uint32(accountID),
	}, nil
}

func parseSteam3(m []string) (ID, error) {
	letter := m[1]
	universe, _ := strconv.ParseUint(m[2], 10, 8)
	accountID, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("%w: account id: %v", ErrUnknownFormat, err)
	}

	id := ID{
		Universe:  Universe(universe),
		AccountID: uint32(accountID),
	}

	if m[4] != "" {
		instance, err := strconv.ParseUint(m[4][1:], 10, 32)
		if err != nil || instance > instanceMask {
			return ID{}, fmt.Errorf("%w: instance out of range", ErrUnknownFormat)
		}
		id.Instance = uint32(instance)
	} else if letter == "U" {
		id.Instance = InstanceDesktop
	}

	switch letter {
	case "c":
		id.Type = TypeChat
		id.Instance |= chatInstanceFlagClan
	case "L":
		id.Type = TypeChat
		id.Instance |= chatInstanceFlagLobby
	default:
		t, ok := typeForLetter(letter)
		if !ok {
			return ID{}, fmt.Errorf("%w: unknown account type %q", ErrUnknownFormat, letter)
		}
		id.Type = t
	}

	return id, nil
}

func typeForLetter(letter string) (Type, bool) {
	for t, l := range steam3Letters {
		if l == letter {
			return t, true
		}
	}
	return TypeInvalid, false
}

// IsValid reports whether the ID describes an account that can own an inventory.
func (id ID) IsValid() bool {
	if id.Type <= TypeInvalid || id.Type > TypeAnonUser {
		return false
	}

	if id.Universe <= UniverseInvalid || id.Universe > UniverseDev {
		return false
	}

	switch id.Type {
	case TypeIndividual:
		if id.AccountID == 0 || id.Instance > InstanceWeb {
			return false
		}
	case TypeClan:
		if id.AccountID == 0 || id.Instance != InstanceAll {
			return false
		}
	case TypeGameServer:
		if id.AccountID == 0 {
			return false
		}
	}

	return true
}

// Uint64 returns the packed 64-bit form.
func (id ID) Uint64() uint64 {
	return uint64(id.Universe)<<56 |
		uint64(id.Type&0xF)<<52 |
		uint64(id.Instance&instanceMask)<<32 |
		uint64(id.AccountID)
}

// SteamID64 returns the decimal SteamID64 string used in community URLs.
func (id ID) SteamID64() string {
	return strconv.FormatUint(id.Uint64(), 10)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.SteamID64()
}

// Steam2 renders the legacy STEAM_X:Y:Z form. Only meaningful for individual accounts.
// The public universe is written as 0, matching what most tools print.
func (id ID) Steam2() string {
	universe := id.Universe
	if universe == UniversePublic {
		universe = 0
	}
	return fmt.Sprintf("STEAM_%d:%d:%d", universe, id.AccountID&1, id.AccountID>>1)
}

// Steam3 renders the [T:U:A] form.
func (id ID) Steam3() string {
	letter, ok := steam3Letters[id.Type]
	if !ok {
		letter = "i"
	}

	if id.Type == TypeChat {
		switch {
		case id.Instance&chatInstanceFlagClan != 0:
			letter = "c"
		case id.Instance&chatInstanceFlagLobby != 0:
			letter = "L"
		}
	}

	withInstance := id.Type == TypeAnonGameServer ||
		id.Type == TypeMultiseat ||
		(id.Type == TypeIndividual && id.Instance != InstanceDesktop)

	if withInstance {
		return fmt.Sprintf("[%s:%d:%d:%d]", letter, id.Universe, id.AccountID, id.Instance)
	}
	return fmt.Sprintf("[%s:%d:%d]", letter, id.Universe, id.AccountID)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

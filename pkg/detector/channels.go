package detector

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Channel is a semantic measurement, independent of how a datalog names it.
type Channel int

// The closed set of channels, in reporting order.
const (
	Time Channel = iota
	Rpm
	Pedal
	Throttle
	Boost
	Iat
	Lambda
	Ignition
)

const channelCount = int(Ignition) + 1

// ErrUnknownChannel is returned by ParseChannel for names outside the set.
var ErrUnknownChannel = errors.New("unknown channel")

var channelNames = [channelCount]string{
	Time:     "time",
	Rpm:      "rpm",
	Pedal:    "pedal",
	Throttle: "throttle",
	Boost:    "boost",
	Iat:      "iat",
	Lambda:   "lambda",
	Ignition: "ignition",
}

// Channels returns every channel in reporting order.
func Channels() []Channel {
	out := make([]Channel, channelCount)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// String returns the channel's report key, e.g. "boost".
func (c Channel) String() string {
	if c < 0 || int(c) >= channelCount {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel maps a report key back to its channel. Matching ignores case.
func ParseChannel(name string) (Channel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// DefaultSynonyms returns the built-in synonym lists, keyed by channel.
// Synonyms are stored normalized (see NormalizeKey) and ordered by
// preference. The returned map is a fresh copy.
func DefaultSynonyms() map[Channel][]string {
	return map[Channel][]string{
		Time:     {"time", "zeit", "timestamp", "elapsed", "seconds", "sec"},
		Rpm:      {"rpm", "enginespeed", "motordrehzahl", "drehzahl", "nmot", "revs"},
		Pedal:    {"pedal", "accelerator", "accelpedal", "app", "fahrpedal", "wped"},
		Throttle: {"throttle", "tps", "throttleposition", "drosselklappe", "wdkba"},
		Boost:    {"boost", "map", "manifold", "charge", "ld", "saugrohr", "pressure", "tmap", "ladedruck", "pboost"},
		Iat:      {"iat", "intakeair", "intakeairtemp", "ansaugluft", "tans"},
		Lambda:   {"lambda", "afr", "airfuel", "wideband", "o2"},
		Ignition: {"ignition", "timing", "ignitiontiming", "zuendwinkel", "zündwinkel", "spark", "advance"},
	}
}

var keyStripper = strings.NewReplacer(
	" ", "", "\t", "",
	"-", "", "_", "",
	"(", "", ")", "",
	"/", "", "\\", "",
	"[", "", "]", "",
	":", "", "%", "",
)

// NormalizeKey lowercases s and strips whitespace and the punctuation that
// exports wrap around units, so "Boost (kPa)" and "boost_kpa" compare equal.
func NormalizeKey(s string) string {
	s = keyStripper.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), "")
}

// Tokens splits a column name into lowercase words at every rune that is
// not a letter or digit and at lower-to-upper case changes, so
// "Boost (psi)" gives [boost psi] and "EngineRPM" gives [engine rpm].
func Tokens(s string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return tokens
}

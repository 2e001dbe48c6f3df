// Package config loads decoder settings from files.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

// ChannelsSectionName is the ini section holding channel bit assignments.
const ChannelsSectionName = "channels"

// signal names used by the logic analyzer capture labels, accepted as
// aliases of the logical channel names.
var channelAliases = map[string]bus.Channel{
	"rst":  bus.ChanReset,
	"phi2": bus.ChanClock,
	"_cs1": bus.ChanCS1,
	"_cs2": bus.ChanCS2,
	"a0":   bus.ChanAddrLow,
	"a11":  bus.ChanAddrHigh,
}

func lookupChannel(key string) (bus.Channel, bool) {
	if c, ok := bus.ChannelByName(key); ok {
		return c, true
	}
	c, ok := channelAliases[strings.ToLower(strings.TrimSpace(key))]
	return c, ok
}

// ParseChannelMap reads a [channels] section from r and applies it on top of
// base. Keys not present keep the base assignment. The result is validated.
//
//	[channels]
//	reset = 0
//	clock = 1
//	cs1 = 2
//	cs2 = 3
//	addr_low = 4
//	addr_high = 15
func ParseChannelMap(r io.Reader, base bus.ChannelMap) (bus.ChannelMap, error) {
	ini, err := ParseIni(r)
	if err != nil {
		return base, common.WrapError(bus.ErrFileError, err, "reading channel map")
	}

	sect := ini.GetSection(ChannelsSectionName)
	if sect == nil {
		return base, common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, "no [channels] section")
	}

	keys := make([]string, 0, len(sect))
	for k := range sect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := base
	for _, k := range keys {
		c, ok := lookupChannel(k)
		if !ok {
			return base, common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, fmt.Sprintf("unknown channel %q", k))
		}
		bit, err := strconv.ParseUint(sect[k], 10, 8)
		if err != nil {
			return base, common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, fmt.Sprintf("bad bit position %q for %s", sect[k], c))
		}
		m.SetBit(c, uint8(bit))
	}

	if msg := m.Conflict(); msg != "" {
		return base, common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, msg)
	}
	return m, nil
}

// LoadChannelMap reads a channel map file, applying it over the default
// wiring.
func LoadChannelMap(path string) (bus.ChannelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return bus.DefaultChannelMap(), common.WrapError(bus.ErrFileError, err, "opening channel map")
	}
	defer f.Close()
	return ParseChannelMap(f, bus.DefaultChannelMap())
}

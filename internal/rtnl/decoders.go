package rtnl

import (
	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/nl"
)

// Decoders returns the decoder table for the four rtnetlink message kinds.
// Selection is purely by the numeric wire type; the new and del variants of
// each kind share one decoder.
func Decoders() nl.DecoderMap {
	return nl.DecoderMap{
		unix.RTM_NEWLINK:  decodeLink,
		unix.RTM_DELLINK:  decodeLink,
		unix.RTM_NEWADDR:  decodeAddress,
		unix.RTM_DELADDR:  decodeAddress,
		unix.RTM_NEWNEIGH: decodeNeighbor,
		unix.RTM_DELNEIGH: decodeNeighbor,
		unix.RTM_NEWROUTE: decodeRoute,
		unix.RTM_DELROUTE: decodeRoute,
	}
}

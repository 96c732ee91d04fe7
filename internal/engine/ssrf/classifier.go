package ssrf

import (
	"encoding/binary"
	"net"
)

// ipRange is an inclusive span of IPv4 addresses in unsigned 32-bit form.
type ipRange struct {
	start uint32
	end   uint32
}

// Blocklist of well-known private/reserved IPv4 blocks. An allow-list of
// public ranges is infeasible (the public space is the complement of these
// blocks and keeps growing), so the deny-list is the policy.
var reservedRanges = []ipRange{
	{0x0A000000, 0x0AFFFFFF}, // 10.0.0.0/8
	{0xAC100000, 0xAC1FFFFF}, // 172.16.0.0/12
	{0xC0A80000, 0xC0A8FFFF}, // 192.168.0.0/16
	{0x7F000000, 0x7FFFFFFF}, // 127.0.0.0/8 loopback
	{0xA9FE0000, 0xA9FEFFFF}, // 169.254.0.0/16 link-local
}

// IsReservedOrPrivate reports whether the given address falls inside a
// reserved or private IPv4 block. Anything that does not parse as exactly
// four octets is treated as private: an address we cannot classify is an
// address we must not dispatch to. IPv6 addresses land in the same bucket;
// the current policy only covers IPv4 ranges, so IPv6 destinations are
// blocked outright rather than guessed at.
func IsReservedOrPrivate(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return true
	}
	v4 := ip.To4()
	if v4 == nil {
		return true
	}

	n := binary.BigEndian.Uint32(v4)
	for _, r := range reservedRanges {
		if n >= r.start && n <= r.end {
			return true
		}
	}
	return false
}

package rtnl

// rtnetlink attribute and service-header constants from the kernel uapi
// headers (if_link.h, if_addr.h, neighbour.h, rtnetlink.h, if_bridge.h).
// Kept local because x/sys/unix does not export the attribute enums.

// Link attributes (IFLA_*).
const (
	IFLA_IFNAME     = 3
	IFLA_LINK       = 5
	IFLA_LINKINFO   = 18
	IFLA_AF_SPEC    = 26
	IFLA_PROTO_DOWN = 39
)

// Nested under IFLA_LINKINFO.
const (
	IFLA_INFO_KIND = 1
	IFLA_INFO_DATA = 2
)

// Nested under IFLA_INFO_DATA for the respective link kinds.
const (
	IFLA_VLAN_ID      = 1
	IFLA_MACVLAN_MODE = 1

	MACVLAN_MODE_PRIVATE = 1
)

// Nested under IFLA_AF_SPEC for AF_BRIDGE.
const (
	IFLA_BRIDGE_FLAGS     = 0
	IFLA_BRIDGE_VLAN_INFO = 2

	BRIDGE_FLAGS_SELF = 2

	BRIDGE_VLAN_INFO_PVID     = 2
	BRIDGE_VLAN_INFO_UNTAGGED = 4
)

// Address attributes (IFA_*).
const (
	IFA_ADDRESS = 1
	IFA_LOCAL   = 2
	IFA_LABEL   = 3
)

// Neighbor attributes (NDA_*) and cache states (NUD_*).
const (
	NDA_DST    = 1
	NDA_LLADDR = 2

	NUD_REACHABLE = 0x02
)

// Route attributes (RTA_*).
const (
	RTA_DST       = 1
	RTA_OIF       = 4
	RTA_GATEWAY   = 5
	RTA_PRIORITY  = 6
	RTA_MULTIPATH = 9
)

// Route defaults.
const (
	RT_TABLE_MAIN     = 254
	RTPROT_STATIC     = 4
	RT_SCOPE_UNIVERSE = 0
	RTN_UNICAST       = 1
)

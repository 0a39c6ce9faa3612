package rtnl

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/log"
	"github.com/rtkit/nlmgr/internal/nl"
)

// Manager builds rtnetlink requests for high-level intents and drives them
// through one nl.Session. It holds no protocol state of its own beyond the
// session, so the session's single-outstanding-request rule applies to all
// of its lookup and dump methods.
type Manager struct {
	s *nl.Session
}

// NewManager binds a manager to a session.
func NewManager(s *nl.Session) *Manager {
	return &Manager{s: s}
}

// Session returns the underlying session.
func (m *Manager) Session() *nl.Session {
	return m.s
}

func familyOf(ip net.IP) uint8 {
	if ip.To4() != nil {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func (m *Manager) build(req *Request) error {
	return req.Build(m.s.NextSeq(), m.s.PID())
}

// Dumps

func (m *Manager) requestDump(msgType uint16, family uint8) ([]nl.Message, error) {
	req := NewRequest(msgType, unix.NLM_F_REQUEST|unix.NLM_F_DUMP, family)
	switch msgType {
	case unix.RTM_GETLINK:
		req.SetBody(marshalIfInfomsg(family, 0, 0, 0))
	case unix.RTM_GETADDR:
		req.SetBody(marshalIfAddrmsg(family, 0, 0, 0, 0))
	case unix.RTM_GETNEIGH:
		req.SetBody(marshalNdmsg(family, 0, 0, 0, 0))
	case unix.RTM_GETROUTE:
		req.SetBody(marshalRtmsg(family, 0, 0, 0, 0, 0, 0, 0, 0))
	default:
		return nil, errors.NewInternalError(fmt.Sprintf("dump is not supported for %s", nl.TypeString(msgType)), nil)
	}
	if err := m.build(req); err != nil {
		return nil, err
	}
	return m.s.Exchange(req)
}

// Links dumps all interfaces. The result may be partial if the receive wait
// is abandoned; see nl.Session.Exchange.
func (m *Manager) Links() ([]*Link, error) {
	msgs, err := m.requestDump(unix.RTM_GETLINK, unix.AF_UNSPEC)
	if err != nil {
		return nil, err
	}
	links := make([]*Link, 0, len(msgs))
	for _, msg := range msgs {
		if l, ok := msg.(*Link); ok {
			links = append(links, l)
		}
	}
	return links, nil
}

// Addresses dumps all addresses of the given family (unix.AF_UNSPEC for all).
func (m *Manager) Addresses(family uint8) ([]*Address, error) {
	msgs, err := m.requestDump(unix.RTM_GETADDR, family)
	if err != nil {
		return nil, err
	}
	addrs := make([]*Address, 0, len(msgs))
	for _, msg := range msgs {
		if a, ok := msg.(*Address); ok {
			addrs = append(addrs, a)
		}
	}
	return addrs, nil
}

// Neighbors dumps the neighbor cache for the given family.
func (m *Manager) Neighbors(family uint8) ([]*Neighbor, error) {
	msgs, err := m.requestDump(unix.RTM_GETNEIGH, family)
	if err != nil {
		return nil, err
	}
	nbrs := make([]*Neighbor, 0, len(msgs))
	for _, msg := range msgs {
		if n, ok := msg.(*Neighbor); ok {
			nbrs = append(nbrs, n)
		}
	}
	return nbrs, nil
}

// Routes dumps all routes of the given family.
func (m *Manager) Routes(family uint8) ([]*Route, error) {
	msgs, err := m.requestDump(unix.RTM_GETROUTE, family)
	if err != nil {
		return nil, err
	}
	routes := make([]*Route, 0, len(msgs))
	for _, msg := range msgs {
		if r, ok := msg.(*Route); ok {
			routes = append(routes, r)
		}
	}
	return routes, nil
}

// Links

// LinkByName looks up one interface by name. Absence is a routine outcome
// and is reported as (nil, nil), not as an error.
func (m *Manager) LinkByName(name string) (*Link, error) {
	req := NewRequest(unix.RTM_GETLINK, unix.NLM_F_REQUEST|unix.NLM_F_ACK, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, 0, 0))
	req.AddAttr(IFLA_IFNAME, name)
	if err := m.build(req); err != nil {
		return nil, err
	}

	msgs, err := m.s.Exchange(req)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNoAddress) {
			log.Debugf("netlink did not find interface %s", name)
			return nil, nil
		}
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	l, ok := msgs[0].(*Link)
	if !ok {
		return nil, errors.NewInternalError("link lookup returned a non-link message", nil)
	}
	return l, nil
}

// InterfaceIndex returns the interface index for name, 0 when the interface
// does not exist.
func (m *Manager) InterfaceIndex(name string) (int32, error) {
	l, err := m.LinkByName(name)
	if err != nil || l == nil {
		return 0, err
	}
	return l.Index, nil
}

func (m *Manager) linkAdd(parentIndex int32, name, kind string, infoData AttrMap) error {
	req := NewRequest(unix.RTM_NEWLINK, unix.NLM_F_CREATE|unix.NLM_F_REQUEST, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, 0, 0))
	req.AddAttr(IFLA_IFNAME, name)
	req.AddAttr(IFLA_LINK, parentIndex)
	req.AddAttr(IFLA_LINKINFO, AttrMap{
		IFLA_INFO_KIND: kind,
		IFLA_INFO_DATA: infoData,
	})
	if err := m.build(req); err != nil {
		return err
	}
	return m.s.Transmit(req)
}

// LinkAddVlan creates a VLAN sub-interface on the parent identified by
// parentIndex.
//
// If the name uses dot notation the kernel insists that the suffix match the
// VLAN id, and rejects a mismatch with a misleading NLE_MSG_OVERFLOW error.
// The check is done here instead so the caller gets an intelligible
// validation error before anything touches the wire.
func (m *Manager) LinkAddVlan(parentIndex int32, name string, vlanID uint16) error {
	if i := strings.LastIndex(name, "."); i >= 0 {
		suffix := name[i+1:]
		n, err := strconv.Atoi(suffix)
		if err != nil {
			return errors.NewValidationError(
				fmt.Sprintf("interface %s uses dot notation but %q is not a VLAN id", name, suffix), err)
		}
		if n != int(vlanID) {
			return errors.NewValidationError(
				fmt.Sprintf("interface %s must belong to VLAN %d (VLAN %d was requested)", name, n, vlanID), nil)
		}
	}
	return m.linkAdd(parentIndex, name, "vlan", AttrMap{IFLA_VLAN_ID: vlanID})
}

// LinkAddMacvlan creates a private-mode macvlan sub-interface on the parent
// identified by parentIndex.
func (m *Manager) LinkAddMacvlan(parentIndex int32, name string) error {
	return m.linkAdd(parentIndex, name, "macvlan", AttrMap{IFLA_MACVLAN_MODE: uint32(MACVLAN_MODE_PRIVATE)})
}

func (m *Manager) bridgeVlan(msgType uint16, ifindex int32, vid uint16, pvid, untagged, master bool) error {
	var flags uint16
	if !master {
		flags = BRIDGE_FLAGS_SELF
	}

	var vflags uint16
	if pvid {
		vflags = BRIDGE_VLAN_INFO_PVID | BRIDGE_VLAN_INFO_UNTAGGED
	} else if untagged {
		vflags = BRIDGE_VLAN_INFO_UNTAGGED
	}

	req := NewRequest(msgType, unix.NLM_F_REQUEST|unix.NLM_F_ACK, unix.AF_BRIDGE)
	req.SetBody(marshalIfInfomsg(unix.AF_BRIDGE, ifindex, 0, 0))
	req.AddAttr(IFLA_AF_SPEC, AttrMap{
		IFLA_BRIDGE_FLAGS:     flags,
		IFLA_BRIDGE_VLAN_INFO: BridgeVlanInfo{Flags: vflags, VID: vid},
	})
	if err := m.build(req); err != nil {
		return err
	}
	return m.s.Transmit(req)
}

// BridgeVlanAdd adds a VLAN to a bridge port.
func (m *Manager) BridgeVlanAdd(ifindex int32, vid uint16, pvid, untagged, master bool) error {
	return m.bridgeVlan(unix.RTM_SETLINK, ifindex, vid, pvid, untagged, master)
}

// BridgeVlanDel removes a VLAN from a bridge port.
func (m *Manager) BridgeVlanDel(ifindex int32, vid uint16, pvid, untagged, master bool) error {
	return m.bridgeVlan(unix.RTM_DELLINK, ifindex, vid, pvid, untagged, master)
}

// LinkSetState brings the named interface administratively up or down.
// Fire-and-forget.
func (m *Manager) LinkSetState(name string, up bool) error {
	var flags uint32
	if up {
		flags = unix.IFF_UP
	}

	req := NewRequest(unix.RTM_NEWLINK, unix.NLM_F_REQUEST, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, flags, unix.IFF_UP))
	req.AddAttr(IFLA_IFNAME, name)
	if err := m.build(req); err != nil {
		return err
	}
	return m.s.Transmit(req)
}

// LinkSetProtodown toggles IFLA_PROTO_DOWN on the named interface.
// Fire-and-forget.
func (m *Manager) LinkSetProtodown(name string, on bool) error {
	var protodown uint8
	if on {
		protodown = 1
	}

	req := NewRequest(unix.RTM_NEWLINK, unix.NLM_F_REQUEST, unix.AF_UNSPEC)
	req.SetBody(marshalIfInfomsg(unix.AF_UNSPEC, 0, 0, 0))
	req.AddAttr(IFLA_IFNAME, name)
	req.AddAttr(IFLA_PROTO_DOWN, protodown)
	if err := m.build(req); err != nil {
		return err
	}
	return m.s.Transmit(req)
}

// Neighbors

func (m *Manager) neighborEdit(msgType, flags uint16, ifindex int32, ip net.IP, lladdr net.HardwareAddr) error {
	family := familyOf(ip)
	req := NewRequest(msgType, flags, family)
	req.SetBody(marshalNdmsg(family, ifindex, NUD_REACHABLE, 0, RTN_UNICAST))
	req.AddAttr(NDA_DST, ip)
	req.AddAttr(NDA_LLADDR, lladdr)
	if err := m.build(req); err != nil {
		return err
	}
	return m.s.Transmit(req)
}

// NeighborAdd installs a reachable neighbor cache entry. Fire-and-forget.
func (m *Manager) NeighborAdd(ifindex int32, ip net.IP, lladdr net.HardwareAddr) error {
	return m.neighborEdit(unix.RTM_NEWNEIGH, unix.NLM_F_CREATE|unix.NLM_F_REQUEST, ifindex, ip, lladdr)
}

// NeighborDel removes a neighbor cache entry. Fire-and-forget.
func (m *Manager) NeighborDel(ifindex int32, ip net.IP, lladdr net.HardwareAddr) error {
	return m.neighborEdit(unix.RTM_DELNEIGH, unix.NLM_F_REQUEST, ifindex, ip, lladdr)
}

// Routes

// RouteSpec describes one route for bulk add or delete. Either Gateway and
// Ifindex describe a single next hop, or NextHops carries an ECMP set.
type RouteSpec struct {
	Dst       net.IP
	PrefixLen uint8
	Gateway   net.IP
	Ifindex   int32
	NextHops  []NextHop
}

// RouteOptions selects the table and classification shared by one bulk
// operation. Zero values mean the main table and a static unicast route with
// universe scope.
type RouteOptions struct {
	Table    uint8
	Protocol uint8
	Scope    uint8
	Type     uint8
}

func (o RouteOptions) withDefaults() RouteOptions {
	if o.Table == 0 {
		o.Table = RT_TABLE_MAIN
	}
	if o.Protocol == 0 {
		o.Protocol = RTPROT_STATIC
	}
	// Scope universe and type unicast are already the zero values' intent.
	if o.Type == 0 {
		o.Type = RTN_UNICAST
	}
	return o
}

func (m *Manager) routeRequest(msgType, flags uint16, spec RouteSpec, opts RouteOptions) (*Request, error) {
	if spec.Dst == nil {
		return nil, errors.NewValidationError("route has no destination", nil)
	}
	family := familyOf(spec.Dst)

	req := NewRequest(msgType, flags, family)
	req.SetBody(marshalRtmsg(family, spec.PrefixLen, 0, 0, opts.Table, opts.Protocol, opts.Scope, opts.Type, 0))
	req.AddAttr(RTA_DST, spec.Dst)
	if len(spec.NextHops) > 0 {
		req.AddAttr(RTA_MULTIPATH, spec.NextHops)
	} else {
		if spec.Gateway != nil {
			req.AddAttr(RTA_GATEWAY, spec.Gateway)
		}
		req.AddAttr(RTA_OIF, spec.Ifindex)
	}
	if err := m.build(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (m *Manager) routesEdit(msgType uint16, routes []RouteSpec, opts RouteOptions) error {
	opts = opts.withDefaults()
	batch := m.s.NewBatch()
	for _, spec := range routes {
		req, err := m.routeRequest(msgType, unix.NLM_F_REQUEST|unix.NLM_F_CREATE, spec, opts)
		if err != nil {
			return err
		}
		if err := batch.Add(req); err != nil {
			return err
		}
	}
	return batch.Flush()
}

// RoutesAdd installs routes in bulk. Writes are batched and not individually
// acknowledged; the caller accepts best-effort semantics on this path.
func (m *Manager) RoutesAdd(routes []RouteSpec, opts RouteOptions) error {
	return m.routesEdit(unix.RTM_NEWROUTE, routes, opts)
}

// RoutesDel removes routes in bulk with the same best-effort semantics as
// RoutesAdd.
func (m *Manager) RoutesDel(routes []RouteSpec, opts RouteOptions) error {
	return m.routesEdit(unix.RTM_DELROUTE, routes, opts)
}

// RouteAdd installs a single route and waits for the kernel's ack.
func (m *Manager) RouteAdd(spec RouteSpec, opts RouteOptions) error {
	opts = opts.withDefaults()
	req, err := m.routeRequest(unix.RTM_NEWROUTE, unix.NLM_F_REQUEST|unix.NLM_F_CREATE|unix.NLM_F_ACK, spec, opts)
	if err != nil {
		return err
	}
	_, err = m.s.Exchange(req)
	return err
}

// RouteGet queries the kernel for the route that would carry traffic to ip.
func (m *Manager) RouteGet(ip net.IP) ([]*Route, error) {
	family := familyOf(ip)
	req := NewRequest(unix.RTM_GETROUTE, unix.NLM_F_REQUEST|unix.NLM_F_ACK, family)
	req.SetBody(marshalRtmsg(family, 0, 0, 0, 0, 0, 0, 0, 0))
	req.AddAttr(RTA_DST, ip)
	if err := m.build(req); err != nil {
		return nil, err
	}

	msgs, err := m.s.Exchange(req)
	if err != nil {
		return nil, err
	}
	routes := make([]*Route, 0, len(msgs))
	for _, msg := range msgs {
		if r, ok := msg.(*Route); ok {
			routes = append(routes, r)
		}
	}
	return routes, nil
}

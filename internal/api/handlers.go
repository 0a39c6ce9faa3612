package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/rtnl"
)

// Inspector serializes API access to one rtnl.Manager. The underlying
// session allows one outstanding request at a time, so every handler takes
// the mutex for the duration of its query.
type Inspector struct {
	mu  sync.Mutex
	mgr *rtnl.Manager
}

// NewInspector wraps a manager for use by the read-only API handlers.
func NewInspector(mgr *rtnl.Manager) *Inspector {
	return &Inspector{mgr: mgr}
}

// familyParam maps the optional ?family= query parameter to an address
// family. Absent or "all" means both.
func familyParam(r *http.Request) (uint8, error) {
	switch v := r.URL.Query().Get("family"); v {
	case "", "all":
		return unix.AF_UNSPEC, nil
	case "4":
		return unix.AF_INET, nil
	case "6":
		return unix.AF_INET6, nil
	default:
		return 0, fmt.Errorf("family must be 4, 6 or all, got %q", v)
	}
}

// LinkResponse represents one interface
type LinkResponse struct {
	Index int32  `json:"index"`
	Name  string `json:"name"`
	Up    bool   `json:"up"`
	Flags uint32 `json:"flags"`
}

// AddressResponse represents one interface address
type AddressResponse struct {
	Index     int32  `json:"index"`
	Family    uint8  `json:"family"`
	IP        string `json:"ip,omitempty"`
	PrefixLen uint8  `json:"prefix_len"`
	Label     string `json:"label,omitempty"`
}

// NeighborResponse represents one neighbor cache entry
type NeighborResponse struct {
	Ifindex int32  `json:"ifindex"`
	Family  uint8  `json:"family"`
	IP      string `json:"ip,omitempty"`
	LLAddr  string `json:"lladdr,omitempty"`
	State   uint16 `json:"state"`
}

// RouteResponse represents one route
type RouteResponse struct {
	Family    uint8  `json:"family"`
	Dst       string `json:"dst,omitempty"`
	PrefixLen uint8  `json:"prefix_len"`
	Gateway   string `json:"gateway,omitempty"`
	OIF       int32  `json:"oif"`
	Table     uint8  `json:"table"`
	Protocol  uint8  `json:"protocol"`
}

// HandleLinks returns all interfaces
func HandleLinks(ins *Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ins.mu.Lock()
		links, err := ins.mgr.Links()
		ins.mu.Unlock()
		if err != nil {
			WriteNetlinkError(w, fmt.Sprintf("Failed to dump links: %v", err))
			return
		}

		resp := make([]LinkResponse, 0, len(links))
		for _, l := range links {
			resp = append(resp, LinkResponse{
				Index: l.Index,
				Name:  l.Name(),
				Up:    l.Up(),
				Flags: l.Flags,
			})
		}
		RespondOK(w, resp)
	}
}

// HandleLinkGet returns one interface by name
func HandleLinkGet(ins *Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "link_name")

		ins.mu.Lock()
		l, err := ins.mgr.LinkByName(name)
		ins.mu.Unlock()
		if err != nil {
			WriteNetlinkError(w, fmt.Sprintf("Failed to look up %s: %v", name, err))
			return
		}
		if l == nil {
			WriteNotFound(w, fmt.Sprintf("Interface '%s'", name))
			return
		}
		RespondOK(w, LinkResponse{Index: l.Index, Name: l.Name(), Up: l.Up(), Flags: l.Flags})
	}
}

// HandleAddresses returns all addresses, optionally filtered by family
func HandleAddresses(ins *Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		family, err := familyParam(r)
		if err != nil {
			WriteInvalidRequest(w, err.Error())
			return
		}

		ins.mu.Lock()
		addrs, err := ins.mgr.Addresses(family)
		ins.mu.Unlock()
		if err != nil {
			WriteNetlinkError(w, fmt.Sprintf("Failed to dump addresses: %v", err))
			return
		}

		resp := make([]AddressResponse, 0, len(addrs))
		for _, a := range addrs {
			item := AddressResponse{
				Index:     a.Index,
				Family:    a.Family,
				PrefixLen: a.PrefixLen,
				Label:     a.Label(),
			}
			if ip := a.IP(); ip != nil {
				item.IP = ip.String()
			}
			resp = append(resp, item)
		}
		RespondOK(w, resp)
	}
}

// HandleNeighbors returns the neighbor cache, optionally filtered by family
func HandleNeighbors(ins *Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		family, err := familyParam(r)
		if err != nil {
			WriteInvalidRequest(w, err.Error())
			return
		}

		ins.mu.Lock()
		nbrs, err := ins.mgr.Neighbors(family)
		ins.mu.Unlock()
		if err != nil {
			WriteNetlinkError(w, fmt.Sprintf("Failed to dump neighbors: %v", err))
			return
		}

		resp := make([]NeighborResponse, 0, len(nbrs))
		for _, n := range nbrs {
			item := NeighborResponse{
				Ifindex: n.Ifindex,
				Family:  n.Family,
				State:   n.State,
			}
			if ip := n.IP(); ip != nil {
				item.IP = ip.String()
			}
			if hw := n.LLAddr(); hw != nil {
				item.LLAddr = hw.String()
			}
			resp = append(resp, item)
		}
		RespondOK(w, resp)
	}
}

// HandleRoutes returns all routes, optionally filtered by family
func HandleRoutes(ins *Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		family, err := familyParam(r)
		if err != nil {
			WriteInvalidRequest(w, err.Error())
			return
		}

		ins.mu.Lock()
		routes, err := ins.mgr.Routes(family)
		ins.mu.Unlock()
		if err != nil {
			WriteNetlinkError(w, fmt.Sprintf("Failed to dump routes: %v", err))
			return
		}

		resp := make([]RouteResponse, 0, len(routes))
		for _, rt := range routes {
			item := RouteResponse{
				Family:    rt.Family,
				PrefixLen: rt.DstLen,
				OIF:       rt.OIF(),
				Table:     rt.Table,
				Protocol:  rt.Protocol,
			}
			if dst := rt.Dst(); dst != nil {
				item.Dst = dst.String()
			}
			if gw := rt.Gateway(); gw != nil {
				item.Gateway = gw.String()
			}
			resp = append(resp, item)
		}
		RespondOK(w, resp)
	}
}

// Package pdb holds the peering-database domain model and the read
// contract the rest of the tool is built against. All types are
// immutable snapshots: they are fetched once per command invocation and
// never written back.
package pdb

import "time"

// Network is one AS entry in the peering database, optionally carrying
// its exchange-LAN memberships, facilities and contacts depending on
// the load depth used to fetch it.
type Network struct {
	ID       int64  `json:"id" yaml:"id" xml:"id"`
	ASN      uint32 `json:"asn" yaml:"asn" xml:"asn"`
	Name     string `json:"name" yaml:"name" xml:"name"`
	AKA      string `json:"aka,omitempty" yaml:"aka,omitempty" xml:"aka,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty" xml:"website,omitempty"`
	IRRASSet string `json:"irr_as_set,omitempty" yaml:"irr_as_set,omitempty" xml:"irr_as_set,omitempty"`

	InfoType                 string `json:"info_type,omitempty" yaml:"info_type,omitempty" xml:"info_type,omitempty"`
	InfoPrefixes4            int    `json:"info_prefixes4" yaml:"info_prefixes4" xml:"info_prefixes4"`
	InfoPrefixes6            int    `json:"info_prefixes6" yaml:"info_prefixes6" xml:"info_prefixes6"`
	InfoTraffic              string `json:"info_traffic,omitempty" yaml:"info_traffic,omitempty" xml:"info_traffic,omitempty"`
	InfoRatio                string `json:"info_ratio,omitempty" yaml:"info_ratio,omitempty" xml:"info_ratio,omitempty"`
	InfoScope                string `json:"info_scope,omitempty" yaml:"info_scope,omitempty" xml:"info_scope,omitempty"`
	InfoIPv6                 bool   `json:"info_ipv6" yaml:"info_ipv6" xml:"info_ipv6"`
	InfoNeverViaRouteServers bool   `json:"info_never_via_route_servers" yaml:"info_never_via_route_servers" xml:"info_never_via_route_servers"`

	IXCount  int    `json:"ix_count" yaml:"ix_count" xml:"ix_count"`
	FacCount int    `json:"fac_count" yaml:"fac_count" xml:"fac_count"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty" xml:"notes,omitempty"`

	PolicyURL       string `json:"policy_url,omitempty" yaml:"policy_url,omitempty" xml:"policy_url,omitempty"`
	PolicyGeneral   string `json:"policy_general,omitempty" yaml:"policy_general,omitempty" xml:"policy_general,omitempty"`
	PolicyLocations string `json:"policy_locations,omitempty" yaml:"policy_locations,omitempty" xml:"policy_locations,omitempty"`
	PolicyRatio     bool   `json:"policy_ratio" yaml:"policy_ratio" xml:"policy_ratio"`
	PolicyContracts string `json:"policy_contracts,omitempty" yaml:"policy_contracts,omitempty" xml:"policy_contracts,omitempty"`

	Status  string    `json:"status,omitempty" yaml:"status,omitempty" xml:"status,omitempty"`
	Created time.Time `json:"created" yaml:"created" xml:"created"`
	Updated time.Time `json:"updated" yaml:"updated" xml:"updated"`

	// Loaded sets. Field names follow the upstream API so raw dumps
	// stay comparable with other PeeringDB tooling.
	IXLANs     []ExchangeLAN `json:"netixlan_set,omitempty" yaml:"netixlan_set,omitempty" xml:"netixlan_set>ixlan,omitempty"`
	Facilities []Facility    `json:"netfac_set,omitempty" yaml:"netfac_set,omitempty" xml:"netfac_set>facility,omitempty"`
	Contacts   []Contact     `json:"poc_set,omitempty" yaml:"poc_set,omitempty" xml:"poc_set>contact,omitempty"`
}

// ExchangeLAN is one exchange LAN the network is a member of, together
// with the network's own port on that LAN.
type ExchangeLAN struct {
	ID   int64    `json:"id" yaml:"id" xml:"id"`
	IXID int64    `json:"ix_id" yaml:"ix_id" xml:"ix_id"`
	Name string   `json:"name" yaml:"name" xml:"name"`
	Port PortInfo `json:"port" yaml:"port" xml:"port"`
}

// PortInfo describes a single presence on an exchange LAN.
type PortInfo struct {
	IPv4        string    `json:"ipaddr4,omitempty" yaml:"ipaddr4,omitempty" xml:"ipaddr4,omitempty"`
	IPv6        string    `json:"ipaddr6,omitempty" yaml:"ipaddr6,omitempty" xml:"ipaddr6,omitempty"`
	SpeedMbps   int       `json:"speed" yaml:"speed" xml:"speed"`
	RSPeer      bool      `json:"is_rs_peer" yaml:"is_rs_peer" xml:"is_rs_peer"`
	Operational bool      `json:"operational" yaml:"operational" xml:"operational"`
	Status      string    `json:"status,omitempty" yaml:"status,omitempty" xml:"status,omitempty"`
	Created     time.Time `json:"created" yaml:"created" xml:"created"`
	Updated     time.Time `json:"updated" yaml:"updated" xml:"updated"`
}

// Member is another network's port on an exchange LAN. Prefixes4/6 come
// from the member's network row; zero means the row carries no limit.
type Member struct {
	NetworkID   int64  `json:"net_id" yaml:"net_id" xml:"net_id"`
	ASN         uint32 `json:"asn" yaml:"asn" xml:"asn"`
	Name        string `json:"name" yaml:"name" xml:"name"`
	IPv4        string `json:"ipaddr4,omitempty" yaml:"ipaddr4,omitempty" xml:"ipaddr4,omitempty"`
	IPv6        string `json:"ipaddr6,omitempty" yaml:"ipaddr6,omitempty" xml:"ipaddr6,omitempty"`
	SpeedMbps   int    `json:"speed" yaml:"speed" xml:"speed"`
	RSPeer      bool   `json:"is_rs_peer" yaml:"is_rs_peer" xml:"is_rs_peer"`
	Operational bool   `json:"operational" yaml:"operational" xml:"operational"`
	Prefixes4   int    `json:"prefixes4" yaml:"prefixes4" xml:"prefixes4"`
	Prefixes6   int    `json:"prefixes6" yaml:"prefixes6" xml:"prefixes6"`
}

// Facility is a datacenter presence, display-only.
type Facility struct {
	ID       int64     `json:"id" yaml:"id" xml:"id"`
	FacID    int64     `json:"fac_id" yaml:"fac_id" xml:"fac_id"`
	Name     string    `json:"name" yaml:"name" xml:"name"`
	City     string    `json:"city,omitempty" yaml:"city,omitempty" xml:"city,omitempty"`
	Country  string    `json:"country,omitempty" yaml:"country,omitempty" xml:"country,omitempty"`
	LocalASN uint32    `json:"local_asn" yaml:"local_asn" xml:"local_asn"`
	Status   string    `json:"status,omitempty" yaml:"status,omitempty" xml:"status,omitempty"`
	Created  time.Time `json:"created" yaml:"created" xml:"created"`
	Updated  time.Time `json:"updated" yaml:"updated" xml:"updated"`
}

// Contact is a point-of-contact row.
type Contact struct {
	ID      int64  `json:"id" yaml:"id" xml:"id"`
	Role    string `json:"role" yaml:"role" xml:"role"`
	Name    string `json:"name" yaml:"name" xml:"name"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty" xml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty" xml:"phone,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty" xml:"url,omitempty"`
	Visible string `json:"visible,omitempty" yaml:"visible,omitempty" xml:"visible,omitempty"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty" xml:"status,omitempty"`
}

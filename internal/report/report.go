// Package report renders human-readable summaries of a network for the
// terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/route-beacon/neighgen/internal/pdb"
)

// Speed formats a port speed in Mbit/s using the largest sensible unit.
func Speed(mbps int) string {
	switch {
	case mbps <= 0:
		return "-"
	case mbps >= 1000000 && mbps%1000000 == 0:
		return fmt.Sprintf("%d tbps", mbps/1000000)
	case mbps >= 1000 && mbps%1000 == 0:
		return fmt.Sprintf("%d gbps", mbps/1000)
	default:
		return fmt.Sprintf("%d mbps", mbps)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// WriteNetwork prints the general information block for a network.
func WriteNetwork(w io.Writer, n *pdb.Network) {
	fmt.Fprintf(w, "Information for AS%d\n\n", n.ASN)

	t := tablewriter.NewWriter(w)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.Append([]string{"Name", n.Name})
	if n.AKA != "" {
		t.Append([]string{"Also known as", n.AKA})
	}
	t.Append([]string{"Website", orDash(n.Website)})
	t.Append([]string{"IRR AS-SET", orDash(n.IRRASSet)})
	t.Append([]string{"Network type", orDash(n.InfoType)})
	t.Append([]string{"Traffic levels", orDash(n.InfoTraffic)})
	t.Append([]string{"Traffic ratio", orDash(n.InfoRatio)})
	t.Append([]string{"Geographic scope", orDash(n.InfoScope)})
	t.Append([]string{"IPv6 support", yesNo(n.InfoIPv6)})
	t.Append([]string{"Exchange points", strconv.Itoa(n.IXCount)})
	t.Append([]string{"Facilities", strconv.Itoa(n.FacCount)})
	t.Render()
}

// WritePeeringPolicy prints the peering policy block.
func WritePeeringPolicy(w io.Writer, n *pdb.Network) {
	fmt.Fprintf(w, "\nPeering policy\n\n")

	t := tablewriter.NewWriter(w)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.Append([]string{"Policy URL", orDash(n.PolicyURL)})
	t.Append([]string{"General policy", orDash(n.PolicyGeneral)})
	t.Append([]string{"Multiple locations", orDash(n.PolicyLocations)})
	t.Append([]string{"Ratio requirement", yesNo(n.PolicyRatio)})
	t.Append([]string{"Contract requirement", orDash(n.PolicyContracts)})
	t.Append([]string{"Max IPv4 prefixes", strconv.Itoa(n.InfoPrefixes4)})
	t.Append([]string{"Max IPv6 prefixes", strconv.Itoa(n.InfoPrefixes6)})
	t.Render()
}

// WriteExchanges prints one row per exchange-LAN presence.
func WriteExchanges(w io.Writer, n *pdb.Network) {
	fmt.Fprintf(w, "\nExchange points (%d)\n\n", len(n.IXLANs))
	if len(n.IXLANs) == 0 {
		fmt.Fprintln(w, "  none on record")
		return
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Exchange", "IPv4", "IPv6", "Speed", "RS peer", "Up"})
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, lan := range n.IXLANs {
		t.Append([]string{
			lan.Name,
			orDash(lan.Port.IPv4),
			orDash(lan.Port.IPv6),
			Speed(lan.Port.SpeedMbps),
			yesNo(lan.Port.RSPeer),
			yesNo(lan.Port.Operational),
		})
	}
	t.Render()
}

// WriteFacilities prints one row per facility presence.
func WriteFacilities(w io.Writer, n *pdb.Network) {
	fmt.Fprintf(w, "\nFacilities (%d)\n\n", len(n.Facilities))
	if len(n.Facilities) == 0 {
		fmt.Fprintln(w, "  none on record")
		return
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Facility", "City", "Country", "Local ASN"})
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, f := range n.Facilities {
		t.Append([]string{f.Name, orDash(f.City), orDash(f.Country), strconv.FormatUint(uint64(f.LocalASN), 10)})
	}
	t.Render()
}

// WriteContacts prints the publicly visible points of contact.
func WriteContacts(w io.Writer, n *pdb.Network) {
	fmt.Fprintf(w, "\nContacts (%d)\n\n", len(n.Contacts))
	if len(n.Contacts) == 0 {
		fmt.Fprintln(w, "  none on record")
		return
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Role", "Name", "Email", "Phone"})
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, c := range n.Contacts {
		t.Append([]string{c.Role, orDash(c.Name), orDash(c.Email), orDash(c.Phone)})
	}
	t.Render()
}

// WriteNotes prints the free-form notes block when the record has one.
func WriteNotes(w io.Writer, n *pdb.Network) {
	if strings.TrimSpace(n.Notes) == "" {
		return
	}
	fmt.Fprintf(w, "\nNotes\n\n%s\n", strings.TrimSpace(n.Notes))
}

// Write prints the full asinfo report.
func Write(w io.Writer, n *pdb.Network) {
	WriteNetwork(w, n)
	WritePeeringPolicy(w, n)
	WriteExchanges(w, n)
	WriteFacilities(w, n)
	WriteContacts(w, n)
	WriteNotes(w, n)
}

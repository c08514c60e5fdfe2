// Package catalog lists every NetBox collection netbox-sync touches, in the
// order rows have to be created so that references already exist.
//
// The order is maintained by hand against the NetBox schema. Categories come
// in blocks (tenancy, circuits, dcim, ipam, virtualization, wireless, vpn,
// extras); inside a block every type follows the types it references.
package catalog

import "github.com/cimnine/netbox-sync/netbox/models"

var categories = []string{
	"tenancy",
	"circuits",
	"dcim",
	"ipam",
	"virtualization",
	"wireless",
	"vpn",
	"extras",
}

var types = map[string][]string{
	"tenancy": {
		"tenant-groups",
		"tenants",
		"contact-groups",
		"contact-roles",
		"contacts",
		"contact-assignments",
	},
	"circuits": {
		"providers",
		"circuit-types",
		"circuits",
		"circuit-terminations",
	},
	"dcim": {
		"regions",
		"site-groups",
		"sites",
		"locations",
		"rack-roles",
		"racks",
		"rack-reservations",
		"manufacturers",
		"platforms",
		"device-roles",
		"device-types",
		"module-types",
		"devices",
		"virtual-chassis",
		"interfaces",
		"power-panels",
		"power-feeds",
		"cables",
	},
	"ipam": {
		"rirs",
		"aggregates",
		"roles",
		"vrfs",
		"vlan-groups",
		"vlans",
		"prefixes",
		"ip-ranges",
		"ip-addresses",
		"fhrp-groups",
		"services",
	},
	"virtualization": {
		"cluster-types",
		"cluster-groups",
		"clusters",
		"virtual-machines",
		"interfaces",
	},
	"wireless": {
		"wireless-lan-groups",
		"wireless-lans",
		"wireless-links",
	},
	"vpn": {
		"ike-proposals",
		"ike-policies",
		"ipsec-proposals",
		"ipsec-policies",
		"ipsec-profiles",
		"tunnel-groups",
		"tunnels",
		"tunnel-terminations",
		"l2vpns",
		"l2vpn-terminations",
	},
	"extras": {
		"tags",
		"custom-fields",
		"custom-links",
		"export-templates",
		"saved-filters",
		"webhooks",
		"config-contexts",
		"journal-entries",
	},
}

var (
	all      []models.Descriptor
	position map[models.Descriptor]int
)

func init() {
	position = make(map[models.Descriptor]int)
	for _, category := range categories {
		for _, t := range types[category] {
			d := models.Descriptor{Category: category, Type: t}
			if _, seen := position[d]; seen {
				continue
			}
			position[d] = len(all)
			all = append(all, d)
		}
	}
}

// All returns every descriptor in dependency order. The slice is a copy.
func All() []models.Descriptor {
	out := make([]models.Descriptor, len(all))
	copy(out, all)
	return out
}

// Categories returns the category blocks in order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Position returns the index of d in All(), or -1 if netbox-sync does not
// know it.
func Position(d models.Descriptor) int {
	if i, ok := position[d]; ok {
		return i
	}
	return -1
}

// Lookup returns the descriptor for category/type if it is cataloged.
func Lookup(category, t string) (models.Descriptor, bool) {
	d := models.Descriptor{Category: category, Type: t}
	_, ok := position[d]
	return d, ok
}

// Parse resolves "dcim/devices" (or "dcim/devices.csv") to a cataloged
// descriptor.
func Parse(s string) (models.Descriptor, bool) {
	d, ok := models.ParseDescriptor(s)
	if !ok {
		return models.Descriptor{}, false
	}
	return Lookup(d.Category, d.Type)
}

package types

import "strings"

// NetworkFamily identifies the upstream delivery family an order belongs to.
type NetworkFamily string

const (
	NetworkFamilyMTN       NetworkFamily = "mtn"
	NetworkFamilyTelecel   NetworkFamily = "telecel"
	NetworkFamilyATIShare  NetworkFamily = "at_ishare"
	NetworkFamilyATBigTime NetworkFamily = "at_bigtime"
	NetworkFamilyUnknown   NetworkFamily = ""
)

// networkAliases maps canonicalized network labels to a family. Labels arrive
// from checkout screens in many spellings ("AT - iShare", "at-ishare", ...),
// so keys are matched after canonicalize().
var networkAliases = map[string]NetworkFamily{
	"mtn":          NetworkFamilyMTN,
	"mtnghana":     NetworkFamilyMTN,
	"telecel":      NetworkFamilyTelecel,
	"telecelghana": NetworkFamilyTelecel,
	"vodafone":     NetworkFamilyTelecel,
	"atishare":     NetworkFamilyATIShare,
	"ishare":       NetworkFamilyATIShare,
	"airteltigo":   NetworkFamilyATIShare,
	"atbigtime":    NetworkFamilyATBigTime,
	"bigtime":      NetworkFamilyATBigTime,
}

func canonicalize(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch r {
		case ' ', '-', '_', '.':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseNetworkFamily resolves a free-form network label to a known family.
// Unknown labels map to NetworkFamilyUnknown.
func ParseNetworkFamily(label string) NetworkFamily {
	if f, ok := networkAliases[canonicalize(label)]; ok {
		return f
	}
	return NetworkFamilyUnknown
}

func (f NetworkFamily) Known() bool { return f != NetworkFamilyUnknown }

// String returns the settings/vocabulary key for the family.
func (f NetworkFamily) String() string { return string(f) }

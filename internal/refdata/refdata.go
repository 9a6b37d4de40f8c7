// Package refdata supplies the static enumerations consumed by the wizard's
// forms: the wilaya list, vehicle brand list, and the per-category option
// tables. Everything here is read-only reference data, exposed as ordered
// {code, label} pairs so hosts can render selects in a stable order.
package refdata

import (
	"fmt"

	"github.com/samber/lo"
)

// Option is one entry of a reference table.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Wilayas is the ordered list of Algerian wilayas. The wizard stores the
// label (name), not the code, in the ad's location field.
var Wilayas = []Option{
	{"01", "Adrar"}, {"02", "Chlef"}, {"03", "Laghouat"}, {"04", "Oum El Bouaghi"},
	{"05", "Batna"}, {"06", "Béjaïa"}, {"07", "Biskra"}, {"08", "Béchar"},
	{"09", "Blida"}, {"10", "Bouira"}, {"11", "Tamanrasset"}, {"12", "Tébessa"},
	{"13", "Tlemcen"}, {"14", "Tiaret"}, {"15", "Tizi Ouzou"}, {"16", "Alger"},
	{"17", "Djelfa"}, {"18", "Jijel"}, {"19", "Sétif"}, {"20", "Saïda"},
	{"21", "Skikda"}, {"22", "Sidi Bel Abbès"}, {"23", "Annaba"}, {"24", "Guelma"},
	{"25", "Constantine"}, {"26", "Médéa"}, {"27", "Mostaganem"}, {"28", "M'Sila"},
	{"29", "Mascara"}, {"30", "Ouargla"}, {"31", "Oran"}, {"32", "El Bayadh"},
	{"33", "Illizi"}, {"34", "Bordj Bou Arréridj"}, {"35", "Boumerdès"}, {"36", "El Tarf"},
	{"37", "Tindouf"}, {"38", "Tissemsilt"}, {"39", "El Oued"}, {"40", "Khenchela"},
	{"41", "Souk Ahras"}, {"42", "Tipaza"}, {"43", "Mila"}, {"44", "Aïn Defla"},
	{"45", "Naâma"}, {"46", "Aïn Témouchent"}, {"47", "Ghardaïa"}, {"48", "Relizane"},
	{"49", "Timimoun"}, {"50", "Bordj Badji Mokhtar"}, {"51", "Ouled Djellal"},
	{"52", "Béni Abbès"}, {"53", "In Salah"}, {"54", "In Guezzam"}, {"55", "Touggourt"},
	{"56", "Djanet"}, {"57", "El M'Ghair"}, {"58", "El Meniaa"},
}

// VehicleBrands is the brand select for the auto category.
var VehicleBrands = labels(
	"Renault", "Peugeot", "Citroën", "Volkswagen", "Toyota", "Hyundai", "Kia",
	"Dacia", "BMW", "Mercedes-Benz", "Audi", "Ford", "Fiat", "Opel", "Seat",
	"Skoda", "Suzuki", "Nissan", "Honda", "Mitsubishi", "Mazda", "Other",
)

// FuelTypes is the fuel select for the auto category.
var FuelTypes = labels("Essence", "Gasoil", "GPL", "Électrique", "Hybride")

// Transmissions is the transmission select for the auto category.
var Transmissions = labels("Manual", "Automatic")

// VehicleConditions is the condition select for the auto category.
var VehicleConditions = labels("Neuf", "Excellent état", "Bon état", "État correct", "À réviser")

// PropertyTypes is the property-type select for the real-estate category.
var PropertyTypes = labels(
	"Appartement", "Villa", "Studio", "Bureau", "Local commercial", "Terrain",
	"Maison", "Duplex", "Penthouse",
)

// ContractTypes is the contract select for the jobs category.
var ContractTypes = labels("CDI", "CDD", "Freelance", "Stage", "Intérim", "Temps partiel")

// WorkModes is the work-mode select for the jobs category.
var WorkModes = labels("Présentiel", "Remote", "Hybride")

// ExperienceBands is the experience select for the jobs category.
var ExperienceBands = labels("Débutant (0–1 an)", "1–3 ans", "3–5 ans", "5–10 ans", "10+ ans")

// RateTypes is the rate select for the services category.
var RateTypes = labels("Prix fixe", "Par heure", "Par jour", "Par projet", "Négociable")

// AvailabilityWindows is the availability select for the services category.
var AvailabilityWindows = labels(
	"Immédiat", "Week-ends uniquement", "Semaine uniquement", "Soirs uniquement", "Flexible",
)

// PriceUnits is the pricing-type select shown on the basic-info step.
var PriceUnits = []Option{
	{"DZD", "DZD — Fixed"},
	{"Negotiable", "Negotiable"},
	{"DZD/month", "DZD / month"},
	{"DZD/day", "DZD / day"},
	{"DZD/hour", "DZD / hour"},
}

// ModelYears returns the vehicle year select, newest first, covering the
// 37 most recent model years ending at latest.
func ModelYears(latest int) []Option {
	years := make([]Option, 0, 37)
	for y := latest; y > latest-37; y-- {
		years = append(years, Option{Code: fmt.Sprint(y), Label: fmt.Sprint(y)})
	}
	return years
}

// WilayaByName looks up a wilaya by its label.
func WilayaByName(name string) (Option, bool) {
	return lo.Find(Wilayas, func(w Option) bool { return w.Label == name })
}

// IsKnownWilaya reports whether name is a recognised wilaya label.
func IsKnownWilaya(name string) bool {
	_, ok := WilayaByName(name)
	return ok
}

// Labels flattens a table to its display labels, in order.
func Labels(opts []Option) []string {
	return lo.Map(opts, func(o Option, _ int) string { return o.Label })
}

func labels(names ...string) []Option {
	return lo.Map(names, func(n string, _ int) Option { return Option{Code: n, Label: n} })
}

// Package delivery holds the coverage area: the municipalities of the
// Púchov district with their postal codes and parts, plus the
// minimum-order floors for the farther locations.
package delivery

// Zone is one served municipality. Parts lists its cadastral parts,
// shown to the customer as a secondary picker.
type Zone struct {
	City       string   `json:"obec"`
	PostalCode string   `json:"psc"`
	Parts      []string `json:"casti"`
}

var zones = []Zone{
	{City: "Púchov", PostalCode: "02001", Parts: []string{"Púchov", "Horné Kočkovce", "Hoštiná", "Hrabovka", "Ihrište", "Nosice", "Vieska-Bezdedov"}},
	{City: "Beluša", PostalCode: "01861", Parts: []string{"Beluša", "Hloža", "Podhorie"}},
	{City: "Dohňany", PostalCode: "02051", Parts: []string{"Dohňany", "Mostište", "Zbora"}},
	{City: "Dolná Breznica", PostalCode: "02061", Parts: []string{"Dolná Breznica"}},
	{City: "Dolné Kočkovce", PostalCode: "02001", Parts: []string{"Dolné Kočkovce"}},
	{City: "Horovce", PostalCode: "02062", Parts: []string{"Horovce"}},
	{City: "Horná Breznica", PostalCode: "02061", Parts: []string{"Horná Breznica"}},
	{City: "Lednica", PostalCode: "02063", Parts: []string{"Lednica"}},
	{City: "Lednické Rovne", PostalCode: "02061", Parts: []string{"Lednické Rovne", "Horenická Hôrka", "Medné", "Súľovky"}},
	{City: "Lazy pod Makytou", PostalCode: "02055", Parts: []string{"Lazy pod Makytou", "Dubková", "Tisové", "Čertov"}},
	{City: "Lúky", PostalCode: "02053", Parts: []string{"Lúky"}},
	{City: "Lysá pod Makytou", PostalCode: "02054", Parts: []string{"Lysá pod Makytou"}},
	{City: "Mestečko", PostalCode: "02052", Parts: []string{"Mestečko"}},
	{City: "Mojtín", PostalCode: "02072", Parts: []string{"Mojtín"}},
	{City: "Nimnica", PostalCode: "02071", Parts: []string{"Nimnica"}},
	{City: "Streženice", PostalCode: "02001", Parts: []string{"Streženice"}},
	{City: "Visolaje", PostalCode: "01861", Parts: []string{"Visolaje"}},
	{City: "Záriečie", PostalCode: "02052", Parts: []string{"Záriečie"}},
	{City: "Zubák", PostalCode: "02064", Parts: []string{"Zubák"}},
}

// Zones returns the full coverage table.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// PostalCode returns the PSČ for a served municipality, or "" when the
// city is outside the coverage area.
func PostalCode(city string) string {
	for _, z := range zones {
		if z.City == city {
			return z.PostalCode
		}
	}
	return ""
}

// Served reports whether the municipality is in the coverage area.
func Served(city string) bool {
	return PostalCode(city) != ""
}

// RequiresStreet reports whether the address form needs a full street
// name. The two towns with named streets are Púchov and Beluša; in the
// villages a house number is enough.
func RequiresStreet(city string) bool {
	return city == "Púchov" || city == "Beluša"
}

// MinimumOrder returns the minimum order total in EUR for a delivery to
// the given city and part. The remote parts Čertov and Hoštiná carry a
// 20 EUR floor, the rest of Púchov 15 EUR, everywhere else none.
func MinimumOrder(city, part string) float64 {
	if (city == "Púchov" && part == "Čertov") ||
		(city == "Lazy pod Makytou" && part == "Čertov") ||
		part == "Hoštiná" {
		return 20
	}
	if city == "Púchov" {
		return 15
	}
	return 0
}

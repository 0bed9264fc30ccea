package oui

// builtinPrefixes - Guaranteed baseline of well-known vendor prefixes, used
// when neither the cached snapshot nor the network source is available.
// Values are short brand names rather than full registry organization names.
var builtinPrefixes = map[string]string{
	// Apple
	"DC44D6": "Apple",
	"F0DBE2": "Apple",
	"A483E7": "Apple",
	"001CB3": "Apple",
	// Samsung
	"8C7712": "Samsung",
	"E8508B": "Samsung",
	// Xiaomi
	"F8A45F": "Xiaomi",
	"640980": "Xiaomi",
	// Huawei
	"00E0FC": "Huawei",
	"48DB50": "Huawei",
	// Google
	"3C5AB4": "Google",
	"F4F5D8": "Google",
	// Motorola
	"F8E079": "Motorola",
	// Sony
	"0013A9": "Sony",
	// LG
	"001E75": "LG",
	// Intel
	"A0369F": "Intel",
	// Espressif
	"240AC4": "Espressif",
	"30AEA4": "Espressif",
	// Raspberry Pi
	"B827EB": "Raspberry Pi",
	"DCA632": "Raspberry Pi",
	// Microsoft
	"00155D": "Microsoft",
	// TP-Link
	"50C7BF": "TP-Link",
	// Bose
	"0452C7": "Bose",
	// Garmin
	"10C6FC": "Garmin",
}

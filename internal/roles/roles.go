// Package roles is the champion knowledge base: a hand-maintained, versioned
// mapping from champion name to one of six gameplay archetypes. The map is
// domain data, not learned state, but its content shifts every derived draft
// feature, so trained bundles record Version() and refuse silent skew.
package roles

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Role is one of the six broad archetypes.
type Role string

const (
	Tank     Role = "Tank"
	Fighter  Role = "Fighter"
	Assassin Role = "Assassin"
	Mage     Role = "Mage"
	ADC      Role = "ADC"
	Support  Role = "Support"
)

// All lists the roles in their canonical reporting order.
var All = []Role{Tank, Fighter, Assassin, Mage, ADC, Support}

// byChampion is the canonical champion→role table. Maintained by hand;
// champions missing from it are treated as Fighter.
var byChampion = map[string]Role{
	// Tanks
	"Alistar": Tank, "Amumu": Tank, "Blitzcrank": Tank, "Braum": Tank,
	"Chogath": Tank, "DrMundo": Tank, "Galio": Tank, "Garen": Tank,
	"Gragas": Tank, "Jarvan": Tank, "Leona": Tank, "Malphite": Tank,
	"Maokai": Tank, "Nautilus": Tank, "Nunu": Tank, "Ornn": Tank,
	"Poppy": Tank, "Rammus": Tank, "Sejuani": Tank, "Shen": Tank,
	"Sion": Tank, "TahmKench": Tank, "Taric": Tank, "Thresh": Tank,
	"Zac": Tank,

	// Fighters
	"Aatrox": Fighter, "Camille": Fighter, "Darius": Fighter, "Fiora": Fighter,
	"Gnar": Fighter, "Hecarim": Fighter, "Illaoi": Fighter, "Irelia": Fighter,
	"Jax": Fighter, "Kled": Fighter, "LeeSin": Fighter, "Mordekaiser": Fighter,
	"Nasus": Fighter, "Olaf": Fighter, "Renekton": Fighter, "Riven": Fighter,
	"Rumble": Fighter, "Sett": Fighter, "Trundle": Fighter, "Tryndamere": Fighter,
	"Udyr": Fighter, "Vi": Fighter, "Volibear": Fighter, "Warwick": Fighter,
	"Wukong": Fighter, "XinZhao": Fighter, "Yasuo": Fighter, "Yone": Fighter,

	// Assassins
	"Akali": Assassin, "Diana": Assassin, "Ekko": Assassin, "Evelynn": Assassin,
	"Fizz": Assassin, "Kassadin": Assassin, "Katarina": Assassin, "Kayn": Assassin,
	"Khazix": Assassin, "Leblanc": Assassin, "Nocturne": Assassin, "Pyke": Assassin,
	"Qiyana": Assassin, "Rengar": Assassin, "Shaco": Assassin, "Talon": Assassin,
	"Zed": Assassin,

	// Mages
	"Ahri": Mage, "Anivia": Mage, "Annie": Mage, "AurelionSol": Mage,
	"Azir": Mage, "Brand": Mage, "Cassiopeia": Mage, "Corki": Mage,
	"Heimerdinger": Mage, "Karma": Mage, "Karthus": Mage, "Lissandra": Mage,
	"Lux": Mage, "Malzahar": Mage, "Morgana": Mage, "Neeko": Mage,
	"Orianna": Mage, "Ryze": Mage, "Swain": Mage, "Syndra": Mage,
	"Taliyah": Mage, "TwistedFate": Mage, "Veigar": Mage, "Velkoz": Mage,
	"Viktor": Mage, "Vladimir": Mage, "Xerath": Mage, "Ziggs": Mage,
	"Zilean": Mage, "Zoe": Mage, "Zyra": Mage,

	// Marksmen
	"Aphelios": ADC, "Ashe": ADC, "Caitlyn": ADC, "Draven": ADC,
	"Ezreal": ADC, "Jhin": ADC, "Jinx": ADC, "Kaisa": ADC,
	"Kalista": ADC, "Kindred": ADC, "Kogmaw": ADC, "Lucian": ADC,
	"MissFortune": ADC, "Quinn": ADC, "Samira": ADC, "Sivir": ADC,
	"Tristana": ADC, "Twitch": ADC, "Varus": ADC, "Vayne": ADC,
	"Xayah": ADC,

	// Supports
	"Bard": Support, "Janna": Support, "Lulu": Support, "Nami": Support,
	"Rakan": Support, "Senna": Support, "Seraphine": Support, "Sona": Support,
	"Soraka": Support, "Yuumi": Support,
}

// Of returns the role for a champion. Unknown champions default to Fighter.
func Of(champion string) Role {
	if r, ok := byChampion[champion]; ok {
		return r
	}
	return Fighter
}

// Known reports whether the champion has an explicit entry.
func Known(champion string) bool {
	_, ok := byChampion[champion]
	return ok
}

// Count returns the number of explicit entries.
func Count() int {
	return len(byChampion)
}

// Version returns a hash over the sorted table contents. Bundles trained
// against one version of the table must not be served with another.
func Version() string {
	names := make([]string, 0, len(byChampion))
	for name := range byChampion {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{'='})
		h.Write([]byte(byChampion[name]))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

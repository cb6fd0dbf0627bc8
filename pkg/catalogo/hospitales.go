// Package catalogo contiene el directorio fijo de hospitales que reportan inventario
// de estomatología, con búsqueda sin distinguir mayúsculas ni acentos.
package catalogo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Hospital entrada del directorio.
type Hospital struct {
	Nombre string `json:"nombre"`
	Clave  string `json:"clave"`
}

var hospitales = []Hospital{
	{Nombre: "Centro de Alta Especialidad DR.Rafael Lucio", Clave: "VZIM002330"},
	{Nombre: "Centro de Salud Con Hospitalizacion De Alto Lucero de Gutierrez Barrios,Ver.", Clave: "VZIM008065"},
	{Nombre: "Centro De Salud con Hospitalizacion De la localidad de Allende, Ver.", Clave: "VZIM007942"},
	{Nombre: "Centro Estatal de Cancerologia Dr.Miguel Dorantes Mesa", Clave: "VZIM002325"},
	{Nombre: "Hospital Comunitario de Ixhuatlan del Sureste", Clave: "VZIM002120"},
	{Nombre: "Hospital Comunitario de Tonalapan", Clave: "VZIM006122"},
	{Nombre: "Hospital de Alta Especialidad de Vearacruz", Clave: "VZIM005533"},
	{Nombre: "Hospital de la Comunidad Catemaco", Clave: "VZIM000691"},
	{Nombre: "Hospital de la Comunidad de Coatepec", Clave: "VZIM000790"},
	{Nombre: "Hospital de la Comunidad de Alvarado", Clave: "VZIM000254"},
	{Nombre: "Hospital de la Comunidad de Cerro Azul", Clave: "VZIM006180"},
	{Nombre: "Hospital de la Cumunidad de Entabladero", Clave: "VZIM006163"},
	{Nombre: "Hospital de la Comunidad de Gutierrez Zamora", Clave: "VZIM001794"},
	{Nombre: "Hospital de la Comunidad de Huayacocotla", Clave: "VZIM001922"},
	{Nombre: "Hospital de la Comunidad de Jose Azueta", Clave: "VZIM007860"},
	{Nombre: "Hospital de la Comunidad de Llano de en medio", Clave: "VZIM006151"},
	{Nombre: "Hospital de la Comunidad de Naolinco", Clave: "VZIM007732"},
	{Nombre: "Hospital de la Comunidad de Tempoal", Clave: "VZIM004710"},
	{Nombre: "Hospital de la comunidad de Teocelo", Clave: "VZIM004775"},
	{Nombre: "Hospital de la comunidad de Tezonapa", Clave: "VZIM006146"},
	{Nombre: "Hospital de la comunidad de Tlaquilpan Vista Hermosa", Clave: "VZIM006134"},
	{Nombre: "Hospital de la Comunidad Dr.Pedro Coronel Perez", Clave: "VZIM015425"},
	{Nombre: "Hospital de la Comunidad La Laguna Poblado 6", Clave: "VZIM007573"},
	{Nombre: "Hospital de la Comunidad Naranjos", Clave: "VZIM000416"},
	{Nombre: "Hospital de la Comunidad Ozuluama de Mascareñas", Clave: "VZIM004085"},
	{Nombre: "Hospital de la comunidad Playa Vicente", Clave: "VZIM004674"},
	{Nombre: "Hospital de la Comunidad Suchilapan del Rio Carmen Bouzas de Lopez Arias", Clave: "VZIM002511"},
	{Nombre: "Hospital de la Comunidad Tlacotalpan", Clave: "VZIM005171"},
	{Nombre: "Hospital de la Comunidad Tlapacoyan", Clave: "VZIM005306"},
	{Nombre: "Hospital de Salud Mental Orizaba Dr. Victor M. Concha Vasquez", Clave: "VZIM004032"},
	{Nombre: "Hospital General Alamo", Clave: "VZIM016035"},
	{Nombre: "Hospital General Altotonga Eufrosina Camacho", Clave: "VZIM000230"},
	{Nombre: "Hospital General Cordoba Yanga", Clave: "VZIM000983"},
	{Nombre: "Hospital General Cosoamalapan Dr.Victor Manuel Pitalua Gonzales", Clave: "VZIM001000"},
	{Nombre: "Hospital General de Cosoloacaque", Clave: "VZIM007930"},
	{Nombre: "Hospital General de Boca del Rio", Clave: "VZIM010212"},
	{Nombre: "Hospital General de Cardel", Clave: "VZIM006105"},
	{Nombre: "Hospital General de Minatitlan", Clave: "VZIM003595"},
	{Nombre: "Hospital General de Misantla", Clave: "VZIM003740"},
	{Nombre: "Hospital General de Otula-Acayucan", Clave: "VZIM007882"},
	{Nombre: "Hospital General de Santiago Tuxtla", Clave: "VZIM004046"},
	{Nombre: "Hospital General de Tarimoya (Veracruz)", Clave: "VZIM006175"},
	{Nombre: "Hospital General Tierra Blanca Jesus Garcia Corona", Clave: "VZIM004944"},
	{Nombre: "Hospital General Huatusco Dr.Dario Mendez Lima", Clave: "VZIM002393"},
	{Nombre: "Hospital General Isla", Clave: "VZIM015411"},
	{Nombre: "Hospital General Martinez de la Torre", Clave: "VZIM003361"},
	{Nombre: "Hospital General Panuco Dr.Manuel I.Avila", Clave: "VZIM004160"},
	{Nombre: "Hospital General Papantla Dr.Jose Buill Belenguer", Clave: "VZIM004370"},
	{Nombre: "Hospital General Perote Veracruz", Clave: "VZIM004580"},
	{Nombre: "Hospital General San Andres Tuxtla Dr.Bernardo Peña", Clave: "VZIM004913"},
	{Nombre: "Hospital General Tantoyuca", Clave: "VZIM005560"},
	{Nombre: "Hospital General Tlalixcoyan", Clave: "VZIM007754"},
	{Nombre: "Hospital General Tuxpan Dr.Emilio Alcazar", Clave: "VZIM005393"},
	{Nombre: "Hospital Regional de Coatzacoalcos Dr.Valentin Gomez Farias", Clave: "VZIM000826"},
	{Nombre: "Hospital Regional de Xalapa Dr.Luis F.Nachon", Clave: "VZIM002342"},
	{Nombre: "Hospital Regional Poza Rica de Hidalgo", Clave: "VZIM003766"},
	{Nombre: "Hospital Regional Rio Blanco", Clave: "VZIM003870"},
	{Nombre: "Instituto Veracruzano de Salud Mental Dr.Rafael Velasco Fernandez", Clave: "VZIM002982"},
	{Nombre: "Uneme de Platon Sanchez", Clave: "VZIM015545"},
}

// Hospitales devuelve una copia del directorio completo en su orden original.
func Hospitales() []Hospital {
	out := make([]Hospital, len(hospitales))
	copy(out, hospitales)
	return out
}

// Buscar filtra por subcadena en nombre o clave. q vacío devuelve todo el directorio.
func Buscar(q string) []Hospital {
	q = Fold(strings.TrimSpace(q))
	if q == "" {
		return Hospitales()
	}
	out := make([]Hospital, 0)
	for _, h := range hospitales {
		if strings.Contains(Fold(h.Nombre), q) || strings.Contains(Fold(h.Clave), q) {
			out = append(out, h)
		}
	}
	return out
}

// BuscarPorClave busca la clave exacta (sin distinguir mayúsculas).
func BuscarPorClave(clave string) (Hospital, bool) {
	clave = strings.TrimSpace(clave)
	for _, h := range hospitales {
		if strings.EqualFold(h.Clave, clave) {
			return h, true
		}
	}
	return Hospital{}, false
}

// Fold pasa a minúsculas y elimina diacríticos: "Peña" -> "pena".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

package bootstrap

import "github.com/mesikahq/gestion-salud/internal/catalog"

// Initial catalog content. Loaded only into empty catalogs, so locally
// curated data is never overwritten.

var seedEntries = map[catalog.Kind][]catalog.Entry{
	catalog.KindCountry: {
		{Name: "Colombia"},
		{Name: "México"},
		{Name: "Argentina"},
		{Name: "Estados Unidos"},
	},
	catalog.KindCity: {
		{Name: "Bogotá"},
		{Name: "Medellín"},
		{Name: "Cali"},
		{Name: "Barranquilla"},
	},
	catalog.KindOccupation: {
		{Name: "Ingeniero de sistemas"},
		{Name: "Enfermero"},
		{Name: "Médico general"},
	},
	catalog.KindEthnicity: {
		{Code: "AF"},
		{Code: "IN"},
		{Code: "RA"},
	},
	catalog.KindEthnicCommunity: {
		{Code: "001"},
		{Code: "002"},
	},
	catalog.KindServiceModality: {
		{Code: "01"},
		{Code: "02"},
	},
	catalog.KindAdmissionRoute: {
		{Name: "01"},
		{Name: "02"},
		{Name: "03"},
	},
	catalog.KindCauseOfVisit: {
		{Name: "10"},
		{Name: "11"},
	},
	catalog.KindRareDisease: {
		{Name: "Síndrome de Marfan", Code: "A1"},
		{Name: "Fibrosis quística", Code: "B2"},
		{Name: "Síndrome de Ehlers-Danlos", Code: "A3"},
		{Name: "Esclerosis lateral amiotrófica", Code: "A4"},
		{Name: "Síndrome de Rett", Code: "A5"},
		{Name: "Ataxia de Friedreich", Code: "A6"},
		{Name: "Síndrome de Prader-Willi", Code: "A7"},
		{Name: "Síndrome de Angelman", Code: "A8"},
		{Name: "Síndrome de Turner", Code: "A9"},
		{Name: "Síndrome de Noonan", Code: "B1"},
		{Name: "Síndrome de Williams", Code: "B3"},
		{Name: "Síndrome de Alport", Code: "B4"},
		{Name: "Síndrome de Sjögren", Code: "B5"},
		{Name: "Síndrome de Cushing", Code: "B6"},
		{Name: "Síndrome de Klinefelter", Code: "B7"},
		{Name: "Síndrome de X frágil", Code: "B8"},
		{Name: "Síndrome de Leigh", Code: "B9"},
		{Name: "Síndrome de Dravet", Code: "C1"},
		{Name: "Síndrome de Moebius", Code: "C2"},
		{Name: "Síndrome de Joubert", Code: "C3"},
		{Name: "Síndrome de Alström", Code: "C4"},
		{Name: "Síndrome de Bardet-Biedl", Code: "C5"},
	},
	catalog.KindDiagnosis: {
		{Name: "Diabetes mellitus tipo 2", Code: "11"},
		{Name: "Hipertensión esencial", Code: "10"},
		{Name: "Fiebre tifoidea", Code: "01"},
		{Name: "Enteritis debida a Salmonella", Code: "02"},
		{Name: "Shigelosis debida a Shigella dysenteriae", Code: "30"},
		{Name: "Shigelosis debida a Shigella flexneri", Code: "31"},
		{Name: "Shigelosis debida a Shigella boydii", Code: "32"},
		{Name: "Shigelosis debida a Shigella sonnei", Code: "33"},
		{Name: "Infección debida a Escherichia coli enteropatógena", Code: "40"},
		{Name: "Tuberculosis pulmonar, confirmada bacteriológicamente", Code: "50"},
		{Name: "Tuberculosis pulmonar, no confirmada bacteriológicamente", Code: "51"},
		{Name: "Tuberculosis de otros órganos respiratorios", Code: "52"},
		{Name: "Tuberculosis miliar", Code: "59"},
		{Name: "Varicela sin complicaciones", Code: "01"},
		{Name: "Sarampión sin complicaciones", Code: "05"},
		{Name: "Rubeola sin complicaciones", Code: "06"},
		{Name: "Hepatitis viral aguda tipo A", Code: "15"},
		{Name: "Hepatitis viral aguda tipo B", Code: "16"},
		{Name: "Hepatitis viral aguda tipo C", Code: "17"},
		{Name: "Hepatitis viral crónica tipo B", Code: "18"},
		{Name: "Hepatitis viral crónica tipo C", Code: "82"},
		{Name: "VIH con infección sintomática", Code: "20"},
	},
}

var seedDisabilities = []catalog.DisabilityType{
	{CategoryCode: "01", Name: "Física"},
	{CategoryCode: "02", Name: "Auditiva"},
	{CategoryCode: "03", Name: "Visual"},
	{CategoryCode: "04", Name: "Sordoceguera"},
	{CategoryCode: "05", Name: "Intelectual"},
	{CategoryCode: "06", Name: "Psicosocial (mental)"},
	{CategoryCode: "07", Name: "Múltiple"},
	{CategoryCode: "08", Name: "Ninguna"},
}

// Default administrative account. Meant for first boot only; the password
// should be rotated immediately in any shared environment.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@gmail.com"
	DefaultAdminPassword = "admin"
)

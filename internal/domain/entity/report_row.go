package entity

// ReportRow una fila del reporte de envíos: los campos del envío repetidos junto a cada ítem.
type ReportRow struct {
	SubmissionID   string `json:"submissionId"`
	ReceivedAt     string `json:"receivedAt"`
	HospitalNombre string `json:"hospitalNombre"`
	HospitalClave  string `json:"hospitalClave"`
	Categoria      string `json:"categoria"`
	FechaEnvio     string `json:"fechaEnvio"`
	Clave          string `json:"clave"`
	Descripcion    string `json:"descripcion"`
	Stock          string `json:"stock"`
	Minimo         string `json:"minimo"`
	Fecha          string `json:"fecha"`
	Dias           string `json:"dias"`
	Observaciones  string `json:"observaciones"`
	Color          string `json:"color"`
	Manual         string `json:"manual"`
}

// ReportColumns orden de columnas del reporte (cabecera del CSV).
var ReportColumns = []string{
	"submissionId",
	"receivedAt",
	"hospitalNombre",
	"hospitalClave",
	"categoria",
	"fechaEnvio",
	"clave",
	"descripcion",
	"stock",
	"minimo",
	"fecha",
	"dias",
	"observaciones",
	"color",
	"manual",
}

// Values devuelve los valores de la fila en el orden de ReportColumns.
func (r ReportRow) Values() []string {
	return []string{
		r.SubmissionID, r.ReceivedAt, r.HospitalNombre, r.HospitalClave, r.Categoria, r.FechaEnvio,
		r.Clave, r.Descripcion, r.Stock, r.Minimo, r.Fecha, r.Dias, r.Observaciones, r.Color, r.Manual,
	}
}

package mailer

import (
	"bytes"
	"html/template"
)

var (
	contractTpl = template.Must(template.New("contract").Parse(`<p>Halo {{.StaffName}},</p>
<p>Lamaran Anda untuk <b>{{.JobTitle}}</b> di {{.CompanyName}} telah disetujui.</p>
<p>Jadwal: {{.OpenDate}} {{.StartTime}} - {{.EndTime}}, lokasi {{.Location}}.</p>
<p>Kontrak kerja terlampir{{if .ContractURL}} dan dapat diunduh di <a href="{{.ContractURL}}">sini</a>{{end}}.</p>`))

	inviteTpl = template.Must(template.New("invite").Parse(`<p>Halo {{.Name}},</p>
<p>{{.CompanyName}} mengundang Anda bergabung sebagai staff.</p>
<p>Kode bergabung: <b>{{.Code}}</b> (berlaku sampai {{.Expiry}}).</p>`))
)

type ContractData struct {
	StaffName   string
	CompanyName string
	JobTitle    string
	OpenDate    string
	StartTime   string
	EndTime     string
	Location    string
	ContractURL string
}

type InviteData struct {
	Name        string
	CompanyName string
	Code        string
	Expiry      string
}

func RenderContract(d ContractData) (string, error) { return render(contractTpl, d) }
func RenderInvite(d InviteData) (string, error)     { return render(inviteTpl, d) }

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
